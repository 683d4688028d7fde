package cmd

import (
	"fmt"

	"github.com/YangQing-Lin/cc-config-cli/internal/marketplace"
	"github.com/spf13/cobra"
)

var marketplaceCmd = &cobra.Command{
	Use:     "marketplace",
	Aliases: []string{"mp"},
	Short:   "查看插件市场（只读）",
	Long: `查看已注册的插件市场和已安装的插件。

本工具只读取插件相关文件，不会修改它们。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketplaceList()
	},
}

var marketplaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出已注册的插件市场",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketplaceList()
	},
}

var marketplacePluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "列出已安装的插件",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketplacePlugins()
	},
}

func init() {
	rootCmd.AddCommand(marketplaceCmd)
	marketplaceCmd.AddCommand(marketplaceListCmd)
	marketplaceCmd.AddCommand(marketplacePluginsCmd)
}

func runMarketplaceList() error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	markets, err := marketplace.NewCatalog(dir).List()
	if err != nil {
		return fmt.Errorf("读取插件市场失败: %w", err)
	}
	if len(markets) == 0 {
		fmt.Println("没有已注册的插件市场")
		return nil
	}

	for _, m := range markets {
		if m.Missing {
			fmt.Printf("%-25s (描述文件缺失)\n", m.Name)
			continue
		}
		source := m.Source.Repo
		if source == "" {
			source = m.Source.URL
		}
		if source == "" {
			source = m.Source.Path
		}
		fmt.Printf("%-25s %-30s %d 个插件", m.Name, source, len(m.Plugins))
		if m.Owner.Name != "" {
			fmt.Printf("  (%s)", m.Owner.Name)
		}
		fmt.Println()
	}
	return nil
}

func runMarketplacePlugins() error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	plugins, err := marketplace.NewCatalog(dir).InstalledPlugins()
	if err != nil {
		return fmt.Errorf("读取已安装插件失败: %w", err)
	}
	if len(plugins) == 0 {
		fmt.Println("没有已安装的插件")
		return nil
	}

	for _, p := range plugins {
		version := p.Version
		if version == "" {
			version = "-"
		}
		fmt.Printf("%-25s %-10s %-20s %s\n", p.Name, version, p.Marketplace, p.Description)
	}
	return nil
}

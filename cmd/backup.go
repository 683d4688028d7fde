package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/backup"
	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/spf13/cobra"
)

var backupLocal bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "备份与恢复设置文件",
	Long: `管理 settings.json 的备份。

备份保存在 <配置目录>/backups/ 下，手动备份最多保留 10 份，
自动备份（恢复前创建）最多保留 5 份。`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "创建备份",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}
		id, err := backup.Create(dir, backupSource(dir))
		if err != nil {
			return fmt.Errorf("创建备份失败: %w", err)
		}
		if id == "" {
			return fmt.Errorf("设置文件不存在，无法备份")
		}
		fmt.Printf("✓ %s: %s\n", i18n.T("backup_created"), id)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有备份",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}
		infos, err := backup.List(dir)
		if err != nil {
			return fmt.Errorf("读取备份目录失败: %w", err)
		}
		if len(infos) == 0 {
			fmt.Println(i18n.T("backup_empty"))
			return nil
		}
		for _, info := range infos {
			name := strings.TrimSuffix(filepath.Base(info.Path), ".json")
			fmt.Printf("%-45s %s  %8s  %s\n",
				name, info.Timestamp.Format("2006-01-02 15:04:05"),
				formatBytes(info.Size), info.Source)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <备份ID>",
	Short: "恢复备份（恢复前会自动备份当前设置）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}
		backupPath := filepath.Join(claude.BackupsDir(dir), args[0]+".json")
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return fmt.Errorf("备份不存在: %s", args[0])
		}
		autoID, err := backup.Restore(dir, backupSource(dir), backupPath)
		if err != nil {
			return fmt.Errorf("恢复备份失败: %w", err)
		}
		fmt.Printf("✓ %s: %s\n", i18n.T("backup_restored"), args[0])
		if autoID != "" {
			fmt.Printf("  已自动备份当前设置: %s\n", autoID)
		}
		return nil
	},
}

var backupExportCmd = &cobra.Command{
	Use:   "export [输出路径]",
	Short: "导出当前设置到文件",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}
		outputPath := backup.DefaultExportFilename()
		if len(args) > 0 {
			outputPath = args[0]
		}
		if err := backup.Export(backupSource(dir), outputPath); err != nil {
			return fmt.Errorf("导出设置失败: %w", err)
		}
		fmt.Printf("✓ 已导出到 %s\n", outputPath)
		return nil
	},
}

func backupSource(dir string) string {
	if backupLocal {
		return claude.LocalSettingsPath(dir)
	}
	return claude.SettingsPath(dir)
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.PersistentFlags().BoolVar(&backupLocal, "local", false, "操作 settings.local.json")
}

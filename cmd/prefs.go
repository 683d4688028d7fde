package cmd

import (
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/prefs"
	"github.com/spf13/cobra"
)

var (
	getPref bool
	setPref string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs [key]",
	Short: "管理应用偏好设置",
	Long: `管理 cc-config 自身的偏好设置（与 Claude 配置无关）

示例:
  cc-config prefs                       # 显示所有偏好
  cc-config prefs --get language        # 获取语言设置
  cc-config prefs --set language=en     # 设置语言为英文
  cc-config prefs --set claudeDir=/custom/path  # 设置自定义 Claude 配置目录`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrefs(args)
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.Flags().BoolVar(&getPref, "get", false, "获取指定设置项的值")
	prefsCmd.Flags().StringVar(&setPref, "set", "", "设置项 (格式: key=value)")
}

func runPrefs(args []string) error {
	manager, err := prefs.NewManager()
	if err != nil {
		return err
	}

	// 设置模式
	if setPref != "" {
		parts := strings.SplitN(setPref, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("设置格式错误，应为: key=value")
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "language":
			if err := manager.SetLanguage(value); err != nil {
				return err
			}
			fmt.Printf("✓ 语言设置已更新为: %s\n", value)
		case "claudeDir":
			if err := manager.SetClaudeDir(value); err != nil {
				return err
			}
			fmt.Printf("✓ Claude 配置目录已更新为: %s\n", value)
		default:
			return fmt.Errorf("未知的设置项: %s (支持: language, claudeDir)", key)
		}
		return nil
	}

	// 获取模式
	if getPref {
		if len(args) == 0 {
			return fmt.Errorf("请指定要获取的设置项名称")
		}

		key := args[0]
		switch key {
		case "language":
			fmt.Println(manager.GetLanguage())
		case "claudeDir":
			fmt.Println(manager.GetClaudeDir())
		default:
			return fmt.Errorf("未知的设置项: %s (支持: language, claudeDir)", key)
		}
		return nil
	}

	// 显示所有设置
	s := manager.Get()
	fmt.Println("应用偏好:")
	fmt.Printf("  语言 (language):          %s\n", s.Language)
	if s.ClaudeDir != "" {
		fmt.Printf("  Claude 配置目录 (claudeDir): %s\n", s.ClaudeDir)
	} else {
		fmt.Printf("  Claude 配置目录 (claudeDir): (使用默认 ~/.claude)\n")
	}

	return nil
}

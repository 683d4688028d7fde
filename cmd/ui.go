package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "启动交互式 TUI 界面",
	Long:  `启动基于 Bubble Tea 的交互式终端用户界面，外部修改配置文件时界面自动刷新。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := getManager()
		if err != nil {
			return fmt.Errorf("初始化配置管理器失败: %w", err)
		}
		defer manager.Close()

		return tuiRunner(manager)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

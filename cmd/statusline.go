package cmd

import (
	"fmt"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/spf13/cobra"
)

var statuslinePadding int

var statuslineCmd = &cobra.Command{
	Use:   "statusline [命令]",
	Short: "管理状态栏配置",
	Long: `查看或设置 Claude Code 的状态栏命令。

示例:
  cc-config statusline                      # 查看当前状态栏
  cc-config statusline "~/bin/statusline.sh"  # 设置状态栏命令
  cc-config unset statusLine                # 移除状态栏`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := getManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		if len(args) == 0 {
			doc := manager.Settings.Get()
			if doc.StatusLine == nil {
				fmt.Println("未配置状态栏")
				return nil
			}
			fmt.Printf("类型: %s\n", doc.StatusLine.Type)
			fmt.Printf("命令: %s\n", doc.StatusLine.Command)
			if doc.StatusLine.Padding != nil {
				fmt.Printf("边距: %d\n", *doc.StatusLine.Padding)
			}
			return nil
		}

		command := args[0]
		err = manager.Settings.Mutate(func(s *claude.Settings) {
			sl := &claude.StatusLine{
				Type:    "command",
				Command: command,
			}
			if cmd.Flags().Changed("padding") {
				p := statuslinePadding
				sl.Padding = &p
			}
			s.StatusLine = sl
		})
		if err != nil {
			return fmt.Errorf("写入设置失败: %w", err)
		}

		fmt.Printf("✓ %s: statusLine\n", i18n.T("setting_updated"))
		printNotices(manager)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statuslineCmd)
	statuslineCmd.Flags().IntVar(&statuslinePadding, "padding", 0, "状态栏边距")
}

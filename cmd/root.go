package cmd

import (
	"fmt"
	"os"

	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/YangQing-Lin/cc-config-cli/internal/settings"
	"github.com/YangQing-Lin/cc-config-cli/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	claudeDir string // --dir 全局参数
)

// tuiRunner 可替换的 TUI 启动函数（便于测试）
var tuiRunner = runTUI

var rootCmd = &cobra.Command{
	Use:   "cc-config",
	Short: "Claude Code 本地配置管理工具",
	Long: `cc-config 管理 ~/.claude 下的 Claude Code 配置：
settings.json、MCP 服务器、权限规则、历史会话和插件市场。

外部工具改动配置文件时自动重载，保存时原样保留所有未识别字段。

使用方法：
  cc-config              交互式界面（终端）或配置总览
  cc-config show         查看当前配置
  cc-config set          修改设置项
  cc-config mcp          管理 MCP 服务器
  cc-config watch        监听配置目录变化`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := getManager()
		if err != nil {
			return fmt.Errorf("初始化配置管理器失败: %w", err)
		}
		defer manager.Close()

		// 终端下进入 TUI，否则打印总览
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return tuiRunner(manager)
		}
		return printOverview(manager)
	},
}

// runTUI 启动交互界面并接入文件监听
func runTUI(manager *settings.Manager) error {
	model := tui.New(manager)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if err := manager.Watch(settings.DefaultDebounce, func() {
		p.Send(tui.ReloadMsg{})
	}); err != nil {
		return fmt.Errorf("启动文件监听失败: %w", err)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("运行 TUI 失败: %w", err)
	}
	return nil
}

func Execute() {
	if err := i18n.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&claudeDir, "dir", "", "Claude 配置目录（默认 ~/.claude）")

	// 自定义帮助模板
	rootCmd.SetHelpTemplate(`{{.Long}}

{{if .HasAvailableSubCommands}}可用命令:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}

{{if .HasAvailableLocalFlags}}选项:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

使用 "{{.CommandPath}} [command] --help" 获取更多关于命令的信息。
`)
}

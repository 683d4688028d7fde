package cmd

import (
	"fmt"

	"github.com/YangQing-Lin/cc-config-cli/internal/session"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [项目]",
	Short: "浏览历史会话",
	Long: `浏览 ~/.claude/projects 下的历史会话记录（只读）。

示例:
  cc-config sessions                          # 列出所有项目
  cc-config sessions -home-user-myapp         # 列出项目下的会话
  cc-config sessions -home-user-myapp <会话ID>  # 查看单个会话`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		browser, err := getBrowser()
		if err != nil {
			return err
		}

		switch len(args) {
		case 0:
			return runSessionsProjects(browser)
		case 1:
			return runSessionsList(browser, args[0])
		default:
			return runSessionsShow(browser, args[0], args[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsProjects(browser *session.Browser) error {
	projects, err := browser.Projects()
	if err != nil {
		return fmt.Errorf("读取项目列表失败: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("暂无项目会话记录")
		return nil
	}

	for _, p := range projects {
		fmt.Printf("%-50s %3d 个会话  %10s  %s\n",
			p.Name, p.SessionCount, formatBytes(p.TotalSize),
			p.LastActive.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsList(browser *session.Browser, project string) error {
	sessions, err := browser.Sessions(project)
	if err != nil {
		return fmt.Errorf("读取会话列表失败: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("该项目暂无会话")
		return nil
	}

	for _, s := range sessions {
		label := s.Summary
		if label == "" {
			label = s.FirstPrompt
		}
		fmt.Printf("%s  %s  %5d 行  %10s\n",
			s.ID, s.Modified.Format("2006-01-02 15:04"), s.Lines, formatBytes(s.Size))
		if label != "" {
			fmt.Printf("  %s\n", label)
		}
	}
	return nil
}

func runSessionsShow(browser *session.Browser, project, id string) error {
	s, err := browser.Get(project, id)
	if err != nil {
		return err
	}

	fmt.Printf("会话: %s\n", s.ID)
	fmt.Printf("项目: %s (%s)\n", session.DecodeProjectName(project), project)
	fmt.Printf("修改时间: %s\n", s.Modified.Format("2006-01-02 15:04:05"))
	fmt.Printf("大小: %s (%d 行)\n", formatBytes(s.Size), s.Lines)
	if s.Summary != "" {
		fmt.Printf("摘要: %s\n", s.Summary)
	}
	if s.FirstPrompt != "" {
		fmt.Printf("首条输入: %s\n", s.FirstPrompt)
	}
	return nil
}

// formatBytes 人类可读的文件大小
func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

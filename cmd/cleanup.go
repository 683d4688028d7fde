package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/cleanup"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/spf13/cobra"
)

var (
	cleanupDays   int
	cleanupDryRun bool
	cleanupYes    bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "清理过期会话",
	Long: `删除修改时间超过保留期的历史会话文件。

保留天数优先级: --days 参数 > settings.json 的 cleanupPeriodDays > 30 天。

示例:
  cc-config cleanup --dry-run      # 只显示将被删除的会话
  cc-config cleanup --days 7       # 清理 7 天前的会话
  cc-config cleanup --yes          # 跳过确认`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCleanup(cmd)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "保留天数（0 使用设置值）")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "只显示将被删除的会话")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "跳过确认")
}

func runCleanup(cmd *cobra.Command) error {
	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	days := cleanupDays
	if days <= 0 {
		days = cleanup.RetentionDays(manager.Settings.Get().CleanupPeriodDays)
	}

	cleaner := cleanup.New(manager.Dir())

	stats, err := cleaner.Stats()
	if err != nil {
		return fmt.Errorf("统计会话失败: %w", err)
	}
	fmt.Printf("会话总览: %d 个项目, %d 个会话, 共 %s\n",
		stats.Projects, stats.Sessions, formatBytes(stats.TotalSize))

	plan, err := cleaner.Plan(days)
	if err != nil {
		return fmt.Errorf("生成清理计划失败: %w", err)
	}

	if len(plan.Candidates) == 0 {
		fmt.Println(i18n.T("cleanup_nothing"))
		return nil
	}

	fmt.Printf("\n%s (%d 天前, 共 %d 个, %s):\n",
		i18n.T("cleanup_planned"), days, len(plan.Candidates), formatBytes(plan.TotalSize))
	for _, cand := range plan.Candidates {
		fmt.Printf("  %s/%s  %s\n",
			cand.Project, cand.Session.ID, cand.Session.Modified.Format("2006-01-02"))
	}

	if cleanupDryRun {
		return nil
	}

	if !cleanupYes {
		fmt.Printf("\n%s [y/N]: ", i18n.T("confirm.cleanup_sessions",
			len(plan.Candidates), formatBytes(plan.TotalSize)))
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println(i18n.T("cleanup_aborted"))
			return nil
		}
	}

	removed, freed, err := cleaner.Prune(plan)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s: 删除 %d 个会话, 释放 %s\n", i18n.T("cleanup_done"), removed, formatBytes(freed))
	return nil
}

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/spf13/cobra"
)

var (
	hookMatcher string
	hookTimeout int
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "管理钩子命令",
	Long: `管理 settings.json 中的生命周期钩子。

支持的事件: ` + strings.Join(claude.HookEvents, ", ") + `

示例:
  cc-config hooks list
  cc-config hooks add PreToolUse --matcher "Bash" "echo before bash"
  cc-config hooks remove PreToolUse 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHooksList()
	},
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有钩子",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHooksList()
	},
}

var hooksAddCmd = &cobra.Command{
	Use:   "add <事件> <命令>",
	Short: "添加钩子命令",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHooksAdd(args[0], args[1])
	},
}

var hooksRemoveCmd = &cobra.Command{
	Use:   "remove <事件> <序号>",
	Short: "按序号删除钩子组",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var idx int
		if _, err := fmt.Sscanf(args[1], "%d", &idx); err != nil {
			return fmt.Errorf("无效的序号: %s", args[1])
		}
		return runHooksRemove(args[0], idx)
	},
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksListCmd)
	hooksCmd.AddCommand(hooksAddCmd)
	hooksCmd.AddCommand(hooksRemoveCmd)
	hooksAddCmd.Flags().StringVar(&hookMatcher, "matcher", "", "工具名匹配模式（空为全部）")
	hooksAddCmd.Flags().IntVar(&hookTimeout, "timeout", 0, "超时秒数（0 为默认）")
}

func runHooksList() error {
	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	doc := manager.Settings.Get()
	if len(doc.Hooks) == 0 {
		fmt.Println("暂无钩子，使用 'cc-config hooks add' 添加")
		return nil
	}

	events := make([]string, 0, len(doc.Hooks))
	for event := range doc.Hooks {
		events = append(events, event)
	}
	sort.Strings(events)

	for _, event := range events {
		fmt.Printf("%s:\n", event)
		for i, group := range doc.Hooks[event] {
			matcher := group.Matcher
			if matcher == "" {
				matcher = "*"
			}
			for _, hook := range group.Hooks {
				line := fmt.Sprintf("  [%d] (%s) %s", i, matcher, hook.Command)
				if hook.Timeout > 0 {
					line += fmt.Sprintf("  超时 %ds", hook.Timeout)
				}
				fmt.Println(line)
			}
		}
	}

	printNotices(manager)
	return nil
}

func runHooksAdd(event, command string) error {
	if !claude.IsHookEvent(event) {
		return fmt.Errorf("未知的钩子事件: %s (支持: %s)", event, strings.Join(claude.HookEvents, ", "))
	}

	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	err = manager.Settings.Mutate(func(s *claude.Settings) {
		hooks := s.EnsureHooks()
		hooks[event] = append(hooks[event], claude.HookGroup{
			Matcher: hookMatcher,
			Hooks: []claude.HookCommand{{
				Type:    "command",
				Command: command,
				Timeout: hookTimeout,
			}},
		})
	})
	if err != nil {
		return fmt.Errorf("写入设置失败: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", i18n.T("setting_updated"), event)
	printNotices(manager)
	return nil
}

func runHooksRemove(event string, idx int) error {
	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	var found bool
	err = manager.Settings.Mutate(func(s *claude.Settings) {
		groups, ok := s.Hooks[event]
		if !ok || idx < 0 || idx >= len(groups) {
			return
		}
		s.Hooks[event] = append(groups[:idx:idx], groups[idx+1:]...)
		if len(s.Hooks[event]) == 0 {
			delete(s.Hooks, event)
		}
		found = true
	})
	if err != nil {
		return fmt.Errorf("写入设置失败: %w", err)
	}
	if !found {
		return fmt.Errorf("钩子不存在: %s[%d]", event, idx)
	}

	fmt.Printf("✓ %s: %s[%d]\n", i18n.T("setting_removed"), event, idx)
	printNotices(manager)
	return nil
}

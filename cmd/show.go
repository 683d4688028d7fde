package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "查看当前设置",
	Long: `查看 settings.json 的当前内容，包括未识别字段的数量。

示例:
  cc-config show          # 摘要视图
  cc-config show --json   # 输出完整 JSON（含未识别字段）`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := getManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		doc := manager.Settings.Get()

		if showJSON {
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("序列化设置失败: %w", err)
			}
			fmt.Println(string(data))
			printNotices(manager)
			return nil
		}

		fmt.Printf("配置文件: %s\n\n", manager.Settings.Path())

		model := doc.Model
		if model == "" {
			model = "(默认)"
		}
		fmt.Printf("模型: %s\n", model)

		if doc.OutputStyle != "" {
			fmt.Printf("输出风格: %s\n", doc.OutputStyle)
		}
		if doc.AlwaysThinkingEnabled != nil {
			fmt.Printf("思考模式 (alwaysThinkingEnabled): %v\n", *doc.AlwaysThinkingEnabled)
		}
		if doc.IncludeCoAuthoredBy != nil {
			fmt.Printf("提交署名 (includeCoAuthoredBy): %v\n", *doc.IncludeCoAuthoredBy)
		}
		if doc.SpinnerTipsEnabled != nil {
			fmt.Printf("加载提示 (spinnerTipsEnabled): %v\n", *doc.SpinnerTipsEnabled)
		}
		if doc.CleanupPeriodDays != nil {
			fmt.Printf("会话保留 (cleanupPeriodDays): %d 天\n", *doc.CleanupPeriodDays)
		}

		if len(doc.Env) > 0 {
			fmt.Println("\n环境变量:")
			keys := make([]string, 0, len(doc.Env))
			for k := range doc.Env {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s=%s\n", k, doc.Env[k])
			}
		}

		if perms := doc.Permissions; perms != nil {
			fmt.Println("\n权限:")
			if perms.DefaultMode != "" {
				fmt.Printf("  默认模式: %s\n", perms.DefaultMode)
			}
			for _, rule := range perms.Allow {
				fmt.Printf("  允许  %s\n", rule)
			}
			for _, rule := range perms.Deny {
				fmt.Printf("  拒绝  %s\n", rule)
			}
			for _, rule := range perms.Ask {
				fmt.Printf("  询问  %s\n", rule)
			}
		}

		if len(doc.Hooks) > 0 {
			fmt.Println("\n钩子:")
			events := make([]string, 0, len(doc.Hooks))
			for event := range doc.Hooks {
				events = append(events, event)
			}
			sort.Strings(events)
			for _, event := range events {
				for _, group := range doc.Hooks[event] {
					for _, hook := range group.Hooks {
						matcher := group.Matcher
						if matcher == "" {
							matcher = "*"
						}
						fmt.Printf("  %s [%s] %s\n", event, matcher, hook.Command)
					}
				}
			}
		}

		if doc.StatusLine != nil {
			fmt.Printf("\n状态栏: %s\n", doc.StatusLine.Command)
		}

		if len(doc.Extra) > 0 {
			fmt.Printf("\n未识别字段: %d 项（保存时原样保留）\n", len(doc.Extra))
			keys := make([]string, 0, len(doc.Extra))
			for k := range doc.Extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s\n", k)
			}
		}

		printNotices(manager)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "输出完整 JSON")
}

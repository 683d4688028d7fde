package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/spf13/cobra"
)

var setLocal bool

var setCmd = &cobra.Command{
	Use:   "set <键> <值>",
	Short: "修改设置项",
	Long: `修改 settings.json 中的设置项，立即写入磁盘。

支持的键:
  model                  模型名称
  outputStyle            输出风格
  alwaysThinkingEnabled  思考模式 (true/false)
  includeCoAuthoredBy    提交署名 (true/false)
  spinnerTipsEnabled     加载提示 (true/false)
  cleanupPeriodDays      会话保留天数
  env.<NAME>             环境变量

示例:
  cc-config set model claude-sonnet-4-5
  cc-config set alwaysThinkingEnabled true
  cc-config set env.ANTHROPIC_BASE_URL https://example.com
  cc-config set --local model claude-haiku-4-5   # 写入 settings.local.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSet(args[0], args[1])
	},
}

var unsetCmd = &cobra.Command{
	Use:   "unset <键>",
	Short: "删除设置项",
	Long: `从 settings.json 中删除设置项（恢复默认行为）。

示例:
  cc-config unset model
  cc-config unset env.ANTHROPIC_BASE_URL`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnset(args[0])
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(unsetCmd)
	setCmd.Flags().BoolVar(&setLocal, "local", false, "写入 settings.local.json")
	unsetCmd.Flags().BoolVar(&setLocal, "local", false, "写入 settings.local.json")
}

func runSet(key, value string) error {
	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	store := manager.Settings
	if setLocal {
		store = manager.Local
	}

	mutate, err := settingMutator(key, value)
	if err != nil {
		return err
	}

	if err := store.Mutate(mutate); err != nil {
		return fmt.Errorf("写入设置失败: %w", err)
	}

	fmt.Printf("✓ %s: %s = %s\n", i18n.T("setting_updated"), key, value)
	printNotices(manager)
	return nil
}

// settingMutator 把键值对转换为文档修改函数
func settingMutator(key, value string) (func(*claude.Settings), error) {
	if name, ok := strings.CutPrefix(key, "env."); ok {
		if name == "" {
			return nil, fmt.Errorf("环境变量名不能为空")
		}
		return func(s *claude.Settings) {
			s.EnsureEnv()[name] = value
		}, nil
	}

	switch key {
	case "model":
		return func(s *claude.Settings) { s.Model = value }, nil
	case "outputStyle":
		return func(s *claude.Settings) { s.OutputStyle = value }, nil
	case "alwaysThinkingEnabled", "includeCoAuthoredBy", "spinnerTipsEnabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s 需要布尔值 (true/false): %s", key, value)
		}
		return func(s *claude.Settings) {
			switch key {
			case "alwaysThinkingEnabled":
				s.AlwaysThinkingEnabled = &b
			case "includeCoAuthoredBy":
				s.IncludeCoAuthoredBy = &b
			case "spinnerTipsEnabled":
				s.SpinnerTipsEnabled = &b
			}
		}, nil
	case "cleanupPeriodDays":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("cleanupPeriodDays 需要非负整数: %s", value)
		}
		return func(s *claude.Settings) { s.CleanupPeriodDays = &n }, nil
	default:
		return nil, fmt.Errorf("未知的设置项: %s", key)
	}
}

func runUnset(key string) error {
	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	store := manager.Settings
	if setLocal {
		store = manager.Local
	}

	mutate, err := settingRemover(key)
	if err != nil {
		return err
	}

	if err := store.Mutate(mutate); err != nil {
		return fmt.Errorf("写入设置失败: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", i18n.T("setting_removed"), key)
	printNotices(manager)
	return nil
}

func settingRemover(key string) (func(*claude.Settings), error) {
	if name, ok := strings.CutPrefix(key, "env."); ok {
		return func(s *claude.Settings) {
			delete(s.Env, name)
		}, nil
	}

	switch key {
	case "model":
		return func(s *claude.Settings) { s.Model = "" }, nil
	case "outputStyle":
		return func(s *claude.Settings) { s.OutputStyle = "" }, nil
	case "alwaysThinkingEnabled":
		return func(s *claude.Settings) { s.AlwaysThinkingEnabled = nil }, nil
	case "includeCoAuthoredBy":
		return func(s *claude.Settings) { s.IncludeCoAuthoredBy = nil }, nil
	case "spinnerTipsEnabled":
		return func(s *claude.Settings) { s.SpinnerTipsEnabled = nil }, nil
	case "cleanupPeriodDays":
		return func(s *claude.Settings) { s.CleanupPeriodDays = nil }, nil
	case "statusLine":
		return func(s *claude.Settings) { s.StatusLine = nil }, nil
	default:
		return nil, fmt.Errorf("未知的设置项: %s", key)
	}
}

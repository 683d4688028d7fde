package cmd

import (
	"fmt"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/spf13/cobra"
)

var permissionList string

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "管理权限规则",
	Long: `管理 settings.json 中的权限规则（allow / deny / ask 三个列表）。

示例:
  cc-config permissions list
  cc-config permissions add "Bash(go test:*)"
  cc-config permissions add --list deny "Read(.env)"
  cc-config permissions remove "Bash(go test:*)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPermissionsList()
	},
}

var permissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有权限规则",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPermissionsList()
	},
}

var permissionsAddCmd = &cobra.Command{
	Use:   "add <规则>",
	Short: "添加权限规则",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPermissionsAdd(args[0])
	},
}

var permissionsRemoveCmd = &cobra.Command{
	Use:   "remove <规则>",
	Short: "删除权限规则",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPermissionsRemove(args[0])
	},
}

func init() {
	rootCmd.AddCommand(permissionsCmd)
	permissionsCmd.AddCommand(permissionsListCmd)
	permissionsCmd.AddCommand(permissionsAddCmd)
	permissionsCmd.AddCommand(permissionsRemoveCmd)
	permissionsCmd.PersistentFlags().StringVar(&permissionList, "list", "allow", "目标列表 (allow/deny/ask)")
}

func validPermissionList(name string) error {
	switch name {
	case "allow", "deny", "ask":
		return nil
	default:
		return fmt.Errorf("无效的列表: %s (支持: allow, deny, ask)", name)
	}
}

func rulesOf(perms *claude.Permissions, list string) []string {
	switch list {
	case "deny":
		return perms.Deny
	case "ask":
		return perms.Ask
	default:
		return perms.Allow
	}
}

func setRules(perms *claude.Permissions, list string, rules []string) {
	switch list {
	case "deny":
		perms.Deny = rules
	case "ask":
		perms.Ask = rules
	default:
		perms.Allow = rules
	}
}

func runPermissionsList() error {
	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	doc := manager.Settings.Get()
	perms := doc.Permissions
	if perms == nil || (len(perms.Allow) == 0 && len(perms.Deny) == 0 && len(perms.Ask) == 0) {
		fmt.Println("暂无权限规则，使用 'cc-config permissions add' 添加")
		return nil
	}

	if perms.DefaultMode != "" {
		fmt.Printf("默认模式: %s\n\n", perms.DefaultMode)
	}
	for _, label := range []struct {
		name  string
		rules []string
	}{
		{"允许", perms.Allow},
		{"拒绝", perms.Deny},
		{"询问", perms.Ask},
	} {
		for _, rule := range label.rules {
			fmt.Printf("%s  %s\n", label.name, rule)
		}
	}

	printNotices(manager)
	return nil
}

func runPermissionsAdd(rule string) error {
	if err := validPermissionList(permissionList); err != nil {
		return err
	}

	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	var duplicate bool
	err = manager.Settings.Mutate(func(s *claude.Settings) {
		perms := s.EnsurePermissions()
		for _, existing := range rulesOf(perms, permissionList) {
			if existing == rule {
				duplicate = true
				return
			}
		}
		setRules(perms, permissionList, append(rulesOf(perms, permissionList), rule))
	})
	if err != nil {
		return fmt.Errorf("写入设置失败: %w", err)
	}
	if duplicate {
		return fmt.Errorf("规则已存在于 %s 列表: %s", permissionList, rule)
	}

	fmt.Printf("✓ %s: [%s] %s\n", i18n.T("setting_updated"), permissionList, rule)
	printNotices(manager)
	return nil
}

func runPermissionsRemove(rule string) error {
	if err := validPermissionList(permissionList); err != nil {
		return err
	}

	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	var found bool
	err = manager.Settings.Mutate(func(s *claude.Settings) {
		if s.Permissions == nil {
			return
		}
		cur := rulesOf(s.Permissions, permissionList)
		for i, existing := range cur {
			if existing == rule {
				setRules(s.Permissions, permissionList, append(cur[:i:i], cur[i+1:]...))
				found = true
				return
			}
		}
	})
	if err != nil {
		return fmt.Errorf("写入设置失败: %w", err)
	}
	if !found {
		return fmt.Errorf("规则不存在于 %s 列表: %s", permissionList, rule)
	}

	fmt.Printf("✓ %s: [%s] %s\n", i18n.T("setting_removed"), permissionList, rule)
	printNotices(manager)
	return nil
}

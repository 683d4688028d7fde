package cmd

import (
	"fmt"
	"os"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/mcp"
	"github.com/YangQing-Lin/cc-config-cli/internal/prefs"
	"github.com/YangQing-Lin/cc-config-cli/internal/session"
	"github.com/YangQing-Lin/cc-config-cli/internal/settings"
)

// resolveDir 确定配置根目录：--dir 参数 > 应用设置 claudeDir > 默认 ~/.claude
func resolveDir() (string, error) {
	if claudeDir != "" {
		return claudeDir, nil
	}

	if manager, err := prefs.NewManager(); err == nil {
		if dir := manager.GetClaudeDir(); dir != "" {
			return dir, nil
		}
	}

	return claude.DefaultDir()
}

// getManager 获取配置管理器（考虑 --dir 参数）
func getManager() (*settings.Manager, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	return settings.NewManager(dir)
}

// getRegistry 获取 MCP 注册表
func getRegistry() (*mcp.Registry, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	return mcp.NewRegistry(claude.RegistryPath(dir)), nil
}

// getBrowser 获取会话浏览器
func getBrowser() (*session.Browser, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	return session.NewBrowser(dir), nil
}

// printNotices 把持久化告警输出到 stderr
func printNotices(manager *settings.Manager) {
	for _, n := range manager.Notices() {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", n)
	}
}

// printOverview 非终端环境下的配置总览
func printOverview(manager *settings.Manager) error {
	doc := manager.Settings.Get()

	fmt.Printf("配置目录: %s\n", manager.Dir())

	model := doc.Model
	if model == "" {
		model = "(默认)"
	}
	fmt.Printf("模型: %s\n", model)

	if doc.OutputStyle != "" {
		fmt.Printf("输出风格: %s\n", doc.OutputStyle)
	}
	if doc.AlwaysThinkingEnabled != nil {
		fmt.Printf("思考模式: %v\n", *doc.AlwaysThinkingEnabled)
	}
	if doc.Permissions != nil {
		fmt.Printf("权限规则: %d 允许 / %d 拒绝 / %d 询问\n",
			len(doc.Permissions.Allow), len(doc.Permissions.Deny), len(doc.Permissions.Ask))
	}
	if len(doc.Env) > 0 {
		fmt.Printf("环境变量: %d 项\n", len(doc.Env))
	}
	if len(doc.Extra) > 0 {
		fmt.Printf("未识别字段: %d 项（原样保留）\n", len(doc.Extra))
	}

	printNotices(manager)
	return nil
}

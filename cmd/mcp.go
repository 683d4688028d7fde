package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/YangQing-Lin/cc-config-cli/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/mattn/go-shellwords"
)

var (
	mcpType    string
	mcpURL     string
	mcpCommand string
	mcpEnv     []string
	mcpHeaders []string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "管理 MCP 服务器",
	Long: `管理 ~/.claude.json 中注册的 MCP 服务器。

注册表文件由多个工具共享，这里只改动 mcpServers 一个键，
其余内容原样保留。

示例:
  cc-config mcp list
  cc-config mcp add github --command "npx -y @modelcontextprotocol/server-github"
  cc-config mcp add linear --url https://mcp.linear.app/sse
  cc-config mcp show github
  cc-config mcp remove github`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMcpList()
	},
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有 MCP 服务器",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMcpList()
	},
}

var mcpAddCmd = &cobra.Command{
	Use:   "add <名称>",
	Short: "添加 MCP 服务器",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMcpAdd(args[0], false)
	},
}

var mcpUpdateCmd = &cobra.Command{
	Use:   "update <名称>",
	Short: "更新 MCP 服务器",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMcpAdd(args[0], true)
	},
}

var mcpShowCmd = &cobra.Command{
	Use:   "show <名称>",
	Short: "查看 MCP 服务器详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMcpShow(args[0])
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <名称>",
	Short: "删除 MCP 服务器",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMcpRemove(args[0])
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpAddCmd)
	mcpCmd.AddCommand(mcpUpdateCmd)
	mcpCmd.AddCommand(mcpShowCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)

	for _, c := range []*cobra.Command{mcpAddCmd, mcpUpdateCmd} {
		c.Flags().StringVar(&mcpType, "type", "", "传输方式 (stdio/sse/http, 留空自动推断)")
		c.Flags().StringVar(&mcpURL, "url", "", "远程服务器 URL")
		c.Flags().StringVar(&mcpCommand, "command", "", "stdio 启动命令（shell 语法，含参数）")
		c.Flags().StringArrayVar(&mcpEnv, "env", nil, "环境变量 (KEY=VALUE, 可重复)")
		c.Flags().StringArrayVar(&mcpHeaders, "header", nil, "HTTP 请求头 (KEY=VALUE, 可重复)")
	}
}

// buildServerConfig 把命令行参数拼成服务器配置
func buildServerConfig() (mcp.ServerConfig, error) {
	cfg := mcp.ServerConfig{
		Type: mcpType,
		URL:  mcpURL,
	}

	if mcpCommand != "" {
		parts, err := shellwords.Parse(mcpCommand)
		if err != nil {
			return cfg, fmt.Errorf("命令解析失败: %w", err)
		}
		if len(parts) > 0 {
			cfg.Command = parts[0]
			cfg.Args = parts[1:]
		}
	}

	for _, pair := range mcpEnv {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return cfg, fmt.Errorf("无效的环境变量: %s (格式 KEY=VALUE)", pair)
		}
		if cfg.Env == nil {
			cfg.Env = make(map[string]string)
		}
		cfg.Env[key] = value
	}

	for _, pair := range mcpHeaders {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return cfg, fmt.Errorf("无效的请求头: %s (格式 KEY=VALUE)", pair)
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		cfg.Headers[key] = value
	}

	return cfg, nil
}

func runMcpList() error {
	registry, err := getRegistry()
	if err != nil {
		return err
	}

	servers, err := registry.List()
	if err != nil {
		return fmt.Errorf("读取注册表失败: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("暂无 MCP 服务器，使用 'cc-config mcp add' 添加")
		return nil
	}

	for _, server := range servers {
		detail := server.Config.URL
		if detail == "" {
			detail = strings.Join(append([]string{server.Config.Command}, server.Config.Args...), " ")
		}
		fmt.Printf("%-20s [%s]  %s\n", server.Name, server.Config.Transport(), detail)
	}

	return nil
}

func runMcpAdd(name string, update bool) error {
	cfg, err := buildServerConfig()
	if err != nil {
		return err
	}

	if err := mcp.Validate(name, cfg); err != nil {
		return err
	}

	registry, err := getRegistry()
	if err != nil {
		return err
	}

	if update {
		if err := registry.Update(name, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ %s: %s [%s]\n", i18n.T("mcp_updated"), name, cfg.Transport())
	} else {
		if err := registry.Add(name, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ %s: %s [%s]\n", i18n.T("mcp_added"), name, cfg.Transport())
	}
	return nil
}

func runMcpShow(name string) error {
	registry, err := getRegistry()
	if err != nil {
		return err
	}

	server, err := registry.Get(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(server.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	fmt.Printf("%s [%s]\n%s\n", server.Name, server.Config.Transport(), data)
	return nil
}

func runMcpRemove(name string) error {
	registry, err := getRegistry()
	if err != nil {
		return err
	}

	if err := registry.Remove(name); err != nil {
		return err
	}

	fmt.Printf("✓ %s: %s\n", i18n.T("mcp_deleted"), name)
	return nil
}

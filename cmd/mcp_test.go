package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/testutil"
)

func TestBuildServerConfig(t *testing.T) {
	tests := []struct {
		name        string
		typ, url    string
		command     string
		env         []string
		headers     []string
		wantErr     bool
		wantCommand string
		wantArgs    int
	}{
		{
			name:        "stdio command with args",
			command:     `npx -y @modelcontextprotocol/server-github`,
			wantCommand: "npx",
			wantArgs:    2,
		},
		{
			name: "sse url with header",
			typ:  "sse",
			url:  "https://mcp.example.com/sse",
			headers: []string{
				"Authorization=Bearer tok",
			},
		},
		{
			name:    "bad env pair",
			command: "server",
			env:     []string{"NOEQUALS"},
			wantErr: true,
		},
		{
			name:    "unbalanced quotes",
			command: `server "unterminated`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals()
			mcpType = tt.typ
			mcpURL = tt.url
			mcpCommand = tt.command
			mcpEnv = tt.env
			mcpHeaders = tt.headers

			cfg, err := buildServerConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildServerConfig: %v", err)
			}
			if tt.wantCommand != "" && cfg.Command != tt.wantCommand {
				t.Errorf("Command = %s, want %s", cfg.Command, tt.wantCommand)
			}
			if tt.wantArgs > 0 && len(cfg.Args) != tt.wantArgs {
				t.Errorf("len(Args) = %d, want %d", len(cfg.Args), tt.wantArgs)
			}
			if len(tt.headers) > 0 && cfg.Headers["Authorization"] != "Bearer tok" {
				t.Errorf("Headers = %v", cfg.Headers)
			}
		})
	}
}

func TestMcpAddListShowRemove(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	dir := setupClaudeDir(t, "")

	// 注册表里已有其他工具写入的内容
	registryContent := `{"numStartups":42,"mcpServers":{}}`
	if err := os.WriteFile(claude.RegistryPath(dir), []byte(registryContent), 0600); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	mcpCommand = "npx -y @modelcontextprotocol/server-github"
	if err := runMcpAdd("github", false); err != nil {
		t.Fatalf("add: %v", err)
	}

	// 重复添加报错
	if err := runMcpAdd("github", false); err == nil {
		t.Fatalf("expected duplicate error")
	}

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runMcpList(); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	if !strings.Contains(stdout, "github") || !strings.Contains(stdout, "stdio") {
		t.Errorf("expected server listed, got: %s", stdout)
	}

	stdout, _ = testutil.CaptureOutput(t, func() {
		if err := runMcpShow("github"); err != nil {
			t.Fatalf("show: %v", err)
		}
	})
	if !strings.Contains(stdout, "npx") {
		t.Errorf("expected command in detail, got: %s", stdout)
	}

	// 外部字段原样保留
	data, err := os.ReadFile(claude.RegistryPath(dir))
	if err != nil {
		t.Fatalf("read registry: %v", err)
	}
	if !strings.Contains(string(data), "numStartups") {
		t.Errorf("expected foreign key preserved, got: %s", data)
	}

	if err := runMcpRemove("github"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := runMcpRemove("github"); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestMcpUpdateMissing(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	setupClaudeDir(t, "")

	mcpURL = "https://mcp.example.com/sse"
	if err := runMcpAdd("missing", true); err == nil {
		t.Fatalf("expected update error for missing server")
	}
}

func TestMcpAddValidation(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	setupClaudeDir(t, "")

	// stdio 无命令
	if err := runMcpAdd("empty", false); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestMcpListEmpty(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	setupClaudeDir(t, "")

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runMcpList(); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	if !strings.Contains(stdout, "暂无 MCP 服务器") {
		t.Errorf("expected empty message, got: %s", stdout)
	}
}

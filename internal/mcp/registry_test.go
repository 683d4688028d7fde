package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestTransportInference 传输类型推断（显式 type 优先，url-only 视为 SSE）
func TestTransportInference(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{
			name: "command without type is stdio",
			cfg:  ServerConfig{Command: "npx", Args: []string{"-y", "pkg"}},
			want: TransportStdio,
		},
		{
			name: "url without command is sse",
			cfg:  ServerConfig{URL: "https://x/sse"},
			want: TransportSSE,
		},
		{
			name: "explicit type wins",
			cfg:  ServerConfig{Type: "http", URL: "https://x/mcp"},
			want: TransportHTTP,
		},
		{
			name: "url and command is stdio",
			cfg:  ServerConfig{Command: "proxy", URL: "https://x"},
			want: TransportStdio,
		},
		{
			name: "empty config is stdio",
			cfg:  ServerConfig{},
			want: TransportStdio,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Transport(); got != tt.want {
				t.Fatalf("Transport() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		server    string
		cfg       ServerConfig
		wantErr   bool
		errSubstr string
	}{
		{
			name:   "valid stdio",
			server: "fetch",
			cfg:    ServerConfig{Command: "uvx", Args: []string{"mcp-server-fetch"}},
		},
		{
			name:   "valid sse",
			server: "remote",
			cfg:    ServerConfig{URL: "https://example.com/sse"},
		},
		{
			name:   "valid http",
			server: "remote",
			cfg:    ServerConfig{Type: "http", URL: "http://localhost:8080/mcp"},
		},
		{
			name:      "empty name",
			server:    " ",
			cfg:       ServerConfig{Command: "npx"},
			wantErr:   true,
			errSubstr: "名称不能为空",
		},
		{
			name:      "stdio without command",
			server:    "bad",
			cfg:       ServerConfig{},
			wantErr:   true,
			errSubstr: "command",
		},
		{
			name:      "sse without url",
			server:    "bad",
			cfg:       ServerConfig{Type: "sse"},
			wantErr:   true,
			errSubstr: "url",
		},
		{
			name:      "sse with bad scheme",
			server:    "bad",
			cfg:       ServerConfig{Type: "sse", URL: "ftp://x"},
			wantErr:   true,
			errSubstr: "http 或 https",
		},
		{
			name:      "unknown transport",
			server:    "bad",
			cfg:       ServerConfig{Type: "websocket", URL: "https://x"},
			wantErr:   true,
			errSubstr: "不支持的传输类型",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.server, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errSubstr) {
				t.Fatalf("错误信息不匹配: %v", err)
			}
		})
	}
}

// TestRegistryScenarioB 无 type 无 url 的条目分类为 stdio
func TestRegistryScenarioB(t *testing.T) {
	path := seedRegistry(t, `{"mcpServers":{"pkg":{"command":"npx","args":["-y","pkg"]}}}`)
	r := NewRegistry(path)

	server, err := r.Get("pkg")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := server.Config.Transport(); got != TransportStdio {
		t.Fatalf("Transport() = %s, want stdio", got)
	}
}

// TestRegistryScenarioC 只有 url 的条目分类为 SSE
func TestRegistryScenarioC(t *testing.T) {
	path := seedRegistry(t, `{"mcpServers":{"remote":{"url":"https://x/sse"}}}`)
	r := NewRegistry(path)

	server, err := r.Get("remote")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := server.Config.Transport(); got != TransportSSE {
		t.Fatalf("Transport() = %s, want sse", got)
	}
}

func TestRegistryCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".claude.json")
	r := NewRegistry(path)

	// 空注册表
	list, err := r.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("空注册表不应有条目: %v", list)
	}

	// 添加
	if err := r.Add("fetch", ServerConfig{Command: "uvx", Args: []string{"mcp-server-fetch"}}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := r.Add("fetch", ServerConfig{Command: "uvx"}); err == nil {
		t.Fatal("重复添加应报错")
	}
	if err := r.Add("remote", ServerConfig{URL: "https://x/sse"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// 列表按名称排序
	list, err = r.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "fetch" || list[1].Name != "remote" {
		t.Fatalf("List() = %v", list)
	}

	// 更新
	if err := r.Update("fetch", ServerConfig{Command: "npx", Args: []string{"-y", "mcp-server-fetch"}}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	server, err := r.Get("fetch")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if server.Config.Command != "npx" {
		t.Fatalf("更新未生效: %+v", server.Config)
	}
	if err := r.Update("nope", ServerConfig{Command: "x"}); err == nil {
		t.Fatal("更新不存在的服务器应报错")
	}

	// 删除
	if err := r.Remove("remote"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := r.Remove("remote"); err == nil {
		t.Fatal("重复删除应报错")
	}
	if _, err := r.Get("remote"); err == nil {
		t.Fatal("删除后仍能获取")
	}
}

// TestRegistryPreservesForeignKeys 注册表文件的其余内容必须原样保留
func TestRegistryPreservesForeignKeys(t *testing.T) {
	seed := `{
		"numStartups": 42,
		"oauthAccount": {"emailAddress": "u@example.com"},
		"mcpServers": {"keep": {"command": "old"}},
		"projects": {"/home/u/p": {"allowedTools": []}}
	}`
	path := seedRegistry(t, seed)
	r := NewRegistry(path)

	if err := r.Add("fetch", ServerConfig{Command: "uvx"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	if got["numStartups"] != float64(42) {
		t.Fatalf("外部字段丢失: %v", got["numStartups"])
	}
	if acct, ok := got["oauthAccount"].(map[string]interface{}); !ok || acct["emailAddress"] != "u@example.com" {
		t.Fatalf("嵌套外部字段丢失: %v", got["oauthAccount"])
	}
	if _, ok := got["projects"].(map[string]interface{}); !ok {
		t.Fatalf("projects 丢失: %v", got["projects"])
	}

	entries, ok := got["mcpServers"].(map[string]interface{})
	if !ok {
		t.Fatalf("mcpServers 形状不对: %v", got["mcpServers"])
	}
	if _, ok := entries["keep"]; !ok {
		t.Fatal("未编辑的条目丢失")
	}
	if _, ok := entries["fetch"]; !ok {
		t.Fatal("新条目未写入")
	}
}

func TestRegistryCorruptFile(t *testing.T) {
	path := seedRegistry(t, `{broken`)
	r := NewRegistry(path)

	if _, err := r.List(); err == nil {
		t.Fatal("损坏的注册表应报错")
	}
	if err := r.Add("x", ServerConfig{Command: "y"}); err == nil {
		t.Fatal("损坏的注册表不应被覆盖写入")
	}
}

func seedRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".claude.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("写入注册表失败: %v", err)
	}
	return path
}

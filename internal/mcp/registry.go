package mcp

import (
	"encoding/json"
	"fmt"
	neturl "net/url"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/YangQing-Lin/cc-config-cli/internal/utils"
)

// 传输类型
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// registryKey MCP 服务器在注册表文件中的键
const registryKey = "mcpServers"

// ServerConfig 单个 MCP 服务器配置
type ServerConfig struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Transport 推断传输类型：显式 type 优先；
// 缺省按 stdio 处理，除非只有 url 没有 command，此时视为 SSE
func (c ServerConfig) Transport() string {
	if c.Type != "" {
		return c.Type
	}
	if c.URL != "" && c.Command == "" {
		return TransportSSE
	}
	return TransportStdio
}

// Server 注册表中的一个条目
type Server struct {
	Name   string
	Config ServerConfig
}

// Registry MCP 服务器注册表编辑器。
//
// 注册表位于配置根目录旁的兄弟文件（~/.claude.json）的 mcpServers 键下。
// 该文件的其余内容属于外部 CLI，读-改-写时必须原封不动地保留。
type Registry struct {
	path string
	mu   sync.Mutex
}

// NewRegistry 创建注册表编辑器
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Path 注册表文件路径
func (r *Registry) Path() string {
	return r.path
}

// loadRaw 读取整个注册表文件。文件缺失视为空对象。
func (r *Registry) loadRaw() (map[string]interface{}, error) {
	raw := make(map[string]interface{})

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return nil, fmt.Errorf("读取注册表失败: %w", err)
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析注册表失败: %w", err)
	}

	return raw, nil
}

// saveRaw 原子写回整个注册表文件（0600，保护敏感信息）
func (r *Registry) saveRaw(raw map[string]interface{}) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化注册表失败: %w", err)
	}
	data = append(data, '\n')

	if err := utils.AtomicWriteFile(r.path, data, 0600); err != nil {
		return fmt.Errorf("写入注册表失败: %w", err)
	}

	return nil
}

// servers 从原始文档中取出 mcpServers 段
func servers(raw map[string]interface{}) map[string]interface{} {
	if existing, ok := raw[registryKey].(map[string]interface{}); ok {
		return existing
	}
	return make(map[string]interface{})
}

// decodeConfig 把一个条目的原始值解析为 ServerConfig
func decodeConfig(v interface{}) (ServerConfig, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return ServerConfig{}, err
	}
	var cfg ServerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// List 列出所有服务器，按名称排序。形状不符的条目跳过。
func (r *Registry) List() ([]Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.loadRaw()
	if err != nil {
		return nil, err
	}

	var out []Server
	for name, v := range servers(raw) {
		cfg, err := decodeConfig(v)
		if err != nil {
			continue
		}
		out = append(out, Server{Name: name, Config: cfg})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

// Get 获取指定名称的服务器
func (r *Registry) Get(name string) (*Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.loadRaw()
	if err != nil {
		return nil, err
	}

	v, exists := servers(raw)[name]
	if !exists {
		return nil, fmt.Errorf("MCP 服务器不存在: %s", name)
	}

	cfg, err := decodeConfig(v)
	if err != nil {
		return nil, fmt.Errorf("MCP 服务器配置无效: %w", err)
	}

	return &Server{Name: name, Config: cfg}, nil
}

// Add 添加服务器。名称已存在时报错。
func (r *Registry) Add(name string, cfg ServerConfig) error {
	if err := Validate(name, cfg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.loadRaw()
	if err != nil {
		return err
	}

	entries := servers(raw)
	if _, exists := entries[name]; exists {
		return fmt.Errorf("MCP 服务器已存在: %s", name)
	}

	return r.putLocked(raw, entries, name, cfg)
}

// Update 更新已有服务器
func (r *Registry) Update(name string, cfg ServerConfig) error {
	if err := Validate(name, cfg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.loadRaw()
	if err != nil {
		return err
	}

	entries := servers(raw)
	if _, exists := entries[name]; !exists {
		return fmt.Errorf("MCP 服务器不存在: %s", name)
	}

	return r.putLocked(raw, entries, name, cfg)
}

// Remove 删除服务器
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.loadRaw()
	if err != nil {
		return err
	}

	entries := servers(raw)
	if _, exists := entries[name]; !exists {
		return fmt.Errorf("MCP 服务器不存在: %s", name)
	}

	delete(entries, name)
	raw[registryKey] = entries

	return r.saveRaw(raw)
}

func (r *Registry) putLocked(raw, entries map[string]interface{}, name string, cfg ServerConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化服务器配置失败: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("序列化服务器配置失败: %w", err)
	}

	entries[name] = v
	raw[registryKey] = entries

	return r.saveRaw(raw)
}

// Validate 校验服务器配置
func Validate(name string, cfg ServerConfig) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("服务器名称不能为空")
	}

	switch cfg.Transport() {
	case TransportStdio:
		if strings.TrimSpace(cfg.Command) == "" {
			return fmt.Errorf("stdio 类型需要非空 command 字段")
		}

	case TransportHTTP, TransportSSE:
		urlStr := strings.TrimSpace(cfg.URL)
		if urlStr == "" {
			return fmt.Errorf("%s 类型需要非空 url 字段", cfg.Transport())
		}

		parsedURL, err := neturl.Parse(urlStr)
		if err != nil {
			return fmt.Errorf("%s 类型的 url 格式无效: %w", cfg.Transport(), err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("%s 类型的 url 必须使用 http 或 https 协议", cfg.Transport())
		}
		if parsedURL.Host == "" {
			return fmt.Errorf("%s 类型的 url 缺少主机地址", cfg.Transport())
		}

	default:
		return fmt.Errorf("不支持的传输类型: %s", cfg.Transport())
	}

	return nil
}

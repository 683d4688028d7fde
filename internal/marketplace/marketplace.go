package marketplace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/utils"
)

// Source 插件市场来源。known_marketplaces.json 中既可能是
// 字符串简写（"owner/repo"），也可能是结构化对象。
type Source struct {
	Source string `json:"source,omitempty"`
	Repo   string `json:"repo,omitempty"`
	Path   string `json:"path,omitempty"`
	URL    string `json:"url,omitempty"`
}

// UnmarshalJSON 兼容字符串和对象两种写法
func (s *Source) UnmarshalJSON(data []byte) error {
	var short string
	if err := json.Unmarshal(data, &short); err == nil {
		*s = Source{Source: "github", Repo: short}
		return nil
	}

	type Alias Source
	var full Alias
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*s = Source(full)
	return nil
}

// Owner 市场维护者
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Plugin 市场描述文件中的一个插件条目
type Plugin struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Author      *Owner `json:"author,omitempty"`
}

// Marketplace 一个插件市场的只读投影
type Marketplace struct {
	Name    string
	Source  Source
	Owner   Owner
	Plugins []Plugin
	// Missing 市场已注册但本地副本缺失或损坏
	Missing bool
}

// descriptor marketplace.json 的磁盘结构
type descriptor struct {
	Name    string   `json:"name"`
	Owner   Owner    `json:"owner"`
	Plugins []Plugin `json:"plugins"`
}

// knownEntry known_marketplaces.json 中的一个条目
type knownEntry struct {
	Source Source `json:"source"`
}

// Catalog 插件市场目录的只读扫描器。本系统从不写插件相关文件。
type Catalog struct {
	dir string
}

// NewCatalog 创建扫描器，dir 为配置根目录
func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// List 枚举所有已注册的市场，按名称排序。
// 描述文件缺失或损坏的市场标记 Missing 而不是让整个列表失败。
func (c *Catalog) List() ([]Marketplace, error) {
	knownPath := claude.KnownMarketplacesPath(c.dir)
	if !utils.FileExists(knownPath) {
		return nil, nil
	}

	var known map[string]knownEntry
	if err := utils.ReadJSONFile(knownPath, &known); err != nil {
		return nil, fmt.Errorf("读取市场清单失败: %w", err)
	}

	out := make([]Marketplace, 0, len(known))
	for name, entry := range known {
		m := Marketplace{Name: name, Source: entry.Source}

		desc, err := c.readDescriptor(name)
		if err != nil {
			m.Missing = true
		} else {
			m.Owner = desc.Owner
			m.Plugins = desc.Plugins
		}

		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

// Get 获取指定市场
func (c *Catalog) Get(name string) (*Marketplace, error) {
	all, err := c.List()
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}

	return nil, fmt.Errorf("插件市场不存在: %s", name)
}

func (c *Catalog) readDescriptor(name string) (*descriptor, error) {
	path := filepath.Join(claude.MarketplacesDir(c.dir), name, ".claude-plugin", "marketplace.json")

	var desc descriptor
	if err := utils.ReadJSONFile(path, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// CachedPlugin 插件缓存中的一个已安装插件
type CachedPlugin struct {
	Marketplace string
	Name        string
	Version     string
	Description string
}

// InstalledPlugins 枚举插件缓存目录（plugins/cache/<市场>/<插件>/.claude-plugin/plugin.json）
func (c *Catalog) InstalledPlugins() ([]CachedPlugin, error) {
	cacheDir := claude.PluginCacheDir(c.dir)
	markets, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取插件缓存失败: %w", err)
	}

	var out []CachedPlugin
	for _, market := range markets {
		if !market.IsDir() {
			continue
		}

		plugins, err := os.ReadDir(filepath.Join(cacheDir, market.Name()))
		if err != nil {
			continue
		}

		for _, plugin := range plugins {
			if !plugin.IsDir() {
				continue
			}

			manifestPath := filepath.Join(cacheDir, market.Name(), plugin.Name(), ".claude-plugin", "plugin.json")
			var manifest Plugin
			if err := utils.ReadJSONFile(manifestPath, &manifest); err != nil {
				continue // 描述文件缺失或损坏的插件跳过
			}

			name := manifest.Name
			if name == "" {
				name = plugin.Name()
			}

			out = append(out, CachedPlugin{
				Marketplace: market.Name(),
				Name:        name,
				Version:     manifest.Version,
				Description: manifest.Description,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Marketplace == out[j].Marketplace {
			return out[i].Name < out[j].Name
		}
		return out[i].Marketplace < out[j].Marketplace
	})

	return out, nil
}

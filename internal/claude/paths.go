package claude

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName 配置根目录名
	DirName = ".claude"
	// SettingsFileName 主设置文件名
	SettingsFileName = "settings.json"
	// LocalSettingsFileName 本地覆盖设置文件名
	LocalSettingsFileName = "settings.local.json"
)

// DefaultDir 获取默认配置根目录 ~/.claude
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("获取用户主目录失败: %w", err)
	}

	return filepath.Join(home, DirName), nil
}

// SettingsPath 主设置文件路径
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFileName)
}

// LocalSettingsPath 本地覆盖设置文件路径
func LocalSettingsPath(dir string) string {
	return filepath.Join(dir, LocalSettingsFileName)
}

// RegistryPath MCP 注册表路径。注册表是配置根目录旁的兄弟文件：
// ~/.claude 对应 ~/.claude.json
func RegistryPath(dir string) string {
	return filepath.Clean(dir) + ".json"
}

// ProjectsDir 会话日志根目录
func ProjectsDir(dir string) string {
	return filepath.Join(dir, "projects")
}

// PluginsDir 插件根目录
func PluginsDir(dir string) string {
	return filepath.Join(dir, "plugins")
}

// KnownMarketplacesPath 已注册插件市场清单路径
func KnownMarketplacesPath(dir string) string {
	return filepath.Join(PluginsDir(dir), "known_marketplaces.json")
}

// MarketplacesDir 各插件市场副本目录
func MarketplacesDir(dir string) string {
	return filepath.Join(PluginsDir(dir), "marketplaces")
}

// PluginCacheDir 插件缓存目录
func PluginCacheDir(dir string) string {
	return filepath.Join(PluginsDir(dir), "cache")
}

// BackupsDir 设置备份目录
func BackupsDir(dir string) string {
	return filepath.Join(dir, "backups")
}

// EncodeProjectPath 工作区路径到 projects/ 子目录名的编码（路径分隔符替换为 -）
func EncodeProjectPath(workspace string) string {
	encoded := make([]rune, 0, len(workspace))
	for _, r := range workspace {
		switch r {
		case '/', '\\', ':', '.':
			encoded = append(encoded, '-')
		default:
			encoded = append(encoded, r)
		}
	}
	return string(encoded)
}

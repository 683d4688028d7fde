package settings

import (
	"fmt"
	"time"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/watcher"
)

// DefaultDebounce 外部修改合并重载的去抖窗口
const DefaultDebounce = 500 * time.Millisecond

// Manager 拥有所有受管文档的 Store 以及监听器接线。
// 进程启动时显式创建，退出时显式 Close。
type Manager struct {
	dir string

	// Settings 主设置文档 settings.json
	Settings *Store
	// Local 本地覆盖文档 settings.local.json
	Local *Store

	watch *watcher.Watcher
}

// NewManager 创建管理器。dir 为空时使用默认配置根目录 ~/.claude
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		var err error
		dir, err = claude.DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	return &Manager{
		dir:      dir,
		Settings: NewStore(claude.SettingsPath(dir)),
		Local:    NewStore(claude.LocalSettingsPath(dir)),
	}, nil
}

// Dir 配置根目录
func (m *Manager) Dir() string {
	return m.dir
}

// Stores 所有受管文档
func (m *Manager) Stores() []*Store {
	return []*Store{m.Settings, m.Local}
}

// ReloadAll 整体重载所有受管文档
func (m *Manager) ReloadAll() {
	for _, s := range m.Stores() {
		s.Reload()
	}
}

// Notices 汇总所有 Store 的异常通知
func (m *Manager) Notices() []Notice {
	var out []Notice
	for _, s := range m.Stores() {
		out = append(out, s.Notices()...)
	}
	return out
}

// Watch 启动目录监听：外部修改去抖后整体重载，并回调 onReload。
// 各 Store 的保存通过 Suppress 握手排除在外。
func (m *Manager) Watch(debounce time.Duration, onReload func()) error {
	if m.watch != nil {
		return fmt.Errorf("监听器已启动")
	}

	w, err := watcher.New(m.dir, debounce, func() {
		m.ReloadAll()
		if onReload != nil {
			onReload()
		}
	})
	if err != nil {
		return fmt.Errorf("创建监听器失败: %w", err)
	}

	for _, s := range m.Stores() {
		s.SetWriteHook(w.Suppress)
	}

	if err := w.Start(); err != nil {
		return fmt.Errorf("启动监听器失败: %w", err)
	}

	m.watch = w
	return nil
}

// Close 停止监听器。未启动时为空操作。
func (m *Manager) Close() {
	if m.watch != nil {
		m.watch.Stop()
		m.watch = nil
	}
}

package tui

import (
	"fmt"
	"unicode"

	"github.com/YangQing-Lin/cc-config-cli/internal/version"
)

// displayWidth 计算字符串的显示宽度（中文等宽字符占2格）
func displayWidth(s string) int {
	width := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) ||
			(r >= 0xFF00 && r <= 0xFFEF) { // 全角字符
			width += 2
		} else {
			width += 1
		}
	}
	return width
}

// formatSize 人类可读的文件大小
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// getVersion 获取版本号
func (m Model) getVersion() string {
	return version.GetVersion()
}

// boolMark 布尔设置的显示标记
func boolMark(v *bool) string {
	switch {
	case v == nil:
		return "–"
	case *v:
		return "✓"
	default:
		return "✗"
	}
}

// refreshServers 刷新 MCP 服务器列表
func (m *Model) refreshServers() {
	servers, err := m.registry.List()
	if err != nil {
		m.err = err
		return
	}
	m.servers = servers
	if m.mcpCursor >= len(m.servers) && m.mcpCursor > 0 {
		m.mcpCursor = len(m.servers) - 1
	}
}

// refreshProjects 刷新项目列表
func (m *Model) refreshProjects() {
	projects, err := m.browser.Projects()
	if err != nil {
		m.err = err
		return
	}
	m.projects = projects
	if m.projectCursor >= len(m.projects) && m.projectCursor > 0 {
		m.projectCursor = len(m.projects) - 1
	}
}

// refreshSessions 刷新当前项目的会话列表
func (m *Model) refreshSessions() {
	if m.currentProject == "" {
		m.sessions = nil
		return
	}
	sessions, err := m.browser.Sessions(m.currentProject)
	if err != nil {
		m.err = err
		return
	}
	m.sessions = sessions
	if m.sessionCursor >= len(m.sessions) && m.sessionCursor > 0 {
		m.sessionCursor = len(m.sessions) - 1
	}
}

// drainNotices 把未读的持久化告警拼成一条警告消息
func (m *Model) drainNotices() {
	notices := m.manager.Notices()
	if len(notices) == 0 {
		return
	}
	m.warning = notices[len(notices)-1].String()
}

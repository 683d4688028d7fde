package tui

import (
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// 项目列表
func (m Model) handleProjectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = "home"
		m.message = ""
		m.err = nil
	case "up", "k":
		if m.projectCursor > 0 {
			m.projectCursor--
		}
	case "down", "j":
		if m.projectCursor < len(m.projects)-1 {
			m.projectCursor++
		}
	case "enter":
		if len(m.projects) > 0 {
			m.currentProject = m.projects[m.projectCursor].Name
			m.sessionCursor = 0
			m.mode = "sessions"
			m.refreshSessions()
		}
	case "r":
		m.refreshProjects()
		m.message = "列表已刷新"
		m.err = nil
	}
	return m, nil
}

func (m Model) viewProjects() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("会话浏览 - 项目") + "\n\n")
	s.WriteString(m.statusLine())

	if len(m.projects) == 0 {
		s.WriteString(detailContentStyle.Render("暂无项目会话记录") + "\n")
	} else {
		for i, p := range m.projects {
			line := fmt.Sprintf("%-40s %3d 个会话  %8s",
				session.DecodeProjectName(p.Name), p.SessionCount, formatSize(p.TotalSize))
			if i == m.projectCursor {
				s.WriteString(selectedItemStyle.Render(line) + "\n")
			} else {
				s.WriteString(normalItemStyle.Render(line) + "\n")
			}
		}
	}

	s.WriteString("\n")
	helps := []string{
		"↑/↓: 选择",
		"Enter: 查看会话",
		"r: 刷新",
		"ESC: 返回",
	}
	s.WriteString(helpStyle.Render(strings.Join(helps, " • ")))

	return s.String()
}

// 会话列表
func (m Model) handleSessionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = "projects"
		m.message = ""
		m.err = nil
		m.refreshProjects()
	case "up", "k":
		if m.sessionCursor > 0 {
			m.sessionCursor--
		}
	case "down", "j":
		if m.sessionCursor < len(m.sessions)-1 {
			m.sessionCursor++
		}
	case "r":
		m.refreshSessions()
		m.message = "列表已刷新"
		m.err = nil
	}
	return m, nil
}

func (m Model) viewSessions() string {
	var s strings.Builder

	title := fmt.Sprintf("会话浏览 - %s", session.DecodeProjectName(m.currentProject))
	s.WriteString(titleStyle.Render(title) + "\n\n")
	s.WriteString(m.statusLine())

	if len(m.sessions) == 0 {
		s.WriteString(detailContentStyle.Render("该项目暂无会话") + "\n")
	} else {
		for i, sess := range m.sessions {
			label := sess.Summary
			if label == "" {
				label = sess.FirstPrompt
			}
			if label == "" {
				label = sess.ID
			}
			label = truncateDisplay(label, 60)

			header := fmt.Sprintf("%s  %s", sess.Modified.Format("2006-01-02 15:04"), label)
			if i == m.sessionCursor {
				s.WriteString(selectedItemStyle.Render(header) + "\n")
			} else {
				s.WriteString(normalItemStyle.Render(header) + "\n")
			}
			s.WriteString("  " + detailContentStyle.Render(
				fmt.Sprintf("%s • %d 行 • %s", sess.ID, sess.Lines, formatSize(sess.Size))) + "\n")
		}
	}

	s.WriteString("\n")
	helps := []string{
		"↑/↓: 选择",
		"r: 刷新",
		"ESC: 返回项目",
	}
	s.WriteString(helpStyle.Render(strings.Join(helps, " • ")))

	return s.String()
}

// truncateDisplay 按显示宽度截断（中文占两格）
func truncateDisplay(s string, max int) string {
	if displayWidth(s) <= max {
		return s
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		w := displayWidth(string(r))
		if width+w > max-1 {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String() + "…"
}

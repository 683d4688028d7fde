package tui

import (
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// permissionRules 取当前列表对应的规则切片
func permissionRules(perms *claude.Permissions, list string) []string {
	if perms == nil {
		return nil
	}
	switch list {
	case "deny":
		return perms.Deny
	case "ask":
		return perms.Ask
	default:
		return perms.Allow
	}
}

func setPermissionRules(perms *claude.Permissions, list string, rules []string) {
	switch list {
	case "deny":
		perms.Deny = rules
	case "ask":
		perms.Ask = rules
	default:
		perms.Allow = rules
	}
}

var permListOrder = []string{"allow", "deny", "ask"}

var permListLabels = map[string]string{
	"allow": "允许",
	"deny":  "拒绝",
	"ask":   "询问",
}

func (m Model) handlePermissionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.permMode == "add" {
		return m.handlePermissionAddKeys(msg)
	}

	doc := m.manager.Settings.Get()
	rules := permissionRules(doc.Permissions, m.permList)

	switch msg.String() {
	case "q", "esc":
		m.mode = "home"
		m.message = ""
		m.err = nil
	case "up", "k":
		if m.permCursor > 0 {
			m.permCursor--
		}
	case "down", "j":
		if m.permCursor < len(rules)-1 {
			m.permCursor++
		}
	case "tab", "right":
		m.permList = nextPermList(m.permList, 1)
		m.permCursor = 0
	case "shift+tab", "left":
		m.permList = nextPermList(m.permList, -1)
		m.permCursor = 0
	case "a":
		m.permMode = "add"
		m.inputs = make([]textinput.Model, 1)
		m.inputs[0] = textinput.New()
		m.inputs[0].Placeholder = "例如: Bash(go test:*)"
		m.inputs[0].Focus()
		m.inputs[0].CharLimit = 200
		m.inputs[0].Width = 50
		m.focusIndex = 0
		return m, textinput.Blink
	case "d":
		if len(rules) == 0 {
			return m, nil
		}
		idx := m.permCursor
		list := m.permList
		err := m.manager.Settings.Mutate(func(s *claude.Settings) {
			perms := s.EnsurePermissions()
			cur := permissionRules(perms, list)
			if idx < len(cur) {
				setPermissionRules(perms, list, append(cur[:idx:idx], cur[idx+1:]...))
			}
		})
		if err != nil {
			m.warning = i18n.T("warning.write_failed")
		} else {
			m.message = i18n.T("success.setting_updated")
			m.warning = ""
		}
		m.err = nil
		if m.permCursor > 0 {
			m.permCursor--
		}
	}
	return m, nil
}

func nextPermList(current string, delta int) string {
	for i, name := range permListOrder {
		if name == current {
			next := (i + delta + len(permListOrder)) % len(permListOrder)
			return permListOrder[next]
		}
	}
	return permListOrder[0]
}

func (m Model) handlePermissionAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.permMode = "list"
		return m, nil
	case "enter":
		rule := strings.TrimSpace(m.inputs[0].Value())
		if rule == "" {
			m.err = fmt.Errorf("%s", i18n.T("error.name_required"))
			return m, nil
		}
		list := m.permList
		err := m.manager.Settings.Mutate(func(s *claude.Settings) {
			perms := s.EnsurePermissions()
			setPermissionRules(perms, list, append(permissionRules(perms, list), rule))
		})
		if err != nil {
			m.warning = i18n.T("warning.write_failed")
		} else {
			m.message = i18n.T("success.setting_updated")
			m.warning = ""
		}
		m.err = nil
		m.permMode = "list"
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[0], cmd = m.inputs[0].Update(msg)
	return m, cmd
}

func (m Model) viewPermissions() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("权限规则管理") + "\n\n")
	s.WriteString(m.statusLine())

	// 列表选择标签
	var tabs []string
	for _, name := range permListOrder {
		label := permListLabels[name]
		if name == m.permList {
			tabs = append(tabs, selectedItemStyle.Render(label))
		} else {
			tabs = append(tabs, normalItemStyle.Render(label))
		}
	}
	s.WriteString(strings.Join(tabs, " ") + "\n\n")

	if m.permMode == "add" {
		s.WriteString(inputLabelStyle.Render("新 "+permListLabels[m.permList]+" 规则:") + "\n")
		s.WriteString(inputBoxStyle.Render(m.inputs[0].View()) + "\n\n")
		s.WriteString(buttonStyle.Render("添加 (Enter)") + " ")
		s.WriteString(cancelButtonStyle.Render("取消 (ESC)"))
		return s.String()
	}

	doc := m.manager.Settings.Get()
	rules := permissionRules(doc.Permissions, m.permList)
	if len(rules) == 0 {
		s.WriteString(detailContentStyle.Render("该列表暂无规则，按 'a' 添加") + "\n")
	} else {
		for i, rule := range rules {
			if i == m.permCursor {
				s.WriteString(selectedItemStyle.Render(rule) + "\n")
			} else {
				s.WriteString(normalItemStyle.Render(rule) + "\n")
			}
		}
	}

	if doc.Permissions != nil && doc.Permissions.DefaultMode != "" {
		s.WriteString("\n" + detailContentStyle.Render("默认模式: "+doc.Permissions.DefaultMode) + "\n")
	}

	s.WriteString("\n")
	helps := []string{
		"↑/↓: 选择",
		"←/→: 切换列表",
		"a: 添加",
		"d: 删除",
		"ESC: 返回",
	}
	s.WriteString(helpStyle.Render(strings.Join(helps, " • ")))

	return s.String()
}

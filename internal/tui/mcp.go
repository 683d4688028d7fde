package tui

import (
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/YangQing-Lin/cc-config-cli/internal/mcp"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-shellwords"
)

// MCP 管理视图分发
func (m Model) viewMcp() string {
	switch m.mcpMode {
	case "add", "edit":
		return m.viewMcpForm()
	case "delete":
		return m.viewMcpDelete()
	default:
		return m.viewMcpList()
	}
}

func (m Model) handleMcpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mcpMode {
	case "add", "edit":
		handled, newModel, cmd := m.handleMcpFormKeys(msg)
		if handled {
			return newModel, cmd
		}
		return m.updateMcpInputs(msg)
	case "delete":
		return m.handleMcpDeleteKeys(msg)
	default:
		return m.handleMcpListKeys(msg)
	}
}

// MCP 列表视图
func (m Model) viewMcpList() string {
	var s strings.Builder

	title := titleStyle.Render(fmt.Sprintf("CC Config v%s - MCP 服务器管理", m.getVersion()))
	s.WriteString(title + "\n\n")
	s.WriteString(m.statusLine())

	if len(m.servers) == 0 {
		s.WriteString("暂无 MCP 服务器，按 'a' 添加新服务器\n\n")
	} else {
		for i, server := range m.servers {
			isCursor := i == m.mcpCursor

			marker := "○"
			if isCursor {
				marker = "●"
			}
			styledMarker := normalItemStyle.Foreground(primaryColor).Render(marker)

			nameText := server.Name
			if isCursor {
				nameText = selectedItemStyle.Render(nameText)
			} else {
				nameText = normalItemStyle.Render(nameText)
			}

			detail := server.Config.URL
			if detail == "" {
				detail = strings.Join(append([]string{server.Config.Command}, server.Config.Args...), " ")
			}

			line := fmt.Sprintf("%s %s %s", styledMarker, nameText, transportBadge(server.Config.Transport()))
			s.WriteString(line + "\n")
			s.WriteString("  " + detailContentStyle.Render(detail) + "\n\n")
		}
	}

	s.WriteString("\n")
	helps := []string{
		"↑/↓: 选择",
		"a: 添加",
		"e: 编辑",
		"d: 删除",
		"r: 刷新",
		"ESC: 返回",
	}
	s.WriteString(helpStyle.Render(strings.Join(helps, " • ")))

	return s.String()
}

func (m Model) handleMcpListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = "home"
		m.message = ""
		m.err = nil
	case "up", "k":
		if len(m.servers) > 0 {
			if m.mcpCursor > 0 {
				m.mcpCursor--
			} else {
				m.mcpCursor = len(m.servers) - 1
			}
		}
	case "down", "j":
		if len(m.servers) > 0 {
			if m.mcpCursor < len(m.servers)-1 {
				m.mcpCursor++
			} else {
				m.mcpCursor = 0
			}
		}
	case "a":
		m.mcpMode = "add"
		m.selectedMcp = nil
		m.initMcpForm(nil)
		return m, textinput.Blink
	case "e":
		if len(m.servers) > 0 {
			server := m.servers[m.mcpCursor]
			m.mcpMode = "edit"
			m.selectedMcp = &server
			m.initMcpForm(&server)
			return m, textinput.Blink
		}
	case "d":
		if len(m.servers) > 0 {
			m.selectedMcp = &m.servers[m.mcpCursor]
			m.mcpMode = "delete"
			m.message = ""
			m.err = nil
		}
	case "r":
		m.refreshServers()
		m.message = "列表已刷新"
		m.err = nil
	}
	return m, nil
}

// 初始化 MCP 表单
func (m *Model) initMcpForm(server *mcp.Server) {
	m.mcpInputs = make([]textinput.Model, 4)
	m.mcpFocusIndex = 0

	// 名称
	m.mcpInputs[0] = textinput.New()
	m.mcpInputs[0].Placeholder = "例如: github"
	m.mcpInputs[0].Focus()
	m.mcpInputs[0].CharLimit = 50
	m.mcpInputs[0].Width = 50

	// 类型（留空自动推断）
	m.mcpInputs[1] = textinput.New()
	m.mcpInputs[1].Placeholder = "stdio / sse / http (留空自动推断)"
	m.mcpInputs[1].CharLimit = 10
	m.mcpInputs[1].Width = 50

	// 命令行（shell 语法，含参数）
	m.mcpInputs[2] = textinput.New()
	m.mcpInputs[2].Placeholder = "例如: npx -y @modelcontextprotocol/server-github"
	m.mcpInputs[2].CharLimit = 500
	m.mcpInputs[2].Width = 50

	// URL
	m.mcpInputs[3] = textinput.New()
	m.mcpInputs[3].Placeholder = "https://example.com/mcp"
	m.mcpInputs[3].CharLimit = 200
	m.mcpInputs[3].Width = 50

	if server != nil {
		m.mcpInputs[0].SetValue(server.Name)
		m.mcpInputs[1].SetValue(server.Config.Type)
		commandLine := strings.Join(append([]string{server.Config.Command}, server.Config.Args...), " ")
		m.mcpInputs[2].SetValue(strings.TrimSpace(commandLine))
		m.mcpInputs[3].SetValue(server.Config.URL)
		// 编辑时名称不可改
		m.mcpInputs[0].Blur()
		m.mcpFocusIndex = 1
		m.mcpInputs[1].Focus()
	}
}

func (m Model) handleMcpFormKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mcpMode = "list"
		m.message = ""
		m.err = nil
		return true, m, nil
	case "tab", "shift+tab", "up", "down":
		first := 0
		if m.mcpMode == "edit" {
			first = 1 // 编辑时跳过名称
		}
		if msg.String() == "up" || msg.String() == "shift+tab" {
			m.mcpFocusIndex--
		} else {
			m.mcpFocusIndex++
		}
		if m.mcpFocusIndex >= len(m.mcpInputs) {
			m.mcpFocusIndex = first
		} else if m.mcpFocusIndex < first {
			m.mcpFocusIndex = len(m.mcpInputs) - 1
		}
		cmds := make([]tea.Cmd, len(m.mcpInputs))
		for i := range m.mcpInputs {
			if i == m.mcpFocusIndex {
				cmds[i] = m.mcpInputs[i].Focus()
			} else {
				m.mcpInputs[i].Blur()
			}
		}
		return true, m, tea.Batch(cmds...)
	case "enter", "ctrl+s":
		m.submitMcpForm()
		return true, m, nil
	}
	return false, m, nil
}

func (m *Model) submitMcpForm() {
	name := strings.TrimSpace(m.mcpInputs[0].Value())
	serverType := strings.TrimSpace(m.mcpInputs[1].Value())
	commandLine := strings.TrimSpace(m.mcpInputs[2].Value())
	url := strings.TrimSpace(m.mcpInputs[3].Value())

	if name == "" {
		m.err = fmt.Errorf("%s", i18n.T("error.name_required"))
		return
	}

	cfg := mcp.ServerConfig{
		Type: serverType,
		URL:  url,
	}
	if commandLine != "" {
		parts, err := shellwords.Parse(commandLine)
		if err != nil {
			m.err = fmt.Errorf("命令解析失败: %w", err)
			return
		}
		if len(parts) > 0 {
			cfg.Command = parts[0]
			cfg.Args = parts[1:]
		}
	}

	if err := mcp.Validate(name, cfg); err != nil {
		m.err = err
		return
	}

	var err error
	if m.mcpMode == "edit" {
		err = m.registry.Update(name, cfg)
	} else {
		err = m.registry.Add(name, cfg)
	}

	if err != nil {
		m.err = err
		m.message = ""
	} else {
		if m.mcpMode == "edit" {
			m.message = i18n.T("mcp_updated")
		} else {
			m.message = i18n.T("success.mcp_added")
		}
		m.err = nil
		m.mcpMode = "list"
		m.refreshServers()
	}
}

func (m Model) viewMcpForm() string {
	var s strings.Builder

	if m.mcpMode == "add" {
		s.WriteString(titleStyle.Render("添加 MCP 服务器") + "\n\n")
	} else {
		s.WriteString(titleStyle.Render("编辑 MCP 服务器") + "\n\n")
	}

	if m.err != nil {
		s.WriteString(errorMessageStyle.Render("✗ "+m.err.Error()) + "\n\n")
	}

	labels := []string{"名称", "类型 (可选)", "命令 (stdio)", "URL (远程)"}
	for i, label := range labels {
		s.WriteString(inputLabelStyle.Render(label+":") + "\n")
		if i == m.mcpFocusIndex {
			s.WriteString(inputBoxStyle.Render(m.mcpInputs[i].View()) + "\n\n")
		} else {
			s.WriteString(m.mcpInputs[i].View() + "\n\n")
		}
	}

	s.WriteString(buttonStyle.Render("保存 (Enter)") + " ")
	s.WriteString(cancelButtonStyle.Render("取消 (ESC)") + "\n\n")
	s.WriteString(helpStyle.Render("Tab: 下一项 • Shift+Tab: 上一项 • 命令或 URL 填其一"))

	return s.String()
}

// 删除确认
func (m Model) handleMcpDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.selectedMcp != nil {
			if err := m.registry.Remove(m.selectedMcp.Name); err != nil {
				m.err = err
				m.message = ""
			} else {
				m.message = i18n.T("success.mcp_deleted")
				m.err = nil
				m.refreshServers()
			}
		}
		m.mcpMode = "list"
		m.selectedMcp = nil
	case "n", "N", "esc":
		m.mcpMode = "list"
		m.selectedMcp = nil
	}
	return m, nil
}

func (m Model) viewMcpDelete() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("确认删除") + "\n\n")

	name := ""
	if m.selectedMcp != nil {
		name = m.selectedMcp.Name
	}
	s.WriteString(i18n.T("confirm.delete_mcp", name) + "\n\n")

	warning := errorMessageStyle.Render("⚠ 此操作无法撤销！")
	s.WriteString(warning + "\n\n")

	s.WriteString(deleteButtonStyle.Render("删除 (Y)") + " ")
	s.WriteString(cancelButtonStyle.Render("取消 (N)"))

	return s.String()
}

func (m Model) updateMcpInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.mcpInputs))
	for i := range m.mcpInputs {
		m.mcpInputs[i], cmds[i] = m.mcpInputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

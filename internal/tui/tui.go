package tui

import (
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/YangQing-Lin/cc-config-cli/internal/mcp"
	"github.com/YangQing-Lin/cc-config-cli/internal/session"
	"github.com/YangQing-Lin/cc-config-cli/internal/settings"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ReloadMsg 外部修改触发的刷新消息（由监听回调通过 Program.Send 投递）
type ReloadMsg struct{}

// Model TUI 主模型
type Model struct {
	manager  *settings.Manager
	registry *mcp.Registry
	browser  *session.Browser

	width   int
	height  int
	err     error
	message string
	warning string
	mode    string // "home", "model_edit", "permissions", "mcp", "projects", "sessions"

	// 设置总览
	homeCursor int

	// 模型编辑表单
	inputs     []textinput.Model
	focusIndex int

	// 权限编辑器
	permCursor int
	permList   string // "allow", "deny", "ask"
	permMode   string // "list", "add"

	// MCP 管理
	servers       []mcp.Server
	mcpCursor     int
	mcpMode       string // "list", "add", "edit", "delete"
	mcpInputs     []textinput.Model
	mcpFocusIndex int
	selectedMcp   *mcp.Server

	// 会话浏览
	projects       []session.Project
	projectCursor  int
	currentProject string
	sessions       []session.Session
	sessionCursor  int
}

// New 创建新的 TUI 模型
func New(manager *settings.Manager) Model {
	dir := manager.Dir()
	m := Model{
		manager:  manager,
		registry: mcp.NewRegistry(claude.RegistryPath(dir)),
		browser:  session.NewBrowser(dir),
		mode:     "home",
		permList: "allow",
		permMode: "list",
		mcpMode:  "list",
	}
	m.drainNotices()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ReloadMsg:
		// 磁盘上的配置被外部修改，内存状态已由监听回调重载
		m.message = i18n.T("watch_reloaded")
		m.err = nil
		m.drainNotices()
		if m.mode == "mcp" {
			m.refreshServers()
		}
		if m.mode == "projects" {
			m.refreshProjects()
		}
		if m.mode == "sessions" {
			m.refreshSessions()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case "home":
			return m.handleHomeKeys(msg)
		case "model_edit":
			handled, newModel, cmd := m.handleModelFormKeys(msg)
			if handled {
				return newModel, cmd
			}
			return m.updateInputs(msg)
		case "permissions":
			return m.handlePermissionKeys(msg)
		case "mcp":
			return m.handleMcpKeys(msg)
		case "projects":
			return m.handleProjectKeys(msg)
		case "sessions":
			return m.handleSessionKeys(msg)
		}
	}

	return m, nil
}

func (m Model) View() string {
	switch m.mode {
	case "home":
		return m.viewHome()
	case "model_edit":
		return m.viewModelForm()
	case "permissions":
		return m.viewPermissions()
	case "mcp":
		return m.viewMcp()
	case "projects":
		return m.viewProjects()
	case "sessions":
		return m.viewSessions()
	}
	return ""
}

// 设置总览中可切换的布尔项
var homeToggles = []struct {
	label string
	get   func(*claude.Settings) *bool
	set   func(*claude.Settings, *bool)
}{
	{
		label: "思考模式 (alwaysThinkingEnabled)",
		get:   func(s *claude.Settings) *bool { return s.AlwaysThinkingEnabled },
		set:   func(s *claude.Settings, v *bool) { s.AlwaysThinkingEnabled = v },
	},
	{
		label: "提交署名 (includeCoAuthoredBy)",
		get:   func(s *claude.Settings) *bool { return s.IncludeCoAuthoredBy },
		set:   func(s *claude.Settings, v *bool) { s.IncludeCoAuthoredBy = v },
	},
	{
		label: "加载提示 (spinnerTipsEnabled)",
		get:   func(s *claude.Settings) *bool { return s.SpinnerTipsEnabled },
		set:   func(s *claude.Settings, v *bool) { s.SpinnerTipsEnabled = v },
	},
}

func (m Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case "down", "j":
		if m.homeCursor < len(homeToggles)-1 {
			m.homeCursor++
		}
	case "enter", " ":
		// 三态切换: 未设置 -> 开 -> 关 -> 未设置
		toggle := homeToggles[m.homeCursor]
		err := m.manager.Settings.Mutate(func(s *claude.Settings) {
			cur := toggle.get(s)
			switch {
			case cur == nil:
				v := true
				toggle.set(s, &v)
			case *cur:
				v := false
				toggle.set(s, &v)
			default:
				toggle.set(s, nil)
			}
		})
		if err != nil {
			m.warning = i18n.T("warning.write_failed")
		} else {
			m.message = i18n.T("success.setting_updated")
			m.warning = ""
		}
		m.err = nil
	case "m":
		m.mode = "model_edit"
		m.initModelForm()
		return m, textinput.Blink
	case "p":
		m.mode = "permissions"
		m.permList = "allow"
		m.permMode = "list"
		m.permCursor = 0
		m.message = ""
		m.err = nil
	case "s":
		m.mode = "mcp"
		m.mcpMode = "list"
		m.message = ""
		m.err = nil
		m.refreshServers()
	case "l":
		m.mode = "projects"
		m.message = ""
		m.err = nil
		m.refreshProjects()
	case "r":
		m.manager.ReloadAll()
		m.drainNotices()
		m.message = i18n.T("settings_reloaded")
		m.err = nil
	}
	return m, nil
}

func (m Model) viewHome() string {
	var s strings.Builder

	title := titleStyle.Render(fmt.Sprintf("CC Config v%s - Claude 配置中心", m.getVersion()))
	s.WriteString(title + "\n\n")

	s.WriteString(m.statusLine())

	doc := m.manager.Settings.Get()

	model := doc.Model
	if model == "" {
		model = "(默认)"
	}
	s.WriteString(detailTitleStyle.Render("模型: ") + model + "\n")

	outputStyle := doc.OutputStyle
	if outputStyle == "" {
		outputStyle = "(默认)"
	}
	s.WriteString(detailTitleStyle.Render("输出风格: ") + outputStyle + "\n")

	if doc.CleanupPeriodDays != nil {
		s.WriteString(detailTitleStyle.Render("会话保留: ") + fmt.Sprintf("%d 天", *doc.CleanupPeriodDays) + "\n")
	}
	s.WriteString("\n")

	for i, toggle := range homeToggles {
		line := fmt.Sprintf("%s %s", boolMark(toggle.get(doc)), toggle.label)
		if i == m.homeCursor {
			s.WriteString(selectedItemStyle.Render(line) + "\n")
		} else {
			s.WriteString(normalItemStyle.Render(line) + "\n")
		}
	}
	s.WriteString("\n")

	if perms := doc.Permissions; perms != nil {
		s.WriteString(detailContentStyle.Render(fmt.Sprintf(
			"权限规则: %d 允许 / %d 拒绝 / %d 询问",
			len(perms.Allow), len(perms.Deny), len(perms.Ask))) + "\n")
	}
	if len(doc.Env) > 0 {
		s.WriteString(detailContentStyle.Render(fmt.Sprintf("环境变量: %d 项", len(doc.Env))) + "\n")
	}
	if len(doc.Extra) > 0 {
		s.WriteString(detailContentStyle.Render(fmt.Sprintf("未识别字段: %d 项（原样保留）", len(doc.Extra))) + "\n")
	}

	s.WriteString("\n")
	helps := []string{
		"↑/↓: 选择",
		"Enter: 切换开关",
		"m: 模型",
		"p: 权限",
		"s: MCP",
		"l: 会话",
		"r: 重载",
		"q: 退出",
	}
	s.WriteString(helpStyle.Render(strings.Join(helps, " • ")))

	return s.String()
}

// statusLine 渲染消息/警告/错误行
func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return errorMessageStyle.Render("✗ "+m.err.Error()) + "\n\n"
	case m.warning != "":
		return warningMessageStyle.Render("⚠ "+m.warning) + "\n\n"
	case m.message != "":
		return successMessageStyle.Render("✓ "+m.message) + "\n\n"
	}
	return ""
}

// 模型编辑表单
func (m *Model) initModelForm() {
	doc := m.manager.Settings.Get()

	m.inputs = make([]textinput.Model, 2)
	m.focusIndex = 0

	m.inputs[0] = textinput.New()
	m.inputs[0].Placeholder = "例如: claude-sonnet-4-5"
	m.inputs[0].SetValue(doc.Model)
	m.inputs[0].Focus()
	m.inputs[0].CharLimit = 100
	m.inputs[0].Width = 50

	m.inputs[1] = textinput.New()
	m.inputs[1].Placeholder = "例如: Explanatory"
	m.inputs[1].SetValue(doc.OutputStyle)
	m.inputs[1].CharLimit = 100
	m.inputs[1].Width = 50
}

func (m Model) handleModelFormKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = "home"
		m.message = ""
		m.err = nil
		return true, m, nil
	case "tab", "shift+tab", "up", "down":
		if msg.String() == "up" || msg.String() == "shift+tab" {
			m.focusIndex--
		} else {
			m.focusIndex++
		}
		if m.focusIndex >= len(m.inputs) {
			m.focusIndex = 0
		} else if m.focusIndex < 0 {
			m.focusIndex = len(m.inputs) - 1
		}
		cmds := make([]tea.Cmd, len(m.inputs))
		for i := range m.inputs {
			if i == m.focusIndex {
				cmds[i] = m.inputs[i].Focus()
			} else {
				m.inputs[i].Blur()
			}
		}
		return true, m, tea.Batch(cmds...)
	case "enter", "ctrl+s":
		model := strings.TrimSpace(m.inputs[0].Value())
		outputStyle := strings.TrimSpace(m.inputs[1].Value())
		err := m.manager.Settings.Mutate(func(s *claude.Settings) {
			s.Model = model
			s.OutputStyle = outputStyle
		})
		if err != nil {
			m.warning = i18n.T("warning.write_failed")
		} else {
			m.message = i18n.T("success.setting_updated")
			m.warning = ""
		}
		m.err = nil
		m.mode = "home"
		return true, m, nil
	}
	return false, m, nil
}

func (m Model) viewModelForm() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("编辑模型设置") + "\n\n")

	if m.err != nil {
		s.WriteString(errorMessageStyle.Render("✗ "+m.err.Error()) + "\n\n")
	}

	labels := []string{"模型", "输出风格"}
	for i, label := range labels {
		s.WriteString(inputLabelStyle.Render(label+":") + "\n")
		if i == m.focusIndex {
			s.WriteString(inputBoxStyle.Render(m.inputs[i].View()) + "\n\n")
		} else {
			s.WriteString(m.inputs[i].View() + "\n\n")
		}
	}

	s.WriteString(buttonStyle.Render("保存 (Enter)") + " ")
	s.WriteString(cancelButtonStyle.Render("取消 (ESC)") + "\n\n")
	s.WriteString(helpStyle.Render("Tab: 下一项 • Shift+Tab: 上一项"))

	return s.String()
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

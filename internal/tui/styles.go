package tui

import "github.com/charmbracelet/lipgloss"

var (
	// 颜色定义
	primaryColor   = lipgloss.Color("#007AFF")
	successColor   = lipgloss.Color("#34C759")
	dangerColor    = lipgloss.Color("#FF3B30")
	warningColor   = lipgloss.Color("#FF9500")
	subtleColor    = lipgloss.Color("#8E8E93")
	bgColor        = lipgloss.Color("#FFFFFF")
	textColor      = lipgloss.Color("#000000")
	mutedTextColor = lipgloss.Color("#6C6C70")

	// 标题样式
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	// 帮助文本样式
	helpStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	// 选中项样式
	selectedItemStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(bgColor).
				Bold(true).
				Padding(0, 1)

	// 普通项样式
	normalItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// 详情标题样式
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)

	// 详情内容样式
	detailContentStyle = lipgloss.NewStyle().
				Foreground(mutedTextColor)

	// 成功消息样式
	successMessageStyle = lipgloss.NewStyle().
				Foreground(successColor).
				Bold(true)

	// 警告消息样式
	warningMessageStyle = lipgloss.NewStyle().
				Foreground(warningColor).
				Bold(true)

	// 错误消息样式
	errorMessageStyle = lipgloss.NewStyle().
				Foreground(dangerColor).
				Bold(true)

	// 输入框焦点边框样式
	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)

	// 输入标签样式
	inputLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// 按钮样式
	buttonStyle = lipgloss.NewStyle().
			Foreground(bgColor).
			Background(primaryColor).
			Padding(0, 2).
			Bold(true)

	// 取消按钮样式
	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(bgColor).
				Background(subtleColor).
				Padding(0, 2)

	// 删除按钮样式
	deleteButtonStyle = lipgloss.NewStyle().
				Foreground(bgColor).
				Background(dangerColor).
				Padding(0, 2).
				Bold(true)

	// 传输方式徽章颜色映射
	transportColors = map[string]lipgloss.Color{
		"stdio": successColor,
		"sse":   warningColor,
		"http":  lipgloss.Color("#5AC8FA"),
	}

	// 徽章样式
	badgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)
)

// transportBadge 根据传输方式返回带样式的徽章
func transportBadge(transport string) string {
	color, ok := transportColors[transport]
	if !ok {
		color = subtleColor
	}
	return badgeStyle.Foreground(color).Render("[" + transport + "]")
}

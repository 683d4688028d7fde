package i18n

import (
	"fmt"

	"github.com/YangQing-Lin/cc-config-cli/internal/prefs"
)

var currentLanguage = "zh" // 默认中文

// Message 多语言消息定义
var messages = map[string]map[string]string{
	"en": {
		// Common
		"success": "Success",
		"failed":  "Failed",
		"error":   "Error",
		"warning": "Warning",

		// Settings operations
		"setting_updated":   "Setting updated successfully",
		"setting_removed":   "Setting removed successfully",
		"setting_not_found": "Setting not found",
		"settings_reloaded": "Settings reloaded from disk",

		// MCP operations
		"mcp_added":     "MCP server added successfully",
		"mcp_updated":   "MCP server updated successfully",
		"mcp_deleted":   "MCP server deleted successfully",
		"mcp_not_found": "MCP server not found",

		// Backup operations
		"backup_created":  "Backup created successfully",
		"backup_restored": "Backup restored successfully",
		"backup_empty":    "No backups found",

		// Cleanup operations
		"cleanup_nothing":  "No sessions to clean up",
		"cleanup_done":     "Cleanup complete",
		"cleanup_planned":  "Sessions eligible for cleanup",
		"cleanup_aborted":  "Cleanup aborted",

		// File operations
		"file_not_found":    "File not found",
		"directory_opened":  "Opened configuration directory in file manager",
		"watch_started":     "Watching configuration directory for changes",
		"watch_reloaded":    "Configuration reloaded after external change",

		// TUI specific
		"error.name_required":      "Server name is required",
		"error.command_required":   "Command is required for stdio servers",
		"error.url_required":       "URL is required for remote servers",
		"error.invalid_config":     "Invalid configuration",
		"error.update_failed":      "Failed to update",
		"error.add_failed":         "Failed to add",
		"error.delete_failed":      "Failed to delete",
		"success.setting_updated":  "Setting updated",
		"success.mcp_added":        "MCP server added",
		"success.mcp_deleted":      "MCP server deleted",
		"warning.write_failed":     "Failed to write settings, changes kept in memory",
		"confirm.delete_mcp":       "Are you sure you want to delete MCP server '%s'?",
		"confirm.cleanup_sessions": "Delete %d sessions (%s)?",
	},
	"zh": {
		// Common
		"success": "成功",
		"failed":  "失败",
		"error":   "错误",
		"warning": "警告",

		// Settings operations
		"setting_updated":   "设置更新成功",
		"setting_removed":   "设置删除成功",
		"setting_not_found": "未找到设置项",
		"settings_reloaded": "已从磁盘重新加载设置",

		// MCP operations
		"mcp_added":     "MCP 服务器添加成功",
		"mcp_updated":   "MCP 服务器更新成功",
		"mcp_deleted":   "MCP 服务器删除成功",
		"mcp_not_found": "未找到 MCP 服务器",

		// Backup operations
		"backup_created":  "备份创建成功",
		"backup_restored": "备份恢复成功",
		"backup_empty":    "没有可用的备份",

		// Cleanup operations
		"cleanup_nothing":  "没有需要清理的会话",
		"cleanup_done":     "清理完成",
		"cleanup_planned":  "符合清理条件的会话",
		"cleanup_aborted":  "已取消清理",

		// File operations
		"file_not_found":    "文件未找到",
		"directory_opened":  "已在文件管理器中打开配置目录",
		"watch_started":     "正在监听配置目录变化",
		"watch_reloaded":    "检测到外部修改，已重新加载配置",

		// TUI specific
		"error.name_required":      "服务器名称不能为空",
		"error.command_required":   "stdio 服务器必须填写命令",
		"error.url_required":       "远程服务器必须填写 URL",
		"error.invalid_config":     "配置格式无效",
		"error.update_failed":      "更新失败",
		"error.add_failed":         "添加失败",
		"error.delete_failed":      "删除失败",
		"success.setting_updated":  "设置已更新",
		"success.mcp_added":        "MCP 服务器已添加",
		"success.mcp_deleted":      "MCP 服务器已删除",
		"warning.write_failed":     "写入设置失败，改动保留在内存中",
		"confirm.delete_mcp":       "确定要删除 MCP 服务器 '%s' 吗？",
		"confirm.cleanup_sessions": "删除 %d 个会话（%s）？",
	},
}

// Init 初始化语言设置
func Init() error {
	manager, err := prefs.NewManager()
	if err != nil {
		// 如果加载设置失败，使用默认语言
		return nil
	}

	lang := manager.GetLanguage()
	if lang == "en" || lang == "zh" {
		currentLanguage = lang
	}

	return nil
}

// SetLanguage 设置当前语言
func SetLanguage(lang string) {
	if lang == "en" || lang == "zh" {
		currentLanguage = lang
	}
}

// GetLanguage 获取当前语言
func GetLanguage() string {
	return currentLanguage
}

// T 翻译消息 (Translation)
func T(key string, args ...interface{}) string {
	langMessages, ok := messages[currentLanguage]
	if !ok {
		langMessages = messages["zh"] // 降级到中文
	}

	msg, ok := langMessages[key]
	if !ok {
		return key // 如果找不到翻译，返回 key 本身
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}

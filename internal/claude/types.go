package claude

import (
	"encoding/json"
)

// HookCommand 钩子条目：在匹配事件时执行的一条命令
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// HookGroup 同一事件下按 matcher 分组的钩子
type HookGroup struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// Permissions 权限配置
type Permissions struct {
	Allow                 []string `json:"allow,omitempty"`
	Deny                  []string `json:"deny,omitempty"`
	Ask                   []string `json:"ask,omitempty"`
	DefaultMode           string   `json:"defaultMode,omitempty"`
	AdditionalDirectories []string `json:"additionalDirectories,omitempty"`
}

// StatusLine 状态栏配置
type StatusLine struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Padding *int   `json:"padding,omitempty"`
}

// Settings 主设置文档结构。
//
// 文档分两层：已建模的类型化字段，以及 Extra 中原样保留的未知字段。
// 外部 CLI 写入的任何本工具不认识的键都必须原封不动地往返，
// 否则一次保存就会丢掉别人的数据。
type Settings struct {
	Model                 string                 `json:"model,omitempty"`
	Env                   map[string]string      `json:"env,omitempty"`
	Permissions           *Permissions           `json:"permissions,omitempty"`
	Hooks                 map[string][]HookGroup `json:"hooks,omitempty"`
	StatusLine            *StatusLine            `json:"statusLine,omitempty"`
	OutputStyle           string                 `json:"outputStyle,omitempty"`
	AlwaysThinkingEnabled *bool                  `json:"alwaysThinkingEnabled,omitempty"`
	IncludeCoAuthoredBy   *bool                  `json:"includeCoAuthoredBy,omitempty"`
	CleanupPeriodDays     *int                   `json:"cleanupPeriodDays,omitempty"`
	SpinnerTipsEnabled    *bool                  `json:"spinnerTipsEnabled,omitempty"`
	Extra                 map[string]interface{} `json:"-"`
}

// UnmarshalJSON 自定义反序列化，保存未知字段。
//
// 每个已知字段独立解析：某个键的形状不符合预期时只放弃该字段的类型化表示，
// 把原始值归入 Extra，不让整个文档解析失败。
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Settings{Extra: make(map[string]interface{})}

	for key, value := range raw {
		if s.decodeKnownField(key, value) {
			continue
		}

		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		s.Extra[key] = v
	}

	return nil
}

// decodeKnownField 尝试按类型化字段解析一个键，成功返回 true
func (s *Settings) decodeKnownField(key string, value json.RawMessage) bool {
	switch key {
	case "model":
		return json.Unmarshal(value, &s.Model) == nil
	case "env":
		return json.Unmarshal(value, &s.Env) == nil
	case "permissions":
		return json.Unmarshal(value, &s.Permissions) == nil
	case "hooks":
		return json.Unmarshal(value, &s.Hooks) == nil
	case "statusLine":
		return json.Unmarshal(value, &s.StatusLine) == nil
	case "outputStyle":
		return json.Unmarshal(value, &s.OutputStyle) == nil
	case "alwaysThinkingEnabled":
		return json.Unmarshal(value, &s.AlwaysThinkingEnabled) == nil
	case "includeCoAuthoredBy":
		return json.Unmarshal(value, &s.IncludeCoAuthoredBy) == nil
	case "cleanupPeriodDays":
		return json.Unmarshal(value, &s.CleanupPeriodDays) == nil
	case "spinnerTipsEnabled":
		return json.Unmarshal(value, &s.SpinnerTipsEnabled) == nil
	default:
		return false
	}
}

// MarshalJSON 自定义序列化，合并未知字段。
// 同名键冲突时以类型化字段为准。
func (s *Settings) MarshalJSON() ([]byte, error) {
	result := make(map[string]interface{})

	// 1. 先添加未知字段
	for k, v := range s.Extra {
		result[k] = v
	}

	// 2. 添加已知字段（覆盖同名字段）
	type Alias Settings
	data, err := json.Marshal((*Alias)(s))
	if err != nil {
		return nil, err
	}
	var tempMap map[string]interface{}
	if err := json.Unmarshal(data, &tempMap); err != nil {
		return nil, err
	}
	for k, v := range tempMap {
		result[k] = v
	}

	return json.Marshal(result)
}

// EnsurePermissions 确保权限段已初始化
func (s *Settings) EnsurePermissions() *Permissions {
	if s.Permissions == nil {
		s.Permissions = &Permissions{}
	}
	return s.Permissions
}

// EnsureEnv 确保环境变量表已初始化
func (s *Settings) EnsureEnv() map[string]string {
	if s.Env == nil {
		s.Env = make(map[string]string)
	}
	return s.Env
}

// EnsureHooks 确保钩子表已初始化
func (s *Settings) EnsureHooks() map[string][]HookGroup {
	if s.Hooks == nil {
		s.Hooks = make(map[string][]HookGroup)
	}
	return s.Hooks
}

// HookEvents 已知的钩子事件类型
var HookEvents = []string{
	"PreToolUse",
	"PostToolUse",
	"UserPromptSubmit",
	"Notification",
	"Stop",
	"SubagentStop",
	"PreCompact",
	"SessionStart",
	"SessionEnd",
}

// IsHookEvent 判断是否为已知钩子事件
func IsHookEvent(event string) bool {
	for _, e := range HookEvents {
		if e == event {
			return true
		}
	}
	return false
}

package claude

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSettingsUnmarshalKnownFields(t *testing.T) {
	data := []byte(`{
		"model": "sonnet",
		"env": {"FOO": "bar"},
		"permissions": {"allow": ["Bash(ls:*)"], "deny": ["Read(.env)"], "defaultMode": "acceptEdits"},
		"hooks": {
			"PreToolUse": [
				{"matcher": "Bash", "hooks": [{"type": "command", "command": "echo hi", "timeout": 5}]}
			]
		},
		"statusLine": {"type": "command", "command": "~/bin/hud.sh"},
		"alwaysThinkingEnabled": true,
		"cleanupPeriodDays": 14
	}`)

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	if s.Model != "sonnet" {
		t.Errorf("model = %q", s.Model)
	}
	if s.Env["FOO"] != "bar" {
		t.Errorf("env = %v", s.Env)
	}
	if s.Permissions == nil || len(s.Permissions.Allow) != 1 || s.Permissions.Allow[0] != "Bash(ls:*)" {
		t.Errorf("permissions = %+v", s.Permissions)
	}
	if s.Permissions.DefaultMode != "acceptEdits" {
		t.Errorf("defaultMode = %q", s.Permissions.DefaultMode)
	}
	groups := s.Hooks["PreToolUse"]
	if len(groups) != 1 || groups[0].Matcher != "Bash" || len(groups[0].Hooks) != 1 {
		t.Fatalf("hooks = %+v", s.Hooks)
	}
	if groups[0].Hooks[0].Command != "echo hi" || groups[0].Hooks[0].Timeout != 5 {
		t.Errorf("hook command = %+v", groups[0].Hooks[0])
	}
	if s.StatusLine == nil || s.StatusLine.Command != "~/bin/hud.sh" {
		t.Errorf("statusLine = %+v", s.StatusLine)
	}
	if s.AlwaysThinkingEnabled == nil || !*s.AlwaysThinkingEnabled {
		t.Errorf("alwaysThinkingEnabled = %v", s.AlwaysThinkingEnabled)
	}
	if s.CleanupPeriodDays == nil || *s.CleanupPeriodDays != 14 {
		t.Errorf("cleanupPeriodDays = %v", s.CleanupPeriodDays)
	}
	if len(s.Extra) != 0 {
		t.Errorf("不应有未知字段: %v", s.Extra)
	}
}

// TestSettingsRoundTripUnknownFields 未知键必须原样往返
func TestSettingsRoundTripUnknownFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown scalar and object",
			doc:  `{"model":"sonnet","futureField":{"x":1},"feedbackSurveyState":{"lastShownTime":1700000000}}`,
		},
		{
			name: "unknown nested arrays",
			doc:  `{"enabledPlugins":["a@b","c@d"],"tipsHistory":{"new-user-warmup":1}}`,
		},
		{
			name: "empty document",
			doc:  `{}`,
		},
		{
			name: "only unknown keys",
			doc:  `{"numStartups":42,"installMethod":"unknown"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Settings
			if err := json.Unmarshal([]byte(tt.doc), &s); err != nil {
				t.Fatalf("解析失败: %v", err)
			}

			out, err := json.Marshal(&s)
			if err != nil {
				t.Fatalf("序列化失败: %v", err)
			}

			var want, got map[string]interface{}
			if err := json.Unmarshal([]byte(tt.doc), &want); err != nil {
				t.Fatalf("解析原文档失败: %v", err)
			}
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("解析输出失败: %v", err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Fatalf("往返结果不一致\n期望: %v\n实际: %v", want, got)
			}
		})
	}
}

// TestSettingsMalformedKnownField 已知键形状不对时只降级该字段，不丢数据
func TestSettingsMalformedKnownField(t *testing.T) {
	doc := `{"model":{"oops":true},"env":{"GOOD":"yes"}}`

	var s Settings
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	// 类型化字段降级为缺省
	if s.Model != "" {
		t.Errorf("model 应为空: %q", s.Model)
	}
	// 原始值仍保留在 Extra 中
	if _, ok := s.Extra["model"]; !ok {
		t.Fatal("形状不符的 model 应保留在 Extra 中")
	}
	if s.Env["GOOD"] != "yes" {
		t.Errorf("env = %v", s.Env)
	}

	// 往返后 model 原值仍在
	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("解析输出失败: %v", err)
	}
	if m, ok := got["model"].(map[string]interface{}); !ok || m["oops"] != true {
		t.Fatalf("model 原值丢失: %v", got["model"])
	}
}

// TestSettingsTypedWinsOnCollision 同名键冲突时类型化字段覆盖 Extra
func TestSettingsTypedWinsOnCollision(t *testing.T) {
	s := Settings{
		Model: "opus",
		Extra: map[string]interface{}{"model": "stale-value"},
	}

	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("解析输出失败: %v", err)
	}
	if got["model"] != "opus" {
		t.Fatalf("冲突应以类型化字段为准: %v", got["model"])
	}
}

func TestSettingsMalformedDocument(t *testing.T) {
	var s Settings
	if err := json.Unmarshal([]byte(`{truncated`), &s); err == nil {
		t.Fatal("期望顶层解析失败")
	}
}

func TestEnsureHelpers(t *testing.T) {
	var s Settings

	p := s.EnsurePermissions()
	if p == nil || s.Permissions == nil {
		t.Fatal("EnsurePermissions 未初始化")
	}
	env := s.EnsureEnv()
	env["A"] = "1"
	if s.Env["A"] != "1" {
		t.Fatal("EnsureEnv 未初始化")
	}
	hooks := s.EnsureHooks()
	hooks["Stop"] = []HookGroup{{}}
	if len(s.Hooks["Stop"]) != 1 {
		t.Fatal("EnsureHooks 未初始化")
	}
}

func TestIsHookEvent(t *testing.T) {
	if !IsHookEvent("PreToolUse") {
		t.Error("PreToolUse 应为已知事件")
	}
	if IsHookEvent("NotAnEvent") {
		t.Error("NotAnEvent 不应为已知事件")
	}
}

func TestEncodeProjectPath(t *testing.T) {
	tests := []struct {
		workspace string
		want      string
	}{
		{"/home/user/my-project", "-home-user-my-project"},
		{"/srv/app.v2", "-srv-app-v2"},
		{"C:\\work\\proj", "C--work-proj"},
	}

	for _, tt := range tests {
		if got := EncodeProjectPath(tt.workspace); got != tt.want {
			t.Errorf("EncodeProjectPath(%q) = %q, want %q", tt.workspace, got, tt.want)
		}
	}
}

func TestRegistryPath(t *testing.T) {
	if got := RegistryPath("/home/u/.claude"); got != "/home/u/.claude.json" {
		t.Fatalf("RegistryPath = %q", got)
	}
}

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	idA = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	idB = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"
)

func seedSession(t *testing.T, dir, project, id, content string) string {
	t.Helper()
	path := filepath.Join(dir, "projects", project, id+".jsonl")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	return path
}

func TestIsSessionFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{idA + ".jsonl", true},
		{"notes.jsonl", false},
		{idA + ".json", false},
		{"agent-" + idA + ".jsonl", false},
	}

	for _, tt := range tests {
		if got := isSessionFile(tt.name); got != tt.want {
			t.Errorf("isSessionFile(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBrowserProjects(t *testing.T) {
	dir := t.TempDir()
	seedSession(t, dir, "-home-u-alpha", idA, "{\"type\":\"user\"}\n")
	seedSession(t, dir, "-home-u-alpha", idB, "{\"type\":\"user\"}\n{\"type\":\"assistant\"}\n")
	seedSession(t, dir, "-home-u-beta", idA, "{}\n")
	// 非会话文件不计入
	if err := os.WriteFile(filepath.Join(dir, "projects", "-home-u-beta", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	b := NewBrowser(dir)
	projects, err := b.Projects()
	if err != nil {
		t.Fatalf("Projects() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("项目数量 = %d", len(projects))
	}

	byName := map[string]Project{}
	for _, p := range projects {
		byName[p.Name] = p
	}
	alpha := byName["-home-u-alpha"]
	if alpha.SessionCount != 2 {
		t.Fatalf("alpha 会话数 = %d", alpha.SessionCount)
	}
	if alpha.TotalSize == 0 {
		t.Fatal("alpha 总大小不应为 0")
	}
	beta := byName["-home-u-beta"]
	if beta.SessionCount != 1 {
		t.Fatalf("beta 会话数 = %d", beta.SessionCount)
	}
}

func TestBrowserProjectsEmpty(t *testing.T) {
	b := NewBrowser(t.TempDir())
	projects, err := b.Projects()
	if err != nil {
		t.Fatalf("Projects() error = %v", err)
	}
	if projects != nil {
		t.Fatalf("无 projects 目录时应返回空: %v", projects)
	}
}

func TestBrowserSessions(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"summary","summary":"老的摘要"}
{"type":"user","message":{"role":"user","content":"帮我修一下构建脚本"}}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"好的"}]}}
{"type":"summary","summary":"修复构建脚本"}
`
	seedSession(t, dir, "-home-u-alpha", idA, content)

	b := NewBrowser(dir)
	sessions, err := b.Sessions("-home-u-alpha")
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("会话数量 = %d", len(sessions))
	}

	s := sessions[0]
	if s.ID != idA {
		t.Errorf("ID = %s", s.ID)
	}
	if s.Lines != 4 {
		t.Errorf("Lines = %d", s.Lines)
	}
	// 后出现的摘要覆盖先前的
	if s.Summary != "修复构建脚本" {
		t.Errorf("Summary = %q", s.Summary)
	}
	if s.FirstPrompt != "帮我修一下构建脚本" {
		t.Errorf("FirstPrompt = %q", s.FirstPrompt)
	}
}

func TestBrowserSessionContentBlocks(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":[{"type":"image"},{"type":"text","text":"看看这张截图"}]}}
`
	seedSession(t, dir, "-p", idA, content)

	b := NewBrowser(dir)
	s, err := b.Get("-p", idA)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.FirstPrompt != "看看这张截图" {
		t.Errorf("FirstPrompt = %q", s.FirstPrompt)
	}
}

func TestBrowserTolerantOfHalfWrittenLine(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":"完整的一行"}}
{"type":"assist`
	seedSession(t, dir, "-p", idA, content)

	b := NewBrowser(dir)
	s, err := b.Get("-p", idA)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.FirstPrompt != "完整的一行" {
		t.Errorf("FirstPrompt = %q", s.FirstPrompt)
	}
	if s.Lines != 2 {
		t.Errorf("Lines = %d", s.Lines)
	}
}

func TestBrowserGetInvalidID(t *testing.T) {
	b := NewBrowser(t.TempDir())
	if _, err := b.Get("-p", "not-a-uuid"); err == nil {
		t.Fatal("无效 ID 应报错")
	}
	if _, err := b.Get("-p", idA); err == nil {
		t.Fatal("不存在的会话应报错")
	}
}

func TestBrowserSessionsSortedByModified(t *testing.T) {
	dir := t.TempDir()
	oldPath := seedSession(t, dir, "-p", idA, "{}\n")
	seedSession(t, dir, "-p", idB, "{}\n")

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("修改时间失败: %v", err)
	}

	b := NewBrowser(dir)
	sessions, err := b.Sessions("-p")
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != idB || sessions[1].ID != idA {
		t.Fatalf("排序不对: %v", sessions)
	}
}

func TestDecodeProjectName(t *testing.T) {
	if got := DecodeProjectName("-home-u-alpha"); got != "/home/u/alpha" {
		t.Errorf("DecodeProjectName = %q", got)
	}
	if got := DecodeProjectName("plain"); got != "plain" {
		t.Errorf("DecodeProjectName = %q", got)
	}
}

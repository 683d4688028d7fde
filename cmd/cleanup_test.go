package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/testutil"
	"github.com/google/uuid"
)

// seedCmdSession 在指定配置目录下放一个指定大小和年龄的会话文件
func seedCmdSession(t *testing.T, dir, project string, age time.Duration, size int) string {
	t.Helper()
	projectDir := filepath.Join(claude.ProjectsDir(dir), project)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		t.Fatalf("mkdir project: %v", err)
	}
	id := uuid.NewString()
	path := filepath.Join(projectDir, id+".jsonl")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", size)), 0644); err != nil {
		t.Fatalf("write session: %v", err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return id
}

func TestRunCleanupNothing(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	dir := setupClaudeDir(t, "")
	seedCmdSession(t, dir, "-home-user-app", time.Hour, 100)

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runCleanup(cleanupCmd); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	})
	if !strings.Contains(stdout, "没有需要清理的会话") {
		t.Errorf("expected nothing-to-clean message, got: %s", stdout)
	}
}

func TestRunCleanupDryRun(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	dir := setupClaudeDir(t, "")
	old := seedCmdSession(t, dir, "-home-user-app", 60*24*time.Hour, 100)
	cleanupDryRun = true

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runCleanup(cleanupCmd); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	})
	if !strings.Contains(stdout, old) {
		t.Errorf("expected candidate listed, got: %s", stdout)
	}

	// dry-run 不删除
	path := filepath.Join(claude.ProjectsDir(dir), "-home-user-app", old+".jsonl")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected session untouched: %v", err)
	}
}

func TestRunCleanupYes(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	dir := setupClaudeDir(t, "")
	old := seedCmdSession(t, dir, "-home-user-app", 60*24*time.Hour, 100)
	fresh := seedCmdSession(t, dir, "-home-user-app", time.Hour, 50)
	cleanupYes = true

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runCleanup(cleanupCmd); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	})
	if !strings.Contains(stdout, "清理完成") {
		t.Errorf("expected done message, got: %s", stdout)
	}

	projectDir := filepath.Join(claude.ProjectsDir(dir), "-home-user-app")
	if _, err := os.Stat(filepath.Join(projectDir, old+".jsonl")); !os.IsNotExist(err) {
		t.Errorf("expected old session deleted")
	}
	if _, err := os.Stat(filepath.Join(projectDir, fresh+".jsonl")); err != nil {
		t.Errorf("expected fresh session kept: %v", err)
	}
}

func TestRunCleanupAbort(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	dir := setupClaudeDir(t, "")
	old := seedCmdSession(t, dir, "-home-user-app", 60*24*time.Hour, 100)

	cleanupCmd.SetIn(strings.NewReader("n\n"))
	t.Cleanup(func() { cleanupCmd.SetIn(nil) })

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runCleanup(cleanupCmd); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	})
	if !strings.Contains(stdout, "已取消清理") {
		t.Errorf("expected abort message, got: %s", stdout)
	}

	path := filepath.Join(claude.ProjectsDir(dir), "-home-user-app", old+".jsonl")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected session kept after abort: %v", err)
	}
}

func TestRunCleanupDaysFromSettings(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	dir := setupClaudeDir(t, `{"cleanupPeriodDays":7}`)
	old := seedCmdSession(t, dir, "-home-user-app", 10*24*time.Hour, 100)
	cleanupYes = true

	if err := runCleanup(cleanupCmd); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	// 10 天前的会话按 7 天保留期被删
	path := filepath.Join(claude.ProjectsDir(dir), "-home-user-app", old+".jsonl")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected session deleted with 7-day retention")
	}
}

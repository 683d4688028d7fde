package cmd

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/settings"
	"github.com/YangQing-Lin/cc-config-cli/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func resetGlobals() {
	claudeDir = ""
	showJSON = false
	setLocal = false
	permissionList = "allow"
	hookMatcher = ""
	hookTimeout = 0
	statuslinePadding = 0
	mcpType = ""
	mcpURL = ""
	mcpCommand = ""
	mcpEnv = nil
	mcpHeaders = nil
	cleanupDays = 0
	cleanupDryRun = false
	cleanupYes = false
	backupLocal = false
	watchForce = false
	getPref = false
	setPref = ""
}

// mockTUIRunner 替换 tuiRunner 为 mock，避免启动真实 TUI
func mockTUIRunner(t *testing.T) {
	t.Helper()
	original := tuiRunner
	tuiRunner = func(manager *settings.Manager) error {
		return nil
	}
	t.Cleanup(func() {
		tuiRunner = original
	})
}

func resetFlags(cmd *cobra.Command) {
	resetFlagSet(cmd.Flags())
	resetFlagSet(cmd.PersistentFlags())
	resetFlagSet(cmd.InheritedFlags())
}

func resetFlagSet(flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	flags.VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
}

func withTempHome(t *testing.T) string {
	t.Helper()
	var home string
	testutil.WithTempHome(t, func(dir string) {
		home = dir
	})
	return home
}

func withStdin(t *testing.T, input string, fn func()) {
	t.Helper()
	orig := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create stdin pipe: %v", err)
	}
	if _, err := io.WriteString(w, input); err != nil {
		_ = w.Close()
		_ = r.Close()
		t.Fatalf("write stdin: %v", err)
	}
	_ = w.Close()
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = orig
		_ = r.Close()
	})
	fn()
}

// setupClaudeDir 创建带初始 settings.json 的配置目录并指向 --dir
func setupClaudeDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		if err := os.WriteFile(claude.SettingsPath(dir), []byte(content), 0600); err != nil {
			t.Fatalf("write settings: %v", err)
		}
	}
	claudeDir = dir
	return dir
}

func TestResolveDirWithFlag(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	custom := t.TempDir()
	claudeDir = custom

	dir, err := resolveDir()
	if err != nil {
		t.Fatalf("resolveDir: %v", err)
	}
	if dir != custom {
		t.Errorf("resolveDir = %s, want %s", dir, custom)
	}
}

func TestResolveDirDefault(t *testing.T) {
	resetGlobals()
	home := withTempHome(t)

	dir, err := resolveDir()
	if err != nil {
		t.Fatalf("resolveDir: %v", err)
	}
	if dir != filepath.Join(home, ".claude") {
		t.Errorf("resolveDir = %s, want %s", dir, filepath.Join(home, ".claude"))
	}
}

func TestResolveDirFromPrefs(t *testing.T) {
	resetGlobals()
	home := withTempHome(t)
	custom := t.TempDir()

	prefsDir := filepath.Join(home, ".cc-config")
	if err := os.MkdirAll(prefsDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `{"language":"zh","claudeDir":"` + custom + `"}`
	if err := os.WriteFile(filepath.Join(prefsDir, "settings.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write prefs: %v", err)
	}

	dir, err := resolveDir()
	if err != nil {
		t.Fatalf("resolveDir: %v", err)
	}
	if dir != custom {
		t.Errorf("resolveDir = %s, want %s", dir, custom)
	}
}

func TestGetManagerWithDir(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	dir := setupClaudeDir(t, `{"model":"claude-opus-4-6"}`)

	manager, err := getManager()
	if err != nil {
		t.Fatalf("getManager: %v", err)
	}
	defer manager.Close()

	if manager.Dir() != dir {
		t.Errorf("Dir = %s, want %s", manager.Dir(), dir)
	}
	if got := manager.Settings.Get().Model; got != "claude-opus-4-6" {
		t.Errorf("model = %s", got)
	}
}

func TestPrintOverview(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	setupClaudeDir(t, `{"model":"claude-sonnet-4-5","env":{"FOO":"1"},"customKey":true}`)

	manager, err := getManager()
	if err != nil {
		t.Fatalf("getManager: %v", err)
	}
	defer manager.Close()

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := printOverview(manager); err != nil {
			t.Fatalf("printOverview: %v", err)
		}
	})
	if !strings.Contains(stdout, "claude-sonnet-4-5") {
		t.Errorf("expected model in overview, got: %s", stdout)
	}
	if !strings.Contains(stdout, "未识别字段") {
		t.Errorf("expected extra field count, got: %s", stdout)
	}
}

func TestRootCommandDirFlagParsing(t *testing.T) {
	resetGlobals()
	mockTUIRunner(t)
	withTempHome(t)
	custom := t.TempDir()
	if err := os.WriteFile(claude.SettingsPath(custom), []byte(`{"model":"flag-model"}`), 0600); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"--dir", custom})
	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("execute root: %v", err)
		}
	})
	resetFlags(rootCmd)
	rootCmd.SetArgs(nil)

	// 测试环境下 stdout 不是终端，根命令应打印总览
	if !strings.Contains(stdout, "flag-model") {
		t.Fatalf("expected overview output, got: %s", stdout)
	}
}

func TestArgsValidationTable(t *testing.T) {
	resetGlobals()
	cases := []struct {
		name string
		cmd  *cobra.Command
		args []string
	}{
		{"set missing args", setCmd, []string{"model"}},
		{"unset missing arg", unsetCmd, []string{}},
		{"permissions add missing arg", permissionsAddCmd, []string{}},
		{"permissions remove missing arg", permissionsRemoveCmd, []string{}},
		{"mcp add missing arg", mcpAddCmd, []string{}},
		{"mcp update missing arg", mcpUpdateCmd, []string{}},
		{"mcp show missing arg", mcpShowCmd, []string{}},
		{"mcp remove missing arg", mcpRemoveCmd, []string{}},
		{"backup restore missing arg", backupRestoreCmd, []string{}},
		{"sessions too many args", sessionsCmd, []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.cmd.Args == nil {
				t.Fatalf("command has no Args validator")
			}
			if err := tc.cmd.Args(tc.cmd, tc.args); err == nil {
				t.Fatalf("expected args validation error")
			}
		})
	}
}

func TestExecuteExitCodes(t *testing.T) {
	if os.Getenv("CCC_CMD_HELPER") == "1" {
		args := strings.Fields(os.Getenv("CCC_CMD_ARGS"))
		os.Args = append([]string{"cc-config"}, args...)
		Execute()
		return
	}

	runExecuteHelper(t, []string{"version"}, 0)
	runExecuteHelper(t, []string{"backup", "restore"}, 1)
}

func runExecuteHelper(t *testing.T, args []string, want int) {
	t.Helper()
	tempHome := t.TempDir()
	cmd := exec.Command(os.Args[0], "-test.run=TestExecuteExitCodes", "--")
	cmd.Env = append(os.Environ(),
		"CCC_CMD_HELPER=1",
		"CCC_CMD_ARGS="+strings.Join(args, " "),
		"HOME="+tempHome,
		"USERPROFILE="+tempHome,
	)
	output, err := cmd.CombinedOutput()
	if want == 0 && err != nil {
		t.Fatalf("expected exit 0, got err %v output: %s", err, output)
	}
	if want != 0 {
		if err == nil {
			t.Fatalf("expected exit %d, got 0", want)
		}
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("expected ExitError, got %T", err)
		}
		if exitErr.ExitCode() != want {
			t.Fatalf("expected exit %d, got %d output: %s", want, exitErr.ExitCode(), output)
		}
	}
}

func TestOpenConfigCommandError(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	t.Setenv("PATH", "")
	if err := runOpenConfig(); err == nil {
		t.Fatalf("expected error when opener is missing")
	}
}

func TestOpenConfigCommandSuccess(t *testing.T) {
	resetGlobals()
	withTempHome(t)

	binDir := t.TempDir()
	xdgOpen := filepath.Join(binDir, "xdg-open")
	if err := os.WriteFile(xdgOpen, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("write xdg-open: %v", err)
	}
	t.Setenv("PATH", binDir)

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runOpenConfig(); err != nil {
			t.Fatalf("expected open success: %v", err)
		}
	})
	if !strings.Contains(stdout, "配置目录") {
		t.Fatalf("expected open output, got: %s", stdout)
	}
}

package cmd

import (
	"strings"
	"testing"

	"github.com/YangQing-Lin/cc-config-cli/internal/testutil"
)

func TestPermissionsAddRemoveFlow(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	setupClaudeDir(t, "")

	if err := runPermissionsAdd("Bash(go test:*)"); err != nil {
		t.Fatalf("add: %v", err)
	}

	// 重复添加报错
	if err := runPermissionsAdd("Bash(go test:*)"); err == nil {
		t.Fatalf("expected duplicate error")
	}

	permissionList = "deny"
	if err := runPermissionsAdd("Read(.env)"); err != nil {
		t.Fatalf("add deny: %v", err)
	}

	permissionList = "allow"
	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runPermissionsList(); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	if !strings.Contains(stdout, "Bash(go test:*)") || !strings.Contains(stdout, "Read(.env)") {
		t.Errorf("expected both rules listed, got: %s", stdout)
	}

	if err := runPermissionsRemove("Bash(go test:*)"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := runPermissionsRemove("Bash(go test:*)"); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestPermissionsListEmpty(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	setupClaudeDir(t, "")

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := runPermissionsList(); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	if !strings.Contains(stdout, "暂无权限规则") {
		t.Errorf("expected empty message, got: %s", stdout)
	}
}

func TestPermissionsInvalidList(t *testing.T) {
	resetGlobals()
	withTempHome(t)
	setupClaudeDir(t, "")
	permissionList = "block"

	if err := runPermissionsAdd("Bash(rm:*)"); err == nil {
		t.Fatalf("expected invalid list error")
	}
	if err := runPermissionsRemove("Bash(rm:*)"); err == nil {
		t.Fatalf("expected invalid list error")
	}
}

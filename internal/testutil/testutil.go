// Package testutil 提供 cmd 层测试共用的环境辅助：
// 临时 HOME（配置目录解析依赖它）和 stdout/stderr 捕获。
package testutil

import (
	"io"
	"os"
	"testing"
)

// WithTempHome 在临时 HOME 环境中运行 fn。
// 配置目录解析（~/.claude、~/.cc-config）都从 HOME 出发，
// 测试必须隔离它，否则会读写真实用户配置。
func WithTempHome(t *testing.T, fn func(home string)) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	fn(home)
}

// CaptureOutput 捕获 fn 执行期间写入 stdout 和 stderr 的内容。
// 命令直接 fmt.Print 到进程级文件句柄，只能整体替换再读回。
func CaptureOutput(t *testing.T, fn func()) (string, string) {
	t.Helper()

	origStdout := os.Stdout
	origStderr := os.Stderr

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("创建管道失败: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("创建管道失败: %v", err)
	}

	os.Stdout = outW
	os.Stderr = errW

	outCh := make(chan string, 1)
	errCh := make(chan string, 1)
	go func() {
		data, _ := io.ReadAll(outR)
		outCh <- string(data)
	}()
	go func() {
		data, _ := io.ReadAll(errR)
		errCh <- string(data)
	}()

	func() {
		defer func() {
			os.Stdout = origStdout
			os.Stderr = origStderr
			_ = outW.Close()
			_ = errW.Close()
		}()
		fn()
	}()

	return <-outCh, <-errCh
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/YangQing-Lin/cc-config-cli/internal/lock"
	"github.com/YangQing-Lin/cc-config-cli/internal/settings"
	"github.com/spf13/cobra"
)

var watchForce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "监听配置目录的外部修改",
	Long: `在前台监听 Claude 配置目录，外部修改在 500ms 去抖窗口后合并重载。

同一配置目录同时只允许一个监听进程，使用 --force 可以抢占过期的锁。
按 Ctrl+C 退出。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchForce, "force", false, "强制获取锁")
}

func runWatch() error {
	manager, err := getManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	fileLock := lock.NewLock(manager.Dir())
	if watchForce {
		if err := fileLock.ForceAcquire(); err != nil {
			return fmt.Errorf("获取锁失败: %w", err)
		}
	} else {
		acquired, err := fileLock.TryAcquire()
		if err != nil {
			return fmt.Errorf("获取锁失败: %w", err)
		}
		if !acquired {
			pid, _ := fileLock.GetPID()
			return fmt.Errorf("另一个监听进程正在运行 (PID %d)，使用 --force 抢占", pid)
		}
	}
	defer fileLock.Release()

	err = manager.Watch(settings.DefaultDebounce, func() {
		fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), i18n.T("watch_reloaded"))
	})
	if err != nil {
		return fmt.Errorf("启动监听失败: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", i18n.T("watch_started"), manager.Dir())

	// 定期刷新锁，避免被其他进程当作过期锁抢占
	ticker := time.NewTicker(lock.StaleLockTimeout / 2)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			fileLock.Touch()
		case <-sigCh:
			fmt.Println("\n已停止监听")
			return nil
		}
	}
}

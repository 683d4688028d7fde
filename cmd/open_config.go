package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/YangQing-Lin/cc-config-cli/internal/i18n"
	"github.com/spf13/cobra"
)

var openConfigCmd = &cobra.Command{
	Use:   "open-config",
	Short: "打开配置文件夹",
	Long:  `在系统文件管理器中打开 Claude 配置文件夹`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpenConfig()
	},
}

func init() {
	rootCmd.AddCommand(openConfigCmd)
}

func runOpenConfig() error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	fmt.Printf("配置目录: %s\n", dir)

	// 根据操作系统打开文件管理器
	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		openCmd = exec.Command("explorer", dir)
	case "darwin":
		openCmd = exec.Command("open", dir)
	case "linux":
		openCmd = exec.Command("xdg-open", dir)
	default:
		return fmt.Errorf("不支持的操作系统: %s", runtime.GOOS)
	}

	if err := openCmd.Start(); err != nil {
		return fmt.Errorf("打开文件管理器失败: %w", err)
	}

	fmt.Printf("✓ %s\n", i18n.T("directory_opened"))
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/YangQing-Lin/cc-config-cli/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionLine())
	},
}

// versionLine 拼出单行版本串，未注入的构建信息不展示。
func versionLine() string {
	line := "cc-config " + version.GetVersion()

	var extra []string
	if commit := version.GetGitCommit(); commit != "unknown" {
		extra = append(extra, "提交 "+commit)
	}
	if date := version.GetBuildDate(); date != "unknown" {
		extra = append(extra, "构建于 "+date)
	}
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}
	return line
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

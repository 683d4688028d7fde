package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/session"
)

// DefaultRetentionDays 会话保留天数缺省值（settings 未配置 cleanupPeriodDays 时）
const DefaultRetentionDays = 30

// Stats 会话磁盘占用总览
type Stats struct {
	Projects  int
	Sessions  int
	TotalSize int64
}

// Candidate 一个待清理的会话
type Candidate struct {
	Project string
	Session session.Session
}

// Plan 一次清理计划：先算后删，支持 dry-run
type Plan struct {
	CutoffDays int
	Cutoff     time.Time
	Candidates []Candidate
	TotalSize  int64
}

// Cleaner 会话清理器
type Cleaner struct {
	dir     string
	browser *session.Browser
}

// New 创建清理器，dir 为配置根目录
func New(dir string) *Cleaner {
	return &Cleaner{
		dir:     dir,
		browser: session.NewBrowser(dir),
	}
}

// Stats 统计所有项目的会话占用
func (c *Cleaner) Stats() (Stats, error) {
	projects, err := c.browser.Projects()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, p := range projects {
		stats.Projects++
		stats.Sessions += p.SessionCount
		stats.TotalSize += p.TotalSize
	}
	return stats, nil
}

// RetentionDays 解析保留天数：调用方传入 settings 的 cleanupPeriodDays，nil 用缺省
func RetentionDays(configured *int) int {
	if configured != nil && *configured > 0 {
		return *configured
	}
	return DefaultRetentionDays
}

// Plan 找出修改时间早于 olderThanDays 天的会话
func (c *Cleaner) Plan(olderThanDays int) (*Plan, error) {
	if olderThanDays <= 0 {
		return nil, fmt.Errorf("保留天数必须大于 0")
	}

	plan := &Plan{
		CutoffDays: olderThanDays,
		Cutoff:     time.Now().AddDate(0, 0, -olderThanDays),
	}

	projects, err := c.browser.Projects()
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		sessions, err := c.browser.Sessions(p.Name)
		if err != nil {
			continue
		}
		for _, s := range sessions {
			if s.Modified.Before(plan.Cutoff) {
				plan.Candidates = append(plan.Candidates, Candidate{Project: p.Name, Session: s})
				plan.TotalSize += s.Size
			}
		}
	}

	return plan, nil
}

// Prune 执行清理计划，返回删除的会话数和释放的字节数。
// 个别删除失败不中断，最后汇总报错。
func (c *Cleaner) Prune(plan *Plan) (int, int64, error) {
	var removed int
	var freed int64
	var lastErr error

	for _, cand := range plan.Candidates {
		if err := os.Remove(cand.Session.Path); err != nil {
			lastErr = err
			continue
		}
		removed++
		freed += cand.Session.Size
	}

	// 清空后的项目目录顺手移除，失败无所谓
	projectsDir := claude.ProjectsDir(c.dir)
	if entries, err := os.ReadDir(projectsDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				_ = os.Remove(filepath.Join(projectsDir, entry.Name()))
			}
		}
	}

	if lastErr != nil {
		return removed, freed, fmt.Errorf("部分会话删除失败: %w", lastErr)
	}
	return removed, freed, nil
}

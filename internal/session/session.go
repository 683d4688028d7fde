package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/google/uuid"
)

// maxLineSize 会话日志单行上限（长对话的工具输出可能很大）
const maxLineSize = 10 * 1024 * 1024

// Project 一个工作区在 projects/ 下的投影
type Project struct {
	// Name 目录名（编码后的工作区路径）
	Name string
	// Path 目录的磁盘路径
	Path string
	// SessionCount 会话文件数量
	SessionCount int
	// TotalSize 所有会话文件的字节数
	TotalSize int64
	// LastActive 最近一次会话修改时间
	LastActive time.Time
}

// Session 单个会话日志的投影。按需重算，从不增量修补。
type Session struct {
	ID          string
	Path        string
	Size        int64
	Modified    time.Time
	Lines       int
	Summary     string
	FirstPrompt string
}

// logLine 会话日志中的一行
type logLine struct {
	Type    string      `json:"type"`
	Summary string      `json:"summary,omitempty"`
	Message *logMessage `json:"message,omitempty"`
}

type logMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// contentBlock 消息内容数组中的一个块
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Browser 会话目录的只读浏览器
type Browser struct {
	dir string
}

// NewBrowser 创建浏览器，dir 为配置根目录
func NewBrowser(dir string) *Browser {
	return &Browser{dir: dir}
}

// Projects 枚举所有项目，按最近活跃排序
func (b *Browser) Projects() ([]Project, error) {
	root := claude.ProjectsDir(b.dir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取项目目录失败: %w", err)
	}

	var out []Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		p := Project{
			Name: entry.Name(),
			Path: filepath.Join(root, entry.Name()),
		}

		files, err := os.ReadDir(p.Path)
		if err != nil {
			continue
		}
		for _, f := range files {
			if !isSessionFile(f.Name()) {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			p.SessionCount++
			p.TotalSize += info.Size()
			if info.ModTime().After(p.LastActive) {
				p.LastActive = info.ModTime()
			}
		}

		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActive.After(out[j].LastActive)
	})

	return out, nil
}

// Sessions 枚举一个项目下的所有会话，按修改时间倒序
func (b *Browser) Sessions(project string) ([]Session, error) {
	dir := filepath.Join(claude.ProjectsDir(b.dir), project)
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取项目失败: %w", err)
	}

	var out []Session
	for _, f := range files {
		if !isSessionFile(f.Name()) {
			continue
		}

		s, err := b.scan(filepath.Join(dir, f.Name()))
		if err != nil {
			continue // 读不动的会话跳过
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Modified.After(out[j].Modified)
	})

	return out, nil
}

// Get 获取单个会话
func (b *Browser) Get(project, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("无效的会话 ID: %s", id)
	}

	path := filepath.Join(claude.ProjectsDir(b.dir), project, id+".jsonl")
	s, err := b.scan(path)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// scan 扫描一个会话文件，逐行解析提取摘要和首条用户输入
func (b *Browser) scan(path string) (Session, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Session{}, fmt.Errorf("读取会话失败: %w", err)
	}

	s := Session{
		ID:       strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		Path:     path,
		Size:     info.Size(),
		Modified: info.ModTime(),
	}

	f, err := os.Open(path)
	if err != nil {
		return Session{}, fmt.Errorf("读取会话失败: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		s.Lines++

		var line logLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue // 写到一半的行不影响其余部分
		}

		switch line.Type {
		case "summary":
			// 后出现的摘要覆盖先前的
			if line.Summary != "" {
				s.Summary = line.Summary
			}
		case "user":
			if s.FirstPrompt == "" && line.Message != nil {
				s.FirstPrompt = contentText(line.Message.Content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Session{}, fmt.Errorf("扫描会话失败: %w", err)
	}

	return s, nil
}

// contentText 提取消息正文：content 既可能是字符串，也可能是内容块数组
func contentText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			return b.Text
		}
	}
	return ""
}

// isSessionFile 会话文件名形如 <uuid>.jsonl
func isSessionFile(name string) bool {
	if !strings.HasSuffix(name, ".jsonl") {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ".jsonl"))
	return err == nil
}

// DecodeProjectName 目录名还原为可读的工作区路径（尽力而为，编码不可逆）
func DecodeProjectName(name string) string {
	if strings.HasPrefix(name, "-") {
		return "/" + strings.ReplaceAll(name[1:], "-", "/")
	}
	return name
}

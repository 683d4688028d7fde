package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/utils"
)

// NoticeKind 非致命异常的分类
type NoticeKind string

const (
	// NoticeRead 文件不可读（缺失除外），已回退到默认文档
	NoticeRead NoticeKind = "read"
	// NoticeParse JSON 损坏，已回退到默认文档
	NoticeParse NoticeKind = "parse"
	// NoticeWrite 保存失败，修改仅存在于内存中，下次保存整体重写
	NoticeWrite NoticeKind = "write"
)

// Notice 被 Store 吸收的一次异常，供上层做被动提示
type Notice struct {
	Kind NoticeKind
	Path string
	Err  error
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s: %v", n.Kind, filepath.Base(n.Path), n.Err)
}

// Store 单个受管文档的唯一内存副本。
//
// 任何读/解析错误都在这里吸收：编辑器在配置文件损坏时也必须可用。
// 每次修改立即落盘（write-through），没有脏标记或延迟保存。
// 写入走同目录临时文件 + rename，保证并发读取方看不到半截文件。
type Store struct {
	path string

	mu      sync.Mutex
	doc     *claude.Settings
	notices []Notice

	// beforeWrite 自写抑制握手：保存前把路径和即将写入的内容告知监听器
	beforeWrite func(path string, content []byte)
}

// NewStore 创建文档存储，随即同步加载
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.Load()
	return s
}

// SetWriteHook 注册保存前回调（监听器自写抑制用）
func (s *Store) SetWriteHook(fn func(path string, content []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeWrite = fn
}

// Path 文档的磁盘路径
func (s *Store) Path() string {
	return s.path
}

// Load 从磁盘加载。文件缺失视为空文档；读取或解析失败记录 Notice 并回退到空文档。
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

func (s *Store) loadLocked() {
	s.doc = emptyDoc()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.notices = append(s.notices, Notice{Kind: NoticeRead, Path: s.path, Err: err})
		}
		return
	}

	doc := emptyDoc()
	if err := json.Unmarshal(data, doc); err != nil {
		// 外部程序可能正在写到一半，保持可用比严格校验重要
		s.notices = append(s.notices, Notice{Kind: NoticeParse, Path: s.path, Err: err})
		return
	}

	s.doc = doc
}

// Reload 丢弃内存状态，从磁盘整体重建（监听器信号触发）。
// 尚未落盘的内存修改会丢失，这是 write-through 策略下接受的竞态。
func (s *Store) Reload() {
	s.Load()
}

// Get 获取内存文档。只读访问用；修改必须经由 Mutate。
func (s *Store) Get() *claude.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Mutate 应用一次修改并立即保存。保存失败不回滚内存状态：
// 内存是事实来源，下一次成功保存会整体重写。
func (s *Store) Mutate(fn func(*claude.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.doc)
	return s.saveLocked()
}

// Save 将内存文档落盘
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		wrapped := fmt.Errorf("序列化设置失败: %w", err)
		s.notices = append(s.notices, Notice{Kind: NoticeWrite, Path: s.path, Err: wrapped})
		return wrapped
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		wrapped := fmt.Errorf("创建配置目录失败: %w", err)
		s.notices = append(s.notices, Notice{Kind: NoticeWrite, Path: s.path, Err: wrapped})
		return wrapped
	}

	if s.beforeWrite != nil {
		s.beforeWrite(s.path, data)
	}

	if err := utils.AtomicWriteFile(s.path, data, 0); err != nil {
		wrapped := fmt.Errorf("保存设置失败: %w", err)
		s.notices = append(s.notices, Notice{Kind: NoticeWrite, Path: s.path, Err: wrapped})
		return wrapped
	}

	return nil
}

// Notices 取走累计的异常通知
func (s *Store) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.notices
	s.notices = nil
	return out
}

func emptyDoc() *claude.Settings {
	return &claude.Settings{Extra: make(map[string]interface{})}
}

package watcher

import (
	"crypto/sha256"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce 去抖延迟：窗口内的多个事件合并为一次 reload
	DefaultDebounce = 500 * time.Millisecond
	// suppressWindow 自写抑制宽限期
	suppressWindow = 2 * time.Second
)

// suppression 一次已宣告的自写：路径 + 内容哈希 + 过期时间
type suppression struct {
	sum     [32]byte
	expires time.Time
}

// Watcher 监听配置根目录的外部修改，去抖后触发 reload 回调。
// 本进程自己的写入通过 Suppress 握手排除，不会触发多余的 reload。
type Watcher struct {
	root     string
	debounce time.Duration
	onReload func()

	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	pending  map[string]suppression
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New 创建监听器，root 为配置根目录（递归监听）
func New(root string, debounce time.Duration, onReload func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		root:     root,
		debounce: debounce,
		onReload: onReload,
		fsw:      fsw,
		pending:  make(map[string]suppression),
		stopChan: make(chan struct{}),
	}, nil
}

// Start 注册目录并启动事件循环
func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return err
	}

	// 递归注册已有子目录
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // 枚举失败的子目录直接跳过
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.wg.Add(1)
	go w.loop()

	return nil
}

// Suppress 在一次自写之前调用：该路径上与 content 一致的事件在宽限期内不触发 reload
func (w *Watcher) Suppress(path string, content []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[filepath.Clean(path)] = suppression{
		sum:     sha256.Sum256(content),
		expires: time.Now().Add(suppressWindow),
	}
}

// Stop 停止监听。可重复调用。
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	_ = w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] 监听错误: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Clean(event.Name)

	// 原子写入的临时文件本身不关心
	if strings.HasPrefix(filepath.Base(name), ".tmp-") {
		return
	}

	// 新建目录递归纳入监听（projects/ 下新项目等）。
	// 注册前已建好的嵌套目录通过 WalkDir 补上。
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			_ = filepath.WalkDir(name, func(path string, d fs.DirEntry, err error) error {
				if err == nil && d.IsDir() {
					_ = w.fsw.Add(path)
				}
				return nil
			})
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	if w.isOwnWrite(name) {
		return
	}

	w.bump()
}

// isOwnWrite 判断事件是否来自本进程刚刚宣告过的写入
func (w *Watcher) isOwnWrite(name string) bool {
	w.mu.Lock()
	entry, ok := w.pending[name]
	if ok && time.Now().After(entry.expires) {
		delete(w.pending, name)
		ok = false
	}
	w.mu.Unlock()

	if !ok {
		return false
	}

	// 宽限期内比较落盘内容：与宣告一致说明是自己的写，
	// 不一致说明外部程序又动了同一个文件，必须 reload。
	data, err := os.ReadFile(name)
	if err != nil {
		return true // rename 进行中，按自写处理
	}
	return sha256.Sum256(data) == entry.sum
}

// bump 启动或重置去抖计时器（Idle→Pending，Pending→Pending）
func (w *Watcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire 计时器到期：回到 Idle 并发出一次合并后的 reload 信号
func (w *Watcher) fire() {
	w.mu.Lock()
	w.timer = nil
	w.mu.Unlock()

	select {
	case <-w.stopChan:
		return
	default:
	}

	if w.onReload != nil {
		w.onReload()
	}
}

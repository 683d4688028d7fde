package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileExists 检查文件是否存在
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AtomicWriteFile 原子写入文件：先写同目录临时文件，再 rename 覆盖目标。
// 并发读取方（包括外部 CLI 和文件监听器）永远不会观察到半截文件。
// perm 为 0 时沿用已有文件的权限，新文件默认 0644。
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = 0644
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}

	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("同步临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("设置临时文件权限失败: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("替换目标文件失败: %w", err)
	}
	renamed = true

	return nil
}

// WriteJSONFile 序列化并原子写入 JSON 文件
func WriteJSONFile(path string, data interface{}, perm os.FileMode) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 JSON 失败: %w", err)
	}
	jsonData = append(jsonData, '\n')

	if err := AtomicWriteFile(path, jsonData, perm); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}

	return nil
}

// ReadJSONFile 读取 JSON 文件
func ReadJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("解析 JSON 失败: %w", err)
	}

	return nil
}

// BackupFile 在原路径旁创建一次性 .backup 副本
func BackupFile(path string) error {
	if !FileExists(path) {
		return nil // 原文件不存在不算错误
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取原文件失败: %w", err)
	}

	if err := os.WriteFile(path+".backup", data, 0644); err != nil {
		return fmt.Errorf("创建备份失败: %w", err)
	}

	return nil
}

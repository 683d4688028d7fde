package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/YangQing-Lin/cc-config-cli/internal/claude"
	"github.com/YangQing-Lin/cc-config-cli/internal/utils"
)

const (
	// MaxBackups is the maximum number of manual backups to keep per source file
	MaxBackups = 10
	// MaxAutoBackups is the maximum number of auto backups to keep per source file
	MaxAutoBackups = 5
	// AutoBackupPrefix is the prefix for auto backup files
	AutoBackupPrefix = "auto_"
)

// Info contains information about a backup file
type Info struct {
	Path      string
	Source    string
	Timestamp time.Time
	Size      int64
}

// Create creates a timestamped backup of a settings file.
// Returns the backup ID or empty string if the source doesn't exist.
func Create(configDir, settingsPath string) (string, error) {
	return create(configDir, settingsPath, false)
}

// CreateAuto creates an automatic backup (called before restores and imports)
func CreateAuto(configDir, settingsPath string) (string, error) {
	return create(configDir, settingsPath, true)
}

func create(configDir, settingsPath string, isAuto bool) (string, error) {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return "", nil
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	stem := sourceStem(settingsPath)
	var backupID string
	if isAuto {
		backupID = fmt.Sprintf("%s%s_%s", AutoBackupPrefix, stem, timestamp)
	} else {
		backupID = fmt.Sprintf("%s_%s", stem, timestamp)
	}

	backupDir := claude.BackupsDir(configDir)
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return "", fmt.Errorf("failed to read settings file: %w", err)
	}

	backupPath := filepath.Join(backupDir, backupID+".json")
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	if isAuto {
		cleanupByPrefix(backupDir, AutoBackupPrefix+stem+"_", MaxAutoBackups)
	} else {
		cleanupByPrefix(backupDir, stem+"_", MaxBackups)
	}

	return backupID, nil
}

// sourceStem derives a backup name prefix from the source file name,
// e.g. settings.json -> "settings", settings.local.json -> "settings-local"
func sourceStem(settingsPath string) string {
	base := strings.TrimSuffix(filepath.Base(settingsPath), ".json")
	return strings.ReplaceAll(base, ".", "-")
}

// cleanupByPrefix removes old backup files with the given prefix,
// keeping the most recent 'retain' files
func cleanupByPrefix(backupDir, prefix string, retain int) {
	if retain == 0 {
		return
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		// Manual prefix also matches auto files, skip those
		if !strings.HasPrefix(prefix, AutoBackupPrefix) && strings.HasPrefix(entry.Name(), AutoBackupPrefix) {
			continue
		}

		fullPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}

		backups = append(backups, Info{
			Path:      fullPath,
			Timestamp: info.ModTime(),
			Size:      info.Size(),
		})
	}

	if len(backups) <= retain {
		return
	}

	// Oldest first
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.Before(backups[j].Timestamp)
	})

	for i := 0; i < len(backups)-retain; i++ {
		os.Remove(backups[i].Path)
	}
}

// List returns all backup files sorted by timestamp (newest first)
func List(configDir string) ([]Info, error) {
	backupDir := claude.BackupsDir(configDir)

	if _, err := os.Stat(backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		fullPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}

		backups = append(backups, Info{
			Path:      fullPath,
			Source:    sourceOf(entry.Name()),
			Timestamp: info.ModTime(),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// sourceOf maps a backup file name back to the settings file it was taken from
func sourceOf(name string) string {
	name = strings.TrimPrefix(name, AutoBackupPrefix)
	name = strings.TrimSuffix(name, ".json")
	if idx := strings.LastIndex(name, "_"); idx > 0 {
		name = name[:idx]
	}
	if idx := strings.LastIndex(name, "_"); idx > 0 {
		name = name[:idx]
	}
	return strings.ReplaceAll(name, "-", ".") + ".json"
}

// Restore restores a settings file from a backup, taking an automatic
// backup of the current file first. Returns the pre-restore backup ID.
func Restore(configDir, settingsPath, backupPath string) (string, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to read backup file: %w", err)
	}

	var doc claude.Settings
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("backup file is corrupted: %w", err)
	}

	backupID, err := CreateAuto(configDir, settingsPath)
	if err != nil {
		return "", fmt.Errorf("failed to backup current settings: %w", err)
	}

	if err := utils.AtomicWriteFile(settingsPath, data, 0); err != nil {
		return backupID, fmt.Errorf("failed to write settings file: %w", err)
	}

	return backupID, nil
}

// Export copies the current settings file to an arbitrary output path,
// validating it parses first
func Export(settingsPath, outputPath string) error {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc claude.Settings
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("settings file is corrupted: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

// DefaultExportFilename returns a default filename for settings export
func DefaultExportFilename() string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("claude-settings-%s.json", date)
}

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const backupTimeLayout = "20060102_150405"

// backupUsers writes a timestamped copy of the users document into the
// backup folder and returns its path.
func (s *Store) backupUsers(data []byte) (string, error) {
	name := time.Now().Format(backupTimeLayout) + "_" + s.cfg.UsersFile
	path := filepath.Join(s.cfg.Dir, s.cfg.BackupDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}
	return path, nil
}

// pruneBackups removes copies older than the retention window and returns how
// many were deleted. Files whose names do not carry a leading timestamp are
// left alone.
func (s *Store) pruneBackups(now time.Time) (int, error) {
	dir := filepath.Join(s.cfg.Dir, s.cfg.BackupDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read backup dir: %w", err)
	}
	cutoff := now.AddDate(0, 0, -s.cfg.BackupRetentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := backupTimestamp(entry.Name())
		if !ok || !ts.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("remove backup %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// backupTimestamp parses the leading {date}_{time} prefix of a backup name.
func backupTimestamp(name string) (time.Time, bool) {
	if len(name) <= len(backupTimeLayout) || name[len(backupTimeLayout)] != '_' {
		return time.Time{}, false
	}
	prefix := name[:len(backupTimeLayout)]
	if strings.Count(prefix, "_") != 1 {
		return time.Time{}, false
	}
	ts, err := time.Parse(backupTimeLayout, prefix)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

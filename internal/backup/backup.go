package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/logger"
)

const (
	// Keep is how many snapshots survive pruning
	Keep = 10

	dirName     = "backups"
	filePrefix  = constants.AppName + "-"
	fileSuffix  = ".db"
	stampFormat = "20060102-150405"
)

// Snapshot is one saved copy of the database.
type Snapshot struct {
	Path    string
	TakenAt time.Time
	Size    int64
}

// Manager snapshots a SQLite database into a sibling backups directory.
type Manager struct {
	dbPath string
	dir    string
	now    func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), dirName),
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Take writes a consistent copy of the database with VACUUM INTO and prunes
// old snapshots down to Keep.
func (m *Manager) Take() (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := m.now().UTC().Format(stampFormat)
	dest := filepath.Join(m.dir, filePrefix+stamp+fileSuffix)
	for n := 1; fileExists(dest); n++ {
		dest = filepath.Join(m.dir, fmt.Sprintf("%s%s.%d%s", filePrefix, stamp, n, fileSuffix))
	}

	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}

	if err := m.prune(); err != nil {
		logger.Warn("Failed to prune old backups", "dir", m.dir, "error", err)
	}
	logger.Debug("Database snapshot written", "path", dest)
	return dest, nil
}

// List returns snapshots newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Snapshot
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if i := strings.IndexByte(stamp, '.'); i >= 0 {
			stamp = stamp[:i]
		}
		taken, err := time.Parse(stampFormat, stamp)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Snapshot{Path: filepath.Join(m.dir, name), TakenAt: taken, Size: info.Size()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TakenAt.Equal(out[j].TakenAt) {
			return out[i].Path > out[j].Path
		}
		return out[i].TakenAt.After(out[j].TakenAt)
	})
	return out, nil
}

func (m *Manager) prune() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := Keep; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

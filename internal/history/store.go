// Package history keeps a bounded log of finished downloads in SQLite.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shtxd/clip/internal/model"
)

// DefaultMaxEntries is the number of entries kept when no limit is configured
const DefaultMaxEntries = 50

// Entry is one finished download
type Entry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"index" json:"url"`
	Title     string    `json:"title"`
	Quality   string    `json:"quality"`
	OutputDir string    `json:"output_dir"`
	FilePath  string    `json:"file_path"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName pins the table name
func (Entry) TableName() string {
	return "history"
}

// Store persists history entries with gorm on SQLite
type Store struct {
	db         *gorm.DB
	maxEntries int
	logger     *zap.Logger
}

// Open opens (and migrates) the history database at dbPath
func Open(dbPath string, maxEntries int, log *zap.Logger) (*Store, error) {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	if log == nil {
		log = zap.NewNop()
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries, logger: log}, nil
}

// Add inserts an entry and drops the oldest ones beyond the limit
func (s *Store) Add(entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to add history entry: %w", err)
		}
		return s.trim(tx)
	})
}

// trim keeps the newest maxEntries rows
func (s *Store) trim(tx *gorm.DB) error {
	var keep []string
	if err := tx.Model(&Entry{}).
		Order("created_at DESC").
		Limit(s.maxEntries).
		Pluck("id", &keep).Error; err != nil {
		return err
	}
	if len(keep) < s.maxEntries {
		return nil
	}
	return tx.Where("id NOT IN ?", keep).Delete(&Entry{}).Error
}

// RecordDownload stores a finished download task
func (s *Store) RecordDownload(task model.DownloadTask) error {
	entry := &Entry{
		URL:       task.Job.URL,
		Title:     task.GetDisplayTitle(),
		Quality:   task.Job.Quality.String(),
		OutputDir: task.Job.OutputDir,
		FilePath:  task.OutputPath(),
		Status:    task.Status.String(),
		Error:     task.LastError,
		CreatedAt: task.FinishedAt,
	}
	if err := s.Add(entry); err != nil {
		return err
	}
	s.logger.Debug("history entry recorded", zap.String("url", entry.URL), zap.String("status", entry.Status))
	return nil
}

// List returns entries newest first
func (s *Store) List() ([]*Entry, error) {
	var entries []*Entry
	err := s.db.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// Count returns the number of stored entries
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.Model(&Entry{}).Count(&count).Error
	return count, err
}

// Clear removes every entry
func (s *Store) Clear() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{}).Error
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

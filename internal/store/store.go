// Package store persists escalation reports, one JSON document per calendar
// date. The local filesystem is always available; remote blob storage is
// layered on top for dev and prod, with every remote failure falling back to
// the local copy transparently.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"escmon/internal/config"
	"escmon/internal/core"
	"escmon/internal/logger"
)

// Store reads and writes dated escalation reports.
type Store struct {
	dir    string
	blob   BlobStore
	prefix string
}

// New selects the backend from the environment: local keeps everything on
// disk, dev and prod write through to blob storage (dev under a dev/ path
// prefix so the two never collide).
func New(cfg config.Storage, env string) *Store {
	s := &Store{dir: cfg.LocalDir}
	if env == config.EnvLocal {
		return s
	}

	s.blob = NewVercelBlob(cfg.BlobAPIURL, cfg.BlobToken)
	s.prefix = "reports/"
	if env == config.EnvDev {
		s.prefix = "dev/reports/"
	}
	return s
}

// NewWithBlob creates a store over an explicit blob backend.
func NewWithBlob(dir string, blob BlobStore, prefix string) *Store {
	return &Store{dir: dir, blob: blob, prefix: prefix}
}

// Save persists the report under its date, overwriting any earlier report for
// the same date. It returns true if at least one backend accepted the write.
func (s *Store) Save(ctx context.Context, report *core.EscalationReport) bool {
	log := logger.With("store")

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode report")
		return false
	}

	saved := false
	if s.blob != nil {
		if err := s.blob.Put(ctx, s.remotePath(report.Date), data); err != nil {
			log.Warn().Err(err).Str("date", report.Date).Msg("Remote save failed, keeping local copy only")
		} else {
			saved = true
		}
	}

	if err := s.saveLocal(report.Date, data); err != nil {
		log.Error().Err(err).Str("date", report.Date).Msg("Local save failed")
		return saved
	}
	return true
}

// GetByDate loads the report for one calendar date (YYYY-MM-DD). A missing
// report returns (nil, nil); only transport or decode problems are errors.
func (s *Store) GetByDate(ctx context.Context, date string) (*core.EscalationReport, error) {
	if s.blob != nil {
		report, err := s.getRemote(ctx, date)
		if err != nil {
			l := logger.With("store")
			l.Warn().Err(err).Str("date", date).Msg("Remote read failed, falling back to local")
		} else if report != nil {
			return report, nil
		}
		// A remote miss still checks local: a write that fell back to local
		// during a blob outage is only recoverable there.
	}
	return s.getLocal(date)
}

// GetLatest walks back from today up to maxLookbackDays and returns the most
// recent report together with its age in days. found is false when the whole
// window is empty.
func (s *Store) GetLatest(ctx context.Context, maxLookbackDays int) (report *core.EscalationReport, ageDays int, found bool) {
	now := time.Now().UTC()
	for age := 0; age <= maxLookbackDays; age++ {
		date := now.AddDate(0, 0, -age).Format("2006-01-02")
		r, err := s.GetByDate(ctx, date)
		if err != nil {
			l := logger.With("store")
			l.Warn().Err(err).Str("date", date).Msg("Report lookup failed, skipping date")
			continue
		}
		if r != nil {
			return r, age, true
		}
	}
	return nil, 0, false
}

func (s *Store) remotePath(date string) string {
	return s.prefix + date + ".json"
}

func (s *Store) localPath(date string) string {
	return filepath.Join(s.dir, date+".json")
}

func (s *Store) saveLocal(date string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	if err := os.WriteFile(s.localPath(date), data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func (s *Store) getLocal(date string) (*core.EscalationReport, error) {
	data, err := os.ReadFile(s.localPath(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	return decodeReport(data)
}

func (s *Store) getRemote(ctx context.Context, date string) (*core.EscalationReport, error) {
	downloadURL, found, err := s.blob.FindByPrefix(ctx, s.remotePath(date))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	data, err := s.blob.Download(ctx, downloadURL)
	if err != nil {
		return nil, err
	}
	return decodeReport(data)
}

func decodeReport(data []byte) (*core.EscalationReport, error) {
	var report core.EscalationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

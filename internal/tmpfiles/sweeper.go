// Package tmpfiles cleans up downloaded PDFs. Downloads are transient by
// contract, but servers run long enough that leaving them to OS temp
// cleanup fills disks.
package tmpfiles

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// downloadGlob matches the files the arXiv fetcher creates.
const downloadGlob = "arxiv-*.pdf"

type Sweeper struct {
	dir      string
	maxAge   time.Duration
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewSweeper(dir string, maxAge time.Duration, schedule string, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		dir:      dir,
		maxAge:   maxAge,
		schedule: schedule,
		logger:   logger,
	}
}

// Start schedules periodic sweeps until Stop is called.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		removed, err := s.Sweep()
		if err != nil {
			s.logger.Warn("sweep failed", "dir", s.dir, "error", err)
			return
		}
		if removed > 0 {
			s.logger.Info("swept downloaded PDFs", "dir", s.dir, "removed", removed)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep removes downloaded PDFs older than the max age and reports how many
// were deleted. Files that vanish mid-sweep are not an error.
func (s *Sweeper) Sweep() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, downloadGlob))
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				s.logger.Warn("failed to remove stale download", "path", path, "error", err)
			}
			continue
		}
		removed++
	}
	return removed, nil
}

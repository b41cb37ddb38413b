package rejections

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"decision-review-api/internal/model"
)

// Store appends rejected intake errors to daily JSONL files under Dir.
type Store struct {
	Dir string

	mu  sync.Mutex
	now func() time.Time
}

// NewStore returns a Store writing under dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// FileFor is the JSONL path holding rejections written on day t.
func (s *Store) FileFor(t time.Time) string {
	return filepath.Join(s.Dir, fmt.Sprintf("rejections_%s.jsonl", t.Format("2006-01-02")))
}

// WriteRejection appends one record per error of evt.
func (s *Store) WriteRejection(_ context.Context, evt model.IntakeRejected) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}

	now := s.now()
	f, err := os.OpenFile(s.FileFor(now), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	ts := evt.Timestamp
	if ts == "" {
		ts = now.UTC().Format(time.RFC3339Nano)
	}
	for _, e := range evt.Errors {
		record := map[string]any{
			"status":              e.Status,
			"code":                e.Code,
			"title":               e.Title,
			"veteran_file_number": evt.VeteranFileNumber,
			"benefit_type":        evt.BenefitType,
			"timestamp":           ts,
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

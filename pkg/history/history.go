// Package history keeps the append-only log of past generation runs.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"codedoc/pkg/filter"
)

// SettingsSnapshot is the serializable copy of the filter settings a run
// used, stored alongside the generated document.
type SettingsSnapshot struct {
	IncludePatterns   []string `json:"include_patterns,omitempty"`
	ExcludePatterns   []string `json:"exclude_patterns,omitempty"`
	MaxFileSizeKB     int64    `json:"max_file_size_kb"`
	ShowExcluded      bool     `json:"show_excluded"`
	RespectIgnoreFile bool     `json:"respect_ignore_file"`
}

// Snapshot captures the settings for storage.
func Snapshot(settings filter.Settings) SettingsSnapshot {
	return SettingsSnapshot{
		IncludePatterns:   settings.IncludePatterns,
		ExcludePatterns:   settings.ExcludePatterns,
		MaxFileSizeKB:     settings.MaxFileSize.Bytes() / 1024,
		ShowExcluded:      settings.ShowExcluded,
		RespectIgnoreFile: settings.RespectIgnoreFile,
	}
}

// Record is one logged generation run.
type Record struct {
	ID              int64            `json:"id"`
	ProjectPath     string           `json:"project_path"`
	ProjectName     string           `json:"project_name"`
	TemplateName    string           `json:"template_name"`
	MarkdownContent string           `json:"markdown_content"`
	ReferenceURL    string           `json:"reference_url,omitempty"`
	ProcessedAt     time.Time        `json:"processed_at"`
	FileCount       int              `json:"file_count"`
	Settings        SettingsSnapshot `json:"filter_settings"`
}

// Store persists records as one JSON document per line in a single file.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore constructs a Store over the given file path. A nil logger is
// replaced with a no-op.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Append assigns the next ID and appends the record to the log.
func (s *Store) Append(record Record) (Record, error) {
	existing, err := s.All()
	if err != nil {
		return Record{}, err
	}
	var maxID int64
	for _, r := range existing {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	record.ID = maxID + 1

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Record{}, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	line, err := json.Marshal(record)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode history record: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return Record{}, fmt.Errorf("failed to append history record: %w", err)
	}

	s.logger.Debug("Appended history record",
		zap.Int64("id", record.ID),
		zap.String("project", record.ProjectName),
		zap.Int("fileCount", record.FileCount))
	return record, nil
}

// All returns every record in log order (oldest first). Lines that fail to
// decode are skipped with a warning rather than failing the query.
func (s *Store) All() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			s.logger.Warn("Skipping malformed history line", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}
	return records, nil
}

// Delete removes the record with the given ID by rewriting the log.
func (s *Store) Delete(id int64) error {
	records, err := s.All()
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, record := range records {
		if record.ID == id {
			found = true
			continue
		}
		kept = append(kept, record)
	}
	if !found {
		return fmt.Errorf("history record %d not found", id)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to rewrite history log: %w", err)
	}
	writer := bufio.NewWriter(f)
	for _, record := range kept {
		line, err := json.Marshal(record)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to encode history record: %w", err)
		}
		writer.Write(line)
		writer.WriteByte('\n')
	}
	if err := writer.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to flush history log: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close history log: %w", err)
	}
	return os.Rename(tmp, s.path)
}

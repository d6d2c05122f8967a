// Package filter holds the filtering rules applied to project paths and the
// specification that evaluates a single path against them.
package filter

import (
	"fmt"
)

// DefaultMaxFileSizeKB is the size ceiling applied when no limit is configured.
const DefaultMaxFileSizeKB = 50

// MaxConfigurableKB bounds the accepted size limit in kilobytes.
const MaxConfigurableKB = 1000

// FileSize is a non-negative byte count used as a per-file size ceiling.
type FileSize struct {
	bytes int64
}

// FromKilobytes constructs a FileSize from a kilobyte count.
// A limit of zero or less is a configuration error.
func FromKilobytes(kb int) (FileSize, error) {
	if kb <= 0 {
		return FileSize{}, fmt.Errorf("file size limit must be positive, got %d KB", kb)
	}
	if kb > MaxConfigurableKB {
		return FileSize{}, fmt.Errorf("file size limit must be at most %d KB, got %d", MaxConfigurableKB, kb)
	}
	return FileSize{bytes: int64(kb) * 1024}, nil
}

// Bytes returns the limit in bytes.
func (s FileSize) Bytes() int64 { return s.bytes }

// IsZero reports whether the size was never configured.
func (s FileSize) IsZero() bool { return s.bytes == 0 }

// Settings is the immutable rule configuration for one generation run.
// A new value replaces the old wholesale; instances are never merged.
type Settings struct {
	IncludePatterns   []string
	ExcludePatterns   []string
	MaxFileSize       FileSize
	ShowExcluded      bool
	RespectIgnoreFile bool
}

// DefaultSettings returns the settings used when the caller supplies none.
func DefaultSettings() Settings {
	limit, _ := FromKilobytes(DefaultMaxFileSizeKB)
	return Settings{
		MaxFileSize:       limit,
		RespectIgnoreFile: true,
	}
}

// Validate checks the settings for configuration errors.
func (s Settings) Validate() error {
	if s.MaxFileSize.IsZero() {
		return fmt.Errorf("max file size is not configured")
	}
	return nil
}

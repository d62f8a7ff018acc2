// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/mia-platform/logsink/internal/info"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 5
	defaultMaxAgeDays = 28
)

var _ Destination = &File{}

// Rotation controls when a log file is rolled over and how many old files are kept.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// File appends entries to a local file.
type File struct {
	Base

	LogFileURL *url.URL
	Rotation   Rotation
}

// NewFile returns a file destination with the built-in defaults. The default log file
// lives in the user cache directory, or in the temporary directory when no cache
// directory can be determined.
func NewFile() *File {
	return &File{
		Base:       defaultBase(),
		LogFileURL: FileURL(defaultLogFilePath()),
		Rotation: Rotation{
			MaxSizeMB:  defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAgeDays: defaultMaxAgeDays,
		},
	}
}

// Kind implements Destination.
func (*File) Kind() Kind {
	return KindFile
}

// Path returns the local path of the log file, or an empty string if no location is set.
func (f *File) Path() string {
	if f.LogFileURL == nil {
		return ""
	}
	return filepath.FromSlash(f.LogFileURL.Path)
}

// FileURL returns the file URL of an absolute path.
func FileURL(path string) *url.URL {
	return &url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}
}

func defaultLogFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, info.AppName, info.AppName+".log")
}

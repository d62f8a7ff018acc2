// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mia-platform/logsink/internal/destination"
)

// streamWriter writes one formatted line per entry to an io.Writer.
type streamWriter struct {
	formatter *Formatter
	writer    io.Writer
	closer    io.Closer
	onError   func(error)

	lock sync.Mutex
}

func newStreamWriter(formatter *Formatter, w io.Writer, closer io.Closer, onError func(error)) *streamWriter {
	return &streamWriter{
		formatter: formatter,
		writer:    w,
		closer:    closer,
		onError:   onError,
	}
}

// newFileWriter returns a streamWriter backed by a rotated log file. The file and
// its directory are created on the first write.
func newFileWriter(file *destination.File, onError func(error)) (*streamWriter, error) {
	path := file.Path()
	if path == "" {
		return nil, ErrMissingLogFile
	}

	rotated := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    file.Rotation.MaxSizeMB,
		MaxBackups: file.Rotation.MaxBackups,
		MaxAge:     file.Rotation.MaxAgeDays,
		Compress:   file.Rotation.Compress,
	}

	// colors are meant for terminals only
	return newStreamWriter(NewFormatter(&file.Base, false), rotated, rotated, onError), nil
}

func (w *streamWriter) write(entry Entry) {
	line := w.formatter.Format(entry) + "\n"

	w.lock.Lock()
	defer w.lock.Unlock()
	if _, err := io.WriteString(w.writer, line); err != nil {
		w.onError(err)
	}
}

func (w *streamWriter) Close() error {
	if w.closer == nil {
		return nil
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	return w.closer.Close()
}

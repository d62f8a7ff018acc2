// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mia-platform/logsink/internal/destination"
	"github.com/mia-platform/logsink/internal/info"
)

const (
	// maxPendingEntries caps the entries kept while the platform is unreachable.
	maxPendingEntries = 1000
)

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errInvalidPayload   = errors.New("invalid payload")
)

// PlatformError reports a failure while delivering a batch to the platform.
type PlatformError struct {
	err error
}

func (e *PlatformError) Error() string {
	return "platform: " + e.err.Error()
}

func (e *PlatformError) Unwrap() error {
	return e.err
}

// PlatformEntry is a single entry inside an encrypted batch.
type PlatformEntry struct {
	UUID      string         `json:"uuid"`
	Timestamp string         `json:"timestamp"`
	Level     int            `json:"level"`
	LevelName string         `json:"levelName"`
	Name      string         `json:"name,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// PlatformRequest is the body sent to the platform server.
type PlatformRequest struct {
	Payload string         `json:"payload"`
	Device  PlatformDevice `json:"device"`
}

// PlatformDevice identifies the sender of a batch.
type PlatformDevice struct {
	AppID             string `json:"appID"`
	AnalyticsUserName string `json:"analyticsUserName,omitempty"`
	UserAgent         string `json:"userAgent"`
}

// platformWriter accumulates entries and sends them once their sending points reach
// the destination threshold.
type platformWriter struct {
	destination *destination.Platform
	client      *http.Client
	onError     func(error)

	lock    sync.Mutex
	pending []PlatformEntry
	points  int
}

func newPlatformWriter(dest *destination.Platform, client *http.Client, onError func(error)) *platformWriter {
	return &platformWriter{
		destination: dest,
		client:      client,
		onError:     onError,
	}
}

func (w *platformWriter) write(entry Entry) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.pending = append(w.pending, PlatformEntry{
		UUID:      uuid.NewString(),
		Timestamp: entry.Time.UTC().Format(time.RFC3339Nano),
		Level:     int(entry.Level),
		LevelName: entry.Level.String(),
		Name:      entry.Name,
		Message:   entry.Message,
		Fields:    entry.Fields(),
	})
	if excess := len(w.pending) - maxPendingEntries; excess > 0 {
		w.pending = w.pending[excess:]
	}

	w.points += w.destination.SendingPoints.For(entry.Level)
	if w.points < w.destination.SendingPoints.Threshold {
		return
	}

	if err := w.flush(context.Background()); err != nil {
		w.onError(err)
	}
}

// flush sends the pending entries. The caller must hold the lock. Entries are kept
// when the delivery fails and are retried when the threshold is reached again or
// on Close.
func (w *platformWriter) flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}

	err := w.send(ctx, w.pending)
	w.points = 0
	if err != nil {
		return &PlatformError{err: err}
	}

	w.pending = nil
	return nil
}

func (w *platformWriter) send(ctx context.Context, entries []PlatformEntry) error {
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	payload, err := EncryptPayload(w.destination.EncryptionKey, plaintext)
	if err != nil {
		return err
	}

	body, err := json.Marshal(PlatformRequest{
		Payload: payload,
		Device: PlatformDevice{
			AppID:             w.destination.AppID,
			AnalyticsUserName: w.destination.AnalyticsUserName,
			UserAgent:         info.UserAgent(),
		},
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, w.destination.ServerURL.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}

	request.Header.Set("User-Agent", info.UserAgent())
	request.Header.Set("Content-Type", "application/json")
	request.SetBasicAuth(w.destination.AppID, w.destination.AppSecret)

	resp, err := w.client.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

func (w *platformWriter) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.flush(context.Background())
}

// EncryptPayload seals plaintext with AES-256-GCM, using the SHA-256 digest of key
// as the cipher key. The result is the base64 encoding of nonce and ciphertext.
func EncryptPayload(key string, plaintext []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptPayload reverses EncryptPayload.
func DecryptPayload(key string, payload string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("%w: too short", errInvalidPayload)
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
	}
	return plaintext, nil
}

func newGCM(key string) (cipher.AEAD, error) {
	digest := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(digest[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

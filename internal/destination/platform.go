// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

import (
	"net/url"
)

const (
	// DefaultServerURL is the endpoint receiving platform entries when none is configured.
	DefaultServerURL = "https://api.logsink.io/api/entries/"

	// MinThreshold and MaxThreshold bound the sending points threshold, both inclusive.
	MinThreshold = 0
	MaxThreshold = 1000
)

var _ Destination = &Platform{}

// SendingPoints assigns a weight to every level. Entries accumulate their weight
// and a batch is sent once the total reaches Threshold.
type SendingPoints struct {
	Verbose   int
	Debug     int
	Info      int
	Warning   int
	Error     int
	Threshold int
}

// DefaultSendingPoints returns the weights used when none are configured.
func DefaultSendingPoints() SendingPoints {
	return SendingPoints{
		Verbose:   0,
		Debug:     1,
		Info:      5,
		Warning:   8,
		Error:     10,
		Threshold: 10,
	}
}

// For returns the points of an entry at level.
func (sp SendingPoints) For(level Level) int {
	switch level {
	case Verbose:
		return sp.Verbose
	case Debug:
		return sp.Debug
	case Info:
		return sp.Info
	case Warning:
		return sp.Warning
	case Error:
		return sp.Error
	default:
		return 0
	}
}

// Platform ships encrypted batches of entries to a remote analytics platform.
type Platform struct {
	Base

	AppID             string
	AppSecret         string
	EncryptionKey     string
	SendingPoints     SendingPoints
	ServerURL         *url.URL
	AnalyticsUserName string
}

// NewPlatform returns a platform destination for the given credentials with the
// built-in defaults for everything else.
func NewPlatform(appID, appSecret, encryptionKey string) *Platform {
	serverURL, _ := url.Parse(DefaultServerURL)
	return &Platform{
		Base:          defaultBase(),
		AppID:         appID,
		AppSecret:     appSecret,
		EncryptionKey: encryptionKey,
		SendingPoints: DefaultSendingPoints(),
		ServerURL:     serverURL,
	}
}

// Kind implements Destination.
func (*Platform) Kind() Kind {
	return KindPlatform
}

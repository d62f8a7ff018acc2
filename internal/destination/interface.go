// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

const (
	// DefaultFormat is the message template used when none is configured.
	DefaultFormat = "$DHH:mm:ss.SSS$d $C$L$c $N - $M"
)

// Kind identifies the variant of a Destination.
type Kind string

const (
	KindConsole  Kind = "console"
	KindFile     Kind = "file"
	KindPlatform Kind = "platform"
)

// Destination is implemented by *Console, *File and *Platform only.
type Destination interface {
	// Kind reports which variant the destination is.
	Kind() Kind
	// Common returns the settings shared by every variant; changes made
	// through the returned pointer are applied to the destination.
	Common() *Base

	sealed()
}

// Base holds the settings shared by every destination.
type Base struct {
	Format         string
	Asynchronously bool
	MinLevel       Level
	LevelString    LevelString
}

func defaultBase() Base {
	return Base{
		Format:         DefaultFormat,
		Asynchronously: true,
		MinLevel:       Verbose,
		LevelString:    DefaultLevelString(),
	}
}

// Common implements Destination.
func (b *Base) Common() *Base {
	return b
}

// Accepts reports whether an entry at level passes the minimum level.
func (b *Base) Accepts(level Level) bool {
	return level >= b.MinLevel
}

func (b *Base) sealed() {}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

var _ Destination = &Console{}

// Console writes entries to a terminal or any other stream.
type Console struct {
	Base

	// UseColors enables the ANSI colors emitted by the $C and $c tokens.
	UseColors bool
}

// NewConsole returns a console destination with the built-in defaults.
func NewConsole() *Console {
	return &Console{
		Base:      defaultBase(),
		UseColors: true,
	}
}

// Kind implements Destination.
func (*Console) Kind() Kind {
	return KindConsole
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/mia-platform/logsink/internal/destination"
)

const (
	colorReset = "\x1b[0m"

	// extraValueKey is the key used for a trailing argument without a value.
	extraValueKey = "EXTRA_VALUE_AT_END"
)

var (
	levelColors = map[destination.Level]string{
		destination.Verbose: "\x1b[90m",
		destination.Debug:   "\x1b[36m",
		destination.Info:    "\x1b[32m",
		destination.Warning: "\x1b[33m",
		destination.Error:   "\x1b[31m",
	}

	// unicodeLayouts maps the date pattern letters accepted between $D and $d to Go
	// time layout elements. Runs of S are fractional seconds and are handled apart.
	unicodeLayouts = map[string]string{
		"yyyy":  "2006",
		"yy":    "06",
		"MMMM":  "January",
		"MMM":   "Jan",
		"MM":    "01",
		"M":     "1",
		"dd":    "02",
		"d":     "2",
		"EEEE":  "Monday",
		"EEE":   "Mon",
		"HH":    "15",
		"hh":    "03",
		"h":     "3",
		"mm":    "04",
		"m":     "4",
		"ss":    "05",
		"s":     "5",
		"a":     "PM",
		"Z":     "-0700",
		"ZZZZZ": "Z07:00",
	}
)

// Entry is a single log event received from hclog.
type Entry struct {
	Time    time.Time
	Name    string
	Level   destination.Level
	Message string
	Args    []any
}

// Fields returns the key/value arguments of the entry as a map.
func (e Entry) Fields() map[string]any {
	if len(e.Args) == 0 {
		return nil
	}

	fields := make(map[string]any, (len(e.Args)+1)/2)
	for idx := 0; idx < len(e.Args); idx += 2 {
		if idx+1 == len(e.Args) {
			fields[extraValueKey] = fieldValue(e.Args[idx])
			break
		}
		fields[fmt.Sprint(e.Args[idx])] = fieldValue(e.Args[idx+1])
	}

	return fields
}

func fieldValue(value any) any {
	switch v := value.(type) {
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

type tokenKind int

const (
	literalToken tokenKind = iota
	levelToken
	messageToken
	nameToken
	argsToken
	jsonToken
	dateToken
	utcDateToken
	colorToken
	resetToken
)

type token struct {
	kind  tokenKind
	value string
	date  []datePart
}

type datePartKind int

const (
	dateLiteral datePartKind = iota
	dateLayout
	dateFraction
)

// datePart is a piece of a date pattern: a literal, a single Go layout element or
// a fractional second with the given number of digits.
type datePart struct {
	kind   datePartKind
	value  string
	digits int
}

// Formatter renders entries with a destination format template.
//
// Supported tokens: $L level label, $M message, $N logger name, $X key=value
// arguments, $J the whole entry as JSON, $D<pattern>$d local time, $Z<pattern>$d
// UTC time, $C and $c level color start and reset, $$ a dollar sign. Any other
// token is printed as is. Date patterns use repeated letters (yyyy, MM, dd, HH, mm,
// ss, SSS, ...); anything else, or text between single quotes, is printed as is.
type Formatter struct {
	tokens []token
	labels destination.LevelString
	colors bool
}

// NewFormatter parses the format of base. colors enables the $C and $c tokens.
func NewFormatter(base *destination.Base, colors bool) *Formatter {
	return &Formatter{
		tokens: parseFormat(base.Format),
		labels: base.LevelString,
		colors: colors,
	}
}

// Format renders entry without a trailing newline.
func (f *Formatter) Format(entry Entry) string {
	builder := new(strings.Builder)
	for _, tok := range f.tokens {
		switch tok.kind {
		case literalToken:
			builder.WriteString(tok.value)
		case levelToken:
			builder.WriteString(f.labels.Label(entry.Level))
		case messageToken:
			builder.WriteString(entry.Message)
		case nameToken:
			builder.WriteString(entry.Name)
		case argsToken:
			builder.WriteString(formatArgs(entry.Fields()))
		case jsonToken:
			builder.WriteString(formatJSON(entry, f.labels))
		case dateToken:
			writeDate(builder, entry.Time, tok.date)
		case utcDateToken:
			writeDate(builder, entry.Time.UTC(), tok.date)
		case colorToken:
			if f.colors {
				builder.WriteString(levelColors[entry.Level])
			}
		case resetToken:
			if f.colors {
				builder.WriteString(colorReset)
			}
		}
	}

	return builder.String()
}

func parseFormat(format string) []token {
	tokens := make([]token, 0)
	literal := new(strings.Builder)
	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, token{kind: literalToken, value: literal.String()})
			literal.Reset()
		}
	}

	for idx := 0; idx < len(format); idx++ {
		if format[idx] != '$' || idx+1 == len(format) {
			literal.WriteByte(format[idx])
			continue
		}

		idx++
		var kind tokenKind
		switch format[idx] {
		case 'L':
			kind = levelToken
		case 'M':
			kind = messageToken
		case 'N':
			kind = nameToken
		case 'X':
			kind = argsToken
		case 'J':
			kind = jsonToken
		case 'C':
			kind = colorToken
		case 'c':
			kind = resetToken
		case 'D', 'Z':
			kind = dateToken
			if format[idx] == 'Z' {
				kind = utcDateToken
			}
			pattern := format[idx+1:]
			end := strings.Index(pattern, "$d")
			if end >= 0 {
				pattern = pattern[:end]
				idx += end + 2
			} else {
				idx = len(format) - 1
			}
			flush()
			tokens = append(tokens, token{kind: kind, date: parseDatePattern(pattern)})
			continue
		case '$':
			literal.WriteByte('$')
			continue
		default:
			literal.WriteByte('$')
			literal.WriteByte(format[idx])
			continue
		}

		flush()
		tokens = append(tokens, token{kind: kind})
	}
	flush()

	return tokens
}

// parseDatePattern splits a date pattern made of repeated letters
// (yyyy-MM-dd HH:mm:ss.SSS) into parts. Text between single quotes and every run
// that is not a known pattern is kept literally, two single quotes write one quote
// both inside and outside a quoted text.
func parseDatePattern(pattern string) []datePart {
	parts := make([]datePart, 0)
	appendLiteral := func(literal string) {
		if last := len(parts) - 1; last >= 0 && parts[last].kind == dateLiteral {
			parts[last].value += literal
			return
		}
		parts = append(parts, datePart{kind: dateLiteral, value: literal})
	}

	for idx := 0; idx < len(pattern); {
		if pattern[idx] == '\'' {
			if idx+1 < len(pattern) && pattern[idx+1] == '\'' {
				appendLiteral("'")
				idx += 2
				continue
			}

			quoted := new(strings.Builder)
			for idx++; idx < len(pattern); idx++ {
				if pattern[idx] != '\'' {
					quoted.WriteByte(pattern[idx])
					continue
				}
				if idx+1 < len(pattern) && pattern[idx+1] == '\'' {
					quoted.WriteByte('\'')
					idx++
					continue
				}
				idx++
				break
			}
			appendLiteral(quoted.String())
			continue
		}

		end := idx
		for end < len(pattern) && pattern[end] == pattern[idx] {
			end++
		}

		run := pattern[idx:end]
		switch layout, ok := unicodeLayouts[run]; {
		case ok:
			parts = append(parts, datePart{kind: dateLayout, value: layout})
		case pattern[idx] == 'S' && len(run) <= 9:
			parts = append(parts, datePart{kind: dateFraction, digits: len(run)})
		default:
			appendLiteral(run)
		}
		idx = end
	}

	return parts
}

func writeDate(builder *strings.Builder, t time.Time, parts []datePart) {
	for _, part := range parts {
		switch part.kind {
		case dateLiteral:
			builder.WriteString(part.value)
		case dateLayout:
			builder.WriteString(t.Format(part.value))
		case dateFraction:
			fraction := t.Nanosecond()
			for range 9 - part.digits {
				fraction /= 10
			}
			fmt.Fprintf(builder, "%0*d", part.digits, fraction)
		}
	}
}

func formatArgs(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, fields[key]))
	}
	return strings.Join(pairs, " ")
}

type jsonEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Name      string         `json:"name,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func formatJSON(entry Entry, labels destination.LevelString) string {
	encoded, err := json.Marshal(jsonEntry{
		Timestamp: entry.Time.Format(time.RFC3339Nano),
		Level:     labels.Label(entry.Level),
		Name:      entry.Name,
		Message:   entry.Message,
		Fields:    entry.Fields(),
	})
	if err != nil {
		return fmt.Sprintf(`{"message":%q,"error":%q}`, entry.Message, err.Error())
	}
	return string(encoded)
}

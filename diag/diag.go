// Package diag implements the append-only diagnostics collector
// threaded through every compiler stage (spec.md §4.7). Diagnostics
// are never thrown as Go errors once parsing begins; they accumulate
// here and are inspected by the orchestration layer between stages
// (spec.md §7).
package diag

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/solang-go/solang/token"
)

// Severity distinguishes blocking errors from advisory output.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Debug
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return "?"
	}
}

// Kind is a stable code identifying the diagnostic's origin stage,
// used for deduplication and for tests asserting "an error of this
// kind was raised" without matching message text.
type Kind string

const (
	KindLex            Kind = "lex"
	KindParse          Kind = "parse"
	KindNameResolution Kind = "name-resolution"
	KindType           Kind = "type"
	KindInheritance    Kind = "inheritance"
	KindStorageLayout  Kind = "storage-layout"
	KindConstOverflow  Kind = "constant-overflow"
	KindUnreachable    Kind = "unreachable"
	KindShadowing      Kind = "shadowing"
	KindDeprecation    Kind = "deprecation"
	KindInternal       Kind = "internal"
)

// Note is a secondary annotation attached to a Diagnostic, e.g.
// "previous declaration was here".
type Note struct {
	Span    token.Span
	Message string
}

// Diagnostic is one collected entry.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Span     token.Span
	Message  string
	Notes    []Note
}

type dedupKey struct {
	kind Kind
	span token.Span
	msg  string
}

// Bag is the append-only, order-preserving, deduplicated diagnostics
// collector shared across all stages of one compilation.
type Bag struct {
	entries []Diagnostic
	seen    map[dedupKey]bool
}

// NewBag creates an empty diagnostics bag.
func NewBag() *Bag {
	return &Bag{seen: make(map[dedupKey]bool)}
}

func (b *Bag) add(d Diagnostic) {
	key := dedupKey{kind: d.Kind, span: d.Span, msg: d.Message}
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.entries = append(b.entries, d)
}

// Errorf records an error-severity diagnostic of the given kind.
func (b *Bag) Errorf(kind Kind, span token.Span, format string, args ...interface{}) {
	b.add(Diagnostic{Severity: Error, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning-severity diagnostic.
func (b *Bag) Warnf(kind Kind, span token.Span, format string, args ...interface{}) {
	b.add(Diagnostic{Severity: Warning, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Infof records an info-severity diagnostic.
func (b *Bag) Infof(span token.Span, format string, args ...interface{}) {
	b.add(Diagnostic{Severity: Info, Kind: "info", Span: span, Message: fmt.Sprintf(format, args...)})
}

// ErrorfNote records an error with one or more attached notes.
func (b *Bag) ErrorfNote(kind Kind, span token.Span, notes []Note, format string, args ...interface{}) {
	b.add(Diagnostic{Severity: Error, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...), Notes: notes})
}

// Internal records an internal-error diagnostic (spec.md §7 tier 2):
// a broken invariant, never suppressed, never expected in a
// successful compilation of well-formed input.
func (b *Bag) Internal(span token.Span, format string, args ...interface{}) {
	b.add(Diagnostic{Severity: Error, Kind: KindInternal, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Entries returns all collected diagnostics in insertion order (or in
// span order once SortBySpan has been called).
func (b *Bag) Entries() []Diagnostic {
	return b.entries
}

// HasErrors reports whether any Error-severity diagnostic (including
// internal errors) has been recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Merge appends all entries from other into b, preserving dedup.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.entries {
		b.add(d)
	}
}

// SortBySpan orders entries by (file, start) for stable rendering
// across map-iteration-order-sensitive passes. It is stable, so
// diagnostics raised at the same span keep their insertion order.
func (b *Bag) SortBySpan() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		a, c := b.entries[i].Span, b.entries[j].Span
		if a.File != c.File {
			return a.File < c.File
		}
		return a.Start < c.Start
	})
}

// Render returns a human-readable rendering of every diagnostic,
// colorized via fatih/color, resolving spans against fset.
func (b *Bag) Render(fset *token.FileSet) string {
	var out string
	for _, d := range b.entries {
		pos := fset.Position(d.Span)
		var sev string
		switch d.Severity {
		case Error:
			sev = color.New(color.FgRed, color.Bold).Sprint("error")
		case Warning:
			sev = color.New(color.FgYellow, color.Bold).Sprint("warning")
		case Info:
			sev = color.New(color.FgCyan).Sprint("info")
		default:
			sev = color.New(color.FgHiBlack).Sprint("debug")
		}
		out += fmt.Sprintf("%s: %s: %s [%s]\n", pos, sev, d.Message, d.Kind)
		for _, n := range d.Notes {
			npos := fset.Position(n.Span)
			out += fmt.Sprintf("  %s: note: %s\n", npos, n.Message)
		}
	}
	return out
}

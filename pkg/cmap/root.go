package cmap

import (
	"errors"
	"strings"
)

// ErrNoConcepts is returned by [SelectRoot] when the map has no concepts.
// There is nothing to root a tree at, so callers must treat this as a
// precondition failure rather than pick a default.
var ErrNoConcepts = errors.New("concept map has no concepts")

// Reason explains how [SelectRoot] arrived at its choice.
type Reason string

const (
	// ReasonRequested means the caller's requested id was a known concept.
	ReasonRequested Reason = "requested"
	// ReasonSingleCandidate means exactly one concept is never a connection target.
	ReasonSingleCandidate Reason = "single-candidate"
	// ReasonNameMatch means several candidates existed and one label
	// mentions "root", "main" or "center".
	ReasonNameMatch Reason = "name-match"
	// ReasonFirstCandidate means several candidates existed and none matched by name.
	ReasonFirstCandidate Reason = "first-candidate"
	// ReasonFirstConcept means every concept is some connection's target.
	ReasonFirstConcept Reason = "first-concept"
)

// rootHints are matched case-insensitively as label substrings.
var rootHints = []string{"root", "main", "center"}

// Selection is the outcome of [SelectRoot].
type Selection struct {
	ID     string
	Reason Reason

	// RequestedUnknown is set when a root id was requested but no concept
	// has that id. The selection then fell back to automatic detection.
	RequestedUnknown bool

	// Candidates lists every root candidate in input order, regardless of
	// which one was chosen.
	Candidates []Concept
}

// SelectRoot chooses the root concept of m.
//
// A requested id that names a known concept always wins. Otherwise the
// candidates (concepts never appearing as any connection's ToID) decide:
// a single candidate is used directly; among several, the first whose label
// contains "root", "main" or "center" (case-insensitive) is preferred,
// falling back to the first candidate. With no candidates at all, the first
// concept in input order is returned.
//
// SelectRoot returns [ErrNoConcepts] when m has no concepts.
func SelectRoot(m *Map, requested string) (Selection, error) {
	if m.Empty() {
		return Selection{}, ErrNoConcepts
	}

	sel := Selection{Candidates: Candidates(m)}

	if requested != "" {
		if hasConcept(m, requested) {
			sel.ID, sel.Reason = requested, ReasonRequested
			return sel, nil
		}
		sel.RequestedUnknown = true
	}

	switch len(sel.Candidates) {
	case 0:
		sel.ID, sel.Reason = m.Concepts[0].ID, ReasonFirstConcept
	case 1:
		sel.ID, sel.Reason = sel.Candidates[0].ID, ReasonSingleCandidate
	default:
		if c, ok := firstHinted(sel.Candidates); ok {
			sel.ID, sel.Reason = c.ID, ReasonNameMatch
		} else {
			sel.ID, sel.Reason = sel.Candidates[0].ID, ReasonFirstCandidate
		}
	}
	return sel, nil
}

// Candidates returns the concepts of m whose id never appears as the ToID
// of any connection, in input order. Duplicate concept ids are reported once.
func Candidates(m *Map) []Concept {
	if m.Empty() {
		return nil
	}

	targets := make(map[string]struct{}, len(m.Connections))
	for _, conn := range m.Connections {
		targets[conn.ToID] = struct{}{}
	}

	var out []Concept
	seen := make(map[string]struct{}, len(m.Concepts))
	for _, c := range m.Concepts {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		if _, isTarget := targets[c.ID]; !isTarget {
			out = append(out, c)
		}
	}
	return out
}

// IsRootHint reports whether label mentions one of the root naming hints.
func IsRootHint(label string) bool {
	lower := strings.ToLower(label)
	for _, h := range rootHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

func firstHinted(cs []Concept) (Concept, bool) {
	for _, c := range cs {
		if IsRootHint(c.Label) {
			return c, true
		}
	}
	return Concept{}, false
}

func hasConcept(m *Map, id string) bool {
	for _, c := range m.Concepts {
		if c.ID == id {
			return true
		}
	}
	return false
}

package cmap

import "time"

// Concept is a labeled node of the source knowledge graph.
// Labels are for display only and need not be unique.
type Concept struct {
	ID    string
	Label string
}

// LinkingPhrase is an edge-label node. Together with one incoming and one
// outgoing [Connection] it encodes a directed concept-to-concept relationship.
// Its label does not influence tree structure.
type LinkingPhrase struct {
	ID    string
	Label string
}

// Connection is a directed edge between two ids, each naming either a
// [Concept] or a [LinkingPhrase].
type Connection struct {
	ID     string // Optional; not used for structure
	FromID string
	ToID   string
}

// Meta carries free-form document metadata from the input adapter.
// Zero times mean the source did not provide them.
type Meta struct {
	Title       string
	Description string
	Created     time.Time
	Modified    time.Time
}

// Map is a parsed concept map. All slices keep input order, which drives
// every tie-breaking rule in this package.
type Map struct {
	Concepts    []Concept
	Phrases     []LinkingPhrase
	Connections []Connection
	Meta        Meta
}

// Empty reports whether the map has no concepts.
func (m *Map) Empty() bool { return m == nil || len(m.Concepts) == 0 }

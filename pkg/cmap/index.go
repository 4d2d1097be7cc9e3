package cmap

// Index holds lookups derived from a [Map]: concepts and linking phrases by
// id, and outgoing connections grouped by source id.
//
// An Index is built once per conversion run and never mutated afterwards,
// so a single instance can back any number of concurrent tree builds.
type Index struct {
	concepts map[string]Concept
	phrases  map[string]LinkingPhrase
	outgoing map[string][]Connection
	order    []string // concept ids in first-seen input order
}

// NewIndex builds an Index from the map's record lists.
//
// No validation is performed. Duplicate ids overwrite earlier records (last
// label wins) but keep their first position in [Index.ConceptIDs].
// Outgoing connections keep input order per source id, including
// connections whose endpoints are unknown; those are filtered during tree
// construction.
func NewIndex(m *Map) *Index {
	idx := &Index{
		concepts: make(map[string]Concept),
		phrases:  make(map[string]LinkingPhrase),
		outgoing: make(map[string][]Connection),
	}
	if m == nil {
		return idx
	}

	for _, c := range m.Concepts {
		if _, seen := idx.concepts[c.ID]; !seen {
			idx.order = append(idx.order, c.ID)
		}
		idx.concepts[c.ID] = c
	}
	for _, p := range m.Phrases {
		idx.phrases[p.ID] = p
	}
	for _, conn := range m.Connections {
		idx.outgoing[conn.FromID] = append(idx.outgoing[conn.FromID], conn)
	}
	return idx
}

// Concept returns the concept with the given id.
func (idx *Index) Concept(id string) (Concept, bool) {
	c, ok := idx.concepts[id]
	return c, ok
}

// Phrase returns the linking phrase with the given id.
func (idx *Index) Phrase(id string) (LinkingPhrase, bool) {
	p, ok := idx.phrases[id]
	return p, ok
}

// IsConcept reports whether id names a known concept.
func (idx *Index) IsConcept(id string) bool {
	_, ok := idx.concepts[id]
	return ok
}

// IsPhrase reports whether id names a known linking phrase.
func (idx *Index) IsPhrase(id string) bool {
	_, ok := idx.phrases[id]
	return ok
}

// Outgoing returns the connections whose FromID is id, in input order.
// The returned slice is a read-only view.
func (idx *Index) Outgoing(id string) []Connection { return idx.outgoing[id] }

// ConceptIDs returns all concept ids in first-seen input order.
// The returned slice is a read-only view.
func (idx *Index) ConceptIDs() []string { return idx.order }

// Len returns the number of distinct concepts.
func (idx *Index) Len() int { return len(idx.order) }

// PhraseCount returns the number of distinct linking phrases.
func (idx *Index) PhraseCount() int { return len(idx.phrases) }

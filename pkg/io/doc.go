// Package io reads concept maps and writes outlines.
//
// # Overview
//
// This package holds the boundary adapters around the conversion engine in
// [cmap] and [outline]. Importers turn source documents into a [cmap.Map];
// exporters turn [outline.Tree] values into destination documents. Neither
// side knows about root selection or tree construction.
//
// # CXL Import
//
// CmapTools stores concept maps as CXL, an XML dialect:
//
//	<cmap xmlns="http://cmap.ihmc.us/xml/cmap/" ...>
//	  <res-meta>
//	    <dc:title>Plants</dc:title>
//	    <dcterms:created>2024-05-01T12:00:00-05:00</dcterms:created>
//	  </res-meta>
//	  <map>
//	    <concept-list>
//	      <concept id="A" label="Plants"/>
//	      <concept id="B" label="Water"/>
//	    </concept-list>
//	    <linking-phrase-list>
//	      <linking-phrase id="P" label="requires"/>
//	    </linking-phrase-list>
//	    <connection-list>
//	      <connection id="c1" from-id="A" to-id="P"/>
//	      <connection id="c2" from-id="P" to-id="B"/>
//	    </connection-list>
//	  </map>
//	</cmap>
//
// Use [ImportCXL] for files or [ReadCXL] for any io.Reader. Elements are
// matched by local name, so namespace prefixes do not matter. Labels are
// whitespace-normalized because CmapTools encodes line breaks inside
// attribute values.
//
// # JSON Import and Export
//
// The JSON concept map format mirrors the record model:
//
//	{
//	  "meta": {"title": "Plants"},
//	  "concepts": [{"id": "A", "label": "Plants"}, {"id": "B", "label": "Water"}],
//	  "linking_phrases": [{"id": "P", "label": "requires"}],
//	  "connections": [{"from": "A", "to": "P"}, {"from": "P", "to": "B"}]
//	}
//
// [ReadJSON] and [WriteJSON] round-trip a [cmap.Map] exactly, including
// input order. [Import] picks the reader from the file extension.
//
// # OPML Export
//
// [WriteOPML] renders one outline tree as an OPML 2.0 document. Every
// concept becomes an outline element with text and type="concept"
// attributes, nested in tree order:
//
//	<opml version="2.0">
//	  <head><title>Plants</title>...</head>
//	  <body>
//	    <outline text="Plants" type="concept">
//	      <outline text="Water" type="concept"></outline>
//	    </outline>
//	  </body>
//	</opml>
//
// [WriteOutlineJSON] renders an [outline.Document] as indented JSON.
//
// # Concurrency
//
// All functions are safe for concurrent use; they share no state. Readers
// return independent values that callers may modify freely.
//
// [cmap]: github.com/matzehuels/cmaptree/pkg/cmap
// [outline]: github.com/matzehuels/cmaptree/pkg/outline
package io

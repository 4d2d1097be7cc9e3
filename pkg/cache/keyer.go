package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// outlineKeyPrefix starts every key produced by DefaultKeyer.
const outlineKeyPrefix = "outline"

// Keyer generates cache keys.
type Keyer interface {
	// OutlineKey returns the key for the outlines converted from the map
	// with content hash mapHash.
	OutlineKey(mapHash string, opts OutlineKeyOpts) string
}

// OutlineKeyOpts holds every option that changes a conversion result.
type OutlineKeyOpts struct {
	RootID      string `json:"root_id,omitempty"`
	AllConcepts bool   `json:"all_concepts,omitempty"`
	MaxDepth    int    `json:"max_depth,omitempty"`
	MaxNodes    int    `json:"max_nodes,omitempty"`
}

// digest hashes the JSON form of o. The struct has only plain fields, so
// encoding cannot fail.
func (o OutlineKeyOpts) digest() string {
	data, _ := json.Marshal(o)
	return Hash(data)
}

// DefaultKeyer derives keys of the form outline:<map hash>:<options digest>.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OutlineKey implements Keyer.
func (DefaultKeyer) OutlineKey(mapHash string, opts OutlineKeyOpts) string {
	return outlineKeyPrefix + ":" + mapHash + ":" + opts.digest()
}

// Hash returns the hex SHA-256 digest of data. Map content hashes and
// option digests both use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package api

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the note's user-visible content:
// Title, Content and Tags (sorted, case-folded). IDs, versions and timestamps
// are left out so an edit that changes nothing hashes the same.
func (n Note) Hash() string {
	h := blake3.New()

	h.Write([]byte(n.Title))
	h.Write([]byte{0})

	h.Write([]byte(n.Content))
	h.Write([]byte{0})

	sortedTags := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		sortedTags = append(sortedTags, strings.ToLower(strings.TrimSpace(t)))
	}
	sort.Strings(sortedTags)
	for _, t := range sortedTags {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

package id

import (
	"crypto/rand"
	"strings"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DraftPrefix marks ids of drafts that were never promoted to a sale record.
const DraftPrefix = "TMP_"

func random(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	var sb strings.Builder
	sb.Grow(n)
	for _, c := range b {
		sb.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return sb.String()
}

// NewSaleID returns a 9-char uppercase alphanumeric sale identifier.
func NewSaleID() string { return random(9) }

// NewDraftID returns a temporary draft identifier ("TMP_" + 5 chars).
func NewDraftID() string { return DraftPrefix + random(5) }

// IsDraftID reports whether id is a temporary (never promoted) draft id.
func IsDraftID(id string) bool { return strings.HasPrefix(id, DraftPrefix) }

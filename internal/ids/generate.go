package ids

import (
	"encoding/base32"

	internalstrings "github.com/amonks/flowstate/internal/strings"
	"github.com/google/uuid"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 10

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// New returns a random, lowercase base32 ID of DefaultLength characters.
func New() string {
	return NewWithLength(DefaultLength)
}

// NewWithLength returns a random, lowercase base32 ID of the given length.
// The length is capped at the encoded size of a UUID (26 characters).
func NewWithLength(length int) string {
	if length <= 0 {
		return ""
	}
	id := uuid.New()
	encoded := encoding.EncodeToString(id[:])
	if length > len(encoded) {
		length = len(encoded)
	}
	return internalstrings.NormalizeLower(encoded[:length])
}

package platform

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const shortIDLength = 10

// NewID returns a random UUID. Workflow runs and stored rows are keyed by it.
func NewID() string {
	return uuid.New().String()
}

// NewName returns prefix followed by a short random lowercase suffix.
func NewName(prefix string) string {
	b := make([]byte, shortIDLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i := range b {
		b[i] = shortIDAlphabet[b[i]%byte(len(shortIDAlphabet))]
	}
	return prefix + string(b)
}

// NewRequestID returns an identifier for one service adapter call.
func NewRequestID() string {
	return NewName("req_")
}

// SequentialID formats n with a fixed-width zero-padded number, e.g.
// SequentialID("EMP", 7, 3) == "EMP007".
func SequentialID(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

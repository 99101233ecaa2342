package booking

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// IDPrefix starts every appointment code.
	IDPrefix = "AGD-"

	idAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idRandomChars = 9

	// Largest multiple of len(idAlphabet) that fits in a byte; bytes at or
	// above it are rejected so every character is equally likely.
	idByteLimit = 256 - 256%len(idAlphabet)

	defaultMaxAttempts = 1000
)

// ErrIDSpaceExhausted is returned when no unused code was found within the
// attempt budget. With a healthy randomness source this does not happen.
var ErrIDSpaceExhausted = errors.New("booking: could not generate unique appointment id")

// IDGenerator produces AGD-XXXXXXXXX codes that are unused in a registry.
type IDGenerator struct {
	rand        io.Reader
	maxAttempts int
}

// NewIDGenerator returns a generator reading from src, or crypto/rand when src is nil.
func NewIDGenerator(src io.Reader) *IDGenerator {
	if src == nil {
		src = rand.Reader
	}
	return &IDGenerator{rand: src, maxAttempts: defaultMaxAttempts}
}

// Next draws codes until exists reports one as unused.
func (g *IDGenerator) Next(exists func(id string) bool) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id, err := g.draw()
		if err != nil {
			return "", err
		}
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

func (g *IDGenerator) draw() (string, error) {
	var sb strings.Builder
	sb.Grow(len(IDPrefix) + idRandomChars)
	sb.WriteString(IDPrefix)

	buf := make([]byte, idRandomChars)
	for n := 0; n < idRandomChars; {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("booking: read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= idByteLimit {
				continue
			}
			sb.WriteByte(idAlphabet[int(b)%len(idAlphabet)])
			n++
			if n == idRandomChars {
				break
			}
		}
	}
	return sb.String(), nil
}

// ValidID reports whether id has the AGD- code shape.
func ValidID(id string) bool {
	rest, ok := strings.CutPrefix(id, IDPrefix)
	if !ok || len(rest) != idRandomChars {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if !strings.ContainsRune(idAlphabet, rune(rest[i])) {
			return false
		}
	}
	return true
}

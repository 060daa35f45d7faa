// Package idgen generates short, URL-safe identifiers for stored documents.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the character set of generated IDs. It sorts the same in ASCII
// and in S3 key order.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Length is the number of random characters generated.
const Length = 12

// Generate returns a new random ID.
func Generate() (string, error) {
	return WithPrefix("")
}

// WithPrefix returns a new random ID with prefix prepended.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

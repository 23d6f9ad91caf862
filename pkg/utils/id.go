package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a 32-char hex id for store-assigned identifiers.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// MaskToken keeps the first four characters of a payment token for logs.
func MaskToken(tok string) string {
	if len(tok) <= 4 {
		return "****"
	}
	return tok[:4] + "****"
}

package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes an ingested document.
type Metadata struct {
	Source    string `json:"source"`
	MIME      string `json:"mime,omitempty"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Chars     int    `json:"chars"`
}

// NewMetadata describes cleaned text read from source.
func NewMetadata(source, mime, cleaned string) *Metadata {
	return &Metadata{
		Source:    source,
		MIME:      mime,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(cleaned),
		Chars:     len([]rune(cleaned)),
	}
}

func computeHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

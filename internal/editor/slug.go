package editor

import (
	"crypto/rand"
	"math/big"

	"github.com/gosimple/slug"
)

const slugSuffixLen = 6

const slugSuffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSlug derives a URL slug from the event title plus a random
// suffix so two unsaved events with the same title never collide. An
// already-set slug is never regenerated; callers check before calling.
func GenerateSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "event"
	}
	return base + "-" + randomSuffix(slugSuffixLen)
}

func randomSuffix(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(slugSuffixCharset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand should not fail; fall back to a fixed char
			// rather than panicking mid-save.
			out[i] = 'x'
			continue
		}
		out[i] = slugSuffixCharset[idx.Int64()]
	}
	return string(out)
}

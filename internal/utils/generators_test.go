package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ms-event-dashboard/internal/utils"
)

func TestGenerateCouponCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code := utils.GenerateCouponCode()
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.True(t, strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r), code)
		}
		seen[code] = true
	}

	// 50 draws from a 36^8 space colliding would mean the generator is
	// broken.
	assert.Greater(t, len(seen), 1)
}

package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	h1 := Hash("Pat@Example.com")
	h2 := Hash(" pat@example.com ")
	h3 := Hash("other@example.com")

	assert.Equal(t, h1, h2, "case and spacing should not change the hash")
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64, "SHA-256 hex should be 64 chars")
}

func TestScrubPII(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"email", "contact me at john@example.com please", "contact me at [EMAIL] please"},
		{"phone", "call me at (330) 333-2654", "call me at[PHONE]"},
		{"phone with plus", "my number is +15005550002", "my number is [PHONE]"},
		{"no pii", "Possible Conditions: migraine", "Possible Conditions: migraine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ScrubPII(tt.input))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc...", Preview("abcdef", 3))
	assert.Equal(t, "mail [EMAIL]", Preview("  mail a@b.co  ", 0))
	assert.Equal(t, "héllo", Preview("héllo", 5))
}

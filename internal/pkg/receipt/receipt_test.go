package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Format(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 14, 30, 5, 0, time.FixedZone("WIB", 7*3600))

	id := New(paidAt)

	assert.True(t, strings.HasPrefix(id, "RCP-20240501-073005-"), id)
	assert.True(t, IsValid(id), id)
}

func TestNew_Unique(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	seen := make(map[string]struct{})
	for i := 0; i < 5000; i++ {
		id := New(paidAt)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate receipt id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("RCP-20240501-073005"))
	assert.False(t, IsValid("INV-20240501-073005-ABCDEF01"))
	assert.False(t, IsValid("RCP-20241301-073005-ABCDEF01"))
	assert.False(t, IsValid("RCP-20240501-073005-abcdef01"))
	assert.True(t, IsValid("RCP-20240501-073005-ABCDEF01"))
}

package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsPayable(t *testing.T) {
	payable := map[Status]bool{
		StatusPresent: true,
		StatusOnDuty:  true,
		StatusAbsent:  false,
		StatusLate:    false,
		StatusHalfDay: false,
	}
	for status, want := range payable {
		assert.Equal(t, want, status.IsPayable(), status)
		assert.True(t, status.IsValid(), status)
	}
	assert.False(t, Status("sick").IsValid())
	assert.False(t, Status("sick").IsPayable())
}

package recovery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecovery_Outstanding(t *testing.T) {
	r := Recovery{TotalAmount: decimal.NewFromInt(500), PaidAmount: decimal.NewFromInt(120)}
	assert.True(t, r.Outstanding().Equal(decimal.NewFromInt(380)))

	r.PaidAmount = decimal.NewFromInt(600)
	assert.True(t, r.Outstanding().IsZero())
}

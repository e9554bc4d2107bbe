package payroll

import (
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/recovery"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Policy holds the pay computation knobs loaded from configuration.
type Policy struct {
	// MinFinalAmount is the floor deductions may not push a payable record below.
	MinFinalAmount decimal.Decimal
	// DefaultRecoveryRate is the percentage of base pay withheld for a
	// recovery that has no rate of its own.
	DefaultRecoveryRate decimal.Decimal
}

// derivePerHeadRate splits the revenue pool evenly over the payable
// employees, truncated to cents.
func derivePerHeadRate(revenuePool decimal.Decimal, payableCount int) decimal.Decimal {
	if payableCount <= 0 {
		return decimal.Zero
	}
	return revenuePool.DivRound(decimal.NewFromInt(int64(payableCount)), 8).Truncate(2)
}

// computeDeductions withholds from base for each active recovery in order.
// A recovery takes at most base*rate/100, never more than it is still owed,
// and never more than what is left above the policy floor.
func computeDeductions(base decimal.Decimal, recoveries []recovery.Recovery, policy Policy) []payroll.Deduction {
	deductions := []payroll.Deduction{}

	remaining := base.Sub(policy.MinFinalAmount)
	for _, rc := range recoveries {
		if !remaining.IsPositive() {
			break
		}
		if rc.Status != recovery.StatusActive {
			continue
		}

		rate := policy.DefaultRecoveryRate
		if rc.Rate != nil {
			rate = *rc.Rate
		}

		amount := base.Mul(rate).Div(hundred).Round(2)
		amount = decimal.Min(amount, rc.Outstanding(), remaining)
		if !amount.IsPositive() {
			continue
		}

		id := rc.ID
		deductions = append(deductions, payroll.Deduction{
			RecoveryID: &id,
			Reason:     recoveryReason(rc),
			Amount:     amount,
		})
		remaining = remaining.Sub(amount)
	}

	return deductions
}

func recoveryReason(rc recovery.Recovery) string {
	if rc.Reason != "" {
		return rc.Reason
	}
	return "recovery"
}

// priceRecord fills the money fields of rec. Non-payable records earn
// nothing and carry no deductions.
func priceRecord(rec *payroll.PayRecord, perHeadRate decimal.Decimal, recoveries []recovery.Recovery, policy Policy) {
	if !rec.IsPayable() {
		rec.BaseAmount = decimal.Zero
		rec.Deductions = []payroll.Deduction{}
		rec.TotalDeduction = decimal.Zero
		rec.FinalAmount = decimal.Zero
		return
	}

	rec.BaseAmount = perHeadRate
	rec.Deductions = computeDeductions(perHeadRate, recoveries, policy)

	total := decimal.Zero
	for _, d := range rec.Deductions {
		total = total.Add(d.Amount)
	}
	rec.TotalDeduction = total
	rec.FinalAmount = perHeadRate.Sub(total)
}

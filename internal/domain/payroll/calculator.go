package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ShiftTypeBreakdown is the shift type that carries a minimum callout amount.
// Comparison is case-insensitive so legacy records with mixed casing still
// qualify.
const ShiftTypeBreakdown = "breakdown"

var (
	// DefaultPayRate is the hourly rate used when an employee has none configured.
	DefaultPayRate = decimal.NewFromInt(25)

	// BreakdownMinimum is the floor applied to breakdown shift pay.
	BreakdownMinimum = decimal.NewFromInt(50)
)

// PayDueOption distinguishes a stored pay amount from the absence of one. A
// stored zero is a real value and must not fall back to recomputation.
type PayDueOption struct {
	value decimal.Decimal
	valid bool
}

// SomePayDue wraps a stored pay amount.
func SomePayDue(v decimal.Decimal) PayDueOption {
	return PayDueOption{value: v, valid: true}
}

// NoPayDue represents the absence of a stored pay amount.
func NoPayDue() PayDueOption {
	return PayDueOption{}
}

// Get returns the stored amount and whether one is present.
func (o PayDueOption) Get() (decimal.Decimal, bool) {
	return o.value, o.valid
}

// PayResult carries the computed amount together with whether the breakdown
// minimum determined it.
type PayResult struct {
	PayDue     decimal.Decimal
	MinApplied bool
}

// ComputePay returns the amount owed for a shift. A stored pay amount wins
// verbatim over any recomputation. Otherwise pay is hours times rate, with
// breakdown shifts floored at BreakdownMinimum. Amounts are never rounded
// here; formatting is a presentation concern.
func ComputePay(hours, rate decimal.Decimal, shiftType string, existing PayDueOption) decimal.Decimal {
	if stored, ok := existing.Get(); ok {
		return stored
	}

	base := hours.Mul(rate)
	if IsBreakdown(shiftType) && base.LessThan(BreakdownMinimum) {
		return BreakdownMinimum
	}

	return base
}

// MinimumApplied reports whether the breakdown floor governs the pay for the
// given inputs. It is derived from hours, rate, and shift type alone, so it
// stays meaningful even when a stored pay amount takes precedence.
func MinimumApplied(hours, rate decimal.Decimal, shiftType string) bool {
	if !IsBreakdown(shiftType) {
		return false
	}

	return hours.Mul(rate).LessThan(BreakdownMinimum)
}

// ComputePayDetail combines ComputePay and MinimumApplied in one pass.
func ComputePayDetail(hours, rate decimal.Decimal, shiftType string, existing PayDueOption) PayResult {
	return PayResult{
		PayDue:     ComputePay(hours, rate, shiftType, existing),
		MinApplied: MinimumApplied(hours, rate, shiftType),
	}
}

// ResolveRate picks the effective hourly rate for an employee, falling back
// to DefaultPayRate when none is configured.
func ResolveRate(employeeRate *decimal.Decimal) decimal.Decimal {
	if employeeRate == nil {
		return DefaultPayRate
	}

	return *employeeRate
}

// IsBreakdown reports whether the shift type qualifies for the minimum
// callout amount.
func IsBreakdown(shiftType string) bool {
	return strings.EqualFold(strings.TrimSpace(shiftType), ShiftTypeBreakdown)
}

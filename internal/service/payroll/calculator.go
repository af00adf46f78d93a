package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
)

// moneyPlaces is the currency-minor-unit precision used everywhere money is
// rounded. A single rounding site keeps stored fields and recomputations from
// drifting by cents.
const moneyPlaces = 2

// DefaultTaxRate is the statutory income tax rate (13%).
var DefaultTaxRate = decimal.NewFromFloat(0.13)

// Calculator converts (hours, rate, bonus) into a pay breakdown. It is pure:
// no state, no side effects, deterministic for a given tax rate.
type Calculator struct {
	taxRate decimal.Decimal
}

func NewCalculator(taxRate decimal.Decimal) Calculator {
	return Calculator{taxRate: taxRate}
}

// Breakdown is the derived money set for one payroll line.
type Breakdown struct {
	BasePay decimal.Decimal
	Gross   decimal.Decimal
	Tax     decimal.Decimal
	Net     decimal.Decimal
}

// Compute derives basePay, gross, tax and net. Rounding is half-up to two
// decimal places, applied to basePay and tax only; gross and net follow by
// exact addition so that Gross = BasePay + Bonus and Net = Gross - Tax hold.
func (c Calculator) Compute(hours, rate, bonus decimal.Decimal) (Breakdown, error) {
	if hours.IsNegative() || rate.IsNegative() {
		return Breakdown{}, payroll.ErrInvalidInput
	}

	basePay := hours.Mul(rate).Round(moneyPlaces)
	gross := basePay.Add(bonus)
	tax := gross.Mul(c.taxRate).Round(moneyPlaces)
	net := gross.Sub(tax)

	return Breakdown{
		BasePay: basePay,
		Gross:   gross,
		Tax:     tax,
		Net:     net,
	}, nil
}

// Adjust re-derives gross, tax and net from an already-rounded base pay and
// a new bonus. Corrections go through here so they never disturb the stored
// base pay, even when the line's hours have changed since the last
// recalculation.
func (c Calculator) Adjust(basePay, bonus decimal.Decimal) Breakdown {
	gross := basePay.Add(bonus)
	tax := gross.Mul(c.taxRate).Round(moneyPlaces)
	return Breakdown{
		BasePay: basePay,
		Gross:   gross,
		Tax:     tax,
		Net:     gross.Sub(tax),
	}
}

package domain

import "fmt"

// Amount holds money in minor units (cents), so 10.50 USD is stored as 1050.
// All order totals are derived from Amount arithmetic, never from floats.
type Amount int64

func AmountFromFloat(f float64) Amount {
	if f >= 0 {
		return Amount(f*100 + 0.5)
	}
	return Amount(f*100 - 0.5)
}

func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) MulQty(qty int) Amount {
	return a * Amount(qty)
}

func (a Amount) IsNegative() bool {
	return a < 0
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Package loyalty holds the points policy: how many points a payment
// earns and how redeemed points convert into a booking discount.
package loyalty

import (
	"github.com/shopspring/decimal"
)

type Policy struct {
	// PointValue is the discount one redeemed point is worth.
	PointValue decimal.Decimal
	// MaxDiscountRatio caps the discount as a share of the gross total.
	MaxDiscountRatio decimal.Decimal
}

// DefaultPolicy: 1 point per whole currency unit paid, a point redeems
// for 0.10, and redemption never covers more than half the gross total.
func DefaultPolicy() Policy {
	return Policy{
		PointValue:       decimal.NewFromFloat(0.10),
		MaxDiscountRatio: decimal.NewFromFloat(0.5),
	}
}

// Discount converts requested points into a discount against gross.
// When the cap bites, only as many points as fit under it are consumed;
// the rest stay with the customer. Returns the discount and the points
// actually used.
func (p Policy) Discount(requestedPoints int, gross decimal.Decimal) (decimal.Decimal, int) {
	if requestedPoints <= 0 || gross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, 0
	}

	maxDiscount := gross.Mul(p.MaxDiscountRatio)
	usablePoints := requestedPoints

	requested := p.PointValue.Mul(decimal.NewFromInt(int64(requestedPoints)))
	if requested.GreaterThan(maxDiscount) {
		usablePoints = int(maxDiscount.Div(p.PointValue).IntPart())
	}

	discount := p.PointValue.Mul(decimal.NewFromInt(int64(usablePoints)))
	return discount, usablePoints
}

// EarnedPoints is one point per whole currency unit of the paid amount.
func (p Policy) EarnedPoints(amount decimal.Decimal) int {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return int(amount.IntPart())
}

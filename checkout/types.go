package checkout

import (
	"github.com/shopspring/decimal"
)

// PricingTier describes a quantity-triggered member discount on a product:
// once the line quantity reaches RequiredQuantity, the unit price becomes
// unit price multiplied by PriceMultiplier while a member card is inserted.
type PricingTier struct {
	RequiredQuantity int
	PriceMultiplier  decimal.Decimal
}

// Validate performs static validation of the tier. Multipliers must stay in
// (0, 1]; anything else would raise the price or produce a negative one.
func (t *PricingTier) Validate() error {
	if t == nil {
		return ErrInvalidTier
	}
	if t.RequiredQuantity < 1 {
		return ErrInvalidTier
	}
	if !t.PriceMultiplier.IsPositive() || t.PriceMultiplier.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidTier
	}
	return nil
}

// Clone produces a deep copy of the tier.
func (t *PricingTier) Clone() *PricingTier {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

// Product is the engine-side view of a store item as returned by the backend
// lookup. Tier is nil when the product carries no member sale.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	MinAge    int
	Tier      *PricingTier
}

// OrderLine is a single product entry in the current order.
//
// DiscountedUnitPrice is always recomputed through the pricing rule, never
// edited directly, so DiscountedUnitPrice <= UnitPrice and
// Discounted == (DiscountedUnitPrice < UnitPrice) hold after every mutation.
type OrderLine struct {
	ProductID           string
	Name                string
	UnitPrice           decimal.Decimal
	Quantity            int
	Tier                *PricingTier
	DiscountedUnitPrice decimal.Decimal
	Discounted          bool
}

// LineTotal returns the extended discounted price for the line.
func (l *OrderLine) LineTotal() decimal.Decimal {
	return l.DiscountedUnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineDiscount returns the amount saved on the line against the undiscounted
// unit price.
func (l *OrderLine) LineDiscount() decimal.Decimal {
	return l.UnitPrice.Sub(l.DiscountedUnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l *OrderLine) clone() OrderLine {
	clone := *l
	clone.Tier = l.Tier.Clone()
	return clone
}

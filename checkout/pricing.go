package checkout

import "github.com/shopspring/decimal"

// Currency amounts round to two decimal places, half away from zero. Tests
// pin exact cent outputs against this rule.
const currencyPlaces = 2

func round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(currencyPlaces)
}

// discountedUnitPrice applies the member discount rule to a line: with no
// member inserted, or no tier on the line, the unit price stands. With a
// member and a tier, the multiplier applies once the line quantity reaches
// the tier threshold.
func discountedUnitPrice(line *OrderLine, member *Member) decimal.Decimal {
	if member == nil || line.Tier == nil {
		return line.UnitPrice
	}
	if line.Quantity < line.Tier.RequiredQuantity {
		return line.UnitPrice
	}
	return round2(line.UnitPrice.Mul(line.Tier.PriceMultiplier))
}

func repriceLine(line *OrderLine, member *Member) {
	line.DiscountedUnitPrice = discountedUnitPrice(line, member)
	line.Discounted = line.DiscountedUnitPrice.LessThan(line.UnitPrice)
}

// RepriceLines recomputes every line's discounted price against the given
// member state and returns the result as a new slice. This is the retroactive
// recompute that runs when a card is inserted after items were already
// scanned; inserting the card late must reproduce the prices an early insert
// would have produced.
func RepriceLines(lines []OrderLine, member *Member) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for i := range lines {
		line := lines[i].clone()
		repriceLine(&line, member)
		out = append(out, line)
	}
	return out
}

package checkout

import "github.com/shopspring/decimal"

// OrderEngine owns the lines of the order being built and the inserted
// member card. All operations are synchronous data mutations; the surrounding
// shell performs any network I/O and feeds the results in. One engine serves
// one checkout terminal.
type OrderEngine struct {
	lines  []OrderLine
	member *Member
	gate   *AgeGate
	sink   EventSink
}

// NewOrderEngine constructs an engine. prompt backs the age gate and may be
// nil, in which case every restricted item is rejected. sink may be nil.
func NewOrderEngine(prompt AgePrompt, sink EventSink) *OrderEngine {
	return &OrderEngine{
		gate: NewAgeGate(prompt),
		sink: sink,
	}
}

// AddItem adds one unit of the product to the order. The age gate runs first;
// on rejection the order is untouched and ErrAgeRejected is returned. A
// repeat scan of a known product id increments the existing line and
// re-evaluates its discount at the new quantity rather than appending a
// duplicate line.
func (e *OrderEngine) AddItem(product Product) error {
	if !e.gate.Check(product.MinAge) {
		emit(e.sink, eventItemAgeRejected, map[string]string{
			"productId": product.ID,
			"name":      product.Name,
		})
		return ErrAgeRejected
	}
	tier := product.Tier
	if tier != nil && tier.Validate() != nil {
		tier = nil
	}
	unitPrice := product.UnitPrice
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	for i := range e.lines {
		if e.lines[i].ProductID != product.ID {
			continue
		}
		e.lines[i].Quantity++
		repriceLine(&e.lines[i], e.member)
		emit(e.sink, eventItemAdded, lineAttributes(&e.lines[i]))
		return nil
	}
	line := OrderLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: unitPrice,
		Quantity:  1,
		Tier:      tier.Clone(),
	}
	repriceLine(&line, e.member)
	e.lines = append(e.lines, line)
	emit(e.sink, eventItemAdded, lineAttributes(&line))
	return nil
}

// RemoveItem deletes the line at the given display position. Out-of-bounds
// indexes are a no-op; the caller is a UI list that cannot go stale by more
// than one render.
func (e *OrderEngine) RemoveItem(index int) {
	if index < 0 || index >= len(e.lines) {
		return
	}
	removed := e.lines[index]
	e.lines = append(e.lines[:index], e.lines[index+1:]...)
	emit(e.sink, eventItemRemoved, map[string]string{
		"productId": removed.ProductID,
		"name":      removed.Name,
	})
}

// ApplyMember inserts the member card and reprices every existing line at its
// current quantity, so discounts earned before the card went in are honored.
// Member removal happens only through checkout confirmation.
func (e *OrderEngine) ApplyMember(member *Member) {
	e.member = member.Clone()
	e.lines = RepriceLines(e.lines, e.member)
	attrs := map[string]string{}
	if e.member != nil {
		attrs["memberId"] = e.member.MemberID
		attrs["name"] = e.member.DisplayName
	}
	emit(e.sink, eventMemberApplied, attrs)
}

// Clear empties the order and resets the age gate. The inserted member is
// untouched.
func (e *OrderEngine) Clear() {
	e.lines = nil
	e.gate.Reset()
	emit(e.sink, eventOrderCleared, nil)
}

func (e *OrderEngine) discardMember() {
	e.member = nil
}

// Member returns a copy of the inserted member, or nil when no card is in.
func (e *OrderEngine) Member() *Member {
	return e.member.Clone()
}

// Lines returns a copy of the current order lines in display order.
func (e *OrderEngine) Lines() []OrderLine {
	out := make([]OrderLine, 0, len(e.lines))
	for i := range e.lines {
		out = append(out, e.lines[i].clone())
	}
	return out
}

// LineCount returns the number of lines in the order.
func (e *OrderEngine) LineCount() int {
	return len(e.lines)
}

// Gate exposes the age gate for inspection.
func (e *OrderEngine) Gate() *AgeGate {
	return e.gate
}

// Subtotal is the undiscounted order value.
func (e *OrderEngine) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range e.lines {
		sum = sum.Add(e.lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(e.lines[i].Quantity))))
	}
	return sum
}

// DiscountTotal is the amount saved across all lines. It is never negative
// because discounted unit prices never exceed unit prices.
func (e *OrderEngine) DiscountTotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range e.lines {
		sum = sum.Add(e.lines[i].LineDiscount())
	}
	return sum
}

// Total is the subtotal less the discount total.
func (e *OrderEngine) Total() decimal.Decimal {
	return e.Subtotal().Sub(e.DiscountTotal())
}

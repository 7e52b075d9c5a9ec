package checkout

import (
	"errors"
	"testing"
)

type sinkRecorder struct {
	events []Event
}

func (s *sinkRecorder) AppendEvent(evt *Event) {
	s.events = append(s.events, *evt)
}

func (s *sinkRecorder) countOf(eventType string) int {
	n := 0
	for _, evt := range s.events {
		if evt.Type == eventType {
			n++
		}
	}
	return n
}

func soda(t *testing.T) Product {
	return Product{ID: "1001", Name: "Soda", UnitPrice: dec(t, "1.99")}
}

func tieredJerky(t *testing.T) Product {
	return Product{ID: "2002", Name: "Beef Jerky", UnitPrice: dec(t, "4.00"), Tier: tier(2, "0.5")}
}

func checkLineInvariants(t *testing.T, e *OrderEngine) {
	t.Helper()
	for _, line := range e.Lines() {
		if line.DiscountedUnitPrice.GreaterThan(line.UnitPrice) {
			t.Fatalf("line %s: discounted %s > unit %s", line.ProductID, line.DiscountedUnitPrice, line.UnitPrice)
		}
		if line.Discounted != line.DiscountedUnitPrice.LessThan(line.UnitPrice) {
			t.Fatalf("line %s: discounted flag inconsistent", line.ProductID)
		}
		if line.Quantity < 1 {
			t.Fatalf("line %s: quantity %d", line.ProductID, line.Quantity)
		}
	}
	if e.DiscountTotal().IsNegative() {
		t.Fatalf("discount total went negative: %s", e.DiscountTotal())
	}
	if !e.Total().Equal(e.Subtotal().Sub(e.DiscountTotal())) {
		t.Fatalf("total %s != subtotal %s - discount %s", e.Total(), e.Subtotal(), e.DiscountTotal())
	}
}

func TestAddItemDeduplicatesByProductID(t *testing.T) {
	e := NewOrderEngine(nil, nil)
	for i := 0; i < 2; i++ {
		if err := e.AddItem(soda(t)); err != nil {
			t.Fatalf("add soda: %v", err)
		}
	}
	lines := e.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", lines[0].Quantity)
	}
	if lines[0].DiscountedUnitPrice.StringFixed(2) != "1.99" {
		t.Fatalf("discounted unit = %s, want 1.99", lines[0].DiscountedUnitPrice.StringFixed(2))
	}
	if e.Total().StringFixed(2) != "3.98" {
		t.Fatalf("total = %s, want 3.98", e.Total().StringFixed(2))
	}
	checkLineInvariants(t, e)
}

func TestAddItemQuantityReachesTierWithMember(t *testing.T) {
	e := NewOrderEngine(nil, nil)
	e.ApplyMember(&Member{MemberID: "7", DisplayName: "Pat Quill"})

	if err := e.AddItem(tieredJerky(t)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if line := e.Lines()[0]; line.Discounted || line.DiscountedUnitPrice.StringFixed(2) != "4.00" {
		t.Fatalf("qty 1 below threshold must stay at 4.00, got %+v", line)
	}

	if err := e.AddItem(tieredJerky(t)); err != nil {
		t.Fatalf("add: %v", err)
	}
	line := e.Lines()[0]
	if !line.Discounted || line.DiscountedUnitPrice.StringFixed(2) != "2.00" {
		t.Fatalf("qty 2 at threshold must drop to 2.00, got %+v", line)
	}
	if e.Total().StringFixed(2) != "4.00" {
		t.Fatalf("total = %s, want 4.00", e.Total().StringFixed(2))
	}
	checkLineInvariants(t, e)
}

func TestApplyMemberRepricesRetroactively(t *testing.T) {
	member := &Member{MemberID: "7"}

	// Card first, then items.
	early := NewOrderEngine(nil, nil)
	early.ApplyMember(member)
	for i := 0; i < 3; i++ {
		if err := early.AddItem(tieredJerky(t)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	// Items first, then card.
	late := NewOrderEngine(nil, nil)
	for i := 0; i < 3; i++ {
		if err := late.AddItem(tieredJerky(t)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if late.Lines()[0].Discounted {
		t.Fatalf("discount must not apply before the card is inserted")
	}
	late.ApplyMember(member)

	earlyLine, lateLine := early.Lines()[0], late.Lines()[0]
	if !earlyLine.DiscountedUnitPrice.Equal(lateLine.DiscountedUnitPrice) {
		t.Fatalf("late insert priced %s, early insert %s",
			lateLine.DiscountedUnitPrice, earlyLine.DiscountedUnitPrice)
	}
	if !early.Total().Equal(late.Total()) {
		t.Fatalf("late insert total %s, early insert total %s", late.Total(), early.Total())
	}
	checkLineInvariants(t, late)
}

func TestAddItemAgeGateRunsFirst(t *testing.T) {
	prompt := &scriptedPrompt{answers: []promptAnswer{
		{age: 18, ok: true},
		{age: 25, ok: true},
	}}
	sink := &sinkRecorder{}
	e := NewOrderEngine(prompt, sink)
	beer := Product{ID: "3003", Name: "Beer", UnitPrice: dec(t, "8.99"), MinAge: 21}

	err := e.AddItem(beer)
	if !errors.Is(err, ErrAgeRejected) {
		t.Fatalf("expected ErrAgeRejected, got %v", err)
	}
	if e.LineCount() != 0 {
		t.Fatalf("rejected item must not enter the order")
	}
	if _, set := e.Gate().VerifiedAge(); set {
		t.Fatalf("rejected age must be cleared")
	}
	if sink.countOf(eventItemAgeRejected) != 1 {
		t.Fatalf("expected one age_rejected event")
	}

	// Retry with a corrected age succeeds.
	if err := e.AddItem(beer); err != nil {
		t.Fatalf("retry must succeed, got %v", err)
	}
	if e.LineCount() != 1 || e.Lines()[0].Quantity != 1 {
		t.Fatalf("expected a single line with quantity 1")
	}
	checkLineInvariants(t, e)
}

func TestAddItemInvalidTierIsDropped(t *testing.T) {
	e := NewOrderEngine(nil, nil)
	e.ApplyMember(&Member{MemberID: "7"})
	p := Product{ID: "4", Name: "Gum", UnitPrice: dec(t, "1.00"), Tier: tier(1, "-2")}
	for i := 0; i < 3; i++ {
		if err := e.AddItem(p); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	line := e.Lines()[0]
	if line.Discounted || line.Tier != nil {
		t.Fatalf("invalid tier must be dropped, got %+v", line)
	}
	checkLineInvariants(t, e)
}

func TestAddItemNegativePriceCoercedToZero(t *testing.T) {
	e := NewOrderEngine(nil, nil)
	if err := e.AddItem(Product{ID: "5", Name: "Coupon", UnitPrice: dec(t, "-1.00")}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !e.Lines()[0].UnitPrice.IsZero() {
		t.Fatalf("negative price must coerce to 0, got %s", e.Lines()[0].UnitPrice)
	}
	checkLineInvariants(t, e)
}

func TestRemoveItemToleratesBadIndex(t *testing.T) {
	e := NewOrderEngine(nil, nil)
	if err := e.AddItem(soda(t)); err != nil {
		t.Fatalf("add: %v", err)
	}
	e.RemoveItem(-1)
	e.RemoveItem(5)
	if e.LineCount() != 1 {
		t.Fatalf("out-of-bounds removal must be a no-op")
	}
	e.RemoveItem(0)
	if e.LineCount() != 0 {
		t.Fatalf("in-bounds removal must delete the line")
	}
}

func TestClearKeepsMemberAndResetsGate(t *testing.T) {
	prompt := &scriptedPrompt{answers: []promptAnswer{{age: 30, ok: true}, {age: 16, ok: true}}}
	e := NewOrderEngine(prompt, nil)
	e.ApplyMember(&Member{MemberID: "7"})
	if err := e.AddItem(Product{ID: "3003", Name: "Beer", UnitPrice: dec(t, "8.99"), MinAge: 21}); err != nil {
		t.Fatalf("add: %v", err)
	}

	e.Clear()
	if e.LineCount() != 0 {
		t.Fatalf("clear must empty the order")
	}
	if e.Member() == nil {
		t.Fatalf("clear must not touch the inserted member")
	}
	if _, set := e.Gate().VerifiedAge(); set {
		t.Fatalf("clear must reset the verified age")
	}
	// Next customer is prompted afresh.
	if err := e.AddItem(Product{ID: "3003", Name: "Beer", UnitPrice: dec(t, "8.99"), MinAge: 21}); !errors.Is(err, ErrAgeRejected) {
		t.Fatalf("expected fresh prompt with age 16 to reject, got %v", err)
	}
}

func TestLinesReturnsCopies(t *testing.T) {
	e := NewOrderEngine(nil, nil)
	if err := e.AddItem(soda(t)); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines := e.Lines()
	lines[0].Quantity = 99
	if e.Lines()[0].Quantity != 1 {
		t.Fatalf("Lines must return copies")
	}
}

package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// State tracks where the session is in the transaction lifecycle.
type State int

const (
	// StateBuilding is the default state; item and member mutations are
	// allowed freely.
	StateBuilding State = iota
	// StateAwaitingConfirmation means a checkout was requested and the
	// receipt is on display, pending confirm or cancel.
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PointsNotifier reports an awarded fuel point balance to the store backend.
// The call is best effort: the engine's own accrual already happened and
// stays authoritative for the receipt whatever the notifier returns.
type PointsNotifier interface {
	GivePoints(ctx context.Context, memberID string, points int64) error
}

// Receipt is the finalized view of a confirmed transaction.
type Receipt struct {
	Lines         []OrderLine
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	PointsAwarded int64
	// Member is a snapshot taken after accrual; nil when no card was
	// inserted.
	Member *Member
}

// FuelPointsSummary renders the receipt's fuel point line in the
// earned/current month/last month form, or "" when no card was inserted.
func (r *Receipt) FuelPointsSummary() string {
	if r.Member == nil {
		return ""
	}
	return fmt.Sprintf("Fuel Points: %d/%d/%d",
		r.PointsAwarded, r.Member.CurrentMonthPoints, r.Member.LastMonthPoints)
}

// CheckoutSession drives the Building -> AwaitingConfirmation ->
// {Finalized | Cancelled} transition over an order engine. Finalizing resets
// straight back to Building for the next customer.
type CheckoutSession struct {
	engine   *OrderEngine
	notifier PointsNotifier
	state    State
}

// NewCheckoutSession wraps the engine. notifier may be nil; point awards are
// then purely local.
func NewCheckoutSession(engine *OrderEngine, notifier PointsNotifier) *CheckoutSession {
	return &CheckoutSession{engine: engine, notifier: notifier}
}

// Engine returns the underlying order engine.
func (s *CheckoutSession) Engine() *OrderEngine {
	return s.engine
}

// State returns the current lifecycle state.
func (s *CheckoutSession) State() State {
	return s.state
}

// RequestCheckout moves the session to AwaitingConfirmation. An order with no
// lines is rejected with ErrEmptyOrder rather than silently ignored.
func (s *CheckoutSession) RequestCheckout() error {
	if s.state == StateAwaitingConfirmation {
		return ErrCheckoutPending
	}
	if s.engine.LineCount() == 0 {
		return ErrEmptyOrder
	}
	s.state = StateAwaitingConfirmation
	return nil
}

// Cancel discards the pending confirmation and returns to Building with the
// order and member untouched.
func (s *CheckoutSession) Cancel() error {
	if s.state != StateAwaitingConfirmation {
		return ErrNotAwaitingConfirmation
	}
	s.state = StateBuilding
	return nil
}

// Confirm finalizes the transaction. Totals are recomputed from the order as
// it stands now, not snapshotted at request time. With a member inserted,
// ceil(total) fuel points are accrued locally, the backend is notified best
// effort, and the card is removed; either way the order is cleared and the
// session returns to Building.
func (s *CheckoutSession) Confirm(ctx context.Context) (*Receipt, error) {
	if s.state != StateAwaitingConfirmation {
		return nil, ErrNotAwaitingConfirmation
	}
	receipt := &Receipt{
		Lines:         s.engine.Lines(),
		Subtotal:      s.engine.Subtotal(),
		DiscountTotal: s.engine.DiscountTotal(),
		Total:         s.engine.Total(),
	}
	if member := s.engine.member; member != nil {
		points := receipt.Total.Ceil().IntPart()
		member.Accrue(points)
		receipt.PointsAwarded = points
		receipt.Member = member.Clone()
		emit(s.engine.sink, eventPointsAccrued, map[string]string{
			"memberId": member.MemberID,
			"points":   fmt.Sprintf("%d", points),
			"total":    receipt.Total.StringFixed(2),
		})
		if s.notifier != nil {
			if err := s.notifier.GivePoints(ctx, member.MemberID, points); err != nil {
				emit(s.engine.sink, eventNotifyFailed, map[string]string{
					"memberId": member.MemberID,
					"error":    err.Error(),
				})
			}
		}
	}
	s.engine.Clear()
	s.engine.discardMember()
	s.state = StateBuilding
	emit(s.engine.sink, eventCheckoutConfirmed, map[string]string{
		"total":  receipt.Total.StringFixed(2),
		"points": fmt.Sprintf("%d", receipt.PointsAwarded),
	})
	return receipt, nil
}

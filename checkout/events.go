package checkout

import "strconv"

const (
	eventItemAdded         = "order.item_added"
	eventItemAgeRejected   = "order.item_age_rejected"
	eventItemRemoved       = "order.item_removed"
	eventOrderCleared      = "order.cleared"
	eventMemberApplied     = "order.member_applied"
	eventPointsAccrued     = "loyalty.points.accrued"
	eventNotifyFailed      = "loyalty.notify_failed"
	eventCheckoutConfirmed = "checkout.confirmed"
)

// Event records a state change inside the engine for the surrounding shell to
// log or count. Attributes are flat string pairs.
type Event struct {
	Type       string
	Attributes map[string]string
}

// EventSink receives engine events. Implementations must not retain the map.
type EventSink interface {
	AppendEvent(evt *Event)
}

func emit(sink EventSink, eventType string, attrs map[string]string) {
	if sink == nil {
		return
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	sink.AppendEvent(&Event{Type: eventType, Attributes: attrs})
}

func lineAttributes(line *OrderLine) map[string]string {
	return map[string]string{
		"productId":  line.ProductID,
		"name":       line.Name,
		"qty":        strconv.Itoa(line.Quantity),
		"unitPrice":  line.UnitPrice.StringFixed(2),
		"unit":       line.DiscountedUnitPrice.StringFixed(2),
		"discounted": strconv.FormatBool(line.Discounted),
	}
}

package backend

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"dinglespos/checkout"
)

// Wire payloads for the store backend. The backend serves Java entities, so
// numeric ids arrive as JSON numbers and prices as arbitrary-precision
// decimals; both are decoded defensively.

type itemPayload struct {
	ID         json.Number        `json:"id"`
	Name       string             `json:"name"`
	Price      lenientPrice       `json:"price"`
	MinAge     int                `json:"minAge"`
	MemberSale *memberSalePayload `json:"memberSale"`
}

type memberSalePayload struct {
	RequiredAmount int             `json:"requiredAmount"`
	PriceModifier  decimal.Decimal `json:"priceModifier"`
	SaleName       string          `json:"saleName"`
}

type memberPayload struct {
	CardID                 json.Number `json:"cardId"`
	FirstName              string      `json:"firstName"`
	LastName               string      `json:"lastName"`
	CurrentMonthFuelPoints int64       `json:"currentMonthFuelPoints"`
	LastMonthFuelPoints    int64       `json:"lastMonthFuelPoints"`
}

type addMemberPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber int64  `json:"phoneNumber"`
}

// lenientPrice coerces anything that is not a usable number to zero rather
// than failing the item lookup. A store backend emitting a malformed price
// should not wedge the lane.
type lenientPrice struct {
	decimal.Decimal
}

func (p *lenientPrice) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		p.Decimal = decimal.Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(trimmed); err != nil {
		p.Decimal = decimal.Zero
		return nil
	}
	p.Decimal = d
	return nil
}

func (p *itemPayload) product(requestedID string) checkout.Product {
	id := strings.TrimSpace(p.ID.String())
	if id == "" {
		id = requestedID
	}
	product := checkout.Product{
		ID:        id,
		Name:      p.Name,
		UnitPrice: p.Price.Decimal,
		MinAge:    p.MinAge,
	}
	if p.MemberSale != nil {
		tier := &checkout.PricingTier{
			RequiredQuantity: p.MemberSale.RequiredAmount,
			PriceMultiplier:  p.MemberSale.PriceModifier,
		}
		// An unusable tier is dropped; the product still sells at full
		// price.
		if tier.Validate() == nil {
			product.Tier = tier
		}
	}
	return product
}

func (p *memberPayload) member() *checkout.Member {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	return &checkout.Member{
		MemberID:           strings.TrimSpace(p.CardID.String()),
		DisplayName:        name,
		CurrentMonthPoints: p.CurrentMonthFuelPoints,
		LastMonthPoints:    p.LastMonthFuelPoints,
	}
}

package service

import "errors"

// Benefit is the category of promo effect. Redemption is tracked per
// benefit, not per code, so two codes granting the same benefit cannot
// stack within one session.
type Benefit string

const (
	BenefitFreeDelivery Benefit = "FREE_DELIVERY"
	BenefitDiscount20   Benefit = "DISCOUNT_20"
	BenefitFreeItem     Benefit = "FREE_ITEM"
)

// Known reports whether b is one of the defined benefit categories.
func (b Benefit) Known() bool {
	switch b {
	case BenefitFreeDelivery, BenefitDiscount20, BenefitFreeItem:
		return true
	}
	return false
}

type Promo struct {
	Code         string
	Benefit      Benefit
	Discount     int
	FreeDelivery bool
}

var (
	ErrUnknownPromoCode = errors.New("unknown promo code")
	ErrPromoAlreadyUsed = errors.New("promo benefit already used this session")
)

// DefaultPromoCodes is the static code table of the storefront.
func DefaultPromoCodes() map[string]Promo {
	return map[string]Promo{
		"FREEDEL":  {Code: "FREEDEL", Benefit: BenefitFreeDelivery, FreeDelivery: true},
		"SAVE20":   {Code: "SAVE20", Benefit: BenefitDiscount20, Discount: 20},
		"FREEFOOD": {Code: "FREEFOOD", Benefit: BenefitFreeItem},
	}
}

// PromoEngine validates and redeems promo codes for one session. It is
// not safe for concurrent use on its own; the owning store serializes
// access.
type PromoEngine struct {
	codes map[string]Promo
	used  map[Benefit]bool
}

func NewPromoEngine(codes map[string]Promo) *PromoEngine {
	return &PromoEngine{
		codes: codes,
		used:  make(map[Benefit]bool),
	}
}

// Redeem applies a code. A failed redemption leaves the engine
// untouched; the two sentinel errors exist for messaging only.
func (e *PromoEngine) Redeem(code string) (Promo, error) {
	promo, ok := e.codes[code]
	if !ok {
		return Promo{}, ErrUnknownPromoCode
	}
	if e.used[promo.Benefit] {
		return Promo{}, ErrPromoAlreadyUsed
	}
	e.used[promo.Benefit] = true
	return promo, nil
}

// Used reports whether a benefit has been redeemed this session.
func (e *PromoEngine) Used(benefit Benefit) bool {
	return e.used[benefit]
}

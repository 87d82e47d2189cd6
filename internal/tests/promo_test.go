package tests

import (
	"testing"

	"quickbite/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestPromoEngine_Redeem(t *testing.T) {
	engine := service.NewPromoEngine(service.DefaultPromoCodes())

	promo, err := engine.Redeem("SAVE20")
	assert.NoError(t, err)
	assert.Equal(t, service.BenefitDiscount20, promo.Benefit)
	assert.Equal(t, 20, promo.Discount)
	assert.True(t, engine.Used(service.BenefitDiscount20))

	_, err = engine.Redeem("SAVE20")
	assert.ErrorIs(t, err, service.ErrPromoAlreadyUsed)

	_, err = engine.Redeem("NOPE")
	assert.ErrorIs(t, err, service.ErrUnknownPromoCode)

	// Other benefit types are unaffected.
	promo, err = engine.Redeem("FREEDEL")
	assert.NoError(t, err)
	assert.True(t, promo.FreeDelivery)
}

func TestPromoEngine_DedupesByBenefitNotCode(t *testing.T) {
	// Two distinct codes granting the same benefit category cannot both
	// apply within a session.
	engine := service.NewPromoEngine(map[string]service.Promo{
		"SAVE20":    {Code: "SAVE20", Benefit: service.BenefitDiscount20, Discount: 20},
		"TWENTYOFF": {Code: "TWENTYOFF", Benefit: service.BenefitDiscount20, Discount: 20},
	})

	_, err := engine.Redeem("SAVE20")
	assert.NoError(t, err)

	_, err = engine.Redeem("TWENTYOFF")
	assert.ErrorIs(t, err, service.ErrPromoAlreadyUsed)
}

func TestBenefit_Known(t *testing.T) {
	for _, benefit := range []service.Benefit{
		service.BenefitFreeDelivery,
		service.BenefitDiscount20,
		service.BenefitFreeItem,
	} {
		assert.True(t, benefit.Known(), string(benefit))
	}
	assert.False(t, service.Benefit("MYSTERY_BOX").Known())
	assert.False(t, service.Benefit("").Known())
}

func TestPromoEngine_FailedRedeemLeavesStateUntouched(t *testing.T) {
	engine := service.NewPromoEngine(service.DefaultPromoCodes())

	_, err := engine.Redeem("NOPE")
	assert.Error(t, err)
	assert.False(t, engine.Used(service.BenefitDiscount20))
	assert.False(t, engine.Used(service.BenefitFreeDelivery))
	assert.False(t, engine.Used(service.BenefitFreeItem))
}

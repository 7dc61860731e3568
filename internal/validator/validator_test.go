package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	Quantity int `json:"quantity" validate:"omitempty,min=1"`
}

type sampleRequest struct {
	Email         string              `json:"email" validate:"required,email"`
	OTP           string              `json:"otp" validate:"required,len=6,numeric"`
	PaymentMethod string              `json:"paymentMethod" validate:"omitempty,is-payment-method"`
	Status        *string             `json:"status" validate:"omitempty,is-order-status"`
	Facets        map[string][]string `json:"filterAttributes" validate:"omitempty,dive,keys,is-facet-key,endkeys"`
	Items         []sampleItem        `json:"items" validate:"dive"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	status := "shipped"
	err := v.Validate(&sampleRequest{
		Email:         "buyer@example.com",
		OTP:           "012345",
		PaymentMethod: "upi",
		Status:        &status,
		Facets:        map[string][]string{"purposes": {"Health"}},
		Items:         []sampleItem{{Quantity: 2}},
	})
	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	v := New()
	status := "lost"
	err := v.Validate(&sampleRequest{
		Email:         "not-an-email",
		OTP:           "12ab56",
		PaymentMethod: "barter",
		Status:        &status,
		Facets:        map[string][]string{"colors": {"Red"}},
		Items:         []sampleItem{{Quantity: -1}},
	})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a valid email address", verr.Errors["email"])
	assert.Equal(t, "Must contain digits only", verr.Errors["otp"])
	assert.Equal(t, "Unknown payment method", verr.Errors["paymentMethod"])
	assert.Equal(t, "Unknown order status", verr.Errors["status"])
	assert.Contains(t, verr.Errors, "items[0].quantity")
	assert.Len(t, verr.Errors, 6)
}

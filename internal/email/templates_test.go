package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{15000, "15,000"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in))
	}
}

func TestBuildOrderNotificationBody(t *testing.T) {
	proofURL := "https://cdn.example.com/proofs/user-1/proof.jpg"
	body := BuildOrderNotificationBody("f3e2-1234-567890ab12cd", "Ada Obi", 39000, []OrderItem{
		{ProductID: "prod-1", Name: "Linen Shirt", Quantity: 2, UnitPrice: 12000, Size: "M"},
		{ProductID: "prod-2", Quantity: 1, UnitPrice: 15000},
	}, proofURL)

	assert.Contains(t, body, "Ada Obi")
	assert.Contains(t, body, "90AB12CD", "short uppercased order reference")
	assert.Contains(t, body, "Linen Shirt (M)")
	// Falls back to the product ID when the name is missing
	assert.Contains(t, body, "prod-2")
	assert.Contains(t, body, "39,000")
	assert.Contains(t, body, "&#8358;", "naira sign")
	assert.Contains(t, body, `href="`+proofURL+`"`, "payment proof link")
	assert.Contains(t, body, "View Payment Proof")
}

func TestBuildOrderNotificationBody_NoProofURL(t *testing.T) {
	body := BuildOrderNotificationBody("order-12345678", "Ada", 12000, []OrderItem{
		{ProductID: "prod-1", Name: "Linen Shirt", Quantity: 1, UnitPrice: 12000},
	}, "")

	assert.NotContains(t, body, "View Payment Proof")
}

func TestBuildStatusUpdateBody(t *testing.T) {
	t.Run("fulfilled", func(t *testing.T) {
		body := BuildStatusUpdateBody("Ada", "order-12345678", "fulfilled")
		assert.Contains(t, body, "Order Fulfilled")
		assert.Contains(t, body, "12345678")
	})

	t.Run("rejected", func(t *testing.T) {
		body := BuildStatusUpdateBody("Ada", "order-12345678", "rejected")
		assert.Contains(t, body, "Order Rejected")
	})

	t.Run("unknown status renders as rejected", func(t *testing.T) {
		body := BuildStatusUpdateBody("Ada", "order-12345678", "something-else")
		assert.Contains(t, body, "Order Rejected")
		assert.False(t, strings.Contains(body, "Order Fulfilled"))
	})
}

func TestBuildContactNotificationBody(t *testing.T) {
	body := BuildContactNotificationBody("Ada", "ada@example.com", "Do you ship to Abuja?")

	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, "ada@example.com")
	assert.Contains(t, body, "Do you ship to Abuja?")
}

package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nairobitech/duka/app/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderConfirmed, models.OrderProcessing, true},
		{models.OrderConfirmed, models.OrderPending, false},
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderConfirmed, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, models.CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled"} {
		assert.True(t, models.ValidOrderStatus(s), s)
	}
	assert.False(t, models.ValidOrderStatus("refunded"))
	assert.False(t, models.ValidOrderStatus(""))
}

func TestOrderShortID(t *testing.T) {
	o := models.Order{ID: "5f3a9b2c-1111-2222-3333-444455556666"}
	assert.Equal(t, "5f3a9b2c", o.ShortID())

	o.ID = "nodashes"
	assert.Equal(t, "nodashes", o.ShortID())
}

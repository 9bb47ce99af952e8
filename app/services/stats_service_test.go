package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/services"
)

func TestStatsSummaryCountsAndRevenue(t *testing.T) {
	db := setupDB(t)
	buyer := seedUser(t, db, "buyer@example.com", "user")
	seedUser(t, db, "admin@example.com", "admin")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "250.50", category.ID)

	orderSvc := services.NewOrderService()

	// One delivered order worth 501.00, one left pending.
	delivered, err := orderSvc.Place(buyer.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 2}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)
	for _, next := range []string{
		models.OrderConfirmed, models.OrderProcessing, models.OrderShipped, models.OrderDelivered,
	} {
		_, err = orderSvc.SetStatus(delivered.ID, next)
		require.NoError(t, err)
	}

	_, err = orderSvc.Place(buyer.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)

	stats, err := services.NewStatsService().Summary()
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.PendingOrders)
	assert.Equal(t, "KSh 501", stats.Revenue)
}

func TestStatsRevenueGroupsThousands(t *testing.T) {
	db := setupDB(t)
	buyer := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Laptops", "laptops")
	product := seedProduct(t, db, "ThinkPad", "6250.00", category.ID)

	orderSvc := services.NewOrderService()
	order, err := orderSvc.Place(buyer.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 2}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)
	for _, next := range []string{
		models.OrderConfirmed, models.OrderProcessing, models.OrderShipped, models.OrderDelivered,
	} {
		_, err = orderSvc.SetStatus(order.ID, next)
		require.NoError(t, err)
	}

	stats, err := services.NewStatsService().Summary()
	require.NoError(t, err)
	assert.Equal(t, "KSh 12,500", stats.Revenue)
}

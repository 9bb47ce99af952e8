package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/queue"
)

// recordDriver captures dispatched payloads instead of running them.
type recordDriver struct {
	mu       sync.Mutex
	payloads [][]byte
	pushErr  error
}

func (d *recordDriver) Push(payload []byte) error {
	if d.pushErr != nil {
		return d.pushErr
	}
	d.mu.Lock()
	d.payloads = append(d.payloads, append([]byte(nil), payload...))
	d.mu.Unlock()
	return nil
}

func (d *recordDriver) Pop(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// jobTypes decodes the captured envelopes down to their type names.
func (d *recordDriver) jobTypes(t *testing.T) []string {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()

	var types []string
	for _, raw := range d.payloads {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(raw, &env))
		types = append(types, env.Type)
	}
	return types
}

// captureQueue swaps in a recording queue driver for the test.
func captureQueue(t *testing.T, d *recordDriver) {
	t.Helper()
	queue.SetDriver(d)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver()) })
}

func TestPlaceOrderComputesExactTotal(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "500.00", category.ID)

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 2}},
		ShippingAddress: "10 Woodvale Grove, Nairobi",
		Phone:           "0717888333",
	})
	require.NoError(t, err)

	assert.Equal(t, "1000.00", order.Total.StringFixed(2))
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "cash_on_delivery", order.PaymentMethod)

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "500.00", items[0].PriceAtTime.StringFixed(2))
	assert.Equal(t, 2, items[0].Quantity)
}

func TestPlaceOrderSkipsMissingProducts(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "199.99", category.ID)

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []services.OrderLine{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: "missing-product-id", Quantity: 3},
		},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "199.99", order.Total.StringFixed(2))

	var count int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPlaceOrderRejectsWhenNoLineSurvives(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")

	svc := services.NewOrderService()
	_, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: "gone", Quantity: 1}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.ErrorIs(t, err, services.ErrNoValidItems)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "no order row should exist")
}

func TestSetStatusFollowsLifecycle(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "100.00", category.ID)

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)

	for _, next := range []string{
		models.OrderConfirmed,
		models.OrderProcessing,
		models.OrderShipped,
		models.OrderDelivered,
	} {
		order, err = svc.SetStatus(order.ID, next)
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, next, order.Status)
	}

	// Delivered is terminal.
	_, err = svc.SetStatus(order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestSetStatusRejectsBackwardsAndUnknown(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "100.00", category.ID)

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)

	order, err = svc.SetStatus(order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	_, err = svc.SetStatus(order.ID, models.OrderPending)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = svc.SetStatus(order.ID, "refunded")
	assert.ErrorIs(t, err, services.ErrUnknownStatus)

	// The stored status was not touched by the rejected moves.
	stored, err := svc.Find(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, stored.Status)
}

func TestListForScopesByRole(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "alice@example.com", "user")
	bob := seedUser(t, db, "bob@example.com", "user")
	admin := seedUser(t, db, "admin@example.com", "admin")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "50.00", category.ID)

	svc := services.NewOrderService()
	for _, u := range []models.User{alice, bob} {
		_, err := svc.Place(u.ID, services.PlaceOrderInput{
			Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 1}},
			ShippingAddress: "Moi Avenue",
			Phone:           "0700000000",
		})
		require.NoError(t, err)
	}

	own, err := svc.ListFor(alice.ID, alice.Role)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, alice.ID, own[0].UserID)

	all, err := svc.ListFor(admin.ID, admin.Role)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "100.00", category.ID)

	svc := services.NewOrderService()
	for _, quantity := range []int{0, -3} {
		_, err := svc.Place(user.ID, services.PlaceOrderInput{
			Items:           []services.OrderLine{{ProductID: product.ID, Quantity: quantity}},
			ShippingAddress: "Moi Avenue",
			Phone:           "0700000000",
		})
		require.ErrorIs(t, err, services.ErrInvalidQuantity, "quantity %d", quantity)
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "no order row should exist")
}

func TestShippedTransitionQueuesOneDispatchEmail(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "100.00", category.ID)

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)

	rec := &recordDriver{}
	captureQueue(t, rec)

	for _, next := range []string{models.OrderConfirmed, models.OrderProcessing} {
		_, err = svc.SetStatus(order.ID, next)
		require.NoError(t, err)
	}
	assert.Empty(t, rec.jobTypes(t), "nothing should queue before shipped")

	_, err = svc.SetStatus(order.ID, models.OrderShipped)
	require.NoError(t, err)

	types := rec.jobTypes(t)
	require.Len(t, types, 1, "exactly one job per transition")
	assert.Equal(t, "jobs.DispatchEmailJob", types[0])
}

func TestShippedStatusSurvivesQueueFailure(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com", "user")
	category := seedCategory(t, db, "Phones", "phones")
	product := seedProduct(t, db, "Galaxy", "100.00", category.ID)

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:           []services.OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "Moi Avenue",
		Phone:           "0700000000",
	})
	require.NoError(t, err)
	for _, next := range []string{models.OrderConfirmed, models.OrderProcessing} {
		_, err = svc.SetStatus(order.ID, next)
		require.NoError(t, err)
	}

	captureQueue(t, &recordDriver{pushErr: errors.New("broker down")})

	order, err = svc.SetStatus(order.ID, models.OrderShipped)
	require.NoError(t, err, "a dead queue must not block the transition")
	assert.Equal(t, models.OrderShipped, order.Status)

	stored, err := svc.Find(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, stored.Status, "committed status must survive")
}

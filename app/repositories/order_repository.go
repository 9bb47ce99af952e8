package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/pkg/collection"
	"github.com/nairobitech/duka/pkg/orm"
)

// OrderRepository handles database operations for Order and OrderItem.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// FindByID looks up an order by primary key.
func (r *OrderRepository) FindByID(id string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).Where("id = ?", id).First(&order)
	return order, err
}

// FindByIDWithUser loads an order together with its purchaser.
func (r *OrderRepository) FindByIDWithUser(id string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("User").
		Where("id = ?", id).
		First(&order)
	return order, err
}

// ForUser returns a user's own orders, newest first.
func (r *OrderRepository) ForUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Get(&orders)
	return orders, err
}

// All returns every order, newest first.
func (r *OrderRepository) All() ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).Order("created_at DESC").Get(&orders)
	return orders, err
}

// AllDetailed returns every order with purchaser, items and item products
// attached. This is the back-office view.
func (r *OrderRepository) AllDetailed() ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Get(&orders)
	return orders, err
}

// UpdateStatus writes a new status on the order row.
func (r *OrderRepository) UpdateStatus(order *models.Order, status string) error {
	order.Status = status
	return orm.DB().Model(order).Where("id = ?", order.ID).Updates(map[string]interface{}{"status": status})
}

// CountByStatus returns how many orders are in the given status.
func (r *OrderRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Order{}).Where("status = ?", status).Count(&n)
	return n, err
}

// DeliveredRevenue sums the totals of all delivered orders in exact decimal.
func (r *OrderRepository) DeliveredRevenue() (decimal.Decimal, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("status = ?", models.OrderDelivered).
		Get(&orders)
	if err != nil {
		return decimal.Zero, err
	}

	return collection.Reduce(orders, decimal.Zero, func(sum decimal.Decimal, o models.Order) decimal.Decimal {
		return sum.Add(o.Total)
	}), nil
}

package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nairobitech/duka/app/jobs"
	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/pkg/event"
	"github.com/nairobitech/duka/pkg/logger"
	"github.com/nairobitech/duka/pkg/metrics"
	"github.com/nairobitech/duka/pkg/orm"
	"github.com/nairobitech/duka/pkg/queue"
)

// Events fired by the order service.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

var (
	// ErrNoValidItems is returned when every requested line referenced a
	// product that no longer exists.
	ErrNoValidItems = errors.New("order has no valid items")
	// ErrInvalidQuantity is returned when a line asks for fewer than one unit.
	ErrInvalidQuantity = errors.New("order line quantity must be at least 1")
	// ErrUnknownStatus is returned for a status string outside the lifecycle.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrInvalidTransition is returned when the lifecycle forbids the move.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderInput is the checkout payload.
type PlaceOrderInput struct {
	Items           []OrderLine `json:"items" validate:"required"`
	ShippingAddress string      `json:"shippingAddress" validate:"required"`
	Phone           string      `json:"phone" validate:"required"`
	Notes           string      `json:"notes"`
}

// StatusChange is the payload carried by EventOrderStatusChanged.
type StatusChange struct {
	Order models.Order
	From  string
	To    string
}

// OrderService implements checkout and the order lifecycle.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
	}
}

// Place creates an order for the user. Prices come from the current
// catalogue; lines whose product no longer exists are skipped. The order
// and its items are written in one transaction.
func (s *OrderService) Place(userID string, in PlaceOrderInput) (models.Order, error) {
	type pricedLine struct {
		productID string
		quantity  int
		price     decimal.Decimal
	}

	var (
		lines []pricedLine
		total = decimal.Zero
	)
	for _, line := range in.Items {
		// Request binding enforces this too; the check here keeps a
		// negative line total out of every other caller's path.
		if line.Quantity < 1 {
			return models.Order{}, fmt.Errorf("%w: product %s", ErrInvalidQuantity, line.ProductID)
		}
		product, err := s.products.FindByID(line.ProductID)
		if err != nil {
			if orm.IsNotFound(err) {
				logger.Warn("order: skipping unknown product", "product", line.ProductID)
				continue
			}
			return models.Order{}, fmt.Errorf("order: load product %s: %w", line.ProductID, err)
		}
		lines = append(lines, pricedLine{
			productID: product.ID,
			quantity:  line.Quantity,
			price:     product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if len(lines) == 0 {
		return models.Order{}, ErrNoValidItems
	}

	order := models.Order{
		UserID:          userID,
		Status:          models.OrderPending,
		Total:           total,
		ShippingAddress: in.ShippingAddress,
		Phone:           in.Phone,
		PaymentMethod:   "cash_on_delivery",
		Notes:           in.Notes,
	}

	err := orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Create(&order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, line := range lines {
			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.productID,
				Quantity:    line.quantity,
				PriceAtTime: line.price,
			}
			if err := tx.Create(&item); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("order: place: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	event.FireAsync(EventOrderPlaced, order)

	return order, nil
}

// ListFor returns the caller's view of orders: admins see everything,
// everyone else sees their own.
func (s *OrderService) ListFor(userID, role string) ([]models.Order, error) {
	if role == "admin" {
		return s.orders.All()
	}
	return s.orders.ForUser(userID)
}

// AdminList returns every order with purchaser and item details attached.
func (s *OrderService) AdminList() ([]models.Order, error) {
	return s.orders.AllDetailed()
}

// Find loads a single order.
func (s *OrderService) Find(id string) (models.Order, error) {
	return s.orders.FindByID(id)
}

// SetStatus moves an order through its lifecycle. The write commits
// first; the dispatch email on a move to shipped is queued afterwards
// and can never undo the transition.
func (s *OrderService) SetStatus(id, next string) (models.Order, error) {
	if !models.ValidOrderStatus(next) {
		return models.Order{}, ErrUnknownStatus
	}

	order, err := s.orders.FindByID(id)
	if err != nil {
		return models.Order{}, err
	}

	from := order.Status
	if !models.CanTransition(from, next) {
		return models.Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, next)
	}

	if err := s.orders.UpdateStatus(&order, next); err != nil {
		return models.Order{}, fmt.Errorf("order: set status: %w", err)
	}

	metrics.OrderStatusChanges.WithLabelValues(next).Inc()
	event.FireAsync(EventOrderStatusChanged, StatusChange{Order: order, From: from, To: next})

	if next == models.OrderShipped {
		if err := queue.Dispatch(jobs.DispatchEmailJob{OrderID: order.ID}); err != nil {
			// The status change is already committed; delivery is best-effort.
			logger.Error("order: queue dispatch email", "order", order.ID, "error", err)
		}
	}

	return order, nil
}

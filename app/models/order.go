package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// transitions maps each status to the statuses it may move to.
// Delivered and cancelled are terminal.
var transitions = map[string][]string{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ValidOrderStatus reports whether s names a known order status.
func ValidOrderStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an order may move from to next.
func CanTransition(from, next string) bool {
	for _, s := range transitions[from] {
		if s == next {
			return true
		}
	}
	return false
}

// Order is a placed order. Total is computed once at creation from the
// catalogue prices of the day and never recomputed.
type Order struct {
	ID              string          `gorm:"size:36;primaryKey" json:"id"`
	UserID          string          `gorm:"size:36;not null;index" json:"userId"`
	Status          string          `gorm:"size:50;not null;default:pending" json:"status"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shippingAddress"`
	Phone           string          `gorm:"size:50;not null" json:"phone"`
	PaymentMethod   string          `gorm:"size:50;not null;default:cash_on_delivery" json:"paymentMethod"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ShortID is the first segment of the order UUID, used in customer emails.
func (o *Order) ShortID() string {
	for i := 0; i < len(o.ID); i++ {
		if o.ID[i] == '-' {
			return o.ID[:i]
		}
	}
	return o.ID
}

// OrderItem is an immutable line of an order with the price snapshot
// taken when the order was placed.
type OrderItem struct {
	ID          string          `gorm:"size:36;primaryKey" json:"id"`
	OrderID     string          `gorm:"size:36;not null;index" json:"orderId"`
	ProductID   string          `gorm:"size:36;not null;index" json:"productId"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"priceAtTime"`
	CreatedAt   time.Time       `json:"createdAt"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

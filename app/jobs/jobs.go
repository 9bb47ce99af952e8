// Package jobs defines the queued background jobs and their registry.
package jobs

import (
	"fmt"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/notifications"
	"github.com/nairobitech/duka/pkg/notification"
	"github.com/nairobitech/duka/pkg/orm"
	"github.com/nairobitech/duka/pkg/queue"
)

// RegisterAll makes every job type known to the queue so payloads can be
// deserialized by name. Call once at boot.
func RegisterAll() {
	queue.Register("jobs.WelcomeEmailJob", func() queue.Job { return &WelcomeEmailJob{} })
	queue.Register("jobs.DispatchEmailJob", func() queue.Job { return &DispatchEmailJob{} })
}

// WelcomeEmailJob sends the post-registration welcome email.
type WelcomeEmailJob struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}

func (j WelcomeEmailJob) Handle() error {
	if errs := notification.Send(j.Email, notifications.Welcome{FirstName: j.FirstName}); len(errs) > 0 {
		return fmt.Errorf("jobs: welcome email to %s: %w", j.Email, errs[0])
	}
	return nil
}

// DispatchEmailJob emails a customer that their order has shipped.
// It re-reads the order so a retried job always sees current data.
type DispatchEmailJob struct {
	OrderID string `json:"orderId"`
}

func (j DispatchEmailJob) Handle() error {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("User").
		Where("id = ?", j.OrderID).
		First(&order)
	if err != nil {
		return fmt.Errorf("jobs: load order %s: %w", j.OrderID, err)
	}
	if order.User == nil || order.User.Email == "" {
		return fmt.Errorf("jobs: order %s has no addressable user", j.OrderID)
	}

	n := notifications.OrderDispatched{
		FirstName:       order.User.FirstName,
		OrderRef:        order.ShortID(),
		ShippingAddress: order.ShippingAddress,
	}
	if errs := notification.Send(order.User.Email, n); len(errs) > 0 {
		return fmt.Errorf("jobs: dispatch email for order %s: %w", j.OrderID, errs[0])
	}
	return nil
}

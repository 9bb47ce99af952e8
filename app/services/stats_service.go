package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/repositories"
)

// Stats is the back-office dashboard summary. Revenue counts delivered
// orders only and is formatted for display, e.g. "KSh 12,500".
type Stats struct {
	TotalProducts int64  `json:"totalProducts"`
	TotalUsers    int64  `json:"totalUsers"`
	PendingOrders int64  `json:"pendingOrders"`
	Revenue       string `json:"revenue"`
}

// StatsService aggregates the admin dashboard numbers.
type StatsService struct {
	users    *repositories.UserRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewStatsService() *StatsService {
	return &StatsService{
		users:    repositories.NewUserRepository(),
		products: repositories.NewProductRepository(),
		orders:   repositories.NewOrderRepository(),
	}
}

// Summary computes the dashboard stats.
func (s *StatsService) Summary() (Stats, error) {
	products, err := s.products.Count()
	if err != nil {
		return Stats{}, fmt.Errorf("stats: count products: %w", err)
	}
	users, err := s.users.Count()
	if err != nil {
		return Stats{}, fmt.Errorf("stats: count users: %w", err)
	}
	pending, err := s.orders.CountByStatus(models.OrderPending)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: count pending orders: %w", err)
	}
	revenue, err := s.orders.DeliveredRevenue()
	if err != nil {
		return Stats{}, fmt.Errorf("stats: revenue: %w", err)
	}

	// Display form drops trailing zeros and groups thousands:
	// 501.00 renders as "KSh 501", 12500.00 as "KSh 12,500".
	display := groupThousands(strconv.FormatFloat(revenue.InexactFloat64(), 'f', -1, 64))

	return Stats{
		TotalProducts: products,
		TotalUsers:    users,
		PendingOrders: pending,
		Revenue:       "KSh " + display,
	}, nil
}

// groupThousands inserts comma separators into the integer digits of a
// plain formatted number: "12500.5" becomes "12,500.5".
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) > 3 {
		var b strings.Builder
		for i, d := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(d)
		}
		intPart = b.String()
	}

	if hasFrac {
		return sign + intPart + "." + frac
	}
	return sign + intPart
}

// Package seeders loads demo catalog data. Each seeder file registers
// itself from init():
//
//	func init() {
//	    seeders.Register("categories", SeedCategories)
//	}
//
// The CLI runs the whole set with "duka seed".
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(db *gorm.DB) error

type seeder struct {
	name string
	fn   SeederFunc
}

var (
	mu       sync.Mutex
	registry []seeder
)

// Register adds a seeder under name. Seeders run in registration
// order, so dependent data (products need categories) registers later.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, seeder{name: name, fn: fn})
}

// RunAll executes every registered seeder, stopping at the first error.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	batch := append([]seeder(nil), registry...)
	mu.Unlock()

	if len(batch) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	for _, s := range batch {
		fmt.Printf("  Seeding: %s\n", s.name)
		if err := s.fn(db); err != nil {
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
	}
	return nil
}

// internal/application/usecase/fixtures_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	cartdom "attire/internal/domain/cart"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// mapMirror is an in-test cart.Mirror with an injectable failure, so usecase
// tests do not need the sqlite driver.
type mapMirror struct {
	mu       sync.Mutex
	docs     map[string]*cartdom.Cart
	failPuts bool
}

func newMapMirror() *mapMirror {
	return &mapMirror{docs: map[string]*cartdom.Cart{}}
}

var _ cartdom.Mirror = (*mapMirror)(nil)

func (m *mapMirror) Get(_ context.Context, userID string) (*cartdom.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.docs[userID]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (m *mapMirror) Put(_ context.Context, c *cartdom.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPuts {
		return errors.New("mirror down")
	}
	m.docs[c.ID] = c.Clone()
	return nil
}

func (m *mapMirror) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, userID)
	return nil
}

func teeSnapshot() cartdom.ProductSnapshot {
	return cartdom.ProductSnapshot{
		ProductID: "tee-01",
		Name:      "Logo Tee",
		Sizes:     []string{"S", "M", "L"},
		Price:     500,
	}
}

func capSnapshot() cartdom.ProductSnapshot {
	return cartdom.ProductSnapshot{
		ProductID: "cap-01",
		Name:      "Ball Cap",
		Sizes:     []string{"F"},
		Price:     300,
	}
}

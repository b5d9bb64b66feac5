package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/notify"
	"github.com/Skotchmaster/autoparts_shop/internal/repo"
	pkgdb "github.com/Skotchmaster/autoparts_shop/pkg/db"
)

type testEnv struct {
	DB    *gorm.DB
	Store *repo.GormRepo
	Sent  *recordingNotifier

	Carts    *CartService
	Orders   *OrderService
	Payments *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := &repo.GormRepo{DB: db}
	require.NoError(t, store.Migrate(context.Background()))

	sent := &recordingNotifier{}
	return &testEnv{
		DB:       db,
		Store:    store,
		Sent:     sent,
		Carts:    &CartService{Store: store},
		Orders:   &OrderService{Store: store, Notifier: sent},
		Payments: &PaymentService{Store: store, Notifier: sent},
	}
}

func (env *testEnv) part(t *testing.T, name string, price int64, inventory int) models.Part {
	t.Helper()
	p := models.Part{Name: name, Price: price, Inventory: inventory}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) inventory(t *testing.T, partID uint) int {
	t.Helper()
	var p models.Part
	require.NoError(t, env.DB.First(&p, partID).Error)
	return p.Inventory
}

// customer registers a complete shipping profile and returns its owner.
func (env *testEnv) customer(t *testing.T) domain.Customer {
	t.Helper()
	c := domain.Customer{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Name: "driver"}
	require.NoError(t, env.DB.Create(&models.Person{
		FullName:   "Jan Kowalski",
		Email:      c.Email,
		PostalCode: "00-950",
		Address:    "Marszalkowska 1, Warsaw",
	}).Error)
	return c
}

func tomorrow() int64 {
	return time.Now().Add(24 * time.Hour).Unix()
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *recordingNotifier) Send(_ context.Context, m notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, m)
	return nil
}

func (n *recordingNotifier) ofKind(k notify.Kind) []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Message
	for _, m := range n.msgs {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

type failingNotifier struct{}

func (failingNotifier) Send(context.Context, notify.Message) error {
	return errors.New("smtp: connection refused")
}

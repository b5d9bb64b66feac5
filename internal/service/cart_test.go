package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
)

func TestCartService_TotalFollowsPrices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	pads := env.part(t, "brake pads", 1000, 10)
	filter := env.part(t, "oil filter", 500, 10)

	_, err := env.Carts.AddItem(ctx, user, pads.ID, 2)
	require.NoError(t, err)
	_, err = env.Carts.AddItem(ctx, user, filter.ID, 1)
	require.NoError(t, err)

	view, err := env.Carts.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(2500), view.Total)
	assert.Equal(t, "brake pads", view.Items[0].Part.Name)
}

func TestCartService_EmptyCartIsCreatedOnRead(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()

	view, err := env.Carts.GetCart(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)
	assert.Equal(t, user, view.Cart.UserID)
}

func TestCartService_RepeatedAddsAccumulate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	p := env.part(t, "spark plug", 300, 10)

	_, err := env.Carts.AddItem(ctx, user, p.ID, 2)
	require.NoError(t, err)
	item, err := env.Carts.AddItem(ctx, user, p.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 5, env.inventory(t, p.ID))

	view, err := env.Carts.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1500), view.Total)
}

func TestCartService_InsufficientStockLeavesInventory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	p := env.part(t, "alternator", 25000, 3)

	_, err := env.Carts.AddItem(ctx, user, p.ID, 5)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, 3, env.inventory(t, p.ID))
	view, err := env.Carts.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_AddItemRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	p := env.part(t, "wiper", 800, 5)

	tests := []struct {
		name   string
		partID uint
		qty    int
		want   error
	}{
		{"zero quantity", p.ID, 0, domain.ErrInvalidQuantity},
		{"negative quantity", p.ID, -2, domain.ErrInvalidQuantity},
		{"missing part id", 0, 1, domain.ErrValidation},
		{"unknown part", p.ID + 100, 1, domain.ErrPartNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Carts.AddItem(context.Background(), uuid.New(), tt.partID, tt.qty)
			require.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 5, env.inventory(t, p.ID))
}

func TestCartService_RemoveAndClearReturnStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	a := env.part(t, "belt", 1200, 4)
	b := env.part(t, "pulley", 900, 4)

	_, err := env.Carts.AddItem(ctx, user, a.ID, 3)
	require.NoError(t, err)
	item, err := env.Carts.AddItem(ctx, user, b.ID, 2)
	require.NoError(t, err)

	require.NoError(t, env.Carts.RemoveItem(ctx, user, a.ID))
	assert.Equal(t, 4, env.inventory(t, a.ID))

	// removing something that is not in the cart is a no-op
	require.NoError(t, env.Carts.RemoveItem(ctx, user, a.ID))
	require.NoError(t, env.Carts.RemoveCartItem(ctx, uuid.New(), item.ID))
	assert.Equal(t, 2, env.inventory(t, b.ID))

	require.NoError(t, env.Carts.ClearCart(ctx, user))
	assert.Equal(t, 4, env.inventory(t, b.ID))

	view, err := env.Carts.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_ConcurrentAddsNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	p := env.part(t, "headlight", 4000, 5)

	const buyers = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, full int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Carts.AddItem(context.Background(), uuid.New(), p.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, buyers-5, full)
	assert.Zero(t, env.inventory(t, p.ID))
}

func TestCartService_ReleaseStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	p := env.part(t, "radiator", 15000, 2)

	_, err := env.Carts.AddItem(ctx, user, p.ID, 2)
	require.NoError(t, err)

	n, err := env.Carts.ReleaseStale(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, env.inventory(t, p.ID))

	n, err = env.Carts.ReleaseStale(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, env.inventory(t, p.ID))
}

// addAfterScan tops up every cart the sweep selected before the sweep releases it.
type addAfterScan struct {
	CartStore
	partID uint
}

func (s addAfterScan) StaleCarts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	users, err := s.CartStore.StaleCarts(ctx, cutoff, limit)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if _, err := s.CartStore.ReserveItem(ctx, u, s.partID, 1); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func TestCartService_ReleaseStaleKeepsCartTouchedAfterScan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	old := env.part(t, "alternator", 42000, 1)
	fresh := env.part(t, "fan belt", 1900, 3)

	_, err := env.Carts.AddItem(ctx, user, old.ID, 1)
	require.NoError(t, err)
	require.NoError(t, env.DB.Exec("UPDATE cart_items SET updated_at = ?", time.Now().UTC().Add(-48*time.Hour)).Error)

	carts := &CartService{Store: addAfterScan{CartStore: env.Store, partID: fresh.ID}}
	n, err := carts.ReleaseStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := env.Store.CountCartItems(ctx, user)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Zero(t, env.inventory(t, old.ID))
	assert.Equal(t, 2, env.inventory(t, fresh.ID))
}

func TestCartService_ReleaseStaleUsesLineAge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	idle, active := uuid.New(), uuid.New()
	p := env.part(t, "brake disc", 8900, 4)

	_, err := env.Carts.AddItem(ctx, idle, p.ID, 2)
	require.NoError(t, err)
	require.NoError(t, env.DB.Exec("UPDATE cart_items SET updated_at = ?", time.Now().UTC().Add(-48*time.Hour)).Error)
	_, err = env.Carts.AddItem(ctx, active, p.ID, 1)
	require.NoError(t, err)

	n, err := env.Carts.ReleaseStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, env.inventory(t, p.ID))

	count, err := env.Store.CountCartItems(ctx, active)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []map[string]any
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event.(map[string]any))
	return nil
}

func TestCartService_PublishesEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pub := &recordingPublisher{}
	env.Carts.Events = pub
	env.Carts.Topic = "cart_events"

	user := uuid.New()
	p := env.part(t, "fuse", 50, 10)

	_, err := env.Carts.AddItem(ctx, user, p.ID, 1)
	require.NoError(t, err)
	require.NoError(t, env.Carts.RemoveItem(ctx, user, p.ID))
	require.NoError(t, env.Carts.ClearCart(ctx, user))

	require.Len(t, pub.events, 2)
	assert.Equal(t, []string{"cart_events", "cart_events"}, pub.topics)
	assert.Equal(t, "item_added", pub.events[0]["type"])
	assert.Equal(t, "item_removed", pub.events[1]["type"])
}

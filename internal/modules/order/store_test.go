// README: Order store tests against a real Postgres (skipped without GROCERY_TEST_DSN). Run with -race.
package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery/internal/modules/pricing"
	"grocery/internal/testutil"
	"grocery/internal/types"
)

func newStoredOrder(t *testing.T, store *Store) *Order {
	t.Helper()
	code := "SAVE10"
	o := &Order{
		ID:         types.ID(uuid.NewString()),
		UserID:     types.ID(uuid.NewString()),
		SessionID:  "sess-db",
		Kind:       pricing.OrderGrocery,
		Status:     StatusPending,
		Subtotal:   decimal.RequireFromString("2400"),
		Currency:   "RWF",
		DeliveryAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		CreatedAt:  time.Now(),
		Payload: Payload{
			ShopID:            "shop-1",
			DeliveryAddressID: types.ID(uuid.NewString()),
			ServiceFee:        decimal.RequireFromString("1000"),
			DeliveryFee:       decimal.RequireFromString("2000"),
			Discount:          decimal.RequireFromString("240"),
			ReferralDiscount:  decimal.Zero,
			VoucherCode:       &code,
			Total:             decimal.RequireFromString("5160"),
			Items: []Item{
				{ProductID: "bread", Quantity: 1, Price: decimal.RequireFromString("800")},
				{ProductID: "milk", Quantity: 2, Price: decimal.RequireFromString("800")},
			},
		},
	}
	require.NoError(t, store.Create(context.Background(), o))
	return o
}

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(testutil.Postgres(t))
	want := newStoredOrder(t, store)

	got, err := store.Get(context.Background(), want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, pricing.OrderGrocery, got.Kind)
	assert.True(t, got.Payload.Total.Equal(want.Payload.Total))
	assert.True(t, got.Payload.Discount.Equal(want.Payload.Discount))
	require.NotNil(t, got.Payload.VoucherCode)
	assert.Equal(t, "SAVE10", *got.Payload.VoucherCode)
	assert.Equal(t, "2026-03-01T10:30:00Z", got.Payload.DeliveryTime)
	require.Len(t, got.Payload.Items, 2)
	assert.Equal(t, "bread", got.Payload.Items[0].ProductID)
	assert.Equal(t, 2, got.Payload.Items[1].Quantity)
}

func TestStore_CreateIsAtomic(t *testing.T) {
	store := NewStore(testutil.Postgres(t))
	o := newStoredOrder(t, store)

	dup := *o
	dup.ID = types.ID(uuid.NewString())
	dup.Payload.Items = []Item{
		{ProductID: "eggs", Quantity: 1, Price: decimal.RequireFromString("100")},
		{ProductID: "eggs", Quantity: 1, Price: decimal.RequireFromString("100")},
	}
	require.Error(t, store.Create(context.Background(), &dup))

	_, err := store.Get(context.Background(), dup.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentCancelSameOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.Postgres(t))
	svc := NewService(store, nil, nil)
	o := newStoredOrder(t, store)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Cancel(ctx, CancelCommand{OrderID: o.ID, UserID: o.UserID})
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.True(t, err == ErrConflict || err == ErrInvalidState, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, success)

	got, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, 1, got.StatusVersion)
}

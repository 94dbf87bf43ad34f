package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery/internal/types"
)

type memStore struct {
	addrs []Address
}

func (m *memStore) ListByUser(_ context.Context, userID types.ID) ([]Address, error) {
	var out []Address
	for _, a := range m.addrs {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*Address, error) {
	for _, a := range m.addrs {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) Selected(_ context.Context, userID types.ID) (*Address, error) {
	for _, a := range m.addrs {
		if a.UserID == userID && a.IsDefault {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) Select(_ context.Context, userID, id types.ID) error {
	found := false
	for _, a := range m.addrs {
		if a.ID == id && a.UserID == userID {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	for i := range m.addrs {
		if m.addrs[i].UserID == userID {
			m.addrs[i].IsDefault = m.addrs[i].ID == id
		}
	}
	return nil
}

func newMemStore() *memStore {
	return &memStore{addrs: []Address{
		{ID: "home", UserID: "u1", Position: types.Point{Lat: -1.9700, Lng: 30.1000}, IsDefault: true},
		{ID: "work", UserID: "u1", Position: types.Point{Lat: -1.9500, Lng: 30.0600}},
		{ID: "other", UserID: "u2", Position: types.Point{Lat: -1.9400, Lng: 30.0500}, IsDefault: true},
	}}
}

func TestService_ListSortsByDistanceFromOrigin(t *testing.T) {
	svc := NewService(newMemStore())
	shop := types.Point{Lat: -1.9510, Lng: 30.0610}

	addrs, err := svc.List(context.Background(), "u1", &shop)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, types.ID("work"), addrs[0].ID)
	assert.Equal(t, types.ID("home"), addrs[1].ID)
	assert.Less(t, addrs[0].DistanceKm, addrs[1].DistanceKm)
}

func TestService_ListWithoutOriginKeepsStoreOrder(t *testing.T) {
	svc := NewService(newMemStore())

	addrs, err := svc.List(context.Background(), "u1", nil)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, types.ID("home"), addrs[0].ID)
	assert.Zero(t, addrs[0].DistanceKm)
}

func TestService_Resolve(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	a, err := svc.Resolve(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, types.ID("home"), a.ID)

	a, err = svc.Resolve(ctx, "u1", "work")
	require.NoError(t, err)
	assert.Equal(t, types.ID("work"), a.ID)

	_, err = svc.Resolve(ctx, "u1", "other")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Resolve(ctx, "u3", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_SelectMovesDefault(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Select(ctx, "u1", "work"))
	a, err := svc.Resolve(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, types.ID("work"), a.ID)

	assert.ErrorIs(t, svc.Select(ctx, "u1", "other"), ErrNotFound)
}

// README: Address book service; lists saved addresses and tracks the selected one.
package location

import (
	"context"

	"grocery/internal/types"
)

// AddressStore is the persistence used by Service.
type AddressStore interface {
	ListByUser(ctx context.Context, userID types.ID) ([]Address, error)
	Get(ctx context.Context, id types.ID) (*Address, error)
	Selected(ctx context.Context, userID types.ID) (*Address, error)
	Select(ctx context.Context, userID, id types.ID) error
}

type Service struct {
	store AddressStore
}

func NewService(store AddressStore) *Service {
	return &Service{store: store}
}

// List returns the user's addresses. With a non-nil origin every address gets
// its distance from origin and the list is ordered closest first.
func (s *Service) List(ctx context.Context, userID types.ID, origin *types.Point) ([]Address, error) {
	addrs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		return addrs, nil
	}
	for i := range addrs {
		addrs[i].DistanceKm = DistanceKm(*origin, addrs[i].Position)
	}
	sortByDistance(addrs, func(a Address) float64 { return a.DistanceKm })
	return addrs, nil
}

// Resolve returns the address with id when given, else the user's selected one.
// An address owned by someone else is reported as not found.
func (s *Service) Resolve(ctx context.Context, userID, id types.ID) (*Address, error) {
	if id == "" {
		return s.store.Selected(ctx, userID)
	}
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != "" && a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) Select(ctx context.Context, userID, id types.ID) error {
	return s.store.Select(ctx, userID, id)
}

package memory

import (
	"context"
	"sort"

	"ordersvc/domain/order"
	"ordersvc/domain/shared"
)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, exists := r.store.orders[o.ID()]
	switch {
	case !exists && o.Version() != 0:
		return order.NewOrderNotFoundError(o.ID())
	case exists && stored.Version != o.Version():
		return order.NewConcurrentModificationError(o.ID())
	}

	o.IncrementVersionForSave()
	r.store.orders[o.ID()] = o.ToDTO()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return r.FindByID(ctx, id)
}

// FindByCustomerEmail returns the customer's orders, newest first.
func (r *OrderRepository) FindByCustomerEmail(ctx context.Context, email string) ([]*order.Order, error) {
	r.store.mu.RLock()
	var orders []*order.Order
	for _, dto := range r.store.orders {
		if dto.CustomerEmail == email {
			orders = append(orders, order.RebuildFromDTO(dto))
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate().After(orders[j].OrderDate())
	})
	return orders, nil
}

func (r *OrderRepository) List(ctx context.Context, page shared.PageRequest) (shared.Page[*order.Order], error) {
	page = page.Normalize()

	r.store.mu.RLock()
	all := make([]*order.Order, 0, len(r.store.orders))
	for _, dto := range r.store.orders {
		all = append(all, order.RebuildFromDTO(dto))
	}
	r.store.mu.RUnlock()

	less := orderLess(page.SortField)
	sort.SliceStable(all, func(i, j int) bool {
		if page.SortDesc {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})

	return paginate(all, page), nil
}

func orderLess(field string) func(a, b *order.Order) bool {
	switch field {
	case "id":
		return func(a, b *order.Order) bool { return a.ID() < b.ID() }
	case "status":
		return func(a, b *order.Order) bool { return a.Status() < b.Status() }
	case "totalAmount":
		return func(a, b *order.Order) bool { return a.TotalAmount().LessThan(b.TotalAmount()) }
	case "customerName":
		return func(a, b *order.Order) bool { return a.CustomerName() < b.CustomerName() }
	case "customerEmail":
		return func(a, b *order.Order) bool { return a.CustomerEmail() < b.CustomerEmail() }
	default:
		return func(a, b *order.Order) bool {
			if a.OrderDate().Equal(b.OrderDate()) {
				return a.ID() < b.ID()
			}
			return a.OrderDate().Before(b.OrderDate())
		}
	}
}

var _ order.Repository = (*OrderRepository)(nil)

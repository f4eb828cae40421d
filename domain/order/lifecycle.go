package order

import (
	"context"
	"sort"

	"ordersvc/domain/product"
)

// StockMovement records one product stock change made by a transition.
type StockMovement struct {
	ProductID   string
	ProductName string
	Delta       int
	StockAfter  int
}

// TransitionResult is the outcome of a lifecycle call.
type TransitionResult struct {
	Order     *Order
	Previous  Status
	Movements []StockMovement
}

// LifecycleService applies order status transitions and their stock side
// effects. It must run inside a unit of work: the order and product rows it
// loads are locked until the transaction ends, and nothing it writes is
// visible unless every step succeeds.
type LifecycleService struct {
	orders   Repository
	products product.Repository
}

func NewLifecycleService(orders Repository, products product.Repository) *LifecycleService {
	return &LifecycleService{orders: orders, products: products}
}

// UpdateStatus moves an order to newStatus.
//
// PENDING→CONFIRMED validates every line against current stock before
// debiting any product. CONFIRMED or SHIPPED→CANCELLED credits every line
// back. Other permitted transitions change the status only. The order is
// saved after all product writes.
func (s *LifecycleService) UpdateStatus(ctx context.Context, orderID string, newStatus Status) (*TransitionResult, error) {
	o, err := s.orders.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.CheckTransition(newStatus); err != nil {
		return nil, err
	}
	return s.transition(ctx, o, newStatus)
}

// Cancel cancels an order unless it was delivered, returning stock when it
// had been debited.
func (s *LifecycleService) Cancel(ctx context.Context, orderID string) (*TransitionResult, error) {
	o, err := s.orders.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.CheckCancel(); err != nil {
		return nil, err
	}
	return s.transition(ctx, o, StatusCancelled)
}

func (s *LifecycleService) transition(ctx context.Context, o *Order, newStatus Status) (*TransitionResult, error) {
	result := &TransitionResult{Order: o, Previous: o.Status()}

	var movements []StockMovement
	var err error
	switch o.StockEffectOf(newStatus) {
	case StockDebit:
		movements, err = s.debit(ctx, o)
	case StockCredit:
		movements, err = s.credit(ctx, o)
	}
	if err != nil {
		return nil, err
	}

	o.ApplyStatus(newStatus)
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	result.Movements = movements
	return result, nil
}

// debit validates every line first, then debits. Nothing is written if any
// line is short.
func (s *LifecycleService) debit(ctx context.Context, o *Order) ([]StockMovement, error) {
	items := o.Items()
	locked, err := s.lockProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	required := make(map[string]int, len(items))
	for _, item := range items {
		required[item.ProductID()] += item.Quantity()
	}
	for _, item := range items {
		p := locked[item.ProductID()]
		if !p.HasStock(required[item.ProductID()]) {
			return nil, product.NewInsufficientStockError(p.ID(), p.Name(), p.Stock(), required[item.ProductID()])
		}
	}

	return s.apply(ctx, items, locked, -1)
}

// credit has no pre-validation: adding stock cannot break the non-negative rule.
func (s *LifecycleService) credit(ctx context.Context, o *Order) ([]StockMovement, error) {
	items := o.Items()
	locked, err := s.lockProducts(ctx, items)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, items, locked, 1)
}

func (s *LifecycleService) apply(ctx context.Context, items []OrderItem, locked map[string]*product.Product, sign int) ([]StockMovement, error) {
	movements := make([]StockMovement, 0, len(items))
	for _, item := range items {
		p := locked[item.ProductID()]
		var err error
		if sign < 0 {
			err = p.DebitStock(item.Quantity())
		} else {
			err = p.CreditStock(item.Quantity())
		}
		if err != nil {
			return nil, err
		}
		movements = append(movements, StockMovement{
			ProductID:   p.ID(),
			ProductName: p.Name(),
			Delta:       sign * item.Quantity(),
			StockAfter:  p.Stock(),
		})
	}

	// one write per product, in lock order
	for _, id := range sortedProductIDs(items) {
		if err := s.products.Save(ctx, locked[id]); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

// lockProducts loads the products of the given items with row locks taken in
// ascending id order, so two orders sharing products cannot deadlock.
func (s *LifecycleService) lockProducts(ctx context.Context, items []OrderItem) (map[string]*product.Product, error) {
	locked := make(map[string]*product.Product, len(items))
	for _, id := range sortedProductIDs(items) {
		p, err := s.products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

func sortedProductIDs(items []OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID()]; ok {
			continue
		}
		seen[item.ProductID()] = struct{}{}
		ids = append(ids, item.ProductID())
	}
	sort.Strings(ids)
	return ids
}

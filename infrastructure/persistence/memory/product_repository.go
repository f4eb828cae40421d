package memory

import (
	"context"
	"sort"
	"strings"

	"ordersvc/domain/product"
	"ordersvc/domain/shared"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.products[id]
	if !ok {
		return nil, product.NewProductNotFoundError(id)
	}
	return product.RebuildFromDTO(dto), nil
}

// FindByIDForUpdate relies on the unit of work mutex for exclusion.
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*product.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, exists := r.store.products[p.ID()]
	switch {
	case !exists && p.Version() != 0:
		return product.NewProductNotFoundError(p.ID())
	case exists && stored.Version != p.Version():
		return product.NewConcurrentModificationError(p.ID())
	}

	p.IncrementVersionForSave()
	r.store.products[p.ID()] = p.ToDTO()
	return nil
}

// Delete refuses to remove a product that orders still reference.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return product.NewProductNotFoundError(id)
	}
	for _, o := range r.store.orders {
		for _, item := range o.Items {
			if item.ProductID() == id {
				return shared.NewConflictError("product", "Product with ID "+id+" is referenced by existing orders")
			}
		}
	}
	delete(r.store.products, id)
	return nil
}

func (r *ProductRepository) Search(ctx context.Context, spec shared.Specification, page shared.PageRequest) (shared.Page[*product.Product], error) {
	page = page.Normalize()
	if spec == nil {
		spec = shared.All{}
	}

	r.store.mu.RLock()
	matched := make([]*product.Product, 0, len(r.store.products))
	for _, dto := range r.store.products {
		p := product.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, p) {
			matched = append(matched, p)
		}
	}
	r.store.mu.RUnlock()

	less := productLess(page.SortField)
	sort.SliceStable(matched, func(i, j int) bool {
		if page.SortDesc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	return paginate(matched, page), nil
}

func productLess(field string) func(a, b *product.Product) bool {
	switch field {
	case "name":
		return func(a, b *product.Product) bool { return strings.ToLower(a.Name()) < strings.ToLower(b.Name()) }
	case "price":
		return func(a, b *product.Product) bool { return a.Price().LessThan(b.Price()) }
	case "stock":
		return func(a, b *product.Product) bool { return a.Stock() < b.Stock() }
	case "category":
		return func(a, b *product.Product) bool { return a.Category() < b.Category() }
	case "createdAt":
		return func(a, b *product.Product) bool { return a.CreatedAt().Before(b.CreatedAt()) }
	default:
		return func(a, b *product.Product) bool { return a.ID() < b.ID() }
	}
}

func paginate[T any](all []T, page shared.PageRequest) shared.Page[T] {
	start := page.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return shared.Page[T]{Items: items, Total: int64(len(all)), Page: page.Page, Size: page.Size}
}

var _ product.Repository = (*ProductRepository)(nil)

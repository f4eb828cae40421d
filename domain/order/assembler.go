package order

import (
	"context"

	"ordersvc/domain/product"

	"github.com/shopspring/decimal"
)

// LineRequest is one requested (product, quantity) pair.
type LineRequest struct {
	ProductID string
	Quantity  int
}

// ProductFinder is the slice of product.Repository the assembler needs.
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*product.Product, error)
}

// ItemAssembler validates request lines and prices them against the current
// catalogue. It never changes stock: a new order only reserves conceptually.
type ItemAssembler struct {
	products ProductFinder
}

func NewItemAssembler(products ProductFinder) *ItemAssembler {
	return &ItemAssembler{products: products}
}

// Assemble returns the priced items in request order and their exact total.
// Duplicate product ids are rejected before any product is looked up, so a
// duplicate is reported whatever the other lines contain.
func (a *ItemAssembler) Assemble(ctx context.Context, lines []LineRequest) ([]OrderItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, NewEmptyOrderError()
	}

	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ProductID]; dup {
			return nil, decimal.Zero, NewDuplicateProductError(line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
	}

	items := make([]OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		p, err := a.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}

		if !p.IsAvailable() {
			return nil, decimal.Zero, product.NewUnavailableError(p.ID(), p.Name(), p.Stock(), line.Quantity)
		}
		if p.Stock() < line.Quantity {
			return nil, decimal.Zero, product.NewInsufficientStockError(p.ID(), p.Name(), p.Stock(), line.Quantity)
		}

		item, err := NewOrderItem(p.ID(), p.Name(), line.Quantity, p.Price())
		if err != nil {
			return nil, decimal.Zero, err
		}
		items = append(items, item)
		total = total.Add(item.TotalPrice())
	}

	return items, total, nil
}

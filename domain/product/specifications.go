package product

import (
	"context"
	"strings"

	"ordersvc/domain/shared"
)

// NameContainsSpecification matches a case-insensitive substring of the name.
type NameContainsSpecification struct {
	Name string
}

func (spec NameContainsSpecification) IsSatisfiedBy(ctx context.Context, entity interface{}) bool {
	p, ok := entity.(*Product)
	return ok && strings.Contains(strings.ToLower(p.Name()), strings.ToLower(spec.Name))
}

// CategoryContainsSpecification matches a case-insensitive substring of the category.
type CategoryContainsSpecification struct {
	Category string
}

func (spec CategoryContainsSpecification) IsSatisfiedBy(ctx context.Context, entity interface{}) bool {
	p, ok := entity.(*Product)
	return ok && strings.Contains(strings.ToLower(p.Category()), strings.ToLower(spec.Category))
}

// ActiveSpecification matches active products.
type ActiveSpecification struct{}

func (ActiveSpecification) IsSatisfiedBy(ctx context.Context, entity interface{}) bool {
	p, ok := entity.(*Product)
	return ok && p.IsActive()
}

// SearchSpecification builds the catalogue search filter: name and/or
// category substrings, or active products only when neither is given.
func SearchSpecification(name, category string) shared.Specification {
	switch {
	case name != "" && category != "":
		return shared.And(NameContainsSpecification{Name: name}, CategoryContainsSpecification{Category: category})
	case name != "":
		return NameContainsSpecification{Name: name}
	case category != "":
		return CategoryContainsSpecification{Category: category}
	default:
		return ActiveSpecification{}
	}
}

package shared

import (
	"context"
)

// Specification encapsulates a query rule.
// IsSatisfiedBy is used for in-memory filtering; SQL stores translate the
// concrete specification types instead.
type Specification interface {
	IsSatisfiedBy(ctx context.Context, entity interface{}) bool
}

// AndSpecification represents the logical AND of two specifications
type AndSpecification struct {
	Left  Specification
	Right Specification
}

func (spec AndSpecification) IsSatisfiedBy(ctx context.Context, entity interface{}) bool {
	return spec.Left.IsSatisfiedBy(ctx, entity) && spec.Right.IsSatisfiedBy(ctx, entity)
}

func And(left, right Specification) Specification {
	return AndSpecification{Left: left, Right: right}
}

// OrSpecification represents the logical OR of two specifications
type OrSpecification struct {
	Left  Specification
	Right Specification
}

func (spec OrSpecification) IsSatisfiedBy(ctx context.Context, entity interface{}) bool {
	return spec.Left.IsSatisfiedBy(ctx, entity) || spec.Right.IsSatisfiedBy(ctx, entity)
}

func Or(left, right Specification) Specification {
	return OrSpecification{Left: left, Right: right}
}

// NotSpecification represents the logical NOT of a specification
type NotSpecification struct {
	Spec Specification
}

func (spec NotSpecification) IsSatisfiedBy(ctx context.Context, entity interface{}) bool {
	return !spec.Spec.IsSatisfiedBy(ctx, entity)
}

func Not(inner Specification) Specification {
	return NotSpecification{Spec: inner}
}

// All matches every entity.
type All struct{}

func (All) IsSatisfiedBy(context.Context, interface{}) bool { return true }

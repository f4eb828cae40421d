package specification

import (
	"fmt"
	"strings"

	"ordersvc/domain/product"
	"ordersvc/domain/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Translator converts domain specifications to SQL conditions.
// Infrastructure knows the concrete specification types; the domain does not
// know SQL.
type Translator interface {
	// Translate returns the WHERE expression for spec, or nil when spec
	// matches everything.
	Translate(spec shared.Specification) (clause.Expression, error)
}

// GormTranslator implements Translator for the GORM product tables.
type GormTranslator struct{}

func NewGormTranslator() *GormTranslator {
	return &GormTranslator{}
}

func (t *GormTranslator) Translate(spec shared.Specification) (clause.Expression, error) {
	switch s := spec.(type) {
	case nil, shared.All:
		return nil, nil
	case shared.AndSpecification:
		return t.binary(s.Left, s.Right, func(l, r clause.Expression) clause.Expression { return clause.And(l, r) })
	case shared.OrSpecification:
		return t.binary(s.Left, s.Right, func(l, r clause.Expression) clause.Expression { return clause.Or(l, r) })
	case shared.NotSpecification:
		inner, err := t.Translate(s.Spec)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			// NOT(all) matches nothing
			return clause.Expr{SQL: "1 = 0"}, nil
		}
		return clause.Not(inner), nil
	case product.NameContainsSpecification:
		return containsIgnoreCase("name", s.Name), nil
	case product.CategoryContainsSpecification:
		return containsIgnoreCase("category", s.Category), nil
	case product.ActiveSpecification:
		return clause.Eq{Column: clause.Column{Name: "is_active"}, Value: true}, nil
	default:
		return nil, fmt.Errorf("unsupported specification %T", spec)
	}
}

func (t *GormTranslator) binary(left, right shared.Specification, join func(l, r clause.Expression) clause.Expression) (clause.Expression, error) {
	l, err := t.Translate(left)
	if err != nil {
		return nil, err
	}
	r, err := t.Translate(right)
	if err != nil {
		return nil, err
	}
	switch {
	case l == nil:
		return r, nil
	case r == nil:
		return l, nil
	}
	return join(l, r), nil
}

// Scope applies spec to a query, the way repositories consume it.
func (t *GormTranslator) Scope(spec shared.Specification) (func(*gorm.DB) *gorm.DB, error) {
	expr, err := t.Translate(spec)
	if err != nil {
		return nil, err
	}
	return func(db *gorm.DB) *gorm.DB {
		if expr == nil {
			return db
		}
		return db.Where(expr)
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsIgnoreCase(column, value string) clause.Expression {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	return clause.Expr{SQL: "LOWER(" + column + ") LIKE ?", Vars: []interface{}{pattern}}
}

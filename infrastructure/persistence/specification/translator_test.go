package specification

import (
	"testing"

	"ordersvc/domain/product"
	"ordersvc/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

type unknownSpec struct{ shared.All }

func TestGormTranslatorTranslate(t *testing.T) {
	name := clause.Expr{SQL: "LOWER(name) LIKE ?", Vars: []interface{}{"%desk%"}}
	category := clause.Expr{SQL: "LOWER(category) LIKE ?", Vars: []interface{}{"%office%"}}
	active := clause.Eq{Column: clause.Column{Name: "is_active"}, Value: true}

	tests := []struct {
		name string
		spec shared.Specification
		want clause.Expression
	}{
		{"nil", nil, nil},
		{"all", shared.All{}, nil},
		{"name lowercased", product.NameContainsSpecification{Name: "DeSk"}, name},
		{"active", product.ActiveSpecification{}, active},
		{"search both", product.SearchSpecification("desk", "Office"), clause.And(name, category)},
		{"search neither", product.SearchSpecification("", ""), active},
		{"or", shared.Or(product.NameContainsSpecification{Name: "desk"}, product.ActiveSpecification{}), clause.Or(name, active)},
		{"not", shared.Not(product.ActiveSpecification{}), clause.Not(active)},
		{"and with all", shared.And(shared.All{}, product.ActiveSpecification{}), active},
	}

	translator := NewGormTranslator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translator.Translate(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGormTranslatorEscapesWildcards(t *testing.T) {
	got, err := NewGormTranslator().Translate(product.NameContainsSpecification{Name: "50%_off"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{`%50\%\_off%`}, got.(clause.Expr).Vars)
}

func TestGormTranslatorRejectsUnknown(t *testing.T) {
	_, err := NewGormTranslator().Translate(unknownSpec{})
	assert.Error(t, err)

	_, err = NewGormTranslator().Scope(shared.And(product.ActiveSpecification{}, unknownSpec{}))
	assert.Error(t, err)
}

/*
Package product Application Layer - catalogue maintenance and search
*/
package product

import (
	"context"
	"errors"

	"ordersvc/application/validation"
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
	"ordersvc/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("ordersvc/application/product")

type ApplicationService struct {
	uowFactory  shared.UnitOfWorkFactory
	productRepo product.Repository
}

func NewApplicationService(uowFactory shared.UnitOfWorkFactory, productRepo product.Repository) *ApplicationService {
	return &ApplicationService{uowFactory: uowFactory, productRepo: productRepo}
}

// ListProducts pages through the whole catalogue, id ascending by default.
func (s *ApplicationService) ListProducts(ctx context.Context, page shared.PageRequest) (*ProductPage, error) {
	ctx, span := tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()
	return s.search(ctx, span, shared.All{}, page)
}

// SearchProducts filters by case-insensitive name and/or category
// substrings; with neither it returns the active products.
func (s *ApplicationService) SearchProducts(ctx context.Context, name, category string, page shared.PageRequest) (*ProductPage, error) {
	ctx, span := tracer.Start(ctx, "ProductService.SearchProducts",
		trace.WithAttributes(attribute.String("product.name", name), attribute.String("product.category", category)))
	defer span.End()
	return s.search(ctx, span, product.SearchSpecification(name, category), page)
}

func (s *ApplicationService) search(ctx context.Context, span trace.Span, spec shared.Specification, page shared.PageRequest) (*ProductPage, error) {
	if page.SortField == "" {
		page.SortField = "id"
	}
	if !product.SortableFields[page.SortField] {
		err := shared.NewValidationError("product", "sort", "Unsupported sort field: "+page.SortField)
		return nil, fail(span, logger.FromContext(ctx), "Invalid product query", err)
	}

	result, err := s.productRepo.Search(ctx, spec, page)
	if err != nil {
		return nil, fail(span, logger.FromContext(ctx), "Failed to query products", err)
	}
	return toProductPage(result), nil
}

func (s *ApplicationService) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	ctx, span := tracer.Start(ctx, "ProductService.GetProduct",
		trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, logger.FromContext(ctx), "Failed to get product", err)
	}
	return toProductResponse(p), nil
}

func (s *ApplicationService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	ctx, span := tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	log := logger.FromContext(ctx)
	log.Info("Creating product", zap.String("name", req.Name), zap.String("category", req.Category))

	if err := validation.Struct("product", req); err != nil {
		return nil, fail(span, log, "Invalid create product request", err)
	}

	var p *product.Product
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = product.NewProduct(toAttributes(req, true))
		if err != nil {
			return err
		}
		if err := s.productRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, fail(span, log, "Failed to create product", err)
	}

	log.Info("Product created", zap.String("product_id", p.ID()))
	return toProductResponse(p), nil
}

// UpdateProduct replaces the editable fields of a product.
func (s *ApplicationService) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*ProductResponse, error) {
	ctx, span := tracer.Start(ctx, "ProductService.UpdateProduct",
		trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	log := logger.FromContext(ctx).With(zap.String("product_id", id))
	log.Info("Updating product")

	if err := validation.Struct("product", req); err != nil {
		return nil, fail(span, log, "Invalid update product request", err)
	}

	var p *product.Product
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.productRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := p.Update(toAttributes(req, p.IsActive())); err != nil {
			return err
		}
		if err := s.productRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
	if err != nil {
		return nil, fail(span, log, "Failed to update product", err)
	}

	log.Info("Product updated", zap.Int("stock", p.Stock()))
	return toProductResponse(p), nil
}

// DeleteProduct removes a product no order refers to.
func (s *ApplicationService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "ProductService.DeleteProduct",
		trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	log := logger.FromContext(ctx).With(zap.String("product_id", id))
	log.Info("Deleting product")

	err := s.uowFactory.New().Execute(ctx, func(ctx context.Context) error {
		return s.productRepo.Delete(ctx, id)
	})
	if err != nil {
		return fail(span, log, "Failed to delete product", err)
	}

	log.Info("Product deleted")
	return nil
}

func fail(span trace.Span, log *zap.Logger, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, product.ErrProductNotFound) || errors.Is(err, shared.ErrInvalidInput) {
		log.Warn(msg, zap.Error(err))
	} else {
		log.Error(msg, zap.Error(err))
	}
	return err
}

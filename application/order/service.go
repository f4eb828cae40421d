/*
Package order Application Layer - Order Business Process Orchestration

Responsibilities of Application Layer:
1. Validate request preconditions
2. Open one unit of work per write use case
3. Call the item assembler and the lifecycle service for business rules
4. Register changed aggregates so the UoW writes their events to the outbox
5. Map aggregates to response DTOs

Application services do not publish events directly; the outbox worker does.
*/
package order

import (
	"context"
	"errors"

	"ordersvc/application/validation"
	"ordersvc/domain/order"
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
	"ordersvc/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultListSize is the page size of ListOrders when none is given.
const DefaultListSize = 10

var tracer = otel.Tracer("ordersvc/application/order")

// ApplicationService Order application service - coordinates order-related business processes
type ApplicationService struct {
	uowFactory shared.UnitOfWorkFactory
	orderRepo  order.Repository
	assembler  *order.ItemAssembler
	lifecycle  *order.LifecycleService
}

// NewApplicationService Create order application service
func NewApplicationService(
	uowFactory shared.UnitOfWorkFactory,
	orderRepo order.Repository,
	productRepo product.Repository,
) *ApplicationService {
	return &ApplicationService{
		uowFactory: uowFactory,
		orderRepo:  orderRepo,
		assembler:  order.NewItemAssembler(productRepo),
		lifecycle:  order.NewLifecycleService(orderRepo, productRepo),
	}
}

// CreateOrder places a PENDING order priced at current product prices.
// Stock is not touched until the order is confirmed.
func (s *ApplicationService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int("order.item_count", len(req.OrderItems))))
	defer span.End()

	log := logger.FromContext(ctx)
	log.Info("Creating order",
		zap.String("customer_email", req.CustomerEmail),
		zap.Int("item_count", len(req.OrderItems)),
	)

	if err := validation.Struct("order", req); err != nil {
		return nil, fail(span, log, "Invalid create order request", err)
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		items, total, err := s.assembler.Assemble(ctx, toLineRequests(req.OrderItems))
		if err != nil {
			return err
		}

		o, err = order.NewOrder(req.CustomerName, req.CustomerEmail, items, total)
		if err != nil {
			return err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, fail(span, log, "Failed to create order", err)
	}

	span.SetAttributes(attribute.String("order.id", o.ID()))
	log.Info("Order created",
		zap.String("order_id", o.ID()),
		zap.String("total_amount", o.TotalAmount().String()),
	)
	return toOrderResponse(o), nil
}

// UpdateOrderStatus moves an order to the given status, debiting stock on
// confirmation and crediting it back on cancellation of a debited order.
func (s *ApplicationService) UpdateOrderStatus(ctx context.Context, orderID, rawStatus string) (*OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", orderID), attribute.String("order.new_status", rawStatus)))
	defer span.End()

	log := logger.FromContext(ctx).With(zap.String("order_id", orderID))
	log.Info("Updating order status", zap.String("new_status", rawStatus))

	newStatus, err := order.ParseStatus(rawStatus)
	if err != nil {
		return nil, fail(span, log, "Invalid order status", err)
	}

	result, err := s.runTransition(ctx, func(ctx context.Context) (*order.TransitionResult, error) {
		return s.lifecycle.UpdateStatus(ctx, orderID, newStatus)
	})
	if err != nil {
		return nil, fail(span, log, "Failed to update order status", err)
	}

	logMovements(log, result)
	log.Info("Order status updated",
		zap.String("from", string(result.Previous)),
		zap.String("to", string(result.Order.Status())),
	)
	return toOrderResponse(result.Order), nil
}

// CancelOrder cancels an order; a delivered order cannot be cancelled.
func (s *ApplicationService) CancelOrder(ctx context.Context, orderID string) error {
	ctx, span := tracer.Start(ctx, "OrderService.CancelOrder",
		trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	log := logger.FromContext(ctx).With(zap.String("order_id", orderID))
	log.Info("Cancelling order")

	result, err := s.runTransition(ctx, func(ctx context.Context) (*order.TransitionResult, error) {
		return s.lifecycle.Cancel(ctx, orderID)
	})
	if err != nil {
		return fail(span, log, "Failed to cancel order", err)
	}

	logMovements(log, result)
	log.Info("Order cancelled", zap.String("previous_status", string(result.Previous)))
	return nil
}

func (s *ApplicationService) runTransition(ctx context.Context, fn func(ctx context.Context) (*order.TransitionResult, error)) (*order.TransitionResult, error) {
	var result *order.TransitionResult
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		if err != nil {
			return err
		}
		uow.RegisterDirty(result.Order)
		return nil
	})
	return result, err
}

// GetOrder Get order information
func (s *ApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrder",
		trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fail(span, logger.FromContext(ctx), "Failed to get order", err)
	}
	return toOrderResponse(o), nil
}

// GetOrdersByCustomerEmail returns the customer's orders, newest first.
func (s *ApplicationService) GetOrdersByCustomerEmail(ctx context.Context, email string) ([]*OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrdersByCustomerEmail")
	defer span.End()

	orders, err := s.orderRepo.FindByCustomerEmail(ctx, email)
	if err != nil {
		return nil, fail(span, logger.FromContext(ctx), "Failed to get customer orders", err)
	}
	return toOrderResponses(orders), nil
}

// ListOrders pages through all orders, newest first unless a sort is given.
func (s *ApplicationService) ListOrders(ctx context.Context, page shared.PageRequest) (*OrderPage, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	if page.SortField == "" {
		page.SortField, page.SortDesc = "orderDate", true
	}
	if !order.SortableFields[page.SortField] {
		err := shared.NewValidationError("order", "sort", "Unsupported sort field: "+page.SortField)
		return nil, fail(span, logger.FromContext(ctx), "Invalid order list request", err)
	}
	if page.Size <= 0 {
		page.Size = DefaultListSize
	}

	result, err := s.orderRepo.List(ctx, page)
	if err != nil {
		return nil, fail(span, logger.FromContext(ctx), "Failed to list orders", err)
	}
	return toOrderPage(result), nil
}

func logMovements(log *zap.Logger, result *order.TransitionResult) {
	for _, m := range result.Movements {
		log.Debug("Stock adjusted",
			zap.String("product_id", m.ProductID),
			zap.String("product_name", m.ProductName),
			zap.Int("delta", m.Delta),
			zap.Int("stock_after", m.StockAfter),
		)
	}
}

// fail records err on the span and logs it: not-found and bad input at warn,
// everything else at error.
func fail(span trace.Span, log *zap.Logger, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, order.ErrOrderNotFound) || errors.Is(err, product.ErrProductNotFound) ||
		errors.Is(err, shared.ErrInvalidInput) {
		log.Warn(msg, zap.Error(err))
	} else {
		log.Error(msg, zap.Error(err))
	}
	return err
}

package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type orderService struct {
	orderRepo         repository.OrderRepository
	profileRepo       repository.ProfileRepository
	productRepo       repository.ProductRepository
	contactRepo       repository.ContactRepository
	qrCodeService     service.QRCodeService
	strictTransitions bool
	logger            *slog.Logger
}

// OrderServiceParams holds dependencies for the order service.
type OrderServiceParams struct {
	fx.In

	OrderRepo     repository.OrderRepository
	ProfileRepo   repository.ProfileRepository
	ProductRepo   repository.ProductRepository
	ContactRepo   repository.ContactRepository
	QRCodeService service.QRCodeService
	Config        *config.Config
	Logger        *slog.Logger
}

// NewOrderService creates the order service.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	strict := params.Config.Orders != nil && params.Config.Orders.StrictTransitions

	return &orderService{
		orderRepo:         params.OrderRepo,
		profileRepo:       params.ProfileRepo,
		productRepo:       params.ProductRepo,
		contactRepo:       params.ContactRepo,
		qrCodeService:     params.QRCodeService,
		strictTransitions: strict,
		logger:            params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *orderService) GetOrderHistory(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	orders, err := srv.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order history")
	}

	return orders, nil
}

func (srv *orderService) GetOrderQR(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) ([]byte, error) {
	if err := requireUser(requesterID); err != nil {
		return nil, err
	}

	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID && !isAdmin {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}

	png, err := srv.qrCodeService.GenerateOrderQR(order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate order QR code")
	}

	return png, nil
}

// ListOrders returns every order newest first, without items.
func (srv *orderService) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func (srv *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*usecase.OrderDetail, error) {
	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := srv.profileRepo.FindByUserID(ctx, order.UserID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, errors.Wrap(err, "failed to load order owner")
	}

	return &usecase.OrderDetail{Order: order, Profile: profile}, nil
}

// UpdateOrderStatus sets the status. Without strict transitions any enumerated status is accepted.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status " + status.String())
	}

	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if srv.strictTransitions && !order.Status.CanTransitionTo(status) {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails(
			order.Status.String() + " cannot move to " + status.String(),
		)
	}

	if err := srv.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to update order status")
	}

	srv.log(ctx).Info("Order status changed",
		slog.Any("orderID", id),
		slog.String("from", order.Status.String()),
		slog.String("to", status.String()),
	)
	order.Status = status

	return order, nil
}

// GetStats gathers the admin dashboard figures.
func (srv *orderService) GetStats(ctx context.Context) (*entity.OrderStats, error) {
	stats := &entity.OrderStats{}

	var err error
	if stats.ProductCount, err = srv.productRepo.Count(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to count products")
	}
	if stats.OrderCount, stats.TotalRevenue, err = srv.orderRepo.SumTotals(ctx, ""); err != nil {
		return nil, errors.Wrap(err, "failed to sum orders")
	}
	if stats.DeliveredCount, stats.DeliveredTotal, err = srv.orderRepo.SumTotals(ctx, entity.OrderStatusDelivered); err != nil {
		return nil, errors.Wrap(err, "failed to sum delivered orders")
	}
	if stats.CustomerCount, err = srv.profileRepo.CountByRole(ctx, entity.RoleCustomer); err != nil {
		return nil, errors.Wrap(err, "failed to count customers")
	}
	if stats.ContactCount, err = srv.contactRepo.Count(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to count contact messages")
	}

	return stats, nil
}

func (srv *orderService) findOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

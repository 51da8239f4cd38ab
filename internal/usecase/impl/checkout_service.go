package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// checkoutService implements CheckoutUsecase.
//
// By default the order insert, the item insert and the cart clear are three separate
// store calls. A failure after the order insert leaves a pending order without items,
// and a retry places a second order. With checkout.transactional the three writes share
// one transaction instead.
type checkoutService struct {
	txManager   repository.TransactionManager
	cartRepo    repository.CartRepository
	profileRepo repository.ProfileRepository
	orderRepo   repository.OrderRepository
	publisher   service.EventPublisher
	cfg         config.CheckoutConfig
	logger      *slog.Logger
}

// CheckoutServiceParams holds dependencies for the checkout service.
type CheckoutServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CartRepo    repository.CartRepository
	ProfileRepo repository.ProfileRepository
	OrderRepo   repository.OrderRepository
	Publisher   service.EventPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCheckoutService creates the checkout flow.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	var cfg config.CheckoutConfig
	if params.Config.Checkout != nil {
		cfg = *params.Config.Checkout
	}

	return &checkoutService{
		txManager:   params.TxManager,
		cartRepo:    params.CartRepo,
		profileRepo: params.ProfileRepo,
		orderRepo:   params.OrderRepo,
		publisher:   params.Publisher,
		cfg:         cfg,
		logger:      params.Logger,
	}
}

func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Prepare is the entry guard of the checkout page.
func (srv *checkoutService) Prepare(ctx context.Context, userID uuid.UUID) (*usecase.CheckoutSummary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	lines, err := srv.cartRepo.FindLinesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	cart := &entity.Cart{UserID: userID, Lines: lines}
	if cart.IsEmpty() {
		return nil, domainerrors.ErrCartEmpty
	}

	profile, err := srv.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &usecase.CheckoutSummary{
		Lines:     lines,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
		Profile:   profile,
	}, nil
}

// attempt tracks the states one PlaceOrder call moves through.
type attempt struct {
	result *usecase.CheckoutResult
}

func newAttempt() *attempt {
	a := &attempt{result: &usecase.CheckoutResult{}}
	a.enter(entity.CheckoutStateIdle)

	return a
}

func (a *attempt) enter(state entity.CheckoutState) {
	a.result.State = state
	a.result.States = append(a.result.States, state)
}

func (a *attempt) fail(err error) (*usecase.CheckoutResult, error) {
	a.enter(entity.CheckoutStateFailed)

	return a.result, err
}

// PlaceOrder runs one checkout attempt.
func (srv *checkoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, input *usecase.ShippingInput) (*usecase.CheckoutResult, error) {
	run := newAttempt()

	if err := requireUser(userID); err != nil {
		return run.fail(err)
	}

	run.enter(entity.CheckoutStateValidating)

	shipping, err := srv.validate(ctx, userID, input)
	if err != nil {
		srv.log(ctx).Info("Checkout validation failed", slog.Any("userID", userID), slog.Any("error", err))

		return run.fail(err)
	}

	run.enter(entity.CheckoutStatePlacingOrder)

	lines, err := srv.cartRepo.FindLinesByUser(ctx, userID)
	if err != nil {
		return run.fail(errors.Wrap(err, "failed to load cart"))
	}

	cart := &entity.Cart{UserID: userID, Lines: lines}
	if cart.IsEmpty() {
		return run.fail(domainerrors.ErrCartEmpty)
	}

	// Stock or availability may have changed since the lines were added.
	if problems := cart.Shortfalls(); len(problems) > 0 {
		srv.log(ctx).Info("Checkout blocked by inventory", slog.Any("userID", userID), slog.Any("problems", problems))

		return run.fail(domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; ")))
	}

	order := &entity.Order{
		UserID:          userID,
		TotalAmount:     cart.Total(),
		ShippingAddress: shipping.address,
		Phone:           shipping.phone,
		Status:          entity.OrderStatusPending,
	}

	var warning string
	if srv.cfg.Transactional {
		err = srv.placeTransactional(ctx, order, cart)
	} else {
		warning, err = srv.placeSequential(ctx, order, cart)
	}
	if err != nil {
		return run.fail(err)
	}

	run.enter(entity.CheckoutStateSucceeded)
	run.result.OrderID = order.ID
	run.result.Reference = order.Reference()
	run.result.TotalAmount = order.TotalAmount
	run.result.Warning = warning
	run.result.RedirectTo = usecase.OrdersRedirect

	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.Int("items", len(order.Items)),
		slog.Bool("transactional", srv.cfg.Transactional),
	)

	return run.result, nil
}

type shippingDetails struct {
	address string
	phone   string
}

// validate checks the form before the profile, so a missing city never touches the store.
func (srv *checkoutService) validate(ctx context.Context, userID uuid.UUID, input *usecase.ShippingInput) (*shippingDetails, error) {
	address := strings.TrimSpace(input.Address)
	city := strings.TrimSpace(input.City)
	postalCode := strings.TrimSpace(input.PostalCode)
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = srv.cfg.DefaultCountry
	}

	var missing []string
	if city == "" {
		missing = append(missing, "city")
	}
	if srv.cfg.RequireAddress && address == "" {
		missing = append(missing, "address")
	}
	if srv.cfg.RequirePostalCode && postalCode == "" {
		missing = append(missing, "postal_code")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	phone := strings.TrimSpace(input.Phone)

	var profile *entity.Profile
	if srv.cfg.RequireCompleteProfile || (srv.cfg.RequirePhone && phone == "") {
		var err error
		if profile, err = srv.loadProfile(ctx, userID); err != nil {
			return nil, err
		}
	}

	if phone == "" && profile != nil {
		phone = strings.TrimSpace(profile.Phone)
	}
	if srv.cfg.RequirePhone && phone == "" {
		return nil, missingFields([]string{"phone"})
	}

	if srv.cfg.RequireCompleteProfile && !profile.IsComplete() {
		return nil, domainerrors.ErrProfileIncomplete.WithDetails(
			"missing " + strings.Join(profile.MissingFields(), ", "),
		)
	}

	return &shippingDetails{
		address: composeAddress(address, city, postalCode, country),
		phone:   phone,
	}, nil
}

// placeSequential writes the order, then its items, then clears the cart, each as its own call.
func (srv *checkoutService) placeSequential(ctx context.Context, order *entity.Order, cart *entity.Cart) (warning string, err error) {
	defer func() {
		if r := recover(); r != nil {
			srv.log(ctx).Error("Checkout panicked", slog.Any("panic", r))
			err = domainerrors.ErrOrderFailed.WithDetails(fmt.Sprint(r))
		}
	}()

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		srv.log(ctx).Error("Failed to create order", slog.Any("userID", order.UserID), slog.Any("error", err))

		return "", classifyPlacementError(err, domainerrors.ErrOrderCreationFailed)
	}

	// Watchers see the order now, even if the item insert below fails.
	srv.publishOrder(ctx, order)

	order.Items = buildOrderItems(order.ID, cart)
	if err := srv.orderRepo.CreateItems(ctx, order.Items); err != nil {
		srv.log(ctx).Error("Order left without items",
			slog.Any("orderID", order.ID),
			slog.String("reference", order.Reference()),
			slog.Any("error", err),
		)

		return "", classifyPlacementError(err, domainerrors.ErrOrderItemsFailed.WithDetails("order "+order.Reference()+" was saved without items"))
	}

	if err := srv.cartRepo.DeleteAllByUser(ctx, order.UserID); err != nil {
		srv.log(ctx).Warn("Order placed but cart not cleared", slog.Any("orderID", order.ID), slog.Any("error", err))

		return domainerrors.ErrCartClearFailed.ErrorCode(), nil
	}

	return "", nil
}

// placeTransactional commits the order, its items and the cart clear together, then announces the order.
// Nothing survives a rollback, so an item failure is reported as ErrOrderFailed rather than ErrOrderItemsFailed.
func (srv *checkoutService) placeTransactional(ctx context.Context, order *entity.Order, cart *entity.Cart) (err error) {
	defer func() {
		if r := recover(); r != nil {
			srv.log(ctx).Error("Checkout panicked", slog.Any("panic", r))
			order.ID = uuid.Nil
			order.Items = nil
			err = domainerrors.ErrOrderFailed.WithDetails(fmt.Sprint(r))
		}
	}()

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		if err := orderRepo.Create(ctx, order); err != nil {
			return classifyPlacementError(err, domainerrors.ErrOrderCreationFailed)
		}

		order.Items = buildOrderItems(order.ID, cart)
		if err := orderRepo.CreateItems(ctx, order.Items); err != nil {
			return classifyPlacementError(err, domainerrors.ErrOrderFailed.WithDetails("order items could not be saved, no order was placed"))
		}

		if err := repoFactory.CartRepo().DeleteAllByUser(ctx, order.UserID); err != nil {
			return domainerrors.ErrOrderFailed.WithDetails("cart could not be cleared, no order was placed")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Transactional checkout rolled back", slog.Any("userID", order.UserID), slog.Any("error", err))
		order.ID = uuid.Nil
		order.Items = nil

		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return err
		}

		return domainerrors.ErrOrderFailed.WithDetails(err.Error())
	}

	srv.publishOrder(ctx, order)

	return nil
}

func (srv *checkoutService) publishOrder(ctx context.Context, order *entity.Order) {
	occurredAt := order.CreatedAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	if err := srv.publisher.PublishInsert(ctx, &service.InsertEvent{
		Table:      constants.TableOrders,
		RecordID:   order.ID.String(),
		Message:    entity.NewOrderNotice(order).Message,
		OccurredAt: occurredAt,
	}); err != nil {
		srv.log(ctx).Warn("Failed to publish order insert", slog.Any("orderID", order.ID), slog.Any("error", err))
	}
}

func (srv *checkoutService) loadProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := srv.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return profile, nil
}

func buildOrderItems(orderID uuid.UUID, cart *entity.Cart) []*entity.OrderItem {
	items := make([]*entity.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		item := &entity.OrderItem{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if line.Product != nil {
			item.Price = line.Product.Price
			item.ProductName = line.Product.Name
			item.ProductImageURL = line.Product.ImageURL
		}
		items = append(items, item)
	}

	return items
}

// classifyPlacementError maps a failed write to the error of its step.
// Cancellation is not a store failure and becomes the generic ErrOrderFailed.
func classifyPlacementError(err error, stepErr *domainerrors.BaseError) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(domainerrors.ErrOrderFailed, err.Error())
	}

	return errors.Wrap(stepErr, err.Error())
}

func composeAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}

	return strings.Join(kept, ", ")
}

func missingFields(fields []string) error {
	return domainerrors.ErrValidationFailed.WithDetails("missing " + strings.Join(fields, ", "))
}

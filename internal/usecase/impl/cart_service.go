package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// cartService implements CartUsecase. Concurrent writers are last-write-wins at the store.
type cartService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for the cart service.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Logger    *slog.Logger
}

// NewCartService creates the cart service.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		logger:    params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	lines, err := srv.cartRepo.FindLinesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	return &entity.Cart{UserID: userID, Lines: lines}, nil
}

func (srv *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be at least 1")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		product, err := findPurchasableProduct(ctx, repoFactory.ProductRepo(), productID)
		if err != nil {
			return err
		}

		line, err := cartRepo.FindLine(ctx, userID, productID)
		if err != nil && !errors.Is(err, repository.ErrCartLineNotFound) {
			return errors.Wrap(err, "failed to find cart line")
		}

		newQuantity := quantity
		if line != nil {
			newQuantity += line.Quantity
		}

		if newQuantity > product.StockQuantity {
			return domainerrors.ErrValidationFailed.WithDetails(
				fmt.Sprintf("only %d of %s in stock", product.StockQuantity, product.Name),
			)
		}

		if line != nil {
			return errors.Wrap(cartRepo.UpdateQuantity(ctx, line.ID, newQuantity), "failed to update cart line")
		}

		return errors.Wrap(cartRepo.CreateLine(ctx, &entity.CartLine{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}), "failed to create cart line")
	})
	if err != nil {
		srv.log(ctx).Warn("Add to cart failed", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to add to cart")
	}

	return srv.GetCart(ctx, userID)
}

func (srv *cartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return srv.RemoveFromCart(ctx, userID, productID)
	}

	removed := false
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		line, err := cartRepo.FindLine(ctx, userID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrCartLineNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product is not in the cart")
			}

			return errors.Wrap(err, "failed to find cart line")
		}

		product, err := repoFactory.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return errors.Wrap(err, "failed to load product")
		}

		clamped := min(quantity, product.StockQuantity)
		if clamped < 1 {
			removed = true

			return errors.Wrap(cartRepo.DeleteLine(ctx, userID, productID), "failed to remove sold out line")
		}

		return errors.Wrap(cartRepo.UpdateQuantity(ctx, line.ID, clamped), "failed to update cart line")
	})
	if err != nil {
		srv.log(ctx).Warn("Cart quantity update failed", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update quantity")
	}

	if removed {
		srv.log(ctx).Info("Removed sold out product from cart", slog.Any("productID", productID))
	}

	return srv.GetCart(ctx, userID)
}

func (srv *cartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) (*entity.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if err := srv.cartRepo.DeleteLine(ctx, userID, productID); err != nil {
		return nil, errors.Wrap(err, "failed to remove from cart")
	}

	return srv.GetCart(ctx, userID)
}

func (srv *cartService) GetCartItemCount(ctx context.Context, userID uuid.UUID) (int, error) {
	cart, err := srv.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}

	return cart.ItemCount(), nil
}

// GetCartTotal prices the cart at current product prices.
func (srv *cartService) GetCartTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	cart, err := srv.GetCart(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return cart.Total(), nil
}

func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	return errors.Wrap(srv.cartRepo.DeleteAllByUser(ctx, userID), "failed to clear cart")
}

func findPurchasableProduct(ctx context.Context, productRepo repository.ProductRepository, productID uuid.UUID) (*entity.Product, error) {
	product, err := productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, productID.String())
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	if !product.IsActive {
		return nil, domainerrors.ErrValidationFailed.WithDetails(product.Name + " is not available")
	}
	if !product.InStock() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(product.Name + " is out of stock")
	}

	return product, nil
}

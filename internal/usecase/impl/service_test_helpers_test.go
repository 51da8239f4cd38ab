package impl

import (
	"io"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      4,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Checkout: &config.CheckoutConfig{
			DefaultCountry: "Kenya",
		},
		Orders: &config.OrdersConfig{},
		Notifications: &config.NotificationsConfig{
			Mode:         constants.NotificationModePoll,
			FetchLimit:   5,
			DisplayLimit: 10,
		},
		Storage: &config.StorageConfig{
			ProductBucket:  "product-images",
			CategoryBucket: "category-images",
		},
		Redis: &config.RedisConfig{
			CatalogTTL: time.Minute,
		},
		PubSub: &config.PubSubConfig{
			Provider: constants.PubSubProviderInProcess,
		},
	}
}

func newTestProduct(name string, price int64, stock int) *entity.Product {
	return &entity.Product{
		ID:            uuid.New(),
		Name:          name,
		Price:         decimal.NewFromInt(price),
		ImageURL:      "https://cdn.example.com/" + name + ".png",
		StockQuantity: stock,
		IsActive:      true,
	}
}

func newCartLine(userID uuid.UUID, product *entity.Product, quantity int) *entity.CartLine {
	return &entity.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   product,
	}
}

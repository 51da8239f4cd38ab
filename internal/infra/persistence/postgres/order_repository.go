package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row. Items are ignored here.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Omit("Items").Create(orderM).Error; err != nil {
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid order data")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// CreateItems inserts all items in a single statement.
func (repo *orderRepository) CreateItems(ctx context.Context, items []*entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	itemModels := make([]*model.OrderItemModel, 0, len(items))
	for _, item := range items {
		itemModels = append(itemModels, fromOrderItemDomain(item))
	}

	if err := repo.db.WithContext(ctx).Create(&itemModels).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrOrderNotFound.WrapMessage("invalid order reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order items")
	}

	for i, itemM := range itemModels {
		items[i].ID = itemM.ID
		items[i].CreatedAt = itemM.CreatedAt
	}

	return nil
}

// FindByID returns the order with its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find order")
	}

	order := toOrderDomain(&orderM)
	if err := repo.attachProducts(ctx, []*entity.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// FindByUser returns the user's orders newest first, items included.
func (repo *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list user orders")
	}

	orders := toOrderDomains(orderModels)
	if err := repo.attachProducts(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// FindAll returns every order newest first without items.
func (repo *orderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list orders")
	}

	return toOrderDomains(orderModels), nil
}

// UpdateStatus changes only the status column.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// FindUnseen returns at most limit unseen orders, newest first.
func (repo *orderRepository) FindUnseen(ctx context.Context, limit int) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("seen = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list unseen orders")
	}

	return toOrderDomains(orderModels), nil
}

// MarkSeen flags one order as seen by an admin.
func (repo *orderRepository) MarkSeen(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("seen", true)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark order seen")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// MarkAllSeen flags every unseen order as seen.
func (repo *orderRepository) MarkAllSeen(ctx context.Context) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("seen = ?", false).
		Update("seen", true).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark orders seen")
	}

	return nil
}

// Count returns the number of orders.
func (repo *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count orders")
	}

	return count, nil
}

type orderTotals struct {
	Count int64
	Total decimal.NullDecimal
}

// SumTotals returns the count and summed total of orders, filtered by status when given.
func (repo *orderRepository) SumTotals(ctx context.Context, status entity.OrderStatus) (int64, decimal.Decimal, error) {
	var totals orderTotals

	query := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("COUNT(*) AS count, SUM(total_amount) AS total")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	if err := query.Scan(&totals).Error; err != nil {
		return 0, decimal.Zero, domainerrors.NewDatabaseExecuteError(err, "failed to sum order totals")
	}

	if !totals.Total.Valid {
		return totals.Count, decimal.Zero, nil
	}

	return totals.Count, totals.Total.Decimal, nil
}

// attachProducts fills the display name and image of every item from the current products.
// Items whose product was deleted keep empty display fields.
func (repo *orderRepository) attachProducts(ctx context.Context, orders []*entity.Order) error {
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Select("id", "name", "image_url").
		Where("id IN ?", ids).
		Find(&productModels).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to load order products")
	}

	byID := make(map[uuid.UUID]*model.ProductModel, len(productModels))
	for _, productM := range productModels {
		byID[productM.ID] = productM
	}
	for _, order := range orders {
		for _, item := range order.Items {
			if productM, ok := byID[item.ProductID]; ok {
				item.ProductName = productM.Name
				item.ProductImageURL = productM.ImageURL
			}
		}
	}

	return nil
}

func toOrderDomains(orderModels []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	order := &entity.Order{
		ID:              data.ID,
		UserID:          data.UserID,
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress,
		Phone:           data.Phone,
		Status:          entity.OrderStatus(data.Status),
		Seen:            data.Seen,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
	for i := range data.Items {
		order.Items = append(order.Items, toOrderItemDomain(&data.Items[i]))
	}

	return order
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	return &model.OrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress,
		Phone:           data.Phone,
		Status:          string(data.Status),
		Seen:            data.Seen,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func toOrderItemDomain(data *model.OrderItemModel) *entity.OrderItem {
	return &entity.OrderItem{
		ID:        data.ID,
		OrderID:   data.OrderID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
		CreatedAt: data.CreatedAt,
	}
}

func fromOrderItemDomain(data *entity.OrderItem) *model.OrderItemModel {
	return &model.OrderItemModel{
		ID:        data.ID,
		OrderID:   data.OrderID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
		CreatedAt: data.CreatedAt,
	}
}

package handler

import (
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

// Response views. Money is rendered with two decimals as a string so clients never see float rounding.

type CategoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductView struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         string        `json:"price"`
	ImageURL      string        `json:"image_url"`
	StockQuantity int           `json:"stock_quantity"`
	InStock       bool          `json:"in_stock"`
	IsActive      bool          `json:"is_active"`
	CategoryID    *uuid.UUID    `json:"category_id,omitempty"`
	Category      *CategoryView `json:"category,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type CartLineView struct {
	ProductID uuid.UUID    `json:"product_id"`
	Quantity  int          `json:"quantity"`
	LineTotal string       `json:"line_total"`
	Product   *ProductView `json:"product,omitempty"`
}

type CartView struct {
	Lines     []*CartLineView `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     string          `json:"total"`
}

type OrderItemView struct {
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	ProductImageURL string    `json:"product_image_url,omitempty"`
	Quantity        int       `json:"quantity"`
	Price           string    `json:"price"`
	LineTotal       string    `json:"line_total"`
}

type OrderView struct {
	ID              uuid.UUID        `json:"id"`
	Reference       string           `json:"reference"`
	UserID          uuid.UUID        `json:"user_id"`
	TotalAmount     string           `json:"total_amount"`
	ShippingAddress string           `json:"shipping_address"`
	Phone           string           `json:"phone"`
	Status          string           `json:"status"`
	Items           []*OrderItemView `json:"items"`
	CreatedAt       time.Time        `json:"created_at"`
}

type ProfileView struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Role       string    `json:"role"`
	Complete   bool      `json:"complete"`
}

type UserView struct {
	ID        uuid.UUID    `json:"id"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	Profile   *ProfileView `json:"profile,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type ContactMessageView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

type NoticeView struct {
	Type      string    `json:"type"`
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type StatsView struct {
	ProductCount   int64  `json:"product_count"`
	OrderCount     int64  `json:"order_count"`
	CustomerCount  int64  `json:"customer_count"`
	ContactCount   int64  `json:"contact_count"`
	TotalRevenue   string `json:"total_revenue"`
	DeliveredCount int64  `json:"delivered_count"`
	DeliveredTotal string `json:"delivered_total"`
}

type CheckoutSummaryView struct {
	Cart    *CartView    `json:"cart"`
	Profile *ProfileView `json:"profile,omitempty"`
}

type CheckoutResultView struct {
	State       string    `json:"state"`
	States      []string  `json:"states"`
	OrderID     uuid.UUID `json:"order_id"`
	Reference   string    `json:"reference"`
	TotalAmount string    `json:"total_amount"`
	Warning     string    `json:"warning,omitempty"`
	RedirectTo  string    `json:"redirect_to"`
}

func newCategoryView(c *entity.Category) *CategoryView {
	if c == nil {
		return nil
	}

	return &CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug(),
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
	}
}

func newCategoryViews(categories []*entity.Category) []*CategoryView {
	views := make([]*CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, newCategoryView(c))
	}

	return views
}

func newProductView(p *entity.Product) *ProductView {
	if p == nil {
		return nil
	}

	return &ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(),
		IsActive:      p.IsActive,
		CategoryID:    p.CategoryID,
		Category:      newCategoryView(p.Category),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newProductViews(products []*entity.Product) []*ProductView {
	views := make([]*ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}

	return views
}

func newCartView(cart *entity.Cart) *CartView {
	lines := make([]*CartLineView, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, &CartLineView{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal().StringFixed(2),
			Product:   newProductView(line.Product),
		})
	}

	return &CartView{
		Lines:     lines,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total().StringFixed(2),
	}
}

func newOrderView(o *entity.Order) *OrderView {
	items := make([]*OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, &OrderItemView{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Quantity:        item.Quantity,
			Price:           item.Price.StringFixed(2),
			LineTotal:       item.LineTotal().StringFixed(2),
		})
	}

	return &OrderView{
		ID:              o.ID,
		Reference:       o.Reference(),
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		Status:          string(o.Status),
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

func newOrderViews(orders []*entity.Order) []*OrderView {
	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}

	return views
}

func newProfileView(p *entity.Profile) *ProfileView {
	if p == nil {
		return nil
	}

	return &ProfileView{
		UserID:     p.UserID,
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		FullName:   p.FullName(),
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		PostalCode: p.PostalCode,
		Country:    p.Country,
		Role:       string(p.Role),
		Complete:   p.IsComplete(),
	}
}

func newUserView(u *entity.User) *UserView {
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role()),
		Profile:   newProfileView(u.Profile),
		CreatedAt: u.CreatedAt,
	}
}

func newContactMessageView(m *entity.ContactMessage) *ContactMessageView {
	return &ContactMessageView{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Seen:      m.Seen,
		CreatedAt: m.CreatedAt,
	}
}

func newNoticeViews(notices []*entity.Notice) []*NoticeView {
	views := make([]*NoticeView, 0, len(notices))
	for _, n := range notices {
		views = append(views, &NoticeView{
			Type:      string(n.Type),
			ID:        n.ID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}

	return views
}

func newStatsView(s *entity.OrderStats) *StatsView {
	return &StatsView{
		ProductCount:   s.ProductCount,
		OrderCount:     s.OrderCount,
		CustomerCount:  s.CustomerCount,
		ContactCount:   s.ContactCount,
		TotalRevenue:   s.TotalRevenue.StringFixed(2),
		DeliveredCount: s.DeliveredCount,
		DeliveredTotal: s.DeliveredTotal.StringFixed(2),
	}
}

func newCheckoutResultView(r *usecase.CheckoutResult) *CheckoutResultView {
	states := make([]string, 0, len(r.States))
	for _, s := range r.States {
		states = append(states, string(s))
	}

	return &CheckoutResultView{
		State:       string(r.State),
		States:      states,
		OrderID:     r.OrderID,
		Reference:   r.Reference,
		TotalAmount: r.TotalAmount.StringFixed(2),
		Warning:     r.Warning,
		RedirectTo:  r.RedirectTo,
	}
}

package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apimiddleware "storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/delivery/api/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	mockSvc "storefront/internal/mocks/service"
	mockUC "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	customerToken = "customer-token"
	adminToken    = "admin-token"
)

// routerFixtures holds the echo instance and every usecase mock behind it.
type routerFixtures struct {
	e          *echo.Echo
	customerID uuid.UUID
	adminID    uuid.UUID

	userUC         *mockUC.MockUserUsecase
	catalogUC      *mockUC.MockCatalogUsecase
	productAdminUC *mockUC.MockProductAdminUsecase
	categoryUC     *mockUC.MockCategoryUsecase
	cartUC         *mockUC.MockCartUsecase
	checkoutUC     *mockUC.MockCheckoutUsecase
	orderUC        *mockUC.MockOrderUsecase
	profileUC      *mockUC.MockProfileUsecase
	contactUC      *mockUC.MockContactUsecase
	feedUC         *mockUC.MockNotificationFeedUsecase
}

func createTestRouter(t *testing.T) routerFixtures {
	fx := routerFixtures{
		e:              echo.New(),
		customerID:     uuid.New(),
		adminID:        uuid.New(),
		userUC:         mockUC.NewMockUserUsecase(t),
		catalogUC:      mockUC.NewMockCatalogUsecase(t),
		productAdminUC: mockUC.NewMockProductAdminUsecase(t),
		categoryUC:     mockUC.NewMockCategoryUsecase(t),
		cartUC:         mockUC.NewMockCartUsecase(t),
		checkoutUC:     mockUC.NewMockCheckoutUsecase(t),
		orderUC:        mockUC.NewMockOrderUsecase(t),
		profileUC:      mockUC.NewMockProfileUsecase(t),
		contactUC:      mockUC.NewMockContactUsecase(t),
		feedUC:         mockUC.NewMockNotificationFeedUsecase(t),
	}

	tokenService := mockSvc.NewMockTokenService(t)
	tokenService.EXPECT().ValidateToken(customerToken).Return(&service.Claims{
		UserID: fx.customerID,
		Roles:  []string{string(entity.RoleCustomer)},
		Type:   service.TokenTypeAccess,
	}, nil).Maybe()
	tokenService.EXPECT().ValidateToken(adminToken).Return(&service.Claims{
		UserID: fx.adminID,
		Roles:  []string{string(entity.RoleAdmin)},
		Type:   service.TokenTypeAccess,
	}, nil).Maybe()
	tokenService.EXPECT().ValidateToken(mock.Anything).Return(nil, errors.New("token is malformed")).Maybe()

	fx.e.Validator = validator.New()
	fx.e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError

	NewRouter(RouterParams{
		UserHandler:         handler.NewUserHandler(handler.UserHandlerParams{UserUC: fx.userUC}),
		CatalogHandler:      handler.NewCatalogHandler(handler.CatalogHandlerParams{CatalogUC: fx.catalogUC, ProductAdminUC: fx.productAdminUC, CategoryUC: fx.categoryUC}),
		CartHandler:         handler.NewCartHandler(handler.CartHandlerParams{CartUC: fx.cartUC}),
		CheckoutHandler:     handler.NewCheckoutHandler(handler.CheckoutHandlerParams{CheckoutUC: fx.checkoutUC}),
		OrderHandler:        handler.NewOrderHandler(handler.OrderHandlerParams{OrderUC: fx.orderUC}),
		ProfileHandler:      handler.NewProfileHandler(handler.ProfileHandlerParams{ProfileUC: fx.profileUC}),
		ContactHandler:      handler.NewContactHandler(handler.ContactHandlerParams{ContactUC: fx.contactUC}),
		NotificationHandler: handler.NewNotificationHandler(handler.NotificationHandlerParams{FeedUC: fx.feedUC}),
		AuthMiddleware:      apimiddleware.NewAuthMiddleware(tokenService),
	}).RegisterRoutes(fx.e)

	return fx
}

func (fx routerFixtures) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	fx.e.ServeHTTP(rec, req)

	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

func TestRouter_Health(t *testing.T) {
	fx := createTestRouter(t)

	rec := fx.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_PublicProducts_FilterBySlug(t *testing.T) {
	fx := createTestRouter(t)

	product := &entity.Product{ID: uuid.New(), Name: "Kikoy", Price: decimal.RequireFromString("499.5"), StockQuantity: 3, IsActive: true}
	fx.catalogUC.EXPECT().ListProducts(mock.Anything, "home-ware").Return([]*entity.Product{product}, nil)

	rec := fx.do(http.MethodGet, "/api/v1/products?category=home-ware", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var products []handler.ProductView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "499.50", products[0].Price)
	assert.True(t, products[0].InStock)
}

func TestRouter_GetProduct_InvalidID(t *testing.T) {
	fx := createTestRouter(t)

	rec := fx.do(http.MethodGet, "/api/v1/products/not-a-uuid", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "invalid id", env.Error.Details)
}

func TestRouter_Cart_RequiresAuth(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "no token"},
		{name: "bad token", token: "forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestRouter(t)

			rec := fx.do(http.MethodGet, "/api/v1/cart", tt.token, "")

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, "AUTH_REQUIRED", env.Error.Code)
			assert.Empty(t, env.Error.Details)
		})
	}
}

func TestRouter_Cart_AddItem_NoStore(t *testing.T) {
	fx := createTestRouter(t)

	productID := uuid.New()
	product := &entity.Product{ID: productID, Name: "Kikoy", Price: decimal.NewFromInt(500), StockQuantity: 10, IsActive: true}
	fx.cartUC.EXPECT().AddToCart(mock.Anything, fx.customerID, productID, 1).Return(&entity.Cart{
		UserID: fx.customerID,
		Lines:  []*entity.CartLine{{ProductID: productID, Quantity: 1, Product: product}},
	}, nil)

	rec := fx.do(http.MethodPost, "/api/v1/cart/items", customerToken, `{"product_id":"`+productID.String()+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))

	var cart handler.CartView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cart))
	assert.Equal(t, 1, cart.ItemCount)
	assert.Equal(t, "500.00", cart.Total)
}

func TestRouter_Cart_UpdateItem_ValidationError(t *testing.T) {
	fx := createTestRouter(t)

	productID := uuid.New()
	fx.cartUC.EXPECT().
		UpdateQuantity(mock.Anything, fx.customerID, productID, 50).
		Return(nil, domainerrors.ErrValidationFailed.WithDetails("only 4 in stock"))

	rec := fx.do(http.MethodPut, "/api/v1/cart/items/"+productID.String(), customerToken, `{"quantity":50}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "only 4 in stock", decode(t, rec).Error.Details)
}

func TestRouter_Checkout_PlaceOrder(t *testing.T) {
	fx := createTestRouter(t)

	orderID := uuid.New()
	fx.checkoutUC.EXPECT().
		PlaceOrder(mock.Anything, fx.customerID, &usecase.ShippingInput{Address: "12 Moi Ave", City: "Nairobi", Phone: "+254700000000"}).
		Return(&usecase.CheckoutResult{
			State:       entity.CheckoutStateSucceeded,
			States:      []entity.CheckoutState{entity.CheckoutStateIdle, entity.CheckoutStateValidating, entity.CheckoutStatePlacingOrder, entity.CheckoutStateSucceeded},
			OrderID:     orderID,
			Reference:   entity.ShortReference(orderID),
			TotalAmount: decimal.NewFromInt(2200),
			RedirectTo:  usecase.OrdersRedirect,
		}, nil)

	rec := fx.do(http.MethodPost, "/api/v1/checkout", customerToken, `{"address":"12 Moi Ave","city":"Nairobi","phone":"+254700000000"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))

	var result handler.CheckoutResultView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, "succeeded", result.State)
	assert.Equal(t, []string{"idle", "validating", "placing_order", "succeeded"}, result.States)
	assert.Equal(t, "2200.00", result.TotalAmount)
	assert.Equal(t, "/orders", result.RedirectTo)
}

func TestRouter_Checkout_EmptyCart(t *testing.T) {
	fx := createTestRouter(t)

	fx.checkoutUC.EXPECT().Prepare(mock.Anything, fx.customerID).Return(nil, domainerrors.ErrCartEmpty)

	rec := fx.do(http.MethodGet, "/api/v1/checkout", customerToken, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CART_EMPTY", decode(t, rec).Error.Code)
}

func TestRouter_OrderQR_PassesAdminFlag(t *testing.T) {
	fx := createTestRouter(t)

	orderID := uuid.New()
	png := []byte{0x89, 'P', 'N', 'G'}
	fx.orderUC.EXPECT().GetOrderQR(mock.Anything, orderID, fx.adminID, true).Return(png, nil)

	rec := fx.do(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/qr", adminToken, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestRouter_Admin_ForbiddenForCustomer(t *testing.T) {
	fx := createTestRouter(t)

	rec := fx.do(http.MethodGet, "/api/v1/admin/stats", customerToken, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, rec).Error.Code)
}

func TestRouter_Admin_UpdateOrderStatus(t *testing.T) {
	fx := createTestRouter(t)

	orderID := uuid.New()
	fx.orderUC.EXPECT().
		UpdateOrderStatus(mock.Anything, orderID, entity.OrderStatusShipped).
		Return(&entity.Order{ID: orderID, Status: entity.OrderStatusShipped, TotalAmount: decimal.NewFromInt(2200)}, nil)

	rec := fx.do(http.MethodPut, "/api/v1/admin/orders/"+orderID.String()+"/status", adminToken, `{"status":"shipped"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var order handler.OrderView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &order))
	assert.Equal(t, "shipped", order.Status)
	assert.Equal(t, entity.ShortReference(orderID), order.Reference)
}

func TestRouter_Admin_UpdateOrderStatus_MissingStatus(t *testing.T) {
	fx := createTestRouter(t)

	rec := fx.do(http.MethodPut, "/api/v1/admin/orders/"+uuid.NewString()+"/status", adminToken, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status is required", decode(t, rec).Error.Details)
}

func TestRouter_Admin_DismissNotification(t *testing.T) {
	fx := createTestRouter(t)

	id := uuid.New()
	fx.feedUC.EXPECT().Dismiss(mock.Anything, entity.NoticeTypeContact, id).Return(nil)

	rec := fx.do(http.MethodDelete, "/api/v1/admin/notifications/contact/"+id.String(), adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = fx.do(http.MethodDelete, "/api/v1/admin/notifications/refund/"+id.String(), adminToken, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Auth_Register(t *testing.T) {
	fx := createTestRouter(t)

	userID := uuid.New()
	fx.userUC.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{Email: "amina@example.com", Password: "Password123!", FirstName: "Amina"}).
		Return(&usecase.RegisterOutput{User: &entity.User{
			ID:      userID,
			Email:   "amina@example.com",
			Profile: &entity.Profile{UserID: userID, FirstName: "Amina", Role: entity.RoleCustomer},
		}}, nil)

	rec := fx.do(http.MethodPost, "/auth/register", "", `{"email":"amina@example.com","password":"Password123!","first_name":"Amina"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var user handler.UserView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &user))
	assert.Equal(t, "customer", user.Role)
	assert.Equal(t, "Amina", user.Profile.FullName)
}

func TestRouter_Auth_Register_InvalidEmail(t *testing.T) {
	fx := createTestRouter(t)

	rec := fx.do(http.MethodPost, "/auth/register", "", `{"email":"nope","password":"short"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := decode(t, rec).Error.Details
	assert.Contains(t, details, "email must be a valid email address")
	assert.Contains(t, details, "password must be at least 8")
}

func TestRouter_Contact_Submit(t *testing.T) {
	fx := createTestRouter(t)

	msgID := uuid.New()
	fx.contactUC.EXPECT().
		Submit(mock.Anything, &usecase.ContactInput{Name: "Wanjiru", Email: "w@example.com", Subject: "Sizes", Message: "Do you stock XL?"}).
		Return(&entity.ContactMessage{ID: msgID, Name: "Wanjiru", Email: "w@example.com", Subject: "Sizes", Message: "Do you stock XL?"}, nil)

	rec := fx.do(http.MethodPost, "/api/v1/contact", "", `{"name":"Wanjiru","email":"w@example.com","subject":"Sizes","message":"Do you stock XL?"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), msgID.String())
}

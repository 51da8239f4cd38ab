package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/delivery/api/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC      usecase.CatalogUsecase
	ProductAdminUC usecase.ProductAdminUsecase
	CategoryUC     usecase.CategoryUsecase
}

// CatalogHandler serves the public catalog and the admin product and category screens.
type CatalogHandler struct {
	catalogUC      usecase.CatalogUsecase
	productAdminUC usecase.ProductAdminUsecase
	categoryUC     usecase.CategoryUsecase
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC:      params.CatalogUC,
		productAdminUC: params.ProductAdminUC,
		categoryUC:     params.CategoryUC,
	}
}

// ListProducts handles GET /api/v1/products?category=<slug>.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogUC.ListProducts(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductViews(products))
}

// GetProduct handles GET /api/v1/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductView(product))
}

// ListCategories handles GET /api/v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogUC.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCategoryViews(categories))
}

// AdminListProducts handles GET /api/v1/admin/products. Inactive products are included.
func (h *CatalogHandler) AdminListProducts(c echo.Context) error {
	products, err := h.productAdminUC.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductViews(products))
}

// AdminGetProduct handles GET /api/v1/admin/products/:id.
func (h *CatalogHandler) AdminGetProduct(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productAdminUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductView(product))
}

// CreateProduct handles POST /api/v1/admin/products as a multipart form.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	input, err := productForm(c)
	if err != nil {
		return err
	}

	product, err := h.productAdminUC.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newProductView(product))
}

// UpdateProduct handles PUT /api/v1/admin/products/:id.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	input, err := productForm(c)
	if err != nil {
		return err
	}

	product, err := h.productAdminUC.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductView(product))
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.productAdminUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AdminListCategories handles GET /api/v1/admin/categories.
func (h *CatalogHandler) AdminListCategories(c echo.Context) error {
	categories, err := h.categoryUC.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCategoryViews(categories))
}

// CreateCategory handles POST /api/v1/admin/categories as a multipart form.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	input, err := categoryForm(c)
	if err != nil {
		return err
	}

	category, err := h.categoryUC.CreateCategory(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newCategoryView(category))
}

// UpdateCategory handles PUT /api/v1/admin/categories/:id.
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	input, err := categoryForm(c)
	if err != nil {
		return err
	}

	category, err := h.categoryUC.UpdateCategory(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCategoryView(category))
}

// DeleteCategory handles DELETE /api/v1/admin/categories/:id.
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.categoryUC.DeleteCategory(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// productForm reads the admin product form. Business validation happens in the usecase;
// only fields that cannot be parsed are rejected here.
func productForm(c echo.Context) (*usecase.ProductInput, error) {
	input := &usecase.ProductInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		ImageURL:    strings.TrimSpace(c.FormValue("image_url")),
		IsActive:    true,
	}

	var invalid []string

	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			invalid = append(invalid, "price")
		}
		input.Price = price
	}

	if raw := strings.TrimSpace(c.FormValue("stock_quantity")); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, "stock_quantity")
		}
		input.StockQuantity = stock
	}

	if raw := strings.TrimSpace(c.FormValue("category_id")); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			invalid = append(invalid, "category_id")
		} else {
			input.CategoryID = &categoryID
		}
	}

	if raw := strings.TrimSpace(c.FormValue("is_active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, "is_active")
		}
		input.IsActive = active
	}

	if len(invalid) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + strings.Join(invalid, ", "))
	}

	image, err := formImage(c)
	if err != nil {
		return nil, err
	}
	input.Image = image

	return input, nil
}

func categoryForm(c echo.Context) (*usecase.CategoryInput, error) {
	image, err := formImage(c)
	if err != nil {
		return nil, err
	}

	return &usecase.CategoryInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		ImageURL:    strings.TrimSpace(c.FormValue("image_url")),
		Image:       image,
	}, nil
}

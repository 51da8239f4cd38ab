package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"storefront/internal/delivery/api/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
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

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type formFile struct {
	contentType string
	data        []byte
}

func newMultipartRequest(t *testing.T, method string, fields map[string]string, image *formFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if image != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="shuka.png"`)
		header.Set("Content-Type", image.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(image.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, "/", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	return req
}

func createTestCatalogHandler(t *testing.T) (*CatalogHandler, *mockUC.MockProductAdminUsecase, *mockUC.MockCategoryUsecase) {
	productAdminUC := mockUC.NewMockProductAdminUsecase(t)
	categoryUC := mockUC.NewMockCategoryUsecase(t)

	h := NewCatalogHandler(CatalogHandlerParams{
		CatalogUC:      mockUC.NewMockCatalogUsecase(t),
		ProductAdminUC: productAdminUC,
		CategoryUC:     categoryUC,
	})

	return h, productAdminUC, categoryUC
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func TestCatalogHandler_CreateProduct_Multipart(t *testing.T) {
	h, productAdminUC, _ := createTestCatalogHandler(t)

	categoryID := uuid.New()
	req := newMultipartRequest(t, http.MethodPost, map[string]string{
		"name":           " Shuka ",
		"description":    "Maasai blanket",
		"price":          "1250.50",
		"stock_quantity": "7",
		"category_id":    categoryID.String(),
		"is_active":      "false",
	}, &formFile{contentType: "image/png", data: pngHeader})
	rec := httptest.NewRecorder()
	c := newEcho().NewContext(req, rec)

	productAdminUC.EXPECT().
		CreateProduct(mock.Anything, mock.MatchedBy(func(input *usecase.ProductInput) bool {
			return input.Name == "Shuka" &&
				input.Price.Equal(decimal.RequireFromString("1250.50")) &&
				input.StockQuantity == 7 &&
				*input.CategoryID == categoryID &&
				!input.IsActive &&
				input.Image != nil &&
				input.Image.ContentType == "image/png" &&
				bytes.Equal(input.Image.Data, pngHeader)
		})).
		Return(&entity.Product{ID: uuid.New(), Name: "Shuka", Price: decimal.RequireFromString("1250.50"), ImageURL: "https://cdn.example.com/a.png"}, nil)

	require.NoError(t, h.CreateProduct(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":"1250.50"`)
}

func TestCatalogHandler_CreateProduct_UnparseableFields(t *testing.T) {
	h, _, _ := createTestCatalogHandler(t)

	req := newMultipartRequest(t, http.MethodPost, map[string]string{
		"name":           "Shuka",
		"price":          "cheap",
		"stock_quantity": "lots",
	}, nil)
	c := newEcho().NewContext(req, httptest.NewRecorder())

	err := h.CreateProduct(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "invalid price, stock_quantity", appErr.Details())
}

func TestCatalogHandler_CreateCategory_RejectsNonImage(t *testing.T) {
	h, _, _ := createTestCatalogHandler(t)

	req := newMultipartRequest(t, http.MethodPost, map[string]string{"name": "Textiles"},
		&formFile{contentType: "application/pdf", data: []byte("%PDF-1.7")})
	c := newEcho().NewContext(req, httptest.NewRecorder())

	err := h.CreateCategory(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCatalogHandler_UpdateCategory_URLEncodedForm(t *testing.T) {
	h, _, categoryUC := createTestCatalogHandler(t)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("name=Home+Ware&image_url=https%3A%2F%2Fcdn.example.com%2Fh.png"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := newEcho().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	categoryUC.EXPECT().
		UpdateCategory(mock.Anything, id, &usecase.CategoryInput{Name: "Home Ware", ImageURL: "https://cdn.example.com/h.png"}).
		Return(&entity.Category{ID: id, Name: "Home Ware"}, nil)

	require.NoError(t, h.UpdateCategory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"home-ware"`)
}

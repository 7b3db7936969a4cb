package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildermart/sales-api/models"
)

// --- Mocks ---

type MockOrderRepo struct {
	CreateErr error
	GetErr    error
	Orders    map[string]*models.SalesOrder

	LastSaved       *models.SalesOrder
	LastDescription string
}

func (m *MockOrderRepo) CreateOrder(order *models.SalesOrder, ledgerDescription string) error {
	m.LastSaved = order
	m.LastDescription = ledgerDescription
	return m.CreateErr
}

func (m *MockOrderRepo) GetByNumber(number string) (*models.SalesOrder, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if order, ok := m.Orders[number]; ok {
		return order, nil
	}
	return nil, models.ErrOrderNotFound
}

type MockProductRepo struct {
	Products map[string]*models.Product
	Err      error
}

func (m *MockProductRepo) GetByCode(code string) (*models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Products[code]; ok {
		product := *p
		return &product, nil
	}
	return nil, models.ErrProductNotFound
}

type MockCustomerRepo struct {
	Customers map[uint]*models.Customer
	Err       error
}

func (m *MockCustomerRepo) GetByID(id uint) (*models.Customer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if c, ok := m.Customers[id]; ok {
		return c, nil
	}
	return nil, models.ErrCustomerNotFound
}

// --- Fixtures ---

func tileProduct() *models.Product {
	return &models.Product{
		ID:           1,
		Code:         "TILE001",
		Name:         "Ceramic Floor Tile 2x2",
		Category:     &models.Category{Code: "tiles", Name: "Tiles"},
		UnitType:     models.UnitType{Code: "sqft", Name: "Square Feet"},
		Price:        decimal.NewFromFloat(55.00),
		PcsPerCarton: 10,
		SqftPerPcs:   decimal.NewFromFloat(4.00),
	}
}

func cementProduct() *models.Product {
	return &models.Product{
		ID:       2,
		Code:     "CEM001",
		Name:     "Portland Cement",
		Category: &models.Category{Code: "cement", Name: "Cement"},
		UnitType: models.UnitType{Code: "bag", Name: "Bag"},
		Price:    decimal.NewFromFloat(550.00),
	}
}

func newHandler() (*OrdersHandler, *MockOrderRepo, *MockProductRepo, *MockCustomerRepo) {
	orderRepo := &MockOrderRepo{Orders: map[string]*models.SalesOrder{}}
	productRepo := &MockProductRepo{Products: map[string]*models.Product{
		"TILE001": tileProduct(),
		"CEM001":  cementProduct(),
	}}
	customerRepo := &MockCustomerRepo{Customers: map[uint]*models.Customer{
		7: {ID: 7, Name: "Karim Traders", Active: true},
		8: {ID: 8, Name: "Closed Shop", Active: false},
	}}
	return NewOrdersHandler(orderRepo, productRepo, customerRepo), orderRepo, productRepo, customerRepo
}

func postOrder(t *testing.T, handler *OrdersHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)
	return rec
}

func decodeFields(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "validation failed", resp.Error)
	return resp.Fields
}

// --- Tests: POST /orders ---

func TestHandleCreateRegularSale(t *testing.T) {
	handler, orderRepo, _, _ := newHandler()

	rec := postOrder(t, handler, `{
		"sales_type": "regular",
		"customer_id": 7,
		"order_date": "2026-08-20",
		"transportation_cost": 1200,
		"items": [
			{"product_code": "TILE001", "quantity": 500},
			{"product_code": "CEM001", "quantity": 10}
		]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, strings.HasPrefix(resp.OrderNumber, "SO-"))
	assert.Equal(t, "Karim Traders", resp.CustomerName)
	assert.Equal(t, 33000.00, resp.Subtotal)
	assert.Equal(t, 34200.00, resp.TotalAmount)

	// Tile line carries the packaging breakdown, cement line does not.
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.Items[0].TileInfo)
	assert.Equal(t, int64(125), resp.Items[0].TileInfo.TotalPieces)
	assert.Equal(t, int64(12), resp.Items[0].TileInfo.Cartons)
	assert.Equal(t, int64(5), resp.Items[0].TileInfo.RemainingPieces)
	assert.Nil(t, resp.Items[1].TileInfo)

	// The ledger description holds the full invoice text.
	require.NotNil(t, orderRepo.LastSaved)
	assert.Contains(t, orderRepo.LastDescription, "Ceramic Floor Tile 2x2 - 500 sqft @ ৳55.00 = ৳27500.00 (500 sqft, 12 carton 5 pcs)")
	assert.Contains(t, orderRepo.LastDescription, "Total: ৳34200.00")
}

func TestHandleCreateInstantSaleWithNameOnly(t *testing.T) {
	handler, orderRepo, _, _ := newHandler()

	rec := postOrder(t, handler, `{
		"sales_type": "instant",
		"customer_name": "Walk-in",
		"delivery_date": "2026-09-01",
		"items": [{"product_code": "CEM001", "quantity": 2}]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Walk-in", resp.CustomerName)
	assert.Nil(t, resp.DeliveryDate, "Instant sales drop the delivery date")

	require.NotNil(t, orderRepo.LastSaved)
	assert.Nil(t, orderRepo.LastSaved.CustomerID)
}

func TestHandleCreateValidationFailures(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		expectedField string
	}{
		{
			name:          "Regular sale without customer",
			body:          `{"sales_type":"regular","items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "customer",
		},
		{
			name:          "Instant sale without customer or name",
			body:          `{"sales_type":"instant","items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "customer",
		},
		{
			name:          "No items",
			body:          `{"sales_type":"regular","customer_id":7,"items":[]}`,
			expectedField: "items",
		},
		{
			name:          "Unknown product",
			body:          `{"sales_type":"regular","customer_id":7,"items":[{"product_code":"NOPE","quantity":1}]}`,
			expectedField: "items[0].product_code",
		},
		{
			name:          "Zero quantity",
			body:          `{"sales_type":"regular","customer_id":7,"items":[{"product_code":"CEM001","quantity":0}]}`,
			expectedField: "items[0].quantity",
		},
		{
			name:          "Negative delivery charges",
			body:          `{"sales_type":"regular","customer_id":7,"delivery_charges":-5,"items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "delivery_charges",
		},
		{
			name:          "Negative discount",
			body:          `{"sales_type":"regular","customer_id":7,"discount_amount":-1,"items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "discount_amount",
		},
		{
			name:          "Unknown customer",
			body:          `{"sales_type":"regular","customer_id":99,"items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "customer",
		},
		{
			name:          "Inactive customer",
			body:          `{"sales_type":"regular","customer_id":8,"items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "customer",
		},
		{
			name:          "Bad sales type",
			body:          `{"sales_type":"wholesale","customer_id":7,"items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "sales_type",
		},
		{
			name:          "Bad order date",
			body:          `{"sales_type":"regular","customer_id":7,"order_date":"20-08-2026","items":[{"product_code":"CEM001","quantity":1}]}`,
			expectedField: "order_date",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler, orderRepo, _, _ := newHandler()

			rec := postOrder(t, handler, tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			fields := decodeFields(t, rec)
			assert.Contains(t, fields, tc.expectedField)
			assert.Nil(t, orderRepo.LastSaved, "Order must not be persisted on validation failure")
		})
	}
}

func TestHandleCreateCollectsAllFieldErrors(t *testing.T) {
	handler, _, _, _ := newHandler()

	rec := postOrder(t, handler, `{
		"sales_type": "regular",
		"discount_amount": -1,
		"items": [
			{"product_code": "NOPE", "quantity": 1},
			{"product_code": "CEM001", "quantity": 0}
		]
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeFields(t, rec)
	assert.Contains(t, fields, "customer")
	assert.Contains(t, fields, "discount_amount")
	assert.Contains(t, fields, "items[0].product_code")
	assert.Contains(t, fields, "items[1].quantity")
}

func TestHandleCreateInvalidJSON(t *testing.T) {
	handler, _, _, _ := newHandler()

	rec := postOrder(t, handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "Invalid JSON body", errResp["error"])
}

func TestHandleCreateRepositoryError(t *testing.T) {
	handler, orderRepo, _, _ := newHandler()
	orderRepo.CreateErr = errors.New("insert failed")

	rec := postOrder(t, handler, `{
		"sales_type": "regular",
		"customer_id": 7,
		"items": [{"product_code": "CEM001", "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "Failed to create order", errResp["error"])
}

// --- Tests: GET /orders/{number} ---

func storedOrder() *models.SalesOrder {
	return &models.SalesOrder{
		OrderNumber: "SO-AB12CD34",
		SalesType:   models.SalesTypeRegular,
		Status:      models.OrderStatusOrder,
		OrderDate:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Customer:    &models.Customer{ID: 7, Name: "Karim Traders", Active: true},
		Items: []models.SalesOrderItem{
			{
				Product:    *tileProduct(),
				Quantity:   decimal.NewFromInt(500),
				UnitPrice:  decimal.NewFromFloat(55.00),
				TotalPrice: decimal.NewFromFloat(27500.00),
			},
		},
	}
}

func TestHandleGet(t *testing.T) {
	handler, orderRepo, _, _ := newHandler()
	orderRepo.Orders["SO-AB12CD34"] = storedOrder()

	req := httptest.NewRequest("GET", "/orders/SO-AB12CD34", nil)
	req.SetPathValue("number", "SO-AB12CD34")
	rec := httptest.NewRecorder()

	handler.HandleGet(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "SO-AB12CD34", resp.OrderNumber)
	assert.Equal(t, "Karim Traders", resp.CustomerName)
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].TileInfo)
	assert.Equal(t, 500.0, resp.Items[0].TileInfo.TotalSqft)
	assert.Equal(t, int64(12), resp.Items[0].TileInfo.Cartons)
	assert.Equal(t, int64(5), resp.Items[0].TileInfo.RemainingPieces)
}

func TestHandleGetNotFound(t *testing.T) {
	handler, _, _, _ := newHandler()

	req := httptest.NewRequest("GET", "/orders/SO-MISSING", nil)
	req.SetPathValue("number", "SO-MISSING")
	rec := httptest.NewRecorder()

	handler.HandleGet(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "Order not found", errResp["error"])
}

func TestHandleGetRepositoryError(t *testing.T) {
	handler, orderRepo, _, _ := newHandler()
	orderRepo.GetErr = errors.New("db down")

	req := httptest.NewRequest("GET", "/orders/SO-AB12CD34", nil)
	req.SetPathValue("number", "SO-AB12CD34")
	rec := httptest.NewRecorder()

	handler.HandleGet(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- Tests: GET /orders/{number}/invoice ---

func TestHandleGetInvoice(t *testing.T) {
	handler, orderRepo, _, _ := newHandler()
	orderRepo.Orders["SO-AB12CD34"] = storedOrder()

	req := httptest.NewRequest("GET", "/orders/SO-AB12CD34/invoice", nil)
	req.SetPathValue("number", "SO-AB12CD34")
	rec := httptest.NewRecorder()

	handler.HandleGetInvoice(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "SO-AB12CD34 | 2026-08-20")
	assert.Contains(t, body, "(500 sqft, 12 carton 5 pcs)")
	assert.Contains(t, body, "Total: ৳27500.00")
}

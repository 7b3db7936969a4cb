package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildermart/sales-api/invoice"
	"github.com/buildermart/sales-api/models"
	"github.com/buildermart/sales-api/tiles"
)

const dateLayout = "2006-01-02"

type OrderProvider interface {
	CreateOrder(order *models.SalesOrder, ledgerDescription string) error
	GetByNumber(number string) (*models.SalesOrder, error)
}

type ProductProvider interface {
	GetByCode(code string) (*models.Product, error)
}

type CustomerProvider interface {
	GetByID(id uint) (*models.Customer, error)
}

type OrdersHandler struct {
	orders    OrderProvider
	products  ProductProvider
	customers CustomerProvider
	calc      tiles.Calculator
	builder   invoice.Builder
	validate  *validator.Validate
}

func NewOrdersHandler(orders OrderProvider, products ProductProvider, customers CustomerProvider) *OrdersHandler {
	calc := tiles.Calculator{}
	return &OrdersHandler{
		orders:    orders,
		products:  products,
		customers: customers,
		calc:      calc,
		builder:   invoice.Builder{Calc: calc},
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// --- Requests ---

type OrderItemRequest struct {
	ProductCode string           `json:"product_code" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	SalesType          string             `json:"sales_type" validate:"omitempty,oneof=regular instant"`
	CustomerID         *uint              `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	OrderDate          string             `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate       string             `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Status             string             `json:"status" validate:"omitempty,oneof=order delivered cancel"`
	DeliveryCharges    *decimal.Decimal   `json:"delivery_charges"`
	TransportationCost decimal.Decimal    `json:"transportation_cost"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	CustomerDeposit    decimal.Decimal    `json:"customer_deposit"`
	Notes              string             `json:"notes"`
	Items              []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// --- Responses ---

type TileInfo struct {
	TotalSqft       float64 `json:"total_sqft"`
	TotalPieces     int64   `json:"total_pieces"`
	Cartons         int64   `json:"cartons"`
	RemainingPieces int64   `json:"remaining_pieces"`
}

type OrderItemResponse struct {
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
	TileInfo    *TileInfo `json:"tile_info"`
}

type OrderResponse struct {
	OrderNumber        string              `json:"order_number"`
	SalesType          string              `json:"sales_type"`
	Status             string              `json:"status"`
	CustomerName       string              `json:"customer_name"`
	OrderDate          string              `json:"order_date"`
	DeliveryDate       *string             `json:"delivery_date"`
	Subtotal           float64             `json:"subtotal"`
	DeliveryCharges    float64             `json:"delivery_charges"`
	TransportationCost float64             `json:"transportation_cost"`
	DiscountAmount     float64             `json:"discount_amount"`
	CustomerDeposit    float64             `json:"customer_deposit"`
	TotalAmount        float64             `json:"total_amount"`
	Notes              string              `json:"notes"`
	Items              []OrderItemResponse `json:"items"`
}

// HandleCreate validates and persists a sales order. Validation failures come
// back as one response carrying every field problem, so the caller can show
// them all at once instead of fixing one error per submit.
func (h *OrdersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.SalesType == "" {
		req.SalesType = models.SalesTypeRegular
	}
	if req.Status == "" {
		req.Status = models.OrderStatusOrder
	}

	fields := map[string]string{}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fieldName(fe)] = validationMessage(fe)
			}
		} else {
			respondError(w, http.StatusBadRequest, "Invalid request")
			return
		}
	}

	switch req.SalesType {
	case models.SalesTypeInstant:
		if req.CustomerID == nil && strings.TrimSpace(req.CustomerName) == "" {
			fields["customer"] = "For instant sales, either select a customer or enter a customer name."
		}
		// Instant sales have no delivery date.
		req.DeliveryDate = ""
	case models.SalesTypeRegular:
		if req.CustomerID == nil {
			fields["customer"] = "Customer is required for regular sales."
		}
	}

	checkNonNegative(fields, "transportation_cost", req.TransportationCost)
	checkNonNegative(fields, "discount_amount", req.DiscountAmount)
	checkNonNegative(fields, "customer_deposit", req.CustomerDeposit)
	if req.DeliveryCharges != nil && req.DeliveryCharges.IsNegative() {
		fields["delivery_charges"] = "Delivery charges cannot be negative."
	}

	var customer *models.Customer
	if req.CustomerID != nil {
		found, err := h.customers.GetByID(*req.CustomerID)
		switch {
		case errors.Is(err, models.ErrCustomerNotFound):
			fields["customer"] = "Customer not found."
		case err != nil:
			respondError(w, http.StatusInternalServerError, "Failed to look up customer")
			return
		case !found.Active:
			fields["customer"] = "Customer is inactive."
		default:
			customer = found
		}
	}

	items := make([]models.SalesOrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		key := fmt.Sprintf("items[%d]", i)
		if it.ProductCode == "" {
			continue // already reported by struct validation
		}
		if !it.Quantity.IsPositive() {
			fields[key+".quantity"] = "Quantity must be greater than zero."
			continue
		}

		product, err := h.products.GetByCode(it.ProductCode)
		if errors.Is(err, models.ErrProductNotFound) {
			fields[key+".product_code"] = fmt.Sprintf("Unknown product code %q.", it.ProductCode)
			continue
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to look up product")
			return
		}

		unitPrice := product.Price
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				fields[key+".unit_price"] = "Unit price cannot be negative."
				continue
			}
			unitPrice = it.UnitPrice.Round(2)
		}

		quantity := it.Quantity.Round(2)
		items = append(items, models.SalesOrderItem{
			ProductID:  product.ID,
			Product:    *product,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: quantity.Mul(unitPrice).Round(2),
		})
	}

	if len(fields) > 0 {
		respondFieldErrors(w, fields)
		return
	}

	orderDate := time.Now()
	if req.OrderDate != "" {
		orderDate, _ = time.Parse(dateLayout, req.OrderDate)
	}
	var deliveryDate *time.Time
	if req.DeliveryDate != "" {
		d, _ := time.Parse(dateLayout, req.DeliveryDate)
		deliveryDate = &d
	}

	order := &models.SalesOrder{
		OrderNumber:        newOrderNumber(),
		SalesType:          req.SalesType,
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		Status:             req.Status,
		OrderDate:          orderDate,
		DeliveryDate:       deliveryDate,
		TransportationCost: req.TransportationCost.Round(2),
		DiscountAmount:     req.DiscountAmount.Round(2),
		CustomerDeposit:    req.CustomerDeposit.Round(2),
		Notes:              req.Notes,
		Items:              items,
	}
	if customer != nil && order.CustomerName == "" {
		order.CustomerName = customer.Name
	}
	if req.DeliveryCharges != nil {
		order.DeliveryCharges = req.DeliveryCharges.Round(2)
	} else {
		order.DeliveryCharges = order.EstimatedDeliveryCharges()
	}

	description := h.builder.Description(order)
	if err := h.orders.CreateOrder(order, description); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.toResponse(order))
}

func (h *OrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.lookupOrder(w, r)
	if order == nil || err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.toResponse(order)); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// HandleGetInvoice renders the plain-text invoice for an order.
func (h *OrdersHandler) HandleGetInvoice(w http.ResponseWriter, r *http.Request) {
	order, err := h.lookupOrder(w, r)
	if order == nil || err != nil {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, h.builder.Description(order))
}

func (h *OrdersHandler) lookupOrder(w http.ResponseWriter, r *http.Request) (*models.SalesOrder, error) {
	number := r.PathValue("number")

	order, err := h.orders.GetByNumber(number)
	if errors.Is(err, models.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "Order not found")
		return nil, err
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve order")
		return nil, err
	}
	return order, nil
}

func (h *OrdersHandler) toResponse(order *models.SalesOrder) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		out := OrderItemResponse{
			ProductCode: item.Product.Code,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity.InexactFloat64(),
			Unit:        item.Product.UnitType.Code,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			TotalPrice:  item.TotalPrice.InexactFloat64(),
		}
		if breakdown, err := h.calc.ForProduct(&item.Product, item.Quantity); err == nil && breakdown != nil {
			out.TileInfo = &TileInfo{
				TotalSqft:       breakdown.TotalSqft.InexactFloat64(),
				TotalPieces:     breakdown.TotalPieces,
				Cartons:         breakdown.Cartons,
				RemainingPieces: breakdown.RemainingPieces,
			}
		}
		items[i] = out
	}

	customerName := order.CustomerName
	if customerName == "" && order.Customer != nil {
		customerName = order.Customer.Name
	}

	var deliveryDate *string
	if order.DeliveryDate != nil {
		d := order.DeliveryDate.Format(dateLayout)
		deliveryDate = &d
	}

	return OrderResponse{
		OrderNumber:        order.OrderNumber,
		SalesType:          order.SalesType,
		Status:             order.Status,
		CustomerName:       customerName,
		OrderDate:          order.OrderDate.Format(dateLayout),
		DeliveryDate:       deliveryDate,
		Subtotal:           order.Subtotal().InexactFloat64(),
		DeliveryCharges:    order.EffectiveDeliveryCharges().InexactFloat64(),
		TransportationCost: order.TransportationCost.InexactFloat64(),
		DiscountAmount:     order.DiscountAmount.InexactFloat64(),
		CustomerDeposit:    order.CustomerDeposit.InexactFloat64(),
		TotalAmount:        order.TotalAmount().InexactFloat64(),
		Notes:              order.Notes,
		Items:              items,
	}
}

// --- Helpers ---

func newOrderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SO-" + strings.ToUpper(id[:8])
}

func checkNonNegative(fields map[string]string, name string, value decimal.Decimal) {
	if value.IsNegative() {
		fields[name] = fmt.Sprintf("%s cannot be negative.", strings.ReplaceAll(name, "_", " "))
	}
}

func fieldName(fe validator.FieldError) string {
	// "CreateOrderRequest.Items[0].ProductCode" -> "items[0].product_code"
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	parts := strings.Split(ns, ".")
	for i, part := range parts {
		parts[i] = snakeCase(part)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "This field is required."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "Must be a date in YYYY-MM-DD format."
	default:
		return "Invalid value."
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

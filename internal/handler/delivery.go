package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/service"
)

// DeliveryHandler handles HTTP requests for deliveries.
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// CreateDeliveryRequest is the HTTP request body for booking a delivery.
type CreateDeliveryRequest struct {
	ClientID        string `json:"client_id"`
	TruckPlate      string `json:"truck_plate"`
	PickupLocation  string `json:"pickup_location"`
	DeliveryAddress string `json:"delivery_address"`
	Amount          string `json:"amount"`
	DeliveryDate    string `json:"delivery_date,omitempty"` // RFC 3339
	DueDate         string `json:"due_date,omitempty"`      // RFC 3339
}

// DeliveryResponse is the HTTP response for delivery data.
type DeliveryResponse struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	TruckPlate      string `json:"truck_plate"`
	PickupLocation  string `json:"pickup_location"`
	DeliveryAddress string `json:"delivery_address"`
	Amount          string `json:"amount"`
	DeliveryDate    string `json:"delivery_date,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	DeliveryStatus  string `json:"delivery_status"`
	PaymentStatus   string `json:"payment_status"`
	ProofID         string `json:"proof_id,omitempty"`
	PaidAt          string `json:"paid_at,omitempty"`
}

// CreateDelivery handles POST /v1/deliveries
func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var req CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ClientID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "client_id is required"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a decimal number"})
		return
	}

	deliveryDate, ok := parseOptionalTime(c, req.DeliveryDate, "delivery_date")
	if !ok {
		return
	}
	dueDate, ok := parseOptionalTime(c, req.DueDate, "due_date")
	if !ok {
		return
	}

	delivery, err := h.deliveryService.CreateDelivery(c.Request.Context(), service.CreateDeliveryRequest{
		ClientID:        req.ClientID,
		TruckPlate:      req.TruckPlate,
		PickupLocation:  req.PickupLocation,
		DeliveryAddress: req.DeliveryAddress,
		Amount:          amount,
		DeliveryDate:    deliveryDate,
		DueDate:         dueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, deliveryResponse(delivery))
}

// GetDelivery handles GET /v1/deliveries/:id
func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, deliveryResponse(delivery))
}

// GetAll handles GET /v1/deliveries?client_id=...
func (h *DeliveryHandler) GetAll(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "client_id query parameter is required"})
		return
	}

	deliveries, err := h.deliveryService.GetClientDeliveries(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	var response []DeliveryResponse
	for _, d := range deliveries {
		response = append(response, deliveryResponse(d))
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatusRequest is the HTTP request body for a delivery status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /v1/deliveries/:id/status
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status := domain.DeliveryStatus(req.Status)
	switch status {
	case domain.DeliveryStatusInProgress, domain.DeliveryStatusCompleted,
		domain.DeliveryStatusDelivered, domain.DeliveryStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
		return
	}

	delivery, err := h.deliveryService.UpdateDeliveryStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, deliveryResponse(delivery))
}

func deliveryResponse(d *domain.Delivery) DeliveryResponse {
	response := DeliveryResponse{
		ID:              d.ID,
		ClientID:        d.ClientID,
		TruckPlate:      d.TruckPlate,
		PickupLocation:  d.PickupLocation,
		DeliveryAddress: d.DeliveryAddress,
		Amount:          d.Amount.StringFixed(2),
		DeliveryStatus:  string(d.DeliveryStatus),
		PaymentStatus:   string(d.PaymentStatus),
		ProofID:         d.ProofID,
	}
	if !d.DeliveryDate.IsZero() {
		response.DeliveryDate = d.DeliveryDate.Format(time.RFC3339)
	}
	if !d.DueDate.IsZero() {
		response.DueDate = d.DueDate.Format(time.RFC3339)
	}
	if !d.PaidAt.IsZero() {
		response.PaidAt = d.PaidAt.Format(time.RFC3339)
	}
	return response
}

// parseOptionalTime parses an optional RFC 3339 field, writing a 400 on
// failure. The bool result reports whether handling should continue.
func parseOptionalTime(c *gin.Context, value, field string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: field + " must be RFC 3339"})
		return time.Time{}, false
	}
	return t, true
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freightpay/internal/domain"
	"freightpay/internal/repository"
	"freightpay/internal/service"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	clientRepo     repository.ClientRepository
	summaryService *service.SummaryService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientRepo repository.ClientRepository, summaryService *service.SummaryService) *ClientHandler {
	return &ClientHandler{
		clientRepo:     clientRepo,
		summaryService: summaryService,
	}
}

// RegisterClientRequest is the HTTP request body for client registration.
type RegisterClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ClientResponse is the HTTP response for client data.
type ClientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Register handles POST /v1/clients/register
func (h *ClientHandler) Register(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and email are required"})
		return
	}

	// Check if client already exists
	existing, err := h.clientRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Client already registered",
			"client":  clientResponse(existing),
		})
		return
	}

	client := &domain.Client{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}

	if err := h.clientRepo.Create(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, clientResponse(client))
}

// GetClient handles GET /v1/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, clientResponse(client))
}

// GetAll handles GET /v1/clients
func (h *ClientHandler) GetAll(c *gin.Context) {
	clients, err := h.clientRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []ClientResponse
	for _, client := range clients {
		response = append(response, clientResponse(client))
	}

	c.JSON(http.StatusOK, response)
}

// SummaryDeliveryResponse is one enriched delivery in a payment summary.
type SummaryDeliveryResponse struct {
	ID              string `json:"id"`
	TruckPlate      string `json:"truck_plate"`
	PickupLocation  string `json:"pickup_location"`
	DeliveryAddress string `json:"delivery_address"`
	Amount          string `json:"amount"`
	DeliveryDate    string `json:"delivery_date"`
	DueDate         string `json:"due_date"`
	DeliveryStatus  string `json:"delivery_status"`
	PaymentStatus   string `json:"payment_status"`
	ProofID         string `json:"proof_id,omitempty"`
	PaidAt          string `json:"paid_at,omitempty"`
}

// PaymentSummaryResponse is the HTTP response for a client payment summary.
type PaymentSummaryResponse struct {
	ClientID                 string                    `json:"client_id"`
	TotalDeliveries          int                       `json:"total_deliveries"`
	PendingCount             int                       `json:"pending_count"`
	PendingVerificationCount int                       `json:"pending_verification_count"`
	PaidCount                int                       `json:"paid_count"`
	OverdueCount             int                       `json:"overdue_count"`
	TotalAmountDue           string                    `json:"total_amount_due"`
	TotalAmountPaid          string                    `json:"total_amount_paid"`
	OverdueAmount            string                    `json:"overdue_amount"`
	CanBookTrucks            bool                      `json:"can_book_trucks"`
	Deliveries               []SummaryDeliveryResponse `json:"deliveries"`
	GeneratedAt              string                    `json:"generated_at"`
}

// GetPaymentSummary handles GET /v1/clients/:id/payment-summary
func (h *ClientHandler) GetPaymentSummary(c *gin.Context) {
	summary, err := h.summaryService.GetClientPaymentSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := PaymentSummaryResponse{
		ClientID:                 summary.ClientID,
		TotalDeliveries:          summary.TotalDeliveries,
		PendingCount:             summary.PendingCount,
		PendingVerificationCount: summary.PendingVerificationCount,
		PaidCount:                summary.PaidCount,
		OverdueCount:             summary.OverdueCount,
		TotalAmountDue:           summary.TotalAmountDue.StringFixed(2),
		TotalAmountPaid:          summary.TotalAmountPaid.StringFixed(2),
		OverdueAmount:            summary.OverdueAmount.StringFixed(2),
		CanBookTrucks:            summary.CanBookTrucks,
		GeneratedAt:              summary.GeneratedAt.Format(time.RFC3339),
	}

	for _, d := range summary.Deliveries {
		item := SummaryDeliveryResponse{
			ID:              d.ID,
			TruckPlate:      d.TruckPlate,
			PickupLocation:  d.PickupLocation,
			DeliveryAddress: d.DeliveryAddress,
			Amount:          d.Amount.StringFixed(2),
			DeliveryDate:    d.DeliveryDate.Format(time.RFC3339),
			DueDate:         d.DueDate.Format(time.RFC3339),
			DeliveryStatus:  string(d.DeliveryStatus),
			PaymentStatus:   string(d.PaymentStatus),
			ProofID:         d.ProofID,
		}
		if !d.PaidAt.IsZero() {
			item.PaidAt = d.PaidAt.Format(time.RFC3339)
		}
		response.Deliveries = append(response.Deliveries, item)
	}

	respondJSON(c, http.StatusOK, response)
}

func clientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:    client.ID,
		Name:  client.Name,
		Email: client.Email,
		Phone: client.Phone,
	}
}

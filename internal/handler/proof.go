package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"freightpay/internal/domain"
	"freightpay/internal/service"
)

// ProofHandler handles HTTP requests for payment proofs and receipts.
type ProofHandler struct {
	proofService   *service.ProofService
	receiptService *service.ReceiptService
}

// NewProofHandler creates a new ProofHandler.
func NewProofHandler(proofService *service.ProofService, receiptService *service.ReceiptService) *ProofHandler {
	return &ProofHandler{
		proofService:   proofService,
		receiptService: receiptService,
	}
}

// UploadProofResponse is the HTTP response for a proof upload.
type UploadProofResponse struct {
	ProofID       string `json:"proof_id"`
	DeliveryCount int    `json:"delivery_count"`
	TotalAmount   string `json:"total_amount"`
}

// Upload handles POST /v1/proofs (multipart/form-data).
//
// Form fields: file (the proof document), client_id, delivery_ids
// (comma-separated), reference_number (optional), notes (optional).
func (h *ProofHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}

	if fileHeader.Size > service.MaxProofFileSize {
		respondError(c, service.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxProofFileSize+1))
	if err != nil {
		respondError(c, err)
		return
	}

	clientID := c.PostForm("client_id")
	deliveryIDs := splitIDs(c.PostForm("delivery_ids"))

	result, err := h.proofService.UploadProof(c.Request.Context(), service.UploadProofRequest{
		ClientID:        clientID,
		DeliveryIDs:     deliveryIDs,
		FileName:        fileHeader.Filename,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		Data:            data,
		ReferenceNumber: c.PostForm("reference_number"),
		Notes:           c.PostForm("notes"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, UploadProofResponse{
		ProofID:       result.Proof.ID,
		DeliveryCount: result.DeliveryCount,
		TotalAmount:   result.TotalAmount.StringFixed(2),
	})
}

// ProofResponse is the HTTP response for proof data.
type ProofResponse struct {
	ID              string   `json:"id"`
	ClientID        string   `json:"client_id"`
	DeliveryIDs     []string `json:"delivery_ids"`
	FileName        string   `json:"file_name"`
	TotalAmount     string   `json:"total_amount"`
	Status          string   `json:"status"`
	ReferenceNumber string   `json:"reference_number,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
	ProcessedBy     string   `json:"processed_by,omitempty"`
	ProcessedAt     string   `json:"processed_at,omitempty"`
	ReceiptNumber   string   `json:"receipt_number,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// GetProof handles GET /v1/proofs/:id
func (h *ProofHandler) GetProof(c *gin.Context) {
	proof, err := h.proofService.GetProof(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, proofResponse(proof))
}

// GetAll handles GET /v1/proofs?client_id=...&status=...
func (h *ProofHandler) GetAll(c *gin.Context) {
	status := domain.ProofStatus(c.Query("status"))
	switch status {
	case "", domain.ProofStatusPending, domain.ProofStatusApproved, domain.ProofStatusRejected:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status filter"})
		return
	}

	proofs, err := h.proofService.ListProofs(c.Request.Context(), c.Query("client_id"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	var response []ProofResponse
	for _, proof := range proofs {
		response = append(response, proofResponse(proof))
	}

	c.JSON(http.StatusOK, response)
}

// DecisionRequest is the HTTP request body for approving or rejecting a
// proof.
type DecisionRequest struct {
	ProcessedBy     string `json:"processed_by"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// DecisionResponse is the HTTP response for a proof decision.
type DecisionResponse struct {
	DeliveriesUpdated int    `json:"deliveries_updated"`
	TotalAmount       string `json:"total_amount,omitempty"`
	ReceiptNumber     string `json:"receipt_number,omitempty"`
}

// Approve handles POST /v1/proofs/:id/approve
func (h *ProofHandler) Approve(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.proofService.ApproveProof(c.Request.Context(), service.ApproveProofRequest{
		ProofID:     c.Param("id"),
		ProcessedBy: req.ProcessedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DecisionResponse{
		DeliveriesUpdated: result.DeliveriesUpdated,
		TotalAmount:       result.TotalAmount.StringFixed(2),
		ReceiptNumber:     result.ReceiptNumber,
	})
}

// Reject handles POST /v1/proofs/:id/reject
func (h *ProofHandler) Reject(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.proofService.RejectProof(c.Request.Context(), service.RejectProofRequest{
		ProofID:         c.Param("id"),
		ProcessedBy:     req.ProcessedBy,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DecisionResponse{
		DeliveriesUpdated: result.DeliveriesUpdated,
	})
}

// GetReceipt handles GET /v1/proofs/:id/receipt and serves the rendered
// HTML document inline.
func (h *ProofHandler) GetReceipt(c *gin.Context) {
	receipt, html, err := h.receiptService.GetReceiptByProofID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+receipt.ReceiptNumber+`.html"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func proofResponse(proof *domain.PaymentProof) ProofResponse {
	response := ProofResponse{
		ID:              proof.ID,
		ClientID:        proof.ClientID,
		DeliveryIDs:     proof.DeliveryIDs,
		FileName:        proof.FileName,
		TotalAmount:     proof.TotalAmount.StringFixed(2),
		Status:          string(proof.Status),
		ReferenceNumber: proof.ReferenceNumber,
		Notes:           proof.Notes,
		RejectionReason: proof.RejectionReason,
		ProcessedBy:     proof.ProcessedBy,
		ReceiptNumber:   proof.ReceiptNumber,
		CreatedAt:       proof.CreatedAt.Format(time.RFC3339),
	}
	if !proof.ProcessedAt.IsZero() {
		response.ProcessedAt = proof.ProcessedAt.Format(time.RFC3339)
	}
	return response
}

// splitIDs parses a comma-separated ID list, dropping empty entries.
func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

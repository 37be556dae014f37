package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	paymentsapp "github.com/condoledger/backend/internal/application/payments"
	"github.com/condoledger/backend/internal/domain/payments"
	"github.com/condoledger/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles payment reporting, review and solvency endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService  *paymentsapp.PaymentService
	approvalService *paymentsapp.ApprovalService
	solvencyService *paymentsapp.SolvencyService
	proofService    *paymentsapp.ProofService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentService *paymentsapp.PaymentService,
	approvalService *paymentsapp.ApprovalService,
	solvencyService *paymentsapp.SolvencyService,
	proofService *paymentsapp.ProofService,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		approvalService: approvalService,
		solvencyService: solvencyService,
		proofService:    proofService,
	}
}

// AllocationRequest assigns part of a payment to one invoice
type AllocationRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required,uuid"`
	Amount    string `json:"amount" binding:"required"`
}

// RegisterPaymentRequest reports a payment made outside the platform
type RegisterPaymentRequest struct {
	UnitID      string              `json:"unit_id" binding:"required,uuid"`
	Amount      string              `json:"amount" binding:"required"`
	Method      string              `json:"method" binding:"required"`
	PaymentDate string              `json:"payment_date" binding:"required"`
	Reference   string              `json:"reference"`
	Bank        string              `json:"bank"`
	ProofURL    string              `json:"proof_url"`
	Periods     []string            `json:"periods" binding:"omitempty,dive,period"`
	Notes       string              `json:"notes"`
	Allocations []AllocationRequest `json:"allocations" binding:"omitempty,dive"`
}

// ReviewRequest carries the reviewer's notes for an approve or reject
type ReviewRequest struct {
	Notes string `json:"notes"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	UnitID      string     `json:"unit_id"`
	BuildingID  string     `json:"building_id,omitempty"`
	Amount      string     `json:"amount"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	PaymentDate time.Time  `json:"payment_date"`
	Reference   string     `json:"reference,omitempty"`
	Bank        string     `json:"bank,omitempty"`
	ProofURL    string     `json:"proof_url,omitempty"`
	Periods     []string   `json:"periods,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toPaymentResponse(p *payments.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:          p.GetID().String(),
		UserID:      p.UserID.String(),
		UnitID:      p.UnitID.String(),
		Amount:      p.Amount.StringFixed(2),
		Method:      string(p.Method),
		Status:      string(p.Status),
		PaymentDate: p.PaymentDate,
		Reference:   p.Reference,
		Bank:        p.Bank,
		ProofURL:    p.ProofURL,
		Notes:       p.Notes,
		ReviewedAt:  p.ReviewedAt,
		ReviewNotes: p.ReviewNotes,
		CreatedAt:   p.CreatedAt,
	}
	if p.BuildingID != nil {
		resp.BuildingID = p.BuildingID.String()
	}
	if p.ReviewedBy != nil {
		resp.ReviewedBy = p.ReviewedBy.String()
	}
	for _, period := range p.Periods {
		resp.Periods = append(resp.Periods, period.String())
	}
	return resp
}

// RegisterPayment reports a payment and optionally allocates it
// POST /api/v1/payments
func (h *PaymentHandler) RegisterPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid amount")
		return
	}

	method := payments.PaymentMethod(strings.ToUpper(req.Method))
	if !method.IsValid() {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid payment method")
		return
	}

	paymentDate, err := time.Parse(time.RFC3339, req.PaymentDate)
	if err != nil {
		if paymentDate, err = time.Parse("2006-01-02", req.PaymentDate); err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "payment_date must be RFC3339 or YYYY-MM-DD")
			return
		}
	}

	allocations := make([]paymentsapp.AllocationRequest, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocAmount, err := decimal.NewFromString(a.Amount)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid allocation amount")
			return
		}
		allocations = append(allocations, paymentsapp.AllocationRequest{
			InvoiceID: uuid.MustParse(a.InvoiceID),
			Amount:    allocAmount,
		})
	}

	payment, err := h.paymentService.RegisterPayment(c.Request.Context(), paymentsapp.RegisterPaymentRequest{
		UserID:      userID,
		UnitID:      uuid.MustParse(req.UnitID),
		Amount:      amount,
		Method:      method,
		PaymentDate: paymentDate,
		Reference:   req.Reference,
		Bank:        req.Bank,
		ProofURL:    req.ProofURL,
		Periods:     req.Periods,
		Notes:       req.Notes,
		Allocations: allocations,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(payment))
}

// ApprovePayment approves a pending payment
// POST /api/v1/payments/:id/approve
func (h *PaymentHandler) ApprovePayment(c *gin.Context) {
	h.review(c, h.approvalService.Approve)
}

// RejectPayment rejects a pending payment
// POST /api/v1/payments/:id/reject
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	h.review(c, h.approvalService.Reject)
}

func (h *PaymentHandler) review(c *gin.Context, action func(ctx context.Context, paymentID, approverID uuid.UUID, notes string) error) {
	approverID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payment ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, err.Error())
		return
	}

	if err := action(c.Request.Context(), paymentID, approverID, req.Notes); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PaymentListFilter represents filter parameters for unit payment lists
type PaymentListFilter struct {
	Status   string `form:"status"`
	Method   string `form:"method"`
	Page     int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// ListUnitPayments returns a unit's payments, optionally filtered
// GET /api/v1/units/:id/payments
func (h *PaymentHandler) ListUnitPayments(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid unit ID")
		return
	}

	var filter PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	serviceFilter := payments.PaymentFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Status != "" {
		status := payments.PaymentStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid payment status")
			return
		}
		serviceFilter.Status = &status
	}
	if filter.Method != "" {
		method := payments.PaymentMethod(strings.ToUpper(filter.Method))
		if !method.IsValid() {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid payment method")
			return
		}
		serviceFilter.Method = &method
	}

	list, err := h.paymentService.ListPayments(c.Request.Context(), unitID, serviceFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]PaymentResponse, len(list))
	for i := range list {
		response[i] = toPaymentResponse(&list[i])
	}
	h.Success(c, response)
}

// GetSolvency returns the authenticated user's solvency summary
// GET /api/v1/solvency
func (h *PaymentHandler) GetSolvency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	summary, err := h.solvencyService.GetSolvencySummary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetUserSolvency returns another user's solvency summary
// GET /api/v1/users/:id/solvency
func (h *PaymentHandler) GetUserSolvency(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid user ID")
		return
	}

	summary, err := h.solvencyService.GetSolvencySummary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// ProofUploadRequest asks for a presigned upload slot for a payment proof
type ProofUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// CreateProofUploadTicket issues a presigned URL for uploading a payment
// proof image or PDF
// POST /api/v1/payments/proofs
func (h *PaymentHandler) CreateProofUploadTicket(c *gin.Context) {
	if h.proofService == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "proof storage is not configured")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req ProofUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ticket, err := h.proofService.CreateUploadTicket(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ticket)
}

// GetProofDownloadURL resolves a stored proof key to a presigned download URL
// GET /api/v1/payments/proofs/url?key=...
func (h *PaymentHandler) GetProofDownloadURL(c *gin.Context) {
	if h.proofService == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "proof storage is not configured")
		return
	}

	key := c.Query("key")

	url, err := h.proofService.ResolveDownloadURL(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"download_url": url})
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pay := rg.Group("/payments")
	{
		pay.POST("", h.RegisterPayment)
		pay.POST("/:id/approve", h.ApprovePayment)
		pay.POST("/:id/reject", h.RejectPayment)
		pay.POST("/proofs", h.CreateProofUploadTicket)
		pay.GET("/proofs/url", h.GetProofDownloadURL)
	}

	rg.GET("/units/:id/payments", h.ListUnitPayments)
	rg.GET("/solvency", h.GetSolvency)
	rg.GET("/users/:id/solvency", h.GetUserSolvency)
}

package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/condoledger/backend/internal/application/billing"
	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/condoledger/backend/internal/interfaces/http/dto"
)

// maxImportFileSize caps uploaded ledger workbooks at 10MB
const maxImportFileSize = 10 * 1024 * 1024

// BillingHandler handles invoice and ledger import endpoints
type BillingHandler struct {
	BaseHandler
	debtService    *billingapp.DebtService
	balanceService *billingapp.BalanceService
	importService  *billingapp.LedgerImportService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(
	debtService *billingapp.DebtService,
	balanceService *billingapp.BalanceService,
	importService *billingapp.LedgerImportService,
) *BillingHandler {
	return &BillingHandler{
		debtService:    debtService,
		balanceService: balanceService,
		importService:  importService,
	}
}

// LoadDebtRequest creates one debt invoice against a unit
type LoadDebtRequest struct {
	UnitID      string  `json:"unit_id" binding:"required,uuid"`
	Amount      string  `json:"amount" binding:"required"`
	Period      string  `json:"period" binding:"required,period"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            string     `json:"id"`
	UnitID        string     `json:"unit_id"`
	Amount        string     `json:"amount"`
	PaidAmount    string     `json:"paid_amount"`
	Period        string     `json:"period"`
	Status        string     `json:"status"`
	Type          string     `json:"type"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	ReceiptNumber string     `json:"receipt_number,omitempty"`
	Description   string     `json:"description,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.GetID().String(),
		UnitID:        inv.UnitID.String(),
		Amount:        inv.Amount.StringFixed(2),
		PaidAmount:    inv.PaidAmount.StringFixed(2),
		Period:        inv.Period.String(),
		Status:        string(inv.Status),
		Type:          string(inv.Type),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		ReceiptNumber: inv.ReceiptNumber,
		Description:   inv.Description,
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
	}
}

// LoadDebt creates a PENDING debt invoice for a unit and period
// POST /api/v1/billing/debts
func (h *BillingHandler) LoadDebt(c *gin.Context) {
	var req LoadDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid amount")
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "due_date must be YYYY-MM-DD")
			return
		}
		dueDate = &t
	}

	invoice, err := h.debtService.LoadDebt(c.Request.Context(), billingapp.LoadDebtRequest{
		UnitID:      uuid.MustParse(req.UnitID),
		Amount:      amount,
		Period:      req.Period,
		Description: req.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toInvoiceResponse(invoice))
}

// GetUnitBalance returns the unit's outstanding debt summary
// GET /api/v1/units/:id/balance
func (h *BillingHandler) GetUnitBalance(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid unit ID")
		return
	}

	balance, err := h.balanceService.GetUnitBalance(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// InvoiceListFilter represents filter parameters for unit invoice lists
type InvoiceListFilter struct {
	Status   string `form:"status"`
	Type     string `form:"type"`
	Period   string `form:"period"`
	Page     int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// ListUnitInvoices returns the unit's invoices, optionally filtered
// GET /api/v1/units/:id/invoices
func (h *BillingHandler) ListUnitInvoices(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid unit ID")
		return
	}

	var filter InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	serviceFilter := billing.InvoiceFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid invoice status")
			return
		}
		serviceFilter.Status = &status
	}
	if filter.Type != "" {
		invoiceType := billing.InvoiceType(strings.ToUpper(filter.Type))
		if !invoiceType.IsValid() {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid invoice type")
			return
		}
		serviceFilter.Type = &invoiceType
	}
	if filter.Period != "" {
		period, err := valueobject.ParsePeriod(filter.Period)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "period must be YYYY-MM")
			return
		}
		serviceFilter.Period = &period
	}

	invoices, err := h.balanceService.ListUnitInvoices(c.Request.Context(), unitID, serviceFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		response[i] = toInvoiceResponse(&invoices[i])
	}
	h.Success(c, response)
}

// PreviewImport parses an uploaded ledger workbook and returns the
// reviewable import plan. Nothing is persisted.
// POST /api/v1/buildings/:id/ledger-imports/preview
func (h *BillingHandler) PreviewImport(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid building ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 10MB")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "only .xlsx workbooks are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	preview, err := h.importService.Preview(c.Request.Context(), data, buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preview)
}

// ConfirmImportRequest carries the operator-confirmed rows of a ledger import
type ConfirmImportRequest struct {
	Invoices []ConfirmedInvoiceRequest `json:"invoices" binding:"required,min=1,dive"`
}

// ConfirmedInvoiceRequest is one confirmed row of a ledger import
type ConfirmedInvoiceRequest struct {
	UnitName      string `json:"unit_name" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Period        string `json:"period" binding:"required,period"`
	IssueDate     string `json:"issue_date" binding:"required"`
	ReceiptNumber string `json:"receipt_number"`
	Description   string `json:"description"`
}

// ConfirmImport persists a confirmed ledger import: missing units are
// created and invoices with new receipt numbers inserted
// POST /api/v1/buildings/:id/ledger-imports/confirm
func (h *BillingHandler) ConfirmImport(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid building ID")
		return
	}

	var req ConfirmImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	confirmed := make([]billingapp.ConfirmedInvoice, 0, len(req.Invoices))
	for _, row := range req.Invoices {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid amount for unit "+row.UnitName)
			return
		}
		issueDate, err := time.Parse("2006-01-02", row.IssueDate)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "issue_date must be YYYY-MM-DD")
			return
		}
		confirmed = append(confirmed, billingapp.ConfirmedInvoice{
			UnitName:      row.UnitName,
			Amount:        amount,
			Period:        row.Period,
			IssueDate:     issueDate,
			ReceiptNumber: row.ReceiptNumber,
			Description:   row.Description,
		})
	}

	result, err := h.importService.Confirm(c.Request.Context(), confirmed, buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billing := rg.Group("/billing")
	{
		billing.POST("/debts", h.LoadDebt)
	}

	units := rg.Group("/units")
	{
		units.GET("/:id/balance", h.GetUnitBalance)
		units.GET("/:id/invoices", h.ListUnitInvoices)
	}

	buildings := rg.Group("/buildings")
	{
		buildings.POST("/:id/ledger-imports/preview", h.PreviewImport)
		buildings.POST("/:id/ledger-imports/confirm", h.ConfirmImport)
	}
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pettycashapp "github.com/condoledger/backend/internal/application/pettycash"
	"github.com/condoledger/backend/internal/interfaces/http/dto"
)

// PettyCashHandler handles petty cash fund endpoints
type PettyCashHandler struct {
	BaseHandler
	fundService *pettycashapp.FundService
}

// NewPettyCashHandler creates a new PettyCashHandler
func NewPettyCashHandler(fundService *pettycashapp.FundService) *PettyCashHandler {
	return &PettyCashHandler{fundService: fundService}
}

// FundMovementRequest records an expense or income against a building's fund
type FundMovementRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
	EvidenceURL string `json:"evidence_url"`
}

// RegisterExpense records an expense against the building's fund. When
// the fund cannot cover it, the response lists the reimbursement
// invoices raised against the building's units.
// POST /api/v1/buildings/:id/petty-cash/expenses
func (h *PettyCashHandler) RegisterExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	buildingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid building ID")
		return
	}

	var req FundMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid amount")
		return
	}

	result, err := h.fundService.RegisterExpense(c.Request.Context(), pettycashapp.RegisterExpenseRequest{
		BuildingID:  buildingID,
		Amount:      amount,
		Description: req.Description,
		Category:    req.Category,
		UserID:      userID,
		EvidenceURL: req.EvidenceURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// RegisterIncome records a manual income into the building's fund
// POST /api/v1/buildings/:id/petty-cash/incomes
func (h *PettyCashHandler) RegisterIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	buildingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid building ID")
		return
	}

	var req FundMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "invalid amount")
		return
	}

	transaction, err := h.fundService.RegisterIncome(c.Request.Context(), pettycashapp.RegisterIncomeRequest{
		BuildingID:  buildingID,
		Amount:      amount,
		Description: req.Description,
		Category:    req.Category,
		UserID:      userID,
		EvidenceURL: req.EvidenceURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transaction)
}

// GetFund returns the building's fund with its recent ledger entries
// GET /api/v1/buildings/:id/petty-cash
func (h *PettyCashHandler) GetFund(c *gin.Context) {
	buildingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid building ID")
		return
	}

	status, err := h.fundService.GetFund(c.Request.Context(), buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// RegisterRoutes registers petty cash routes
func (h *PettyCashHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fund := rg.Group("/buildings/:id/petty-cash")
	{
		fund.GET("", h.GetFund)
		fund.POST("/expenses", h.RegisterExpense)
		fund.POST("/incomes", h.RegisterIncome)
	}
}

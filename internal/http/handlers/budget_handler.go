// Budget validation handler.
//
// GET /budget/approval reports the approval level required for a purchase
// amount and whether it fits the remaining procurement budget. Buyers call
// this before enqueueing a purchase request.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/go-procure-backend/internal/services"
)

// BudgetResponse wraps the budget check result.
type BudgetResponse struct {
	Status string                `json:"status"`
	Report services.BudgetReport `json:"report"`
}

// BudgetApproval evaluates the amount query parameter against the approval
// hierarchy and the procurement budget.
func (h *Handlers) BudgetApproval(c *gin.Context) {
	raw := c.Query("amount")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount must be a positive number")
		return
	}

	ok(c, http.StatusOK, BudgetResponse{
		Status: StatusSuccess,
		Report: services.BudgetCheck(amount),
	})
}

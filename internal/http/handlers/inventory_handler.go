// Inventory reporting handlers.
//
// Endpoints:
//   - GET /inventory/restock  (items at or below threshold, filterable)
//   - GET /inventory/status   (full snapshot with per-category totals)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
	"github.com/iabhiroop/go-procure-backend/internal/repo"
)

// restockItem is one row of the restock report, annotated with urgency and
// the estimated cost of replenishing to twice the threshold.
type restockItem struct {
	domain.InventoryItem
	Urgency       string  `json:"urgency"`
	SuggestedQty  int     `json:"suggested_qty"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// RestockResponse is the restock-needed report.
type RestockResponse struct {
	Status        string        `json:"status"`
	Items         []restockItem `json:"items"`
	Count         int           `json:"count"`
	TotalEstimate float64       `json:"total_estimate"`
}

// CategorySummary aggregates inventory value per category.
type CategorySummary struct {
	Category   string  `json:"category"`
	Items      int     `json:"items"`
	TotalQty   int     `json:"total_qty"`
	TotalValue float64 `json:"total_value"`
}

// InventoryStatusResponse is the full inventory overview.
type InventoryStatusResponse struct {
	Status       string                 `json:"status"`
	TotalItems   int                    `json:"total_items"`
	NeedsRestock int                    `json:"needs_restock"`
	Categories   []CategorySummary      `json:"categories"`
	Items        []domain.InventoryItem `json:"items"`
}

// RestockReport lists items at or below their minimum threshold. Optional
// query params: urgency (critical|high|medium), category (substring match).
func (h *Handlers) RestockReport(c *gin.Context) {
	urgency := c.Query("urgency")
	switch urgency {
	case "", "critical", "high", "medium":
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "urgency must be one of critical, high, medium")
		return
	}

	items, err := repo.RestockNeeded(c.Request.Context(), h.db, urgency, c.Query("category"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	resp := RestockResponse{Status: StatusSuccess, Items: []restockItem{}}
	for _, it := range items {
		suggested := it.MinThreshold*2 - it.Quantity
		if suggested < 1 {
			suggested = 1
		}
		cost := float64(suggested) * it.UnitPrice
		resp.Items = append(resp.Items, restockItem{
			InventoryItem: it,
			Urgency:       it.Urgency(),
			SuggestedQty:  suggested,
			EstimatedCost: cost,
		})
		resp.TotalEstimate += cost
	}
	resp.Count = len(resp.Items)
	ok(c, http.StatusOK, resp)
}

// InventoryStatus returns the full snapshot with per-category aggregates.
func (h *Handlers) InventoryStatus(c *gin.Context) {
	items, err := repo.ListInventory(c.Request.Context(), h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	byCategory := map[string]*CategorySummary{}
	var order []string
	needsRestock := 0
	for _, it := range items {
		if it.NeedsRestock() {
			needsRestock++
		}
		cs, okCat := byCategory[it.Category]
		if !okCat {
			cs = &CategorySummary{Category: it.Category}
			byCategory[it.Category] = cs
			order = append(order, it.Category)
		}
		cs.Items++
		cs.TotalQty += it.Quantity
		cs.TotalValue += float64(it.Quantity) * it.UnitPrice
	}

	resp := InventoryStatusResponse{
		Status:       StatusSuccess,
		TotalItems:   len(items),
		NeedsRestock: needsRestock,
		Categories:   []CategorySummary{},
		Items:        items,
	}
	for _, cat := range order {
		resp.Categories = append(resp.Categories, *byCategory[cat])
	}
	ok(c, http.StatusOK, resp)
}

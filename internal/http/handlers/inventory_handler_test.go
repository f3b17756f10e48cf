package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
)

func newInventoryHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:inventory_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.InventoryItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	items := []domain.InventoryItem{
		{ItemName: "Printer Toner", Quantity: 0, UnitPrice: 45, Category: "Office Supplies", Supplier: "OfficeMax", SupplierEmail: "orders@officemax.example", MinThreshold: 10},
		{ItemName: "USB Cables", Quantity: 4, UnitPrice: 8, Category: "IT Equipment", Supplier: "TechSupply", SupplierEmail: "sales@techsupply.example", MinThreshold: 20},
		{ItemName: "Desk Chairs", Quantity: 80, UnitPrice: 120, Category: "Furniture", Supplier: "FurniCo", SupplierEmail: "po@furnico.example", MinThreshold: 5},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func newInventoryRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := New(stubQueueSvc{}, stubOrderSvc{}, stubExtractSvc{}, newInventoryHandlerDB(t), nil, nil, nil)
	r := gin.New()
	r.GET("/inventory/restock", h.RestockReport)
	r.GET("/inventory/status", h.InventoryStatus)
	return r
}

func TestRestockReport(t *testing.T) {
	r := newInventoryRouter(t)

	w := doJSON(t, r, http.MethodGet, "/inventory/restock", "")
	if w.Code != http.StatusOK {
		t.Fatalf("restock -> %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[RestockResponse](t, w)
	if resp.Count != 2 {
		t.Fatalf("count = %d; want toner and cables", resp.Count)
	}

	// Toner: replenish to 2*10 at 45 each; cables: (40-4) at 8 each.
	byName := map[string]restockItem{}
	for _, it := range resp.Items {
		byName[it.ItemName] = it
	}
	toner := byName["Printer Toner"]
	if toner.Urgency != "critical" || toner.SuggestedQty != 20 || toner.EstimatedCost != 900 {
		t.Fatalf("toner = %+v", toner)
	}
	cables := byName["USB Cables"]
	if cables.Urgency != "high" || cables.SuggestedQty != 36 || cables.EstimatedCost != 288 {
		t.Fatalf("cables = %+v", cables)
	}
	if resp.TotalEstimate != 1188 {
		t.Fatalf("total estimate = %v", resp.TotalEstimate)
	}
}

func TestRestockReport_Filters(t *testing.T) {
	r := newInventoryRouter(t)

	w := doJSON(t, r, http.MethodGet, "/inventory/restock?urgency=critical", "")
	resp := decodeBody[RestockResponse](t, w)
	if resp.Count != 1 || resp.Items[0].ItemName != "Printer Toner" {
		t.Fatalf("critical filter = %+v", resp.Items)
	}

	w = doJSON(t, r, http.MethodGet, "/inventory/restock?category=IT", "")
	resp = decodeBody[RestockResponse](t, w)
	if resp.Count != 1 || resp.Items[0].ItemName != "USB Cables" {
		t.Fatalf("category filter = %+v", resp.Items)
	}

	// Unknown urgency -> 400
	w = doJSON(t, r, http.MethodGet, "/inventory/restock?urgency=extreme", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad urgency -> %d", w.Code)
	}
}

func TestInventoryStatus(t *testing.T) {
	r := newInventoryRouter(t)

	w := doJSON(t, r, http.MethodGet, "/inventory/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status -> %d", w.Code)
	}
	resp := decodeBody[InventoryStatusResponse](t, w)
	if resp.TotalItems != 3 || resp.NeedsRestock != 2 {
		t.Fatalf("totals = %+v", resp)
	}
	if len(resp.Categories) != 3 {
		t.Fatalf("categories = %+v", resp.Categories)
	}
	byCat := map[string]CategorySummary{}
	for _, cs := range resp.Categories {
		byCat[cs.Category] = cs
	}
	furn := byCat["Furniture"]
	if furn.Items != 1 || furn.TotalQty != 80 || furn.TotalValue != 9600 {
		t.Fatalf("furniture summary = %+v", furn)
	}
}

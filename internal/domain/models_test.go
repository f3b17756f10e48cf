package domain

import (
	"strings"
	"testing"
)

func TestOrderRecordFromExtraction_CarriesFields(t *testing.T) {
	company := "Acme Corp"
	total := 1234.5
	data := &ExtractionData{
		OrderID:         "PO-2024-001",
		SourceFile:      "inbox/po.png",
		CustomerDetails: &CustomerDetails{CompanyName: &company},
		OrderItems:      []OrderItem{{}},
		OrderTotals:     &OrderTotals{TotalAmount: &total},
	}
	meta := &ExtractionMetadata{ExtractionStatus: "success", DocumentsProcessed: 1}

	rec := OrderRecordFromExtraction(data, meta)
	if rec.OrderID != "PO-2024-001" || rec.SourceFile != "inbox/po.png" {
		t.Fatalf("identity = %+v", rec)
	}
	if rec.Status != OrderStatusPending {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.CustomerDetails == nil || *rec.CustomerDetails.CompanyName != "Acme Corp" {
		t.Fatalf("customer = %+v", rec.CustomerDetails)
	}
	if rec.OrderTotals == nil || *rec.OrderTotals.TotalAmount != 1234.5 {
		t.Fatalf("totals = %+v", rec.OrderTotals)
	}
	if rec.ExtractionMetadata != meta {
		t.Fatalf("metadata not attached")
	}
}

func TestOrderRecordFromExtraction_SynthesizesID(t *testing.T) {
	rec := OrderRecordFromExtraction(&ExtractionData{}, nil)
	if !strings.HasPrefix(rec.OrderID, "ORD_") {
		t.Fatalf("synthetic id = %q", rec.OrderID)
	}
	// Each conversion gets its own key.
	other := OrderRecordFromExtraction(&ExtractionData{}, nil)
	if rec.OrderID == other.OrderID {
		t.Fatalf("synthetic ids collide: %q", rec.OrderID)
	}
}

func TestInventoryItem_NeedsRestock(t *testing.T) {
	cases := []struct {
		qty, threshold int
		want           bool
	}{
		{0, 10, true},
		{10, 10, true},
		{11, 10, false},
	}
	for _, tc := range cases {
		it := InventoryItem{Quantity: tc.qty, MinThreshold: tc.threshold}
		if got := it.NeedsRestock(); got != tc.want {
			t.Fatalf("NeedsRestock(qty=%d thr=%d) = %v", tc.qty, tc.threshold, got)
		}
	}
}

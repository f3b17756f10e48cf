package docgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iabhiroop/go-procure-backend/internal/services"
)

func validRequest() *Request {
	return &Request{
		SupplierName: "tech hardware",
		Items: []LineItem{
			{ItemCode: "MON-27", Description: "27in Monitor", Quantity: 4, UnitPrice: 299.99},
			{ItemCode: "CBL-USB", Description: "USB-C Cable", Quantity: 10, UnitPrice: 12.50},
		},
		DeliveryDate:  "2025-07-01",
		ContactPerson: "Jordan Lee",
		ContactEmail:  "sales@techhardware.com",
	}
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g := New(t.TempDir())
	g.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	g.rand = func(n int) int { return 234 } // PO-20250601-1234
	return g
}

func TestGenerate_WritesDocument(t *testing.T) {
	g := newGenerator(t)

	res, err := g.Generate(validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.PONumber != "PO-20250601-1234" {
		t.Fatalf("po number = %q", res.PONumber)
	}
	if res.ItemsCount != 2 {
		t.Fatalf("items = %d; want 2", res.ItemsCount)
	}
	wantTotal := 4*299.99 + 10*12.50
	if res.Total != wantTotal {
		t.Fatalf("total = %v; want %v", res.Total, wantTotal)
	}

	content, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	text := string(content)
	for _, want := range []string{
		"PO-20250601-1234",
		"Tech Hardware", // title-cased supplier
		"MON-27",
		"USB-C Cable",
		`\begin{document}`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("document missing %q", want)
		}
	}
}

func TestGenerate_KeepsProvidedPONumber(t *testing.T) {
	g := newGenerator(t)
	req := validRequest()
	req.PONumber = "PO-CUSTOM-9"

	res, err := g.Generate(req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.PONumber != "PO-CUSTOM-9" {
		t.Fatalf("po number = %q", res.PONumber)
	}
	if filepath.Base(res.Path) != "PO-CUSTOM-9.tex" {
		t.Fatalf("path = %q", res.Path)
	}
}

func TestGenerate_ValidationNamesField(t *testing.T) {
	cases := []struct {
		mutate    func(*Request)
		wantField string
	}{
		{func(r *Request) { r.SupplierName = "  " }, "supplier_name"},
		{func(r *Request) { r.Items = nil }, "items"},
		{func(r *Request) { r.Items[0].ItemCode = "" }, "items[0].item_code"},
		{func(r *Request) { r.Items[1].Description = " " }, "items[1].description"},
		{func(r *Request) { r.Items[0].Quantity = 0 }, "items[0].quantity"},
		{func(r *Request) { r.Items[0].UnitPrice = -1 }, "items[0].unit_price"},
	}

	for _, tc := range cases {
		g := newGenerator(t)
		req := validRequest()
		tc.mutate(req)

		_, err := g.Generate(req)
		if err == nil {
			t.Fatalf("expected validation error for %s", tc.wantField)
		}
		if !services.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %T: %v", err, err)
		}
		if !strings.Contains(err.Error(), tc.wantField) {
			t.Fatalf("error %q does not name field %q", err.Error(), tc.wantField)
		}

		// Validate-before-write: nothing may touch the output directory.
		entries, readErr := os.ReadDir(g.OutputDir)
		if readErr != nil {
			t.Fatalf("read output dir: %v", readErr)
		}
		if len(entries) != 0 {
			t.Fatalf("validation failure wrote files: %v", entries)
		}
	}
}

func TestGenerate_EscapesLatexSpecials(t *testing.T) {
	g := newGenerator(t)
	req := validRequest()
	req.Items[0].Description = "Cable & Adapter 50% off #1"

	res, err := g.Generate(req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	content, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(content), `Cable \& Adapter 50\% off \#1`) {
		t.Fatalf("specials not escaped:\n%s", content)
	}
}

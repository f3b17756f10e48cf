package handlers

import (
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/go-procure-backend/internal/docgen"
)

func newDocumentRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	gen := docgen.New(dir)
	h := New(stubQueueSvc{}, stubOrderSvc{}, stubExtractSvc{}, nil, gen, nil, nil)
	r := gin.New()
	r.POST("/documents/po", h.GeneratePO)
	r.POST("/documents/inbound", h.FetchInboundDocuments)
	return r, dir
}

const validPOBody = `{
	"supplier_name": "acme supply",
	"items": [
		{"item_code": "TON-01", "description": "Printer Toner", "quantity": 20, "unit_price": 45}
	]
}`

func TestGeneratePO(t *testing.T) {
	// Bad JSON -> 400
	{
		r, _ := newDocumentRouter(t)
		w := doJSON(t, r, http.MethodPost, "/documents/po", "{bad")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad json -> %d", w.Code)
		}
	}

	// Missing line item field -> 400 validation_failed naming the field
	{
		r, dir := newDocumentRouter(t)
		body := `{"supplier_name":"acme","items":[{"description":"Toner","quantity":1,"unit_price":2}]}`
		w := doJSON(t, r, http.MethodPost, "/documents/po", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("validation -> %d", w.Code)
		}
		er := decodeBody[ErrorResponse](t, w)
		if er.Code != ErrCodeValidationFailed {
			t.Fatalf("code = %q", er.Code)
		}
		if !strings.Contains(er.Message, "items[0].item_code") {
			t.Fatalf("message %q does not name the field", er.Message)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Fatalf("validation failure wrote files: %v", entries)
		}
	}

	// Success without email -> 201, document on disk
	{
		r, dir := newDocumentRouter(t)
		w := doJSON(t, r, http.MethodPost, "/documents/po", validPOBody)
		if w.Code != http.StatusCreated {
			t.Fatalf("generate -> %d body=%s", w.Code, w.Body.String())
		}
		resp := decodeBody[GeneratePOResponse](t, w)
		if resp.Status != StatusSuccess || resp.ItemsCount != 1 || resp.Total != 900 {
			t.Fatalf("response = %+v", resp)
		}
		wantPrefix := "PO-" + time.Now().UTC().Format("20060102") + "-"
		if !strings.HasPrefix(resp.PONumber, wantPrefix) {
			t.Fatalf("po number = %q", resp.PONumber)
		}
		if resp.EmailedTo != "" || resp.MailMessageID != "" {
			t.Fatalf("unexpected mail fields: %+v", resp)
		}
		if _, err := os.Stat(resp.Path); err != nil {
			t.Fatalf("document missing: %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Fatalf("output dir entries = %v", entries)
		}
	}

	// email_to set with no sender configured -> 503 mail_disabled
	{
		r, _ := newDocumentRouter(t)
		body := strings.TrimSuffix(validPOBody, "}") + `,"email_to":"sales@acme.example"}`
		w := doJSON(t, r, http.MethodPost, "/documents/po", body)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("mail disabled -> %d body=%s", w.Code, w.Body.String())
		}
		er := decodeBody[ErrorResponse](t, w)
		if er.Code != ErrCodeMailDisabled {
			t.Fatalf("code = %q", er.Code)
		}
	}
}

func TestFetchInboundDocuments_MailDisabled(t *testing.T) {
	r, _ := newDocumentRouter(t)
	w := doJSON(t, r, http.MethodPost, "/documents/inbound", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("fetch without fetcher -> %d", w.Code)
	}
	er := decodeBody[ErrorResponse](t, w)
	if er.Code != ErrCodeMailDisabled {
		t.Fatalf("code = %q", er.Code)
	}
}

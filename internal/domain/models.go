// Package domain defines the persistence models for order records and
// inventory, plus the extraction result schema produced by the document
// pipeline. The GORM-mapped types form the core data layer of the
// procurement application; nested order sub-objects are stored as JSON
// columns so the record shape matches the extraction schema exactly.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order lifecycle tag applied to freshly stored records. Downstream
// fulfilment processes mutate it; this service only ever writes "pending".
const OrderStatusPending = "pending"

// CustomerDetails identifies the ordering party. Every field is optional:
// extraction emits null for anything the document does not state.
type CustomerDetails struct {
	CompanyName     *string `json:"company_name"`
	ContactPerson   *string `json:"contact_person"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	BillingAddress  *string `json:"billing_address"`
	ShippingAddress *string `json:"shipping_address"`
}

// OrderItem is a single purchase order line. Monetary and quantity fields
// are numbers, never strings; dates are ISO-8601 (YYYY-MM-DD).
type OrderItem struct {
	ItemCode       *string  `json:"item_code"`
	Description    *string  `json:"description"`
	Quantity       *float64 `json:"quantity"`
	UnitPrice      *float64 `json:"unit_price"`
	TotalPrice     *float64 `json:"total_price"`
	Specifications *string  `json:"specifications"`
	DeliveryDate   *string  `json:"delivery_date"`
}

// OrderTotals aggregates document-level amounts.
type OrderTotals struct {
	Subtotal     *float64 `json:"subtotal"`
	TaxAmount    *float64 `json:"tax_amount"`
	ShippingCost *float64 `json:"shipping_cost"`
	TotalAmount  *float64 `json:"total_amount"`
	Currency     *string  `json:"currency"`
}

// DeliveryRequirements captures how and when the order should ship.
type DeliveryRequirements struct {
	DeliveryDate        *string `json:"delivery_date"`
	ShippingMethod      *string `json:"shipping_method"`
	SpecialInstructions *string `json:"special_instructions"`
}

// PaymentTerms captures the commercial terms stated on the document.
type PaymentTerms struct {
	Terms   *string `json:"terms"`
	DueDate *string `json:"due_date"`
}

// ExtractionNotes is attached to a degraded (fallback) extraction result.
// It preserves a preview of the raw OCR text and the structuring error so
// a human can recover what the service could not.
type ExtractionNotes struct {
	RawTextPreview  string `json:"raw_text_preview"`
	ExtractionError string `json:"extraction_error"`
	FallbackUsed    bool   `json:"fallback_used"`
}

// ExtractionMetadata is the provenance block recorded alongside each order
// saved from an extraction batch.
type ExtractionMetadata struct {
	ExtractionTimestamp string `json:"extraction_timestamp,omitempty"`
	DocumentsProcessed  int    `json:"documents_processed,omitempty"`
	ExtractionStatus    string `json:"extraction_status,omitempty"`
}

// ExtractionData is the transient, schema-fixed value produced by the
// document extraction pipeline. It is either a genuine structuring result
// or a fallback carrying nulled fields plus ExtractionNotes; it is never
// persisted directly (see OrderRecord).
type ExtractionData struct {
	OrderID              string                `json:"order_id"`
	SourceFile           string                `json:"source_file,omitempty"`
	CustomerDetails      *CustomerDetails      `json:"customer_details"`
	OrderItems           []OrderItem           `json:"order_items"`
	OrderTotals          *OrderTotals          `json:"order_totals"`
	DeliveryRequirements *DeliveryRequirements `json:"delivery_requirements"`
	PaymentTerms         *PaymentTerms         `json:"payment_terms"`
	ExtractionNotes      *ExtractionNotes      `json:"extraction_notes,omitempty"`
}

// OrderRecord is a structured supplier order persisted in the order store,
// keyed by the externally supplied order id (upsert, last-writer-wins).
//
// Fields:
//   - OrderID: primary key; regex- or LLM-extracted, or a synthetic
//     "ORD_<uuid>" when the document carried none.
//   - Status: free-form lifecycle tag, "pending" at creation; mutated by
//     downstream processes outside this service.
//   - CreatedAt: set on first insert only; survives upserts.
//   - UpdatedAt: refreshed on every write.
//   - ExtractionMetadata: provenance of the batch that produced the record.
type OrderRecord struct {
	OrderID              string                `json:"order_id"              gorm:"type:varchar(64);primaryKey"`
	SourceFile           string                `json:"source_file,omitempty" gorm:"type:varchar(255)"`
	CustomerDetails      *CustomerDetails      `json:"customer_details"      gorm:"serializer:json"`
	OrderItems           []OrderItem           `json:"order_items"           gorm:"serializer:json"`
	OrderTotals          *OrderTotals          `json:"order_totals"          gorm:"serializer:json"`
	DeliveryRequirements *DeliveryRequirements `json:"delivery_requirements" gorm:"serializer:json"`
	PaymentTerms         *PaymentTerms         `json:"payment_terms"         gorm:"serializer:json"`
	Status               string                `json:"status"                gorm:"type:varchar(32);not null;default:'pending'"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	ExtractionMetadata   *ExtractionMetadata   `json:"extraction_metadata,omitempty" gorm:"serializer:json"`
}

// TableName returns the database table name for OrderRecord.
func (OrderRecord) TableName() string { return "order_records" }

// OrderRecordFromExtraction converts a pipeline result into a storable
// order record. A missing order id is replaced with a synthetic key so the
// record can still be upserted deterministically within the batch.
func OrderRecordFromExtraction(data *ExtractionData, meta *ExtractionMetadata) *OrderRecord {
	id := data.OrderID
	if id == "" {
		id = "ORD_" + uuid.NewString()
	}
	return &OrderRecord{
		OrderID:              id,
		SourceFile:           data.SourceFile,
		CustomerDetails:      data.CustomerDetails,
		OrderItems:           data.OrderItems,
		OrderTotals:          data.OrderTotals,
		DeliveryRequirements: data.DeliveryRequirements,
		PaymentTerms:         data.PaymentTerms,
		Status:               OrderStatusPending,
		ExtractionMetadata:   meta,
	}
}

// Inventory urgency levels derived from quantity vs. restock threshold.
const (
	UrgencyCritical = "critical" // out of stock
	UrgencyHigh     = "high"     // at or below half the threshold
	UrgencyMedium   = "medium"   // at or below the threshold
	UrgencyOK       = "ok"       // above the threshold
)

// InventoryItem is a row in the inventory snapshot table. Status is not
// stored; it is derived from quantity against the per-item threshold.
type InventoryItem struct {
	ID            uint      `json:"id"             gorm:"primaryKey;autoIncrement"`
	ItemName      string    `json:"item_name"      gorm:"type:varchar(128);not null;uniqueIndex"`
	Quantity      int       `json:"quantity"       gorm:"not null"`
	UnitPrice     float64   `json:"unit_price"     gorm:"not null"`
	Category      string    `json:"category"       gorm:"type:varchar(64);not null;index"`
	Supplier      string    `json:"supplier"       gorm:"type:varchar(128);not null"`
	SupplierEmail string    `json:"supplier_email" gorm:"type:varchar(128);not null"`
	MinThreshold  int       `json:"min_threshold"  gorm:"not null;default:10"`
	LastUpdated   time.Time `json:"last_updated"   gorm:"autoUpdateTime"`
}

// TableName returns the database table name for InventoryItem.
func (InventoryItem) TableName() string { return "inventory" }

// Urgency derives the restock urgency for the item.
func (i InventoryItem) Urgency() string {
	switch {
	case i.Quantity <= 0:
		return UrgencyCritical
	case i.Quantity*2 <= i.MinThreshold:
		return UrgencyHigh
	case i.Quantity <= i.MinThreshold:
		return UrgencyMedium
	default:
		return UrgencyOK
	}
}

// NeedsRestock reports whether the item sits at or below its threshold.
func (i InventoryItem) NeedsRestock() bool { return i.Quantity <= i.MinThreshold }

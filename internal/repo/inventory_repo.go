// Package repo – inventory snapshot store.
//
// The inventory table is a thin collaborator: a relational snapshot keyed
// by item with threshold-based status derivation. The buyer pipeline reads
// it to decide what needs restocking; nothing here mutates stock levels.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
)

// RestockNeeded returns items at or below their threshold, optionally
// filtered by urgency level ("critical", "high", "medium", or "all") and a
// category substring.
func RestockNeeded(ctx context.Context, db *gorm.DB, urgency, category string) ([]domain.InventoryItem, error) {
	q := db.WithContext(ctx).Where("quantity <= min_threshold")
	if category != "" {
		q = q.Where("category LIKE ?", "%"+category+"%")
	}
	switch urgency {
	case domain.UrgencyCritical:
		q = q.Where("quantity <= 0")
	case domain.UrgencyHigh:
		q = q.Where("quantity > 0 AND quantity * 2 <= min_threshold")
	case domain.UrgencyMedium:
		q = q.Where("quantity * 2 > min_threshold AND quantity <= min_threshold")
	case "", "all":
	default:
		q = q.Where("1 = 0") // unknown level matches nothing
	}
	var items []domain.InventoryItem
	err := q.Order("quantity asc").Find(&items).Error
	return items, err
}

// ListInventory returns the complete inventory snapshot ordered by category
// then item name.
func ListInventory(ctx context.Context, db *gorm.DB) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := db.WithContext(ctx).
		Order("category asc, item_name asc").
		Find(&items).Error
	return items, err
}

// SeedInventory inserts a demo snapshot when the table is empty. It is a
// no-op on a populated table so repeated startups never duplicate rows.
func SeedInventory(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.InventoryItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seed := []domain.InventoryItem{
		{ItemName: "Office Paper A4", Quantity: 57, UnitPrice: 15.99, Category: "Office Supplies", Supplier: "Paper Corp", SupplierEmail: "orders@papercorp.com", MinThreshold: 50},
		{ItemName: "Printer Ink Cartridges", Quantity: 26, UnitPrice: 45.50, Category: "Office Supplies", Supplier: "Paper Corp", SupplierEmail: "orders@papercorp.com", MinThreshold: 10},
		{ItemName: "Computer Monitors", Quantity: 10, UnitPrice: 299.99, Category: "Electronics", Supplier: "Tech Hardware", SupplierEmail: "sales@techhardware.com", MinThreshold: 50},
		{ItemName: "Desk Chairs", Quantity: 80, UnitPrice: 150.00, Category: "Furniture", Supplier: "Tech Hardware", SupplierEmail: "sales@techhardware.com", MinThreshold: 5},
		{ItemName: "USB Cables", Quantity: 12, UnitPrice: 12.99, Category: "Electronics", Supplier: "Tech Hardware", SupplierEmail: "sales@techhardware.com", MinThreshold: 20},
		{ItemName: "Notebooks", Quantity: 10, UnitPrice: 5.99, Category: "Office Supplies", Supplier: "Paper Corp", SupplierEmail: "orders@papercorp.com", MinThreshold: 30},
		{ItemName: "Pens (Box of 12)", Quantity: 3, UnitPrice: 8.50, Category: "Office Supplies", Supplier: "Paper Corp", SupplierEmail: "orders@papercorp.com", MinThreshold: 15},
		{ItemName: "Laptops", Quantity: 10, UnitPrice: 899.99, Category: "Electronics", Supplier: "Tech Hardware", SupplierEmail: "sales@techhardware.com", MinThreshold: 3},
		{ItemName: "Coffee Pods", Quantity: 150, UnitPrice: 25.99, Category: "Pantry", Supplier: "Coffee Co", SupplierEmail: "sales@coffeeco.com", MinThreshold: 25},
		{ItemName: "Cleaning Supplies", Quantity: 20, UnitPrice: 35.00, Category: "Maintenance", Supplier: "Coffee Co", SupplierEmail: "sales@coffeeco.com", MinThreshold: 10},
	}
	return db.WithContext(ctx).Create(&seed).Error
}

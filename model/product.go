package model

import (
	"math"
	"time"
)

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	OwnerID     uint      `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductSnapshot is the deep copy of a product an order keeps. Orders read
// these fields forever after, never the live catalog row.
type ProductSnapshot struct {
	ProductID   uint    `json:"product_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID:   p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}

// Cents converts a unit price to integer cents. All money sums happen in
// cents so line order and float drift cannot change a total.
func Cents(price float64) int64 {
	return int64(math.Round(price * 100))
}

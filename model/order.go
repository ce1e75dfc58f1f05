package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type OrderLine struct {
	Qty     uint            `json:"quantity"`
	Product ProductSnapshot `json:"product"`
}

func (l OrderLine) SubtotalCents() int64 {
	return Cents(l.Product.Price) * int64(l.Qty)
}

// Custom type to handle []OrderLine as JSON in DB
type OrderLines []OrderLine

func (lines OrderLines) Value() (driver.Value, error) {
	return json.Marshal(lines)
}

func (lines *OrderLines) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, lines)
	case string:
		return json.Unmarshal([]byte(v), lines)
	default:
		return errors.New("unsupported order lines column type")
	}
}

// Order is immutable once created. The unique checkout session id is the
// dedup key against duplicate payment-confirmation delivery.
type Order struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"index" json:"user_id"`
	UserEmail         string     `json:"user_email"`
	CheckoutSessionID string     `gorm:"uniqueIndex" json:"checkout_session_id"`
	Lines             OrderLines `gorm:"type:jsonb" json:"products"`
	CreatedAt         time.Time  `json:"created_at"`
}

// TotalCents sums quantity times snapshot unit price over all lines.
func (o *Order) TotalCents() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.SubtotalCents()
	}
	return total
}

// FailedConfirmation keeps the raw payload of a verified payment
// confirmation that could not be materialized, for manual replay.
type FailedConfirmation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"index" json:"event_id"`
	Payload   string    `json:"payload"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

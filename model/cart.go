package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type CartItem struct {
	ProductID uint `json:"product_id"`
	Qty       uint `json:"qty"`
}

// Custom type to handle []CartItem as JSON in DB
type CartItems []CartItem

func (items CartItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *CartItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return errors.New("unsupported cart items column type")
	}
}

// Cart is its own row keyed by user id, not a blob inside the user record,
// so cart writes never race user-profile writes.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex" json:"user_id"`
	Items     CartItems `gorm:"type:jsonb" json:"items"`
	Count     uint      `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItem increments the line for productID by one, appending a new line
// with qty 1 if the product is not in the cart yet.
func (c *Cart) AddItem(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Qty++
			c.recount()
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Qty: 1})
	c.recount()
}

// RemoveItem decrements the line by qty when that leaves at least one unit;
// otherwise the line is removed. qty 0 means remove the whole line.
func (c *Cart) RemoveItem(productID uint, qty uint) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if qty > 0 && c.Items[i].Qty > qty {
			c.Items[i].Qty -= qty
		} else {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		c.recount()
		return
	}
}

// Clear empties the cart. Only the order workflow calls this, after an
// order has been durably persisted.
func (c *Cart) Clear() {
	c.Items = CartItems{}
	c.Count = 0
}

func (c *Cart) recount() {
	var n uint
	for _, it := range c.Items {
		n += it.Qty
	}
	c.Count = n
}

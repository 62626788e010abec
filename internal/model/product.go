package model

import "time"

// TimestampLayout is the layout used for the uploadedAt/addedAt strings.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Product is a catalog entry. ID is the only identity; SKU is not required to be unique.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Qty         int     `json:"qty"`
	Price       float64 `json:"price"`
	Description string  `json:"desc,omitempty"`
	AddedAt     string  `json:"addedAt"`
}

// Timestamp formats t the way records store it.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

package domain

import "time"

// Product is an immutable snapshot fetched from the storefront. The console
// never mutates products in place: create/update/delete go through the
// storefront API and trigger a full reload of the collection.
type Product struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Category            string    `json:"category,omitempty"`
	Price               int64     `json:"price"` // minor currency units
	OldPrice            int64     `json:"oldPrice,omitempty"`
	Stock               int       `json:"stock"`
	Sales               int       `json:"sales,omitempty"`
	Badge               string    `json:"badge,omitempty"`
	Description         string    `json:"description"`
	DetailedDescription string    `json:"detailedDescription,omitempty"`
	Images              []string  `json:"images,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

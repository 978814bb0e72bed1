package models

import "time"

// Order header statuses.
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
)

// ScheduledOrder is one normalized order header with its selection and item
// rows, representing one vendor/day/service-type unit prior to fulfillment.
type ScheduledOrder struct {
	ID          string            `json:"order_id" db:"id"`
	ClientID    string            `json:"client_id" db:"client_id"`
	ServiceType string            `json:"service_type" db:"service_type"`
	DeliveryDay string            `json:"delivery_day,omitempty" db:"delivery_day"`
	Status      string            `json:"status" db:"status"`
	Notes       string            `json:"notes,omitempty" db:"notes"`
	Selections  []*OrderSelection `json:"selections"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// OrderSelection is one per-vendor, per-meal or per-box selection row under an
// order header.
type OrderSelection struct {
	ID          string       `json:"id" db:"id"`
	OrderID     string       `json:"order_id" db:"order_id"`
	VendorID    string       `json:"vendor_id,omitempty" db:"vendor_id"`
	MealType    string       `json:"meal_type,omitempty" db:"meal_type"`
	BoxTypeID   string       `json:"box_type_id,omitempty" db:"box_type_id"`
	BoxQuantity int          `json:"box_quantity,omitempty" db:"box_quantity"`
	Items       []*OrderLine `json:"items"`
}

// OrderLine is one per-item row under a selection.
type OrderLine struct {
	ID          string `json:"id" db:"id"`
	SelectionID string `json:"selection_id" db:"selection_id"`
	ItemID      string `json:"item_id" db:"item_id"`
	Quantity    int    `json:"quantity" db:"quantity"`
	Note        string `json:"note,omitempty" db:"note"`
}

// HasItems reports whether at least one selection under the header carries at
// least one item row.
func (o *ScheduledOrder) HasItems() bool {
	for _, sel := range o.Selections {
		if len(sel.Items) > 0 {
			return true
		}
	}
	return false
}

// LegacyOrderRow is one row of the flat per-service legacy order table used as
// a last-resort migration source.
type LegacyOrderRow struct {
	ClientID    string `json:"client_id" db:"client_id"`
	ServiceType string `json:"service_type" db:"service_type"`
	DeliveryDay string `json:"delivery_day" db:"delivery_day"`
	VendorID    string `json:"vendor_id" db:"vendor_id"`
	ItemID      string `json:"item_id" db:"item_id"`
	Quantity    int    `json:"quantity" db:"quantity"`
}

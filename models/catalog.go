package models

// Vendor is a reference-catalog vendor row. An empty DeliveryDays set means
// the vendor is unrestricted and may deliver on any day.
type Vendor struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	IsActive     bool     `json:"is_active" db:"is_active"`
	DeliveryDays []string `json:"delivery_days" db:"delivery_days"`
}

// DeliversOn reports whether the vendor delivers on the given day.
func (v *Vendor) DeliversOn(day string) bool {
	if len(v.DeliveryDays) == 0 {
		return true
	}
	for _, d := range v.DeliveryDays {
		if d == day {
			return true
		}
	}
	return false
}

// MenuItem is a reference-catalog menu item row. An empty VendorID marks a
// universal/box item; a nil AllowedDays set means the item is orderable any
// day.
type MenuItem struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	VendorID    string   `json:"vendor_id" db:"vendor_id"`
	CategoryID  string   `json:"category_id" db:"category_id"`
	AllowedDays []string `json:"allowed_days" db:"allowed_days"`
	QuotaValue  float64  `json:"quota_value" db:"quota_value"`
	Price       *float64 `json:"price" db:"price"`
	LegacyValue *float64 `json:"value" db:"value"`
}

// AllowedOn reports whether the item may be ordered on the given day.
func (m *MenuItem) AllowedOn(day string) bool {
	if len(m.AllowedDays) == 0 {
		return true
	}
	for _, d := range m.AllowedDays {
		if d == day {
			return true
		}
	}
	return false
}

// ResolvedPrice applies the price precedence: explicit price field, else the
// legacy value field, else zero.
func (m *MenuItem) ResolvedPrice() float64 {
	if m.Price != nil {
		return *m.Price
	}
	if m.LegacyValue != nil {
		return *m.LegacyValue
	}
	return 0
}

// Category is a reference-catalog category row. SetValue, when present, is a
// category-level mandatory per-box quota used where no explicit box quota row
// exists.
type Category struct {
	ID       string   `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	SetValue *float64 `json:"set_value" db:"set_value"`
}

// BoxQuota requires a quantity-weighted contribution from one category inside
// one box type.
type BoxQuota struct {
	BoxTypeID   string  `json:"box_type_id" db:"box_type_id"`
	CategoryID  string  `json:"category_id" db:"category_id"`
	TargetValue float64 `json:"target_value" db:"target_value"`
}

// Client is an order-store client row with its denormalized order document and
// the legacy order field some clients still carry from before the document
// existed.
type Client struct {
	ID          string              `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	Document    *OrderConfiguration `json:"document"`
	LegacyOrder *OrderConfiguration `json:"legacy_order,omitempty"`
}

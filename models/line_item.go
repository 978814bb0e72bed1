package models

// CanonicalLineItem is the fully normalized order line every supported
// document shape reduces to. Empty strings stand in for absent day, vendor,
// meal type or box context; MealType carries the raw document key including
// any disambiguating numeric suffix so write-back can preserve it. Price is
// resolved from the reference catalog, never carried here.
type CanonicalLineItem struct {
	Day         string `json:"day,omitempty"`
	VendorID    string `json:"vendor_id,omitempty"`
	MealType    string `json:"meal_type,omitempty"`
	BoxTypeID   string `json:"box_type_id,omitempty"`
	BoxQuantity int    `json:"box_quantity,omitempty"`
	ItemID      string `json:"item_id"`
	Quantity    int    `json:"quantity"`
	Note        string `json:"note,omitempty"`
}

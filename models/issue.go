package models

// Issue kinds produced by the integrity validator.
const (
	IssueInvalidMealType   = "invalid_meal_type"
	IssueInvalidVendor     = "invalid_vendor"
	IssueVendorDayMismatch = "vendor_day_mismatch"
	IssueDeletedMenuItem   = "deleted_menu_item"
	IssueItemDayMismatch   = "item_day_mismatch"
	IssueBoxQuotaMismatch  = "box_quota_mismatch"
)

// Issue is one integrity violation found by a validation pass. Issues are
// derived, never stored; the location fields carry whatever is needed to
// address the exact nested substructure of the client's document.
type Issue struct {
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name,omitempty"`
	Kind       string  `json:"kind"`
	Day        string  `json:"day,omitempty"`
	VendorID   string  `json:"vendor_id,omitempty"`
	MealKey    string  `json:"meal_key,omitempty"`
	ItemID     string  `json:"item_id,omitempty"`
	BoxTypeID  string  `json:"box_type_id,omitempty"`
	CategoryID string  `json:"category_id,omitempty"`
	ItemCount  int     `json:"item_count,omitempty"`
	Required   float64 `json:"required,omitempty"`
	Actual     float64 `json:"actual,omitempty"`
	Message    string  `json:"message"`
}

// Fix command kinds accepted by ApplyFix.
const (
	FixRemoveMealSelection = "remove_meal_selection"
	FixClearRootMealType   = "clear_root_meal_type"
	FixMoveVendorDay       = "move_vendor_day"
	FixMoveItemDay         = "move_item_day"
	FixDeleteItem          = "delete_item"
	FixClearVendor         = "clear_vendor"
	FixReassignVendor      = "reassign_vendor"
)

// FixCommand addresses one narrow point fix on a client's document. Which
// fields are required depends on Kind: meal fixes use MealKey, day moves use
// VendorID plus FromDay/ToDay (MoveItemDay additionally ItemID), item deletion
// uses VendorID/ItemID and Day when the reference lives under
// deliveryDayOrders, vendor fixes use Day or MealKey to address the location
// and NewVendorID for reassignment.
type FixCommand struct {
	Kind        string `json:"kind"`
	MealKey     string `json:"meal_key,omitempty"`
	VendorID    string `json:"vendor_id,omitempty"`
	ItemID      string `json:"item_id,omitempty"`
	FromDay     string `json:"from_day,omitempty"`
	ToDay       string `json:"to_day,omitempty"`
	Day         string `json:"day,omitempty"`
	NewVendorID string `json:"new_vendor_id,omitempty"`
}

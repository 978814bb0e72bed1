package models

import (
	"encoding/json"
	"strings"
)

// Service types carried on order configuration documents and order headers.
const (
	ServiceFood   = "Food"
	ServiceMeal   = "Meal"
	ServiceBoxes  = "Boxes"
	ServiceCustom = "Custom"
)

// Shape identifies which historical document layout is authoritative for an
// OrderConfiguration. The document format has no discriminator field, so the
// shape is inferred once from key presence and every downstream consumer
// switches on the resulting enum instead of re-inspecting optional fields.
type Shape int

const (
	ShapeEmpty Shape = iota
	ShapeDeliveryDayOrders
	ShapeVendorSelections
	ShapeMealSelections
	ShapeBoxList
	ShapeLegacyBox
	ShapeCustom
)

func (s Shape) String() string {
	switch s {
	case ShapeDeliveryDayOrders:
		return "delivery_day_orders"
	case ShapeVendorSelections:
		return "vendor_selections"
	case ShapeMealSelections:
		return "meal_selections"
	case ShapeBoxList:
		return "box_list"
	case ShapeLegacyBox:
		return "legacy_box"
	case ShapeCustom:
		return "custom"
	default:
		return "empty"
	}
}

// ItemQuantities maps item id to ordered quantity. Historical documents store
// the value either as a bare number or as an object {"quantity": n, "price": p};
// both decode to the quantity, anything else is skipped.
type ItemQuantities map[string]int

func (q *ItemQuantities) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*q = nil
		return nil
	}

	out := make(ItemQuantities, len(raw))
	for itemID, value := range raw {
		var num float64
		if err := json.Unmarshal(value, &num); err == nil {
			out[itemID] = int(num)
			continue
		}

		var obj struct {
			Quantity float64 `json:"quantity"`
		}
		if err := json.Unmarshal(value, &obj); err == nil {
			out[itemID] = int(obj.Quantity)
		}
	}
	*q = out
	return nil
}

// VendorSelection is one vendor's entry inside deliveryDayOrders or the flat
// vendorSelections list. Exactly one of Items (single implicit day) or
// ItemsByDay (multi-day, pre-dates deliveryDayOrders) is populated.
type VendorSelection struct {
	VendorID   string                    `json:"vendorId,omitempty"`
	Items      ItemQuantities            `json:"items,omitempty"`
	ItemsByDay map[string]ItemQuantities `json:"itemsByDay,omitempty"`
	ItemNotes  map[string]string         `json:"itemNotes,omitempty"`
}

// DayOrder is the per-day value of deliveryDayOrders. Stored as a bare
// selection list in recent documents and as {"vendorSelections": [...]} in
// older ones; both decode, and marshalling always emits the bare list.
type DayOrder []VendorSelection

func (d *DayOrder) UnmarshalJSON(data []byte) error {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err == nil {
		*d = decodeVendorSelections(entries)
		return nil
	}

	var wrapper struct {
		VendorSelections []json.RawMessage `json:"vendorSelections"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		*d = decodeVendorSelections(wrapper.VendorSelections)
		return nil
	}

	*d = nil
	return nil
}

func decodeVendorSelections(entries []json.RawMessage) []VendorSelection {
	if len(entries) == 0 {
		return nil
	}
	selections := make([]VendorSelection, 0, len(entries))
	for _, entry := range entries {
		var sel VendorSelection
		if err := json.Unmarshal(entry, &sel); err != nil {
			continue
		}
		selections = append(selections, sel)
	}
	if len(selections) == 0 {
		return nil
	}
	return selections
}

// MealSelection is one meal slot's entry of mealSelections. The vendor is
// optional at this shape.
type MealSelection struct {
	VendorID string         `json:"vendorId,omitempty"`
	Items    ItemQuantities `json:"items,omitempty"`
}

// BoxOrder is one entry of the boxOrders list.
type BoxOrder struct {
	BoxTypeID string         `json:"boxTypeId,omitempty"`
	Quantity  int            `json:"quantity,omitempty"`
	Items     ItemQuantities `json:"items,omitempty"`
}

// OrderConfiguration is the denormalized per-client order document. Depending
// on service type and historical era the item data lives in exactly one of the
// mutually exclusive shapes below; Shape() resolves which one is authoritative.
type OrderConfiguration struct {
	ServiceType       string                   `json:"serviceType,omitempty"`
	DeliveryDayOrders map[string]DayOrder      `json:"deliveryDayOrders,omitempty"`
	VendorSelections  []VendorSelection        `json:"vendorSelections,omitempty"`
	MealSelections    map[string]MealSelection `json:"mealSelections,omitempty"`
	MealType          string                   `json:"mealType,omitempty"`
	BoxOrders         []BoxOrder               `json:"boxOrders,omitempty"`
	BoxTypeID         string                   `json:"boxTypeId,omitempty"`
	BoxQuantity       int                      `json:"boxQuantity,omitempty"`
	Items             ItemQuantities           `json:"items,omitempty"`
	Description       string                   `json:"description,omitempty"`
}

// UnmarshalJSON decodes every known field independently so that a wrong-typed
// substructure is treated as absent instead of failing the whole document.
func (c *OrderConfiguration) UnmarshalJSON(data []byte) error {
	*c = OrderConfiguration{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	lenientDecode(raw["serviceType"], &c.ServiceType)
	lenientDecode(raw["deliveryDayOrders"], &c.DeliveryDayOrders)
	lenientDecode(raw["mealSelections"], &c.MealSelections)
	lenientDecode(raw["mealType"], &c.MealType)
	lenientDecode(raw["boxOrders"], &c.BoxOrders)
	lenientDecode(raw["boxTypeId"], &c.BoxTypeID)
	lenientDecode(raw["boxQuantity"], &c.BoxQuantity)
	lenientDecode(raw["items"], &c.Items)
	lenientDecode(raw["description"], &c.Description)

	if entries, ok := raw["vendorSelections"]; ok {
		var list []json.RawMessage
		if err := json.Unmarshal(entries, &list); err == nil {
			c.VendorSelections = decodeVendorSelections(list)
		}
	}
	return nil
}

func lenientDecode(raw json.RawMessage, target any) {
	if raw == nil {
		return
	}
	_ = json.Unmarshal(raw, target)
}

// Shape resolves the authoritative document layout using the historical
// precedence: boxOrders over legacy root box fields, then deliveryDayOrders
// over vendorSelections over mealSelections.
func (c *OrderConfiguration) Shape() Shape {
	switch {
	case c == nil:
		return ShapeEmpty
	case len(c.BoxOrders) > 0:
		return ShapeBoxList
	case c.ServiceType == ServiceBoxes && c.BoxTypeID != "":
		return ShapeLegacyBox
	case len(c.DeliveryDayOrders) > 0:
		return ShapeDeliveryDayOrders
	case len(c.VendorSelections) > 0:
		return ShapeVendorSelections
	case len(c.MealSelections) > 0:
		return ShapeMealSelections
	case c.ServiceType == ServiceCustom && strings.TrimSpace(c.Description) != "":
		return ShapeCustom
	default:
		return ShapeEmpty
	}
}

// IsEmpty reports whether the document carries no order intent at all. A bare
// service type without item data still counts as non-empty for discrepancy
// detection, it just fails the pre-write sufficiency check later.
func (c *OrderConfiguration) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.ServiceType == "" &&
		len(c.DeliveryDayOrders) == 0 &&
		len(c.VendorSelections) == 0 &&
		len(c.MealSelections) == 0 &&
		c.MealType == "" &&
		len(c.BoxOrders) == 0 &&
		c.BoxTypeID == "" &&
		len(c.Items) == 0 &&
		strings.TrimSpace(c.Description) == ""
}

// EffectiveBoxOrders returns the boxOrders list, synthesizing a single-element
// list from the legacy root box fields when the list is absent. Legacy
// documents without a quantity default to one box.
func (c *OrderConfiguration) EffectiveBoxOrders() []BoxOrder {
	if c == nil {
		return nil
	}
	if len(c.BoxOrders) > 0 {
		return c.BoxOrders
	}
	if c.ServiceType == ServiceBoxes && c.BoxTypeID != "" {
		qty := c.BoxQuantity
		if qty <= 0 {
			qty = 1
		}
		return []BoxOrder{{BoxTypeID: c.BoxTypeID, Quantity: qty, Items: c.Items}}
	}
	return nil
}

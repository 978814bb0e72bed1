// Package normalizer reduces every historically supported shape of the
// denormalized order configuration document to the canonical line-item model,
// and converts between the document and the normalized relational order rows.
// Everything in this package is pure: malformed or absent substructures yield
// empty output, never errors.
package normalizer

import (
	"regexp"
	"sort"

	"github.com/vercatryx/Triangle-order-managment-sub004/models"
)

var mealSuffixPattern = regexp.MustCompile(`_\d+$`)

// StripMealSuffix removes the disambiguating numeric suffix appended when a
// meal type is used more than once in one document ("lunch_2" -> "lunch").
// The raw key is always preserved on write-back; stripping is for catalog
// matching only.
func StripMealSuffix(mealType string) string {
	return mealSuffixPattern.ReplaceAllString(mealType, "")
}

// Normalize reduces an order configuration document to canonical line items.
// Exactly one document shape is authoritative (see models.Shape); entries with
// quantity <= 0 represent "selected then zeroed" and are dropped.
func Normalize(cfg *models.OrderConfiguration) []models.CanonicalLineItem {
	if cfg == nil {
		return nil
	}

	switch cfg.Shape() {
	case models.ShapeDeliveryDayOrders:
		return normalizeDeliveryDayOrders(cfg.DeliveryDayOrders)
	case models.ShapeVendorSelections:
		return normalizeVendorSelections(cfg.VendorSelections)
	case models.ShapeMealSelections:
		return normalizeMealSelections(cfg.MealSelections)
	case models.ShapeBoxList, models.ShapeLegacyBox:
		return normalizeBoxOrders(cfg.EffectiveBoxOrders())
	default:
		return nil
	}
}

func normalizeDeliveryDayOrders(dayOrders map[string]models.DayOrder) []models.CanonicalLineItem {
	var lines []models.CanonicalLineItem
	for _, day := range models.SortedDayKeys(dayOrders) {
		for _, sel := range dayOrders[day] {
			lines = append(lines, selectionLines(day, sel)...)
		}
	}
	return lines
}

func normalizeVendorSelections(selections []models.VendorSelection) []models.CanonicalLineItem {
	var lines []models.CanonicalLineItem
	for _, sel := range selections {
		if len(sel.ItemsByDay) > 0 {
			for _, day := range models.SortedDayKeys(sel.ItemsByDay) {
				lines = append(lines, itemLines(day, sel.VendorID, "", sel.ItemsByDay[day], sel.ItemNotes)...)
			}
			continue
		}
		lines = append(lines, selectionLines("", sel)...)
	}
	return lines
}

func normalizeMealSelections(selections map[string]models.MealSelection) []models.CanonicalLineItem {
	mealKeys := make([]string, 0, len(selections))
	for key := range selections {
		mealKeys = append(mealKeys, key)
	}
	sort.Strings(mealKeys)

	var lines []models.CanonicalLineItem
	for _, key := range mealKeys {
		sel := selections[key]
		lines = append(lines, itemLines("", sel.VendorID, key, sel.Items, nil)...)
	}
	return lines
}

func normalizeBoxOrders(boxes []models.BoxOrder) []models.CanonicalLineItem {
	var lines []models.CanonicalLineItem
	for _, box := range boxes {
		for _, itemID := range sortedItemIDs(box.Items) {
			qty := box.Items[itemID]
			if qty <= 0 {
				continue
			}
			lines = append(lines, models.CanonicalLineItem{
				BoxTypeID:   box.BoxTypeID,
				BoxQuantity: box.Quantity,
				ItemID:      itemID,
				Quantity:    qty,
			})
		}
	}
	return lines
}

func selectionLines(day string, sel models.VendorSelection) []models.CanonicalLineItem {
	return itemLines(day, sel.VendorID, "", sel.Items, sel.ItemNotes)
}

func itemLines(day, vendorID, mealType string, items models.ItemQuantities, notes map[string]string) []models.CanonicalLineItem {
	var lines []models.CanonicalLineItem
	for _, itemID := range sortedItemIDs(items) {
		qty := items[itemID]
		if qty <= 0 {
			continue
		}
		lines = append(lines, models.CanonicalLineItem{
			Day:      day,
			VendorID: vendorID,
			MealType: mealType,
			ItemID:   itemID,
			Quantity: qty,
			Note:     notes[itemID],
		})
	}
	return lines
}

func sortedItemIDs(items models.ItemQuantities) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

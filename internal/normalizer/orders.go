package normalizer

import (
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
)

// ToOrders converts a document into the full set of normalized rows: one
// scheduled header per delivery day (or a single day-less header), selections
// per vendor, meal slot or box, and one item row per positive-quantity item.
// Row ids are left empty; the order store assigns them on insert.
func ToOrders(clientID string, cfg *models.OrderConfiguration) []*models.ScheduledOrder {
	if cfg == nil {
		return nil
	}

	switch cfg.Shape() {
	case models.ShapeDeliveryDayOrders:
		return dayOrderHeaders(clientID, cfg)
	case models.ShapeVendorSelections:
		return vendorSelectionHeaders(clientID, cfg)
	case models.ShapeMealSelections:
		return mealSelectionHeaders(clientID, cfg)
	case models.ShapeBoxList, models.ShapeLegacyBox:
		return boxHeaders(clientID, cfg)
	case models.ShapeCustom:
		return []*models.ScheduledOrder{newHeader(clientID, models.ServiceCustom, "", cfg.Description)}
	default:
		return nil
	}
}

func newHeader(clientID, serviceType, day, notes string) *models.ScheduledOrder {
	return &models.ScheduledOrder{
		ClientID:    clientID,
		ServiceType: serviceType,
		DeliveryDay: day,
		Status:      models.StatusScheduled,
		Notes:       notes,
	}
}

func serviceTypeOf(cfg *models.OrderConfiguration, fallback string) string {
	if cfg.ServiceType != "" {
		return cfg.ServiceType
	}
	return fallback
}

func dayOrderHeaders(clientID string, cfg *models.OrderConfiguration) []*models.ScheduledOrder {
	serviceType := serviceTypeOf(cfg, models.ServiceFood)

	var orders []*models.ScheduledOrder
	for _, day := range models.SortedDayKeys(cfg.DeliveryDayOrders) {
		header := newHeader(clientID, serviceType, day, "")
		for _, sel := range cfg.DeliveryDayOrders[day] {
			appendVendorSelection(header, sel.VendorID, sel.Items, sel.ItemNotes)
		}
		if len(header.Selections) > 0 {
			orders = append(orders, header)
		}
	}
	return orders
}

func vendorSelectionHeaders(clientID string, cfg *models.OrderConfiguration) []*models.ScheduledOrder {
	serviceType := serviceTypeOf(cfg, models.ServiceFood)

	// Flat entries share one day-less header; itemsByDay entries get one
	// header per day, merged across entries.
	flat := newHeader(clientID, serviceType, "", "")
	byDay := map[string]*models.ScheduledOrder{}

	for _, sel := range cfg.VendorSelections {
		if len(sel.ItemsByDay) == 0 {
			appendVendorSelection(flat, sel.VendorID, sel.Items, sel.ItemNotes)
			continue
		}
		for _, day := range models.SortedDayKeys(sel.ItemsByDay) {
			header, ok := byDay[day]
			if !ok {
				header = newHeader(clientID, serviceType, day, "")
				byDay[day] = header
			}
			appendVendorSelection(header, sel.VendorID, sel.ItemsByDay[day], sel.ItemNotes)
		}
	}

	var orders []*models.ScheduledOrder
	if len(flat.Selections) > 0 {
		orders = append(orders, flat)
	}
	for _, day := range models.SortedDayKeys(byDay) {
		if header := byDay[day]; len(header.Selections) > 0 {
			orders = append(orders, header)
		}
	}
	return orders
}

func mealSelectionHeaders(clientID string, cfg *models.OrderConfiguration) []*models.ScheduledOrder {
	header := newHeader(clientID, serviceTypeOf(cfg, models.ServiceMeal), "", "")

	for _, line := range normalizeMealSelections(cfg.MealSelections) {
		sel := findSelection(header, func(s *models.OrderSelection) bool { return s.MealType == line.MealType })
		if sel == nil {
			sel = &models.OrderSelection{VendorID: line.VendorID, MealType: line.MealType}
			header.Selections = append(header.Selections, sel)
		}
		sel.Items = append(sel.Items, &models.OrderLine{ItemID: line.ItemID, Quantity: line.Quantity, Note: line.Note})
	}

	if len(header.Selections) == 0 {
		return nil
	}
	return []*models.ScheduledOrder{header}
}

func boxHeaders(clientID string, cfg *models.OrderConfiguration) []*models.ScheduledOrder {
	header := newHeader(clientID, serviceTypeOf(cfg, models.ServiceBoxes), "", "")

	for _, box := range cfg.EffectiveBoxOrders() {
		sel := &models.OrderSelection{BoxTypeID: box.BoxTypeID, BoxQuantity: box.Quantity}
		for _, itemID := range sortedItemIDs(box.Items) {
			if qty := box.Items[itemID]; qty > 0 {
				sel.Items = append(sel.Items, &models.OrderLine{ItemID: itemID, Quantity: qty})
			}
		}
		if sel.BoxTypeID != "" || len(sel.Items) > 0 {
			header.Selections = append(header.Selections, sel)
		}
	}

	if len(header.Selections) == 0 {
		return nil
	}
	return []*models.ScheduledOrder{header}
}

func appendVendorSelection(header *models.ScheduledOrder, vendorID string, items models.ItemQuantities, notes map[string]string) {
	sel := findSelection(header, func(s *models.OrderSelection) bool { return s.VendorID == vendorID })
	if sel == nil {
		sel = &models.OrderSelection{VendorID: vendorID}
	}

	added := false
	for _, itemID := range sortedItemIDs(items) {
		qty := items[itemID]
		if qty <= 0 {
			continue
		}
		sel.Items = append(sel.Items, &models.OrderLine{ItemID: itemID, Quantity: qty, Note: notes[itemID]})
		added = true
	}
	if added && !containsSelection(header, sel) {
		header.Selections = append(header.Selections, sel)
	}
}

func findSelection(header *models.ScheduledOrder, match func(*models.OrderSelection) bool) *models.OrderSelection {
	for _, sel := range header.Selections {
		if match(sel) {
			return sel
		}
	}
	return nil
}

func containsSelection(header *models.ScheduledOrder, target *models.OrderSelection) bool {
	for _, sel := range header.Selections {
		if sel == target {
			return true
		}
	}
	return false
}

// FromOrders reconstructs a document from scheduled rows. One day-less header
// produces the single-order root shape for its service type; one dated header
// or several headers produce the multi-day deliveryDayOrders shape, which
// keeps the per-line delivery day intact.
func FromOrders(orders []*models.ScheduledOrder) *models.OrderConfiguration {
	if len(orders) == 0 {
		return &models.OrderConfiguration{}
	}

	if len(orders) == 1 && orders[0].DeliveryDay == "" {
		return singleOrderDocument(orders[0])
	}

	cfg := &models.OrderConfiguration{
		ServiceType:       orders[0].ServiceType,
		DeliveryDayOrders: map[string]models.DayOrder{},
	}
	for _, order := range orders {
		day := order.DeliveryDay
		for _, sel := range order.Selections {
			vendorSel := models.VendorSelection{VendorID: sel.VendorID}
			fillItems(&vendorSel, sel.Items)
			if len(vendorSel.Items) > 0 {
				cfg.DeliveryDayOrders[day] = append(cfg.DeliveryDayOrders[day], vendorSel)
			}
		}
	}
	return cfg
}

func singleOrderDocument(order *models.ScheduledOrder) *models.OrderConfiguration {
	cfg := &models.OrderConfiguration{ServiceType: order.ServiceType}

	switch order.ServiceType {
	case models.ServiceBoxes:
		for _, sel := range order.Selections {
			box := models.BoxOrder{BoxTypeID: sel.BoxTypeID, Quantity: sel.BoxQuantity, Items: models.ItemQuantities{}}
			for _, line := range sel.Items {
				box.Items[line.ItemID] = line.Quantity
			}
			cfg.BoxOrders = append(cfg.BoxOrders, box)
		}
	case models.ServiceCustom:
		cfg.Description = order.Notes
	case models.ServiceMeal:
		if !hasMealTypes(order.Selections) {
			// Meal-typed document that was stored in the vendor-selection
			// shape; keep that shape on the way back.
			fillVendorSelections(cfg, order.Selections)
			return cfg
		}
		cfg.MealSelections = map[string]models.MealSelection{}
		for _, sel := range order.Selections {
			meal := models.MealSelection{VendorID: sel.VendorID, Items: models.ItemQuantities{}}
			for _, line := range sel.Items {
				meal.Items[line.ItemID] = line.Quantity
			}
			cfg.MealSelections[sel.MealType] = meal
		}
	default:
		fillVendorSelections(cfg, order.Selections)
	}
	return cfg
}

func hasMealTypes(selections []*models.OrderSelection) bool {
	for _, sel := range selections {
		if sel.MealType != "" {
			return true
		}
	}
	return false
}

func fillVendorSelections(cfg *models.OrderConfiguration, selections []*models.OrderSelection) {
	for _, sel := range selections {
		vendorSel := models.VendorSelection{VendorID: sel.VendorID}
		fillItems(&vendorSel, sel.Items)
		if len(vendorSel.Items) > 0 {
			cfg.VendorSelections = append(cfg.VendorSelections, vendorSel)
		}
	}
}

func fillItems(sel *models.VendorSelection, lines []*models.OrderLine) {
	for _, line := range lines {
		if sel.Items == nil {
			sel.Items = models.ItemQuantities{}
		}
		sel.Items[line.ItemID] = line.Quantity
		if line.Note != "" {
			if sel.ItemNotes == nil {
				sel.ItemNotes = map[string]string{}
			}
			sel.ItemNotes[line.ItemID] = line.Note
		}
	}
}

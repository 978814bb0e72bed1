package service

import (
	"fmt"

	"github.com/vercatryx/Triangle-order-managment-sub004/models"
)

// ApplyFix executes one narrow point fix against a client's document. The
// document is read fresh, only the addressed substructure is mutated, and the
// whole document is written back. Concurrent fixes on the same client race at
// last-write-wins granularity; fixes are operator-triggered one at a time.
// Business-level failures come back in the Result; only store failures return
// an error.
func (s *ValidationService) ApplyFix(clientID string, cmd models.FixCommand) (models.Result, error) {
	s.logger.Info("Applying fix", "client_id", clientID, "kind", cmd.Kind)

	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return failure("client %s not found", clientID), nil
	}

	doc := client.Document
	if doc == nil {
		doc = &models.OrderConfiguration{}
	}

	var message string
	switch cmd.Kind {
	case models.FixRemoveMealSelection:
		message, err = removeMealSelection(doc, cmd)
	case models.FixClearRootMealType:
		message, err = clearRootMealType(doc)
	case models.FixMoveVendorDay:
		message, err = moveVendorDay(doc, cmd)
	case models.FixMoveItemDay:
		message, err = moveItemDay(doc, cmd)
	case models.FixDeleteItem:
		message, err = deleteItemRef(doc, cmd)
	case models.FixClearVendor:
		message, err = clearVendor(doc, cmd)
	case models.FixReassignVendor:
		message, err = reassignVendor(doc, cmd)
	default:
		return failure("unknown fix kind %q", cmd.Kind), nil
	}
	if err != nil {
		s.logger.Warn("Fix rejected", "client_id", clientID, "kind", cmd.Kind, "error", err)
		return models.Result{Success: false, Error: err.Error()}, nil
	}

	if err := s.clientRepo.ReplaceDocument(clientID, doc); err != nil {
		s.logger.Error("Failed to write fixed document", "client_id", clientID, "error", err)
		return models.Result{}, err
	}

	s.logger.Info("Fix applied", "client_id", clientID, "kind", cmd.Kind)
	return models.Result{Success: true, Message: message}, nil
}

func failure(format string, args ...any) models.Result {
	return models.Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

func removeMealSelection(doc *models.OrderConfiguration, cmd models.FixCommand) (string, error) {
	if _, ok := doc.MealSelections[cmd.MealKey]; !ok {
		return "", fmt.Errorf("meal selection %q not found", cmd.MealKey)
	}
	delete(doc.MealSelections, cmd.MealKey)
	if len(doc.MealSelections) == 0 {
		doc.MealSelections = nil
	}
	return fmt.Sprintf("removed meal selection %q", cmd.MealKey), nil
}

func clearRootMealType(doc *models.OrderConfiguration) (string, error) {
	if doc.MealType == "" {
		return "", fmt.Errorf("document has no root meal type")
	}
	doc.MealType = ""
	return "cleared root meal type", nil
}

// moveVendorDay moves a vendor's whole day selection to another day, merging
// item quantities additively when the destination day already has that vendor.
func moveVendorDay(doc *models.OrderConfiguration, cmd models.FixCommand) (string, error) {
	source, idx := findDaySelection(doc, cmd.FromDay, cmd.VendorID)
	if source == nil {
		return "", fmt.Errorf("vendor %s has no selection on %s", cmd.VendorID, cmd.FromDay)
	}

	moved := *source
	removeDaySelection(doc, cmd.FromDay, idx)
	mergeIntoDay(doc, cmd.ToDay, moved)
	return fmt.Sprintf("moved vendor %s from %s to %s", cmd.VendorID, cmd.FromDay, cmd.ToDay), nil
}

// moveItemDay moves a single item reference to another day, creating the
// destination vendor selection if absent and merging quantities.
func moveItemDay(doc *models.OrderConfiguration, cmd models.FixCommand) (string, error) {
	source, idx := findDaySelection(doc, cmd.FromDay, cmd.VendorID)
	if source == nil {
		return "", fmt.Errorf("vendor %s has no selection on %s", cmd.VendorID, cmd.FromDay)
	}
	qty, ok := source.Items[cmd.ItemID]
	if !ok {
		return "", fmt.Errorf("item %s not found under vendor %s on %s", cmd.ItemID, cmd.VendorID, cmd.FromDay)
	}

	note := source.ItemNotes[cmd.ItemID]
	delete(source.Items, cmd.ItemID)
	delete(source.ItemNotes, cmd.ItemID)
	if len(source.Items) == 0 {
		removeDaySelection(doc, cmd.FromDay, idx)
	}

	moved := models.VendorSelection{
		VendorID: cmd.VendorID,
		Items:    models.ItemQuantities{cmd.ItemID: qty},
	}
	if note != "" {
		moved.ItemNotes = map[string]string{cmd.ItemID: note}
	}
	mergeIntoDay(doc, cmd.ToDay, moved)
	return fmt.Sprintf("moved item %s from %s to %s", cmd.ItemID, cmd.FromDay, cmd.ToDay), nil
}

// deleteItemRef removes a single item reference from its exact location:
// under deliveryDayOrders when a day is addressed, otherwise in the flat
// vendorSelections list.
func deleteItemRef(doc *models.OrderConfiguration, cmd models.FixCommand) (string, error) {
	if cmd.Day != "" {
		if sel, idx := findDaySelection(doc, cmd.Day, cmd.VendorID); sel != nil {
			if _, ok := sel.Items[cmd.ItemID]; ok {
				delete(sel.Items, cmd.ItemID)
				delete(sel.ItemNotes, cmd.ItemID)
				if len(sel.Items) == 0 {
					removeDaySelection(doc, cmd.Day, idx)
				}
				return fmt.Sprintf("deleted item %s from %s", cmd.ItemID, cmd.Day), nil
			}
		}
		return "", fmt.Errorf("item %s not found under vendor %s on %s", cmd.ItemID, cmd.VendorID, cmd.Day)
	}

	for i := range doc.VendorSelections {
		sel := &doc.VendorSelections[i]
		if sel.VendorID != cmd.VendorID {
			continue
		}
		if _, ok := sel.Items[cmd.ItemID]; ok {
			delete(sel.Items, cmd.ItemID)
			delete(sel.ItemNotes, cmd.ItemID)
			if len(sel.Items) == 0 && len(sel.ItemsByDay) == 0 {
				doc.VendorSelections = append(doc.VendorSelections[:i], doc.VendorSelections[i+1:]...)
			}
			return fmt.Sprintf("deleted item %s from vendor %s", cmd.ItemID, cmd.VendorID), nil
		}
		for day, items := range sel.ItemsByDay {
			if _, ok := items[cmd.ItemID]; ok {
				delete(items, cmd.ItemID)
				if len(items) == 0 {
					delete(sel.ItemsByDay, day)
				}
				return fmt.Sprintf("deleted item %s from vendor %s on %s", cmd.ItemID, cmd.VendorID, day), nil
			}
		}
	}
	return "", fmt.Errorf("item %s not found under vendor %s", cmd.ItemID, cmd.VendorID)
}

// clearVendor removes an invalid vendor reference at its exact location: the
// whole selection for a day+vendor address, just the vendor id for a meal key.
func clearVendor(doc *models.OrderConfiguration, cmd models.FixCommand) (string, error) {
	if cmd.MealKey != "" {
		sel, ok := doc.MealSelections[cmd.MealKey]
		if !ok {
			return "", fmt.Errorf("meal selection %q not found", cmd.MealKey)
		}
		sel.VendorID = ""
		doc.MealSelections[cmd.MealKey] = sel
		return fmt.Sprintf("cleared vendor on meal selection %q", cmd.MealKey), nil
	}

	if sel, idx := findDaySelection(doc, cmd.Day, cmd.VendorID); sel != nil {
		removeDaySelection(doc, cmd.Day, idx)
		return fmt.Sprintf("removed vendor %s selection on %s", cmd.VendorID, cmd.Day), nil
	}
	return "", fmt.Errorf("vendor %s has no selection on %s", cmd.VendorID, cmd.Day)
}

// reassignVendor swaps an invalid vendor id for a replacement at its exact
// location, merging into an existing destination selection on the same day.
func reassignVendor(doc *models.OrderConfiguration, cmd models.FixCommand) (string, error) {
	if cmd.NewVendorID == "" {
		return "", fmt.Errorf("replacement vendor id is required")
	}

	if cmd.MealKey != "" {
		sel, ok := doc.MealSelections[cmd.MealKey]
		if !ok {
			return "", fmt.Errorf("meal selection %q not found", cmd.MealKey)
		}
		sel.VendorID = cmd.NewVendorID
		doc.MealSelections[cmd.MealKey] = sel
		return fmt.Sprintf("reassigned meal selection %q to vendor %s", cmd.MealKey, cmd.NewVendorID), nil
	}

	sel, idx := findDaySelection(doc, cmd.Day, cmd.VendorID)
	if sel == nil {
		return "", fmt.Errorf("vendor %s has no selection on %s", cmd.VendorID, cmd.Day)
	}
	reassigned := *sel
	reassigned.VendorID = cmd.NewVendorID
	removeDaySelection(doc, cmd.Day, idx)
	mergeIntoDay(doc, cmd.Day, reassigned)
	return fmt.Sprintf("reassigned vendor %s to %s on %s", cmd.VendorID, cmd.NewVendorID, cmd.Day), nil
}

func findDaySelection(doc *models.OrderConfiguration, day, vendorID string) (*models.VendorSelection, int) {
	for i := range doc.DeliveryDayOrders[day] {
		if doc.DeliveryDayOrders[day][i].VendorID == vendorID {
			return &doc.DeliveryDayOrders[day][i], i
		}
	}
	return nil, -1
}

func removeDaySelection(doc *models.OrderConfiguration, day string, idx int) {
	selections := doc.DeliveryDayOrders[day]
	selections = append(selections[:idx], selections[idx+1:]...)
	if len(selections) == 0 {
		delete(doc.DeliveryDayOrders, day)
		if len(doc.DeliveryDayOrders) == 0 {
			doc.DeliveryDayOrders = nil
		}
		return
	}
	doc.DeliveryDayOrders[day] = selections
}

// mergeIntoDay adds a selection to a day, merging item quantities additively
// when the day already carries the same vendor.
func mergeIntoDay(doc *models.OrderConfiguration, day string, incoming models.VendorSelection) {
	if doc.DeliveryDayOrders == nil {
		doc.DeliveryDayOrders = map[string]models.DayOrder{}
	}

	if existing, _ := findDaySelection(doc, day, incoming.VendorID); existing != nil {
		if existing.Items == nil {
			existing.Items = models.ItemQuantities{}
		}
		for itemID, qty := range incoming.Items {
			existing.Items[itemID] += qty
		}
		for itemID, note := range incoming.ItemNotes {
			if existing.ItemNotes == nil {
				existing.ItemNotes = map[string]string{}
			}
			if _, ok := existing.ItemNotes[itemID]; !ok {
				existing.ItemNotes[itemID] = note
			}
		}
		return
	}
	doc.DeliveryDayOrders[day] = append(doc.DeliveryDayOrders[day], incoming)
}

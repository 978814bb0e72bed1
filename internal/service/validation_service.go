package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/catalog"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/config"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/repositories"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type ValidationServiceInterface interface {
	ScanAll() ([]models.Issue, error)
	ScanClient(clientID string) ([]models.Issue, error)
	ApplyFix(clientID string, cmd models.FixCommand) (models.Result, error)
}

// ValidationService scans stored order configurations against the live
// reference catalog and applies narrow operator-triggered point fixes.
type ValidationService struct {
	clientRepo  repositories.ClientRepositoryInterface
	catalogRepo repositories.CatalogRepositoryInterface
	rules       config.Rules
	logger      *logger.Logger
}

func NewValidationService(clientRepo repositories.ClientRepositoryInterface, catalogRepo repositories.CatalogRepositoryInterface, rules config.Rules, logger *logger.Logger) *ValidationService {
	return &ValidationService{
		clientRepo:  clientRepo,
		catalogRepo: catalogRepo,
		rules:       rules,
		logger:      logger.WithComponent("validation_service"),
	}
}

// ScanAll validates every client's document against a fresh catalog snapshot.
func (s *ValidationService) ScanAll() ([]models.Issue, error) {
	snapshot, err := catalog.Load(s.catalogRepo, s.rules, s.logger)
	if err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.GetAll()
	if err != nil {
		return nil, err
	}

	issues := Scan(clients, snapshot, s.rules)
	s.logger.Info("Validation scan completed", "clients", len(clients), "issues", len(issues))
	return issues, nil
}

// ScanClient validates a single client's document.
func (s *ValidationService) ScanClient(clientID string) ([]models.Issue, error) {
	snapshot, err := catalog.Load(s.catalogRepo, s.rules, s.logger)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}

	issues := Scan([]*models.Client{client}, snapshot, s.rules)
	s.logger.Info("Validation scan completed", "client_id", clientID, "issues", len(issues))
	return issues, nil
}

// Scan is a pure function of the client documents and the snapshot: two calls
// without intervening writes produce identical issue lists. Checks are
// independent and order-insensitive.
func Scan(clients []*models.Client, snapshot *catalog.Snapshot, rules config.Rules) []models.Issue {
	var issues []models.Issue
	for _, client := range clients {
		issues = append(issues, scanClient(client, snapshot, rules)...)
	}
	return issues
}

func scanClient(client *models.Client, snapshot *catalog.Snapshot, rules config.Rules) []models.Issue {
	doc := client.Document
	if doc == nil || doc.IsEmpty() {
		return nil
	}

	var issues []models.Issue
	issues = append(issues, checkMealTypes(client, doc, snapshot)...)
	issues = append(issues, checkDeliveryDayOrders(client, doc, snapshot)...)
	issues = append(issues, checkVendorSelections(client, doc, snapshot)...)
	issues = append(issues, checkBoxQuotas(client, doc, snapshot, rules)...)
	return issues
}

// checkMealTypes flags meal-selection keys and the root meal type field that
// do not match the catalog taxonomy after suffix stripping.
func checkMealTypes(client *models.Client, doc *models.OrderConfiguration, snapshot *catalog.Snapshot) []models.Issue {
	var issues []models.Issue

	mealKeys := make([]string, 0, len(doc.MealSelections))
	for key := range doc.MealSelections {
		mealKeys = append(mealKeys, key)
	}
	sort.Strings(mealKeys)

	for _, key := range mealKeys {
		if !snapshot.IsValidMealType(key) {
			issues = append(issues, models.Issue{
				ClientID:   client.ID,
				ClientName: client.Name,
				Kind:       models.IssueInvalidMealType,
				MealKey:    key,
				Message:    fmt.Sprintf("meal selection key %q does not match any known meal type", key),
			})
		}

		sel := doc.MealSelections[key]
		if sel.VendorID != "" {
			issues = append(issues, checkVendorRef(client, sel.VendorID, "", key, snapshot)...)
		}
	}

	if doc.MealType != "" && !snapshot.IsValidMealType(doc.MealType) {
		issues = append(issues, models.Issue{
			ClientID:   client.ID,
			ClientName: client.Name,
			Kind:       models.IssueInvalidMealType,
			MealKey:    doc.MealType,
			Message:    fmt.Sprintf("root meal type %q does not match any known meal type", doc.MealType),
		})
	}
	return issues
}

func checkDeliveryDayOrders(client *models.Client, doc *models.OrderConfiguration, snapshot *catalog.Snapshot) []models.Issue {
	var issues []models.Issue

	for _, day := range models.SortedDayKeys(doc.DeliveryDayOrders) {
		for _, sel := range doc.DeliveryDayOrders[day] {
			if sel.VendorID != "" {
				issues = append(issues, checkVendorRef(client, sel.VendorID, day, "", snapshot)...)
				issues = append(issues, checkVendorDay(client, sel.VendorID, day, sel.Items, snapshot)...)
			}
			issues = append(issues, checkItems(client, sel.VendorID, day, sel.Items, snapshot)...)
		}
	}
	return issues
}

// checkVendorSelections covers the flat vendorSelections shape, including the
// older multi-day itemsByDay entries.
func checkVendorSelections(client *models.Client, doc *models.OrderConfiguration, snapshot *catalog.Snapshot) []models.Issue {
	var issues []models.Issue

	for _, sel := range doc.VendorSelections {
		if len(sel.ItemsByDay) > 0 {
			for _, day := range models.SortedDayKeys(sel.ItemsByDay) {
				if sel.VendorID != "" {
					issues = append(issues, checkVendorDay(client, sel.VendorID, day, sel.ItemsByDay[day], snapshot)...)
				}
				issues = append(issues, checkItems(client, sel.VendorID, day, sel.ItemsByDay[day], snapshot)...)
			}
			continue
		}
		issues = append(issues, checkItems(client, sel.VendorID, "", sel.Items, snapshot)...)
	}
	return issues
}

// checkVendorRef flags vendors absent from the catalog or present but
// inactive.
func checkVendorRef(client *models.Client, vendorID, day, mealKey string, snapshot *catalog.Snapshot) []models.Issue {
	vendor, ok := snapshot.Vendors[vendorID]
	if !ok {
		return []models.Issue{{
			ClientID:   client.ID,
			ClientName: client.Name,
			Kind:       models.IssueInvalidVendor,
			Day:        day,
			MealKey:    mealKey,
			VendorID:   vendorID,
			Message:    fmt.Sprintf("vendor %s is missing from the catalog", vendorID),
		}}
	}
	if !vendor.IsActive {
		return []models.Issue{{
			ClientID:   client.ID,
			ClientName: client.Name,
			Kind:       models.IssueInvalidVendor,
			Day:        day,
			MealKey:    mealKey,
			VendorID:   vendorID,
			Message:    fmt.Sprintf("vendor %s is inactive", vendor.Name),
		}}
	}
	return nil
}

// checkVendorDay flags a vendor scheduled on a day outside its delivery-day
// set. A vendor with an empty set is unrestricted.
func checkVendorDay(client *models.Client, vendorID, day string, items models.ItemQuantities, snapshot *catalog.Snapshot) []models.Issue {
	vendor, ok := snapshot.Vendors[vendorID]
	if !ok || len(vendor.DeliveryDays) == 0 || vendor.DeliversOn(day) {
		return nil
	}

	affected := 0
	for _, qty := range items {
		if qty > 0 {
			affected++
		}
	}

	return []models.Issue{{
		ClientID:   client.ID,
		ClientName: client.Name,
		Kind:       models.IssueVendorDayMismatch,
		Day:        day,
		VendorID:   vendorID,
		ItemCount:  affected,
		Message:    fmt.Sprintf("vendor %s does not deliver on %s (%d items affected)", vendor.Name, day, affected),
	}}
}

// checkItems flags deleted menu items and, where a day is known, items
// scheduled on a disallowed day. The belongs-check precedes the day-check: an
// item filed under a different vendor than its own is skipped entirely.
func checkItems(client *models.Client, vendorID, day string, items models.ItemQuantities, snapshot *catalog.Snapshot) []models.Issue {
	var issues []models.Issue

	itemIDs := make([]string, 0, len(items))
	for id := range items {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	for _, itemID := range itemIDs {
		if items[itemID] <= 0 {
			continue
		}

		item, ok := snapshot.Items[itemID]
		if !ok {
			issues = append(issues, models.Issue{
				ClientID:   client.ID,
				ClientName: client.Name,
				Kind:       models.IssueDeletedMenuItem,
				Day:        day,
				VendorID:   vendorID,
				ItemID:     itemID,
				Message:    fmt.Sprintf("item %s no longer exists in the menu", itemID),
			})
			continue
		}

		if day == "" {
			continue
		}
		if item.VendorID != "" && item.VendorID != vendorID {
			continue
		}
		if len(item.AllowedDays) > 0 && !item.AllowedOn(day) {
			issues = append(issues, models.Issue{
				ClientID:   client.ID,
				ClientName: client.Name,
				Kind:       models.IssueItemDayMismatch,
				Day:        day,
				VendorID:   vendorID,
				ItemID:     itemID,
				Message:    fmt.Sprintf("item %s is not available on %s", item.Name, day),
			})
		}
	}
	return issues
}

// checkBoxQuotas compares each box's quantity-weighted category totals against
// its quota targets. A box with every category at zero actual is treated as
// not yet filled in and suppressed entirely.
func checkBoxQuotas(client *models.Client, doc *models.OrderConfiguration, snapshot *catalog.Snapshot, rules config.Rules) []models.Issue {
	if doc.ServiceType != models.ServiceBoxes {
		return nil
	}

	var issues []models.Issue
	for _, box := range doc.EffectiveBoxOrders() {
		issues = append(issues, checkBox(client, box, snapshot, rules)...)
	}
	return issues
}

func checkBox(client *models.Client, box models.BoxOrder, snapshot *catalog.Snapshot, rules config.Rules) []models.Issue {
	required := requiredPerCategory(box.BoxTypeID, snapshot)
	if len(required) == 0 {
		return nil
	}

	boxQty := box.Quantity
	if boxQty <= 0 {
		boxQty = 1
	}

	actual := map[string]float64{}
	for itemID, qty := range box.Items {
		if qty <= 0 {
			continue
		}
		item, ok := snapshot.Items[itemID]
		if !ok || item.VendorID != "" {
			// Only universal/box items count toward quotas.
			continue
		}
		actual[item.CategoryID] += float64(qty) * item.QuotaValue
	}

	categoryIDs := make([]string, 0, len(required))
	allZero := true
	for categoryID := range required {
		categoryIDs = append(categoryIDs, categoryID)
		if actual[categoryID] != 0 {
			allZero = false
		}
	}
	if allZero {
		return nil
	}
	sort.Strings(categoryIDs)

	var issues []models.Issue
	for _, categoryID := range categoryIDs {
		target := required[categoryID] * float64(boxQty)
		got := actual[categoryID]
		if math.Abs(got-target) > rules.QuotaTolerance {
			issues = append(issues, models.Issue{
				ClientID:   client.ID,
				ClientName: client.Name,
				Kind:       models.IssueBoxQuotaMismatch,
				BoxTypeID:  box.BoxTypeID,
				CategoryID: categoryID,
				Required:   target,
				Actual:     got,
				Message: fmt.Sprintf("box %s category %s quota mismatch: required %.2f, actual %.2f",
					box.BoxTypeID, categoryID, target, got),
			})
		}
	}
	return issues
}

// requiredPerCategory resolves the per-unit quota targets for a box type:
// explicit quota rows when any exist, otherwise every category carrying a
// mandatory set value.
func requiredPerCategory(boxTypeID string, snapshot *catalog.Snapshot) map[string]float64 {
	required := map[string]float64{}
	if snapshot.HasQuotaRules(boxTypeID) {
		for _, quota := range snapshot.QuotasByBoxType[boxTypeID] {
			required[quota.CategoryID] = quota.TargetValue
		}
		return required
	}
	for id, category := range snapshot.Categories {
		if category.SetValue != nil {
			required[id] = *category.SetValue
		}
	}
	return required
}

package service

import (
	"reflect"
	"testing"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/catalog"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/config"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
)

func floatPtr(v float64) *float64 { return &v }

// testSnapshot builds a small catalog: two vendors (one day-restricted), a
// vendor item with an allowed-day restriction, and a universal box item.
func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Vendors: map[string]*models.Vendor{
			"v1": {ID: "v1", Name: "Fresh Farm", IsActive: true, DeliveryDays: []string{"Monday", "Thursday"}},
			"v2": {ID: "v2", Name: "City Kitchen", IsActive: true},
			"v3": {ID: "v3", Name: "Closed Deli", IsActive: false},
		},
		Items: map[string]*models.MenuItem{
			"i1": {ID: "i1", Name: "Salad", VendorID: "v1", AllowedDays: []string{"Monday"}},
			"i2": {ID: "i2", Name: "Soup", VendorID: "v2"},
			"box1": {ID: "box1", Name: "Eggs", CategoryID: "protein", QuotaValue: 0.5},
			"box2": {ID: "box2", Name: "Bread", CategoryID: "grain", QuotaValue: 1},
		},
		Categories: map[string]*models.Category{
			"protein": {ID: "protein", Name: "Protein", SetValue: floatPtr(1)},
			"grain":   {ID: "grain", Name: "Grain", SetValue: floatPtr(2)},
		},
		QuotasByBoxType: map[string][]*models.BoxQuota{},
		MealTypes:       []string{"lunch", "dinner"},
	}
}

func scanOne(doc *models.OrderConfiguration, snapshot *catalog.Snapshot) []models.Issue {
	client := &models.Client{ID: "c1", Name: "Acme", Document: doc}
	return Scan([]*models.Client{client}, snapshot, config.DefaultRules())
}

func kinds(issues []models.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Kind
	}
	return out
}

func TestScanCleanDocument(t *testing.T) {
	doc := &models.OrderConfiguration{
		ServiceType: models.ServiceFood,
		DeliveryDayOrders: map[string]models.DayOrder{
			"Monday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 2}}},
		},
	}
	if issues := scanOne(doc, testSnapshot()); len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestScanEmptyDocumentProducesNothing(t *testing.T) {
	if issues := scanOne(nil, testSnapshot()); len(issues) != 0 {
		t.Errorf("expected no issues for nil document, got %+v", issues)
	}
	if issues := scanOne(&models.OrderConfiguration{}, testSnapshot()); len(issues) != 0 {
		t.Errorf("expected no issues for empty document, got %+v", issues)
	}
}

func TestScanInvalidMealType(t *testing.T) {
	doc := &models.OrderConfiguration{
		ServiceType: models.ServiceMeal,
		MealSelections: map[string]models.MealSelection{
			"lunch_2": {VendorID: "v2", Items: models.ItemQuantities{"i2": 1}},
			"brunch":  {VendorID: "v2", Items: models.ItemQuantities{"i2": 1}},
		},
	}

	issues := scanOne(doc, testSnapshot())
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %+v", issues)
	}
	if issues[0].Kind != models.IssueInvalidMealType || issues[0].MealKey != "brunch" {
		t.Errorf("unexpected issue: %+v", issues[0])
	}
}

func TestScanRootMealType(t *testing.T) {
	doc := &models.OrderConfiguration{
		ServiceType:      models.ServiceMeal,
		MealType:         "supper",
		VendorSelections: []models.VendorSelection{{VendorID: "v2", Items: models.ItemQuantities{"i2": 1}}},
	}

	issues := scanOne(doc, testSnapshot())
	if len(issues) != 1 || issues[0].Kind != models.IssueInvalidMealType || issues[0].MealKey != "supper" {
		t.Errorf("expected root meal type issue, got %+v", issues)
	}
}

func TestScanVendorIssues(t *testing.T) {
	t.Run("missing vendor", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Monday": {{VendorID: "ghost", Items: models.ItemQuantities{"i2": 1}}},
			},
		}
		issues := scanOne(doc, testSnapshot())
		found := false
		for _, issue := range issues {
			if issue.Kind == models.IssueInvalidVendor && issue.VendorID == "ghost" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected invalid_vendor issue, got %+v", issues)
		}
	})

	t.Run("inactive vendor", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Monday": {{VendorID: "v3", Items: models.ItemQuantities{"i2": 1}}},
			},
		}
		issues := scanOne(doc, testSnapshot())
		if len(issues) == 0 || issues[0].Kind != models.IssueInvalidVendor {
			t.Errorf("expected invalid_vendor for inactive vendor, got %+v", issues)
		}
	})

	t.Run("vendor day mismatch counts affected items", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Friday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 2, "zeroed": 0}}},
			},
		}
		issues := scanOne(doc, testSnapshot())

		var dayIssue *models.Issue
		for i := range issues {
			if issues[i].Kind == models.IssueVendorDayMismatch {
				dayIssue = &issues[i]
			}
		}
		if dayIssue == nil {
			t.Fatalf("expected vendor_day_mismatch, got %v", kinds(issues))
		}
		if dayIssue.Day != "Friday" || dayIssue.ItemCount != 1 {
			t.Errorf("unexpected issue: %+v", dayIssue)
		}
	})

	t.Run("vendor day mismatch via itemsByDay", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			VendorSelections: []models.VendorSelection{
				{VendorID: "v1", ItemsByDay: map[string]models.ItemQuantities{
					"Monday": {"i1": 1},
					"Friday": {"i1": 2},
				}},
			},
		}
		issues := scanOne(doc, testSnapshot())

		var dayIssue *models.Issue
		for i := range issues {
			if issues[i].Kind == models.IssueVendorDayMismatch {
				if dayIssue != nil {
					t.Fatalf("expected a single day mismatch, got %v", kinds(issues))
				}
				dayIssue = &issues[i]
			}
		}
		if dayIssue == nil {
			t.Fatalf("expected vendor_day_mismatch, got %v", kinds(issues))
		}
		if dayIssue.Day != "Friday" || dayIssue.VendorID != "v1" || dayIssue.ItemCount != 1 {
			t.Errorf("unexpected issue: %+v", dayIssue)
		}
	})

	t.Run("unrestricted vendor never mismatches", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Sunday": {{VendorID: "v2", Items: models.ItemQuantities{"i2": 1}}},
			},
		}
		for _, issue := range scanOne(doc, testSnapshot()) {
			if issue.Kind == models.IssueVendorDayMismatch {
				t.Errorf("unexpected day mismatch for unrestricted vendor: %+v", issue)
			}
		}
	})
}

func TestScanItemIssues(t *testing.T) {
	t.Run("deleted menu item", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			VendorSelections: []models.VendorSelection{
				{VendorID: "v2", Items: models.ItemQuantities{"gone": 1}},
			},
		}
		issues := scanOne(doc, testSnapshot())
		if len(issues) != 1 || issues[0].Kind != models.IssueDeletedMenuItem || issues[0].ItemID != "gone" {
			t.Errorf("expected deleted_menu_item, got %+v", issues)
		}
	})

	t.Run("zeroed-out deleted item is ignored", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			VendorSelections: []models.VendorSelection{
				{VendorID: "v2", Items: models.ItemQuantities{"gone": 0}},
			},
		}
		if issues := scanOne(doc, testSnapshot()); len(issues) != 0 {
			t.Errorf("expected no issues, got %+v", issues)
		}
	})

	t.Run("item day mismatch", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Thursday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 1}}},
			},
		}
		issues := scanOne(doc, testSnapshot())
		if len(issues) != 1 || issues[0].Kind != models.IssueItemDayMismatch {
			t.Errorf("expected item_day_mismatch only, got %+v", issues)
		}
	})

	t.Run("item under foreign vendor skips day check", func(t *testing.T) {
		// i1 belongs to v1; filed under v2 its Monday-only restriction does
		// not apply.
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Sunday": {{VendorID: "v2", Items: models.ItemQuantities{"i1": 1}}},
			},
		}
		for _, issue := range scanOne(doc, testSnapshot()) {
			if issue.Kind == models.IssueItemDayMismatch {
				t.Errorf("expected no day check for foreign-vendor item, got %+v", issue)
			}
		}
	})

	t.Run("day-less reference skips day check", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			VendorSelections: []models.VendorSelection{
				{VendorID: "v1", Items: models.ItemQuantities{"i1": 1}},
			},
		}
		if issues := scanOne(doc, testSnapshot()); len(issues) != 0 {
			t.Errorf("expected no issues for day-less reference, got %+v", issues)
		}
	})
}

func TestScanBoxQuotas(t *testing.T) {
	boxDoc := func(items models.ItemQuantities, qty int) *models.OrderConfiguration {
		return &models.OrderConfiguration{
			ServiceType: models.ServiceBoxes,
			BoxOrders:   []models.BoxOrder{{BoxTypeID: "b1", Quantity: qty, Items: items}},
		}
	}

	t.Run("met quotas produce no issues", func(t *testing.T) {
		// protein target 1 (2 eggs * 0.5), grain target 2 (2 bread * 1).
		doc := boxDoc(models.ItemQuantities{"box1": 2, "box2": 2}, 1)
		if issues := scanOne(doc, testSnapshot()); len(issues) != 0 {
			t.Errorf("expected no issues, got %+v", issues)
		}
	})

	t.Run("shortfall beyond tolerance is flagged", func(t *testing.T) {
		doc := boxDoc(models.ItemQuantities{"box1": 1, "box2": 2}, 1)
		issues := scanOne(doc, testSnapshot())
		if len(issues) != 1 || issues[0].Kind != models.IssueBoxQuotaMismatch {
			t.Fatalf("expected one quota mismatch, got %+v", issues)
		}
		if issues[0].CategoryID != "protein" || issues[0].Required != 1 || issues[0].Actual != 0.5 {
			t.Errorf("unexpected issue: %+v", issues[0])
		}
	})

	t.Run("targets scale with box quantity", func(t *testing.T) {
		// Two boxes double every target; contents sized for one box fail.
		doc := boxDoc(models.ItemQuantities{"box1": 2, "box2": 2}, 2)
		issues := scanOne(doc, testSnapshot())
		if len(issues) != 2 {
			t.Fatalf("expected both categories to mismatch, got %+v", issues)
		}
	})

	t.Run("all-zero box is suppressed", func(t *testing.T) {
		doc := boxDoc(models.ItemQuantities{}, 1)
		if issues := scanOne(doc, testSnapshot()); len(issues) != 0 {
			t.Errorf("expected empty box to be suppressed, got %+v", issues)
		}
	})

	t.Run("vendor items never count toward quotas", func(t *testing.T) {
		// i2 belongs to v2, so it contributes nothing; only box1 counts and
		// leaves grain at zero actual but protein satisfied.
		doc := boxDoc(models.ItemQuantities{"box1": 2, "i2": 5}, 1)
		issues := scanOne(doc, testSnapshot())
		if len(issues) != 1 || issues[0].CategoryID != "grain" {
			t.Errorf("expected only the grain shortfall, got %+v", issues)
		}
	})

	t.Run("explicit quota rows override category set values", func(t *testing.T) {
		snapshot := testSnapshot()
		snapshot.QuotasByBoxType["b1"] = []*models.BoxQuota{
			{BoxTypeID: "b1", CategoryID: "protein", TargetValue: 0.5},
		}
		doc := boxDoc(models.ItemQuantities{"box1": 1}, 1)
		if issues := scanOne(doc, snapshot); len(issues) != 0 {
			t.Errorf("expected explicit quota to be satisfied, got %+v", issues)
		}
	})

	t.Run("non-box services skip quota checks", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			ServiceType: models.ServiceFood,
			BoxOrders:   []models.BoxOrder{{BoxTypeID: "b1", Items: models.ItemQuantities{"box1": 1}}},
		}
		for _, issue := range scanOne(doc, testSnapshot()) {
			if issue.Kind == models.IssueBoxQuotaMismatch {
				t.Errorf("unexpected quota issue on non-box service: %+v", issue)
			}
		}
	})
}

func TestScanAllPropagatesStoreErrors(t *testing.T) {
	repo := newFakeClientRepo()
	repo.failAll = true
	svc := NewValidationService(repo, &fakeCatalogRepo{}, config.DefaultRules(), testLogger())

	if _, err := svc.ScanAll(); err == nil {
		t.Error("expected error from failing client store")
	}
}

// TestScanIsPure verifies two scans without intervening writes produce
// identical issue lists.
func TestScanIsPure(t *testing.T) {
	doc := &models.OrderConfiguration{
		ServiceType: models.ServiceFood,
		DeliveryDayOrders: map[string]models.DayOrder{
			"Friday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 2}}},
			"Monday": {{VendorID: "ghost", Items: models.ItemQuantities{"gone": 1}}},
		},
	}
	snapshot := testSnapshot()

	first := scanOne(doc, snapshot)
	for i := 0; i < 5; i++ {
		if got := scanOne(doc, snapshot); !reflect.DeepEqual(got, first) {
			t.Fatalf("scan %d differed:\n got %+v\nwant %+v", i, got, first)
		}
	}
}

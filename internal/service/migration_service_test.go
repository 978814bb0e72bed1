package service

import (
	"testing"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/config"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
)

func migrationService(clientRepo *fakeClientRepo, orderRepo *fakeOrderRepo, catalogRepo *fakeCatalogRepo) *MigrationService {
	return NewMigrationService(clientRepo, orderRepo, catalogRepo, config.DefaultRules(), testLogger())
}

func migrationCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		vendors: []*models.Vendor{
			{ID: "v1", Name: "Fresh Farm", IsActive: true, DeliveryDays: []string{"Monday", "Thursday"}},
			{ID: "v2", Name: "City Kitchen", IsActive: true},
			{ID: "v3", Name: "Closed Deli", IsActive: false},
		},
		items: []*models.MenuItem{
			{ID: "i1", VendorID: "v1"},
			{ID: "i2", VendorID: "v2"},
		},
		mealTypes: []string{"lunch", "dinner"},
	}
}

func TestBuildCandidates(t *testing.T) {
	t.Run("clients with documents are skipped", func(t *testing.T) {
		clientRepo := newFakeClientRepo(
			&models.Client{ID: "c1", Document: foodDoc()},
			&models.Client{ID: "c2"},
		)
		svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

		candidates, err := svc.BuildCandidates()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 || candidates[0].ClientID != "c2" {
			t.Errorf("expected only the un-migrated client, got %+v", candidates)
		}
	})

	t.Run("scheduled rows take precedence over legacy sources", func(t *testing.T) {
		clientRepo := newFakeClientRepo(&models.Client{
			ID:          "c1",
			LegacyOrder: foodDoc(),
		})
		orderRepo := newFakeOrderRepo()
		orderRepo.scheduled["c1"] = []*models.ScheduledOrder{scheduledFoodOrder("c1")}
		orderRepo.legacy["c1"] = []*models.LegacyOrderRow{
			{ClientID: "c1", VendorID: "v2", ItemID: "i2", Quantity: 1},
		}
		svc := migrationService(clientRepo, orderRepo, migrationCatalog())

		candidates, err := svc.BuildCandidates()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 || candidates[0].Source != "scheduled_orders" {
			t.Fatalf("expected scheduled_orders source, got %+v", candidates)
		}
		if candidates[0].Classification != models.CandidateValid {
			t.Errorf("expected valid classification, got %+v", candidates[0])
		}
		if candidates[0].PreviewJSON == "" {
			t.Error("expected a preview of the proposed document")
		}
	})

	t.Run("legacy order field over legacy table", func(t *testing.T) {
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1", LegacyOrder: foodDoc()})
		orderRepo := newFakeOrderRepo()
		orderRepo.legacy["c1"] = []*models.LegacyOrderRow{
			{ClientID: "c1", VendorID: "v2", ItemID: "i2", Quantity: 1},
		}
		svc := migrationService(clientRepo, orderRepo, migrationCatalog())

		candidates, err := svc.BuildCandidates()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if candidates[0].Source != "legacy_order_field" {
			t.Errorf("expected legacy_order_field source, got %+v", candidates[0])
		}
	})

	t.Run("legacy table as last resort", func(t *testing.T) {
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1"})
		orderRepo := newFakeOrderRepo()
		orderRepo.legacy["c1"] = []*models.LegacyOrderRow{
			{ClientID: "c1", DeliveryDay: "Monday", VendorID: "v1", ItemID: "i1", Quantity: 2},
			{ClientID: "c1", DeliveryDay: "Monday", VendorID: "v1", ItemID: "i1", Quantity: 1},
		}
		svc := migrationService(clientRepo, orderRepo, migrationCatalog())

		candidates, err := svc.BuildCandidates()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		candidate := candidates[0]
		if candidate.Source != "legacy_order_table" {
			t.Fatalf("expected legacy_order_table source, got %+v", candidate)
		}
		monday := candidate.Proposed.DeliveryDayOrders["Monday"]
		if len(monday) != 1 || monday[0].Items["i1"] != 3 {
			t.Errorf("expected same-vendor rows merged additively, got %+v", monday)
		}
	})

	t.Run("no source at all", func(t *testing.T) {
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1"})
		svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

		candidates, err := svc.BuildCandidates()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if candidates[0].Classification != models.CandidateNoOrderData {
			t.Errorf("expected no_order_data, got %+v", candidates[0])
		}
	})
}

func TestCandidateClassification(t *testing.T) {
	legacyDoc := func(day, vendorID string) *models.OrderConfiguration {
		return &models.OrderConfiguration{
			ServiceType: models.ServiceFood,
			DeliveryDayOrders: map[string]models.DayOrder{
				day: {{VendorID: vendorID, Items: models.ItemQuantities{"i1": 1}}},
			},
		}
	}

	tests := []struct {
		name     string
		doc      *models.OrderConfiguration
		want     string
		wantDay  string
		wantAlts []string
	}{
		{
			name: "valid",
			doc:  legacyDoc("Monday", "v1"),
			want: models.CandidateValid,
		},
		{
			name:     "invalid day with alternatives",
			doc:      legacyDoc("Friday", "v1"),
			want:     models.CandidateInvalidDay,
			wantDay:  "Friday",
			wantAlts: []string{"Monday", "Thursday"},
		},
		{
			name: "missing vendor",
			doc:  legacyDoc("Monday", "ghost"),
			want: models.CandidateMissingVendor,
		},
		{
			name: "inactive vendor",
			doc:  legacyDoc("Monday", "v3"),
			want: models.CandidateInvalidVendor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientRepo := newFakeClientRepo(&models.Client{ID: "c1", LegacyOrder: tt.doc})
			svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

			candidates, err := svc.BuildCandidates()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			candidate := candidates[0]
			if candidate.Classification != tt.want {
				t.Fatalf("expected %s, got %+v", tt.want, candidate)
			}
			if candidate.InvalidDay != tt.wantDay {
				t.Errorf("expected invalid day %q, got %q", tt.wantDay, candidate.InvalidDay)
			}
			if len(tt.wantAlts) > 0 {
				if len(candidate.AlternativeDays) != len(tt.wantAlts) {
					t.Fatalf("expected alternatives %v, got %v", tt.wantAlts, candidate.AlternativeDays)
				}
				for i, day := range tt.wantAlts {
					if candidate.AlternativeDays[i] != day {
						t.Errorf("expected alternatives %v, got %v", tt.wantAlts, candidate.AlternativeDays)
						break
					}
				}
			}
		})
	}

	t.Run("classification runs with the configured rules", func(t *testing.T) {
		rules := config.Rules{QuotaTolerance: 0.2, FallbackMealTypes: []string{"supper"}}
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1", LegacyOrder: legacyDoc("Monday", "v1")})
		svc := NewMigrationService(clientRepo, newFakeOrderRepo(), migrationCatalog(), rules, testLogger())

		candidates, err := svc.BuildCandidates()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if candidates[0].Classification != models.CandidateValid {
			t.Errorf("expected valid candidate, got %+v", candidates[0])
		}
	})
}

func TestMigrate(t *testing.T) {
	t.Run("valid candidate commits the proposed document", func(t *testing.T) {
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1", LegacyOrder: foodDoc()})
		svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

		result, err := svc.Migrate("c1", models.MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success, got %+v", result)
		}
		written := clientRepo.written["c1"]
		if written == nil || len(written.DeliveryDayOrders["Monday"]) != 1 {
			t.Errorf("unexpected committed document: %+v", written)
		}
	})

	t.Run("already migrated client fails", func(t *testing.T) {
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1", Document: foodDoc()})
		svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

		result, err := svc.Migrate("c1", models.MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Success {
			t.Errorf("expected failure, got %+v", result)
		}
	})

	t.Run("invalid day requires a replacement", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			ServiceType: models.ServiceFood,
			DeliveryDayOrders: map[string]models.DayOrder{
				"Friday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 1}}},
			},
		}
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1", LegacyOrder: doc})
		svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

		result, err := svc.Migrate("c1", models.MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Success {
			t.Fatalf("expected failure without replacement day, got %+v", result)
		}

		result, err = svc.Migrate("c1", models.MigrateOptions{
			ReplaceDay: &models.DayReplacement{FromDay: "Friday", ToDay: "Monday"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success with replacement, got %+v", result)
		}

		written := clientRepo.written["c1"]
		if _, ok := written.DeliveryDayOrders["Friday"]; ok {
			t.Error("expected invalid day rewritten")
		}
		if len(written.DeliveryDayOrders["Monday"]) != 1 {
			t.Errorf("expected selections on replacement day, got %+v", written.DeliveryDayOrders)
		}
	})

	t.Run("invalid vendor is never eligible", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			ServiceType: models.ServiceFood,
			DeliveryDayOrders: map[string]models.DayOrder{
				"Monday": {{VendorID: "ghost", Items: models.ItemQuantities{"i1": 1}}},
			},
		}
		clientRepo := newFakeClientRepo(&models.Client{ID: "c1", LegacyOrder: doc})
		svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

		result, err := svc.Migrate("c1", models.MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Success || len(clientRepo.written) != 0 {
			t.Errorf("expected ineligible candidate rejected with no write, got %+v", result)
		}
	})
}

func TestReplaceDay(t *testing.T) {
	t.Run("merges into existing destination day", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Friday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 1}}},
				"Monday": {{VendorID: "v2", Items: models.ItemQuantities{"i2": 2}}},
			},
		}
		replaceDay(doc, "Friday", "Monday")

		if _, ok := doc.DeliveryDayOrders["Friday"]; ok {
			t.Error("expected source day removed")
		}
		if len(doc.DeliveryDayOrders["Monday"]) != 2 {
			t.Errorf("expected selections appended, got %+v", doc.DeliveryDayOrders["Monday"])
		}
	})

	t.Run("rewrites itemsByDay keys", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			VendorSelections: []models.VendorSelection{
				{VendorID: "v1", ItemsByDay: map[string]models.ItemQuantities{
					"Friday": {"i1": 1},
					"Monday": {"i1": 2},
				}},
			},
		}
		replaceDay(doc, "Friday", "Monday")

		byDay := doc.VendorSelections[0].ItemsByDay
		if _, ok := byDay["Friday"]; ok {
			t.Error("expected source day removed")
		}
		if byDay["Monday"]["i1"] != 3 {
			t.Errorf("expected quantities merged, got %+v", byDay)
		}
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		doc := &models.OrderConfiguration{
			DeliveryDayOrders: map[string]models.DayOrder{
				"Monday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 1}}},
			},
		}
		replaceDay(doc, "Monday", "Monday")
		if len(doc.DeliveryDayOrders["Monday"]) != 1 {
			t.Errorf("expected document unchanged, got %+v", doc.DeliveryDayOrders)
		}
	})
}

func TestMigrateBatch(t *testing.T) {
	invalidDayDoc := &models.OrderConfiguration{
		ServiceType: models.ServiceFood,
		DeliveryDayOrders: map[string]models.DayOrder{
			"Friday": {{VendorID: "v1", Items: models.ItemQuantities{"i1": 1}}},
		},
	}
	clientRepo := newFakeClientRepo(
		&models.Client{ID: "c1", LegacyOrder: foodDoc()},
		&models.Client{ID: "c2", LegacyOrder: invalidDayDoc},
		&models.Client{ID: "c3"},
	)
	svc := migrationService(clientRepo, newFakeOrderRepo(), migrationCatalog())

	batch, err := svc.MigrateBatch([]models.BatchItem{
		{ClientID: "c1"},
		{ClientID: "c2", NewDay: "Thursday"},
		{ClientID: "c3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if batch.Total != 3 || batch.Succeeded != 2 || batch.Failed != 1 {
		t.Errorf("unexpected counts: %+v", batch)
	}
	if !batch.Results[0].Success || !batch.Results[1].Success || batch.Results[2].Success {
		t.Errorf("unexpected per-item outcomes: %+v", batch.Results)
	}

	// The batch day replacement rewrote the invalid day before commit.
	written := clientRepo.written["c2"]
	if written == nil || len(written.DeliveryDayOrders["Thursday"]) != 1 {
		t.Errorf("expected c2 migrated onto Thursday, got %+v", written)
	}
}

// Package catalog loads the reference data (vendors, menu items, categories,
// box quotas, meal types) into lookup structures shared by the validator,
// resolver and migration builder. A snapshot is a point-in-time read; callers
// that validate again after a write must reload.
package catalog

import (
	"time"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/config"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/normalizer"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/repositories"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

// Snapshot holds one reconciliation pass's view of the reference catalog.
type Snapshot struct {
	Vendors         map[string]*models.Vendor
	Items           map[string]*models.MenuItem
	Categories      map[string]*models.Category
	QuotasByBoxType map[string][]*models.BoxQuota
	MealTypes       []string
	LoadedAt        time.Time
}

// Load builds a snapshot in one read pass. An absent box-quota table degrades
// to no box validation; an absent meal-type taxonomy falls back to the
// configured meal types.
func Load(repo repositories.CatalogRepositoryInterface, rules config.Rules, log *logger.Logger) (*Snapshot, error) {
	log = log.WithComponent("catalog_snapshot")

	vendors, err := repo.GetVendors()
	if err != nil {
		return nil, err
	}
	items, err := repo.GetMenuItems()
	if err != nil {
		return nil, err
	}
	categories, err := repo.GetCategories()
	if err != nil {
		return nil, err
	}
	quotas, err := repo.GetBoxQuotas()
	if err != nil {
		return nil, err
	}
	mealTypes, err := repo.GetMealTypes()
	if err != nil {
		return nil, err
	}
	if len(mealTypes) == 0 {
		mealTypes = rules.FallbackMealTypes
	}

	snapshot := &Snapshot{
		Vendors:         make(map[string]*models.Vendor, len(vendors)),
		Items:           make(map[string]*models.MenuItem, len(items)),
		Categories:      make(map[string]*models.Category, len(categories)),
		QuotasByBoxType: make(map[string][]*models.BoxQuota),
		MealTypes:       mealTypes,
		LoadedAt:        time.Now(),
	}
	for _, vendor := range vendors {
		snapshot.Vendors[vendor.ID] = vendor
	}
	for _, item := range items {
		snapshot.Items[item.ID] = item
	}
	for _, category := range categories {
		snapshot.Categories[category.ID] = category
	}
	for _, quota := range quotas {
		snapshot.QuotasByBoxType[quota.BoxTypeID] = append(snapshot.QuotasByBoxType[quota.BoxTypeID], quota)
	}

	log.Info("Loaded reference catalog snapshot",
		"vendors", len(snapshot.Vendors),
		"menu_items", len(snapshot.Items),
		"categories", len(snapshot.Categories),
		"box_types_with_quotas", len(snapshot.QuotasByBoxType),
		"meal_types", len(snapshot.MealTypes))
	return snapshot, nil
}

// IsValidMealType matches a raw document meal key against the taxonomy. The
// key is valid when it equals a known meal type after suffix stripping, or
// when it extends a known meal type with an underscore.
func (s *Snapshot) IsValidMealType(rawKey string) bool {
	stripped := normalizer.StripMealSuffix(rawKey)
	for _, mealType := range s.MealTypes {
		if stripped == mealType || rawKey == mealType {
			return true
		}
		if len(rawKey) > len(mealType)+1 && rawKey[:len(mealType)+1] == mealType+"_" {
			return true
		}
	}
	return false
}

// HasQuotaRules reports whether explicit quota rows exist for a box type.
func (s *Snapshot) HasQuotaRules(boxTypeID string) bool {
	return len(s.QuotasByBoxType[boxTypeID]) > 0
}

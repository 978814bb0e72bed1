package repositories

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/database"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type CatalogRepositoryInterface interface {
	GetVendors() ([]*models.Vendor, error)
	GetMenuItems() ([]*models.MenuItem, error)
	GetCategories() ([]*models.Category, error)
	GetBoxQuotas() ([]*models.BoxQuota, error)
	GetMealTypes() ([]string, error)
}

type CatalogRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewCatalogRepository(logger *logger.Logger, db *database.DB) *CatalogRepository {
	return &CatalogRepository{
		logger: logger.WithComponent("catalog_repository"),
		db:     db,
	}
}

// GetVendors retrieves all vendors with their delivery-day sets.
func (r *CatalogRepository) GetVendors() ([]*models.Vendor, error) {
	r.logger.Debug("Retrieving vendors from database")

	query := `
		SELECT id, name, is_active, COALESCE(delivery_days, '{}')
		FROM vendors
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to query vendors", "error", err)
		return nil, fmt.Errorf("failed to query vendors: %v", err)
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		vendor := &models.Vendor{}
		err := rows.Scan(
			&vendor.ID,
			&vendor.Name,
			&vendor.IsActive,
			pq.Array(&vendor.DeliveryDays),
		)
		if err != nil {
			r.logger.Error("Failed to scan vendor row", "error", err)
			return nil, fmt.Errorf("failed to scan vendor row: %v", err)
		}
		vendors = append(vendors, vendor)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating vendor rows", "error", err)
		return nil, fmt.Errorf("error iterating vendor rows: %v", err)
	}

	r.logger.Info("Retrieved vendors", "count", len(vendors))
	return vendors, nil
}

// GetMenuItems retrieves all menu items including their quota values and both
// price fields.
func (r *CatalogRepository) GetMenuItems() ([]*models.MenuItem, error) {
	r.logger.Debug("Retrieving menu items from database")

	query := `
		SELECT id, name, COALESCE(vendor_id, ''), COALESCE(category_id, ''),
		       allowed_days, COALESCE(quota_value, 0), price, value
		FROM menu_items
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to query menu items", "error", err)
		return nil, fmt.Errorf("failed to query menu items: %v", err)
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.VendorID,
			&item.CategoryID,
			pq.Array(&item.AllowedDays),
			&item.QuotaValue,
			&item.Price,
			&item.LegacyValue,
		)
		if err != nil {
			r.logger.Error("Failed to scan menu item row", "error", err)
			return nil, fmt.Errorf("failed to scan menu item row: %v", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating menu item rows", "error", err)
		return nil, fmt.Errorf("error iterating menu item rows: %v", err)
	}

	r.logger.Info("Retrieved menu items", "count", len(items))
	return items, nil
}

// GetCategories retrieves all categories with their optional mandatory set
// values.
func (r *CatalogRepository) GetCategories() ([]*models.Category, error) {
	r.logger.Debug("Retrieving categories from database")

	query := `
		SELECT id, name, set_value
		FROM categories
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to query categories", "error", err)
		return nil, fmt.Errorf("failed to query categories: %v", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.SetValue); err != nil {
			r.logger.Error("Failed to scan category row", "error", err)
			return nil, fmt.Errorf("failed to scan category row: %v", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating category rows", "error", err)
		return nil, fmt.Errorf("error iterating category rows: %v", err)
	}

	r.logger.Info("Retrieved categories", "count", len(categories))
	return categories, nil
}

// GetBoxQuotas retrieves the box quota rules. The table is optional
// infrastructure; deployments without it get no box validation instead of an
// error.
func (r *CatalogRepository) GetBoxQuotas() ([]*models.BoxQuota, error) {
	r.logger.Debug("Retrieving box quotas from database")

	query := `
		SELECT box_type_id, category_id, target_value
		FROM box_quotas
		ORDER BY box_type_id, category_id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		if isMissingTable(err) {
			r.logger.Warn("Box quota table not present, box validation disabled")
			return nil, nil
		}
		r.logger.Error("Failed to query box quotas", "error", err)
		return nil, fmt.Errorf("failed to query box quotas: %v", err)
	}
	defer rows.Close()

	var quotas []*models.BoxQuota
	for rows.Next() {
		quota := &models.BoxQuota{}
		if err := rows.Scan(&quota.BoxTypeID, &quota.CategoryID, &quota.TargetValue); err != nil {
			r.logger.Error("Failed to scan box quota row", "error", err)
			return nil, fmt.Errorf("failed to scan box quota row: %v", err)
		}
		quotas = append(quotas, quota)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating box quota rows", "error", err)
		return nil, fmt.Errorf("error iterating box quota rows: %v", err)
	}

	r.logger.Info("Retrieved box quotas", "count", len(quotas))
	return quotas, nil
}

// GetMealTypes retrieves the distinct meal types in use. Like box quotas, the
// taxonomy table may not exist in every deployment.
func (r *CatalogRepository) GetMealTypes() ([]string, error) {
	r.logger.Debug("Retrieving meal types from database")

	query := `
		SELECT DISTINCT name
		FROM meal_types
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		if isMissingTable(err) {
			r.logger.Warn("Meal type table not present, falling back to configured meal types")
			return nil, nil
		}
		r.logger.Error("Failed to query meal types", "error", err)
		return nil, fmt.Errorf("failed to query meal types: %v", err)
	}
	defer rows.Close()

	var mealTypes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			r.logger.Error("Failed to scan meal type row", "error", err)
			return nil, fmt.Errorf("failed to scan meal type row: %v", err)
		}
		mealTypes = append(mealTypes, name)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating meal type rows", "error", err)
		return nil, fmt.Errorf("error iterating meal type rows: %v", err)
	}

	r.logger.Info("Retrieved meal types", "count", len(mealTypes))
	return mealTypes, nil
}

func isMissingTable(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "42P01" // undefined_table
	}
	return strings.Contains(err.Error(), "does not exist")
}

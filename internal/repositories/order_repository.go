package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/database"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type OrderRepositoryInterface interface {
	ListScheduled(clientID string) ([]*models.ScheduledOrder, error)
	ReplaceScheduled(clientID string, orders []*models.ScheduledOrder) error
	CancelScheduled(clientID string) error
	GetLegacyRows(clientID string) ([]*models.LegacyOrderRow, error)
}

type OrderRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewOrderRepository(logger *logger.Logger, db *database.DB) *OrderRepository {
	return &OrderRepository{
		logger: logger.WithComponent("order_repository"),
		db:     db,
	}
}

// ListScheduled retrieves the client's scheduled order headers with their
// selection and item rows. Row ordering is stable so repeated reads of an
// unchanged store reconstruct identical documents.
func (r *OrderRepository) ListScheduled(clientID string) ([]*models.ScheduledOrder, error) {
	r.logger.Debug("Retrieving scheduled orders", "client_id", clientID)

	query := `
		SELECT id, client_id, service_type, COALESCE(delivery_day, ''), status,
		       COALESCE(notes, ''), created_at, updated_at
		FROM orders
		WHERE client_id = $1 AND status = $2
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(query, clientID, models.StatusScheduled)
	if err != nil {
		r.logger.Error("Failed to query scheduled orders", "error", err, "client_id", clientID)
		return nil, fmt.Errorf("failed to query scheduled orders: %v", err)
	}
	defer rows.Close()

	var orders []*models.ScheduledOrder
	for rows.Next() {
		order := &models.ScheduledOrder{}
		err := rows.Scan(
			&order.ID,
			&order.ClientID,
			&order.ServiceType,
			&order.DeliveryDay,
			&order.Status,
			&order.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan order row", "error", err)
			return nil, fmt.Errorf("failed to scan order row: %v", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating order rows", "error", err)
		return nil, fmt.Errorf("error iterating order rows: %v", err)
	}

	for _, order := range orders {
		if err := r.loadSelections(order); err != nil {
			return nil, err
		}
	}

	r.logger.Info("Retrieved scheduled orders", "client_id", clientID, "count", len(orders))
	return orders, nil
}

func (r *OrderRepository) loadSelections(order *models.ScheduledOrder) error {
	query := `
		SELECT id, order_id, COALESCE(vendor_id, ''), COALESCE(meal_type, ''),
		       COALESCE(box_type_id, ''), COALESCE(box_quantity, 0)
		FROM order_selections
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(query, order.ID)
	if err != nil {
		r.logger.Error("Failed to query order selections", "error", err, "order_id", order.ID)
		return fmt.Errorf("failed to query order selections: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		sel := &models.OrderSelection{}
		err := rows.Scan(
			&sel.ID,
			&sel.OrderID,
			&sel.VendorID,
			&sel.MealType,
			&sel.BoxTypeID,
			&sel.BoxQuantity,
		)
		if err != nil {
			r.logger.Error("Failed to scan selection row", "error", err)
			return fmt.Errorf("failed to scan selection row: %v", err)
		}
		order.Selections = append(order.Selections, sel)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating selection rows: %v", err)
	}

	for _, sel := range order.Selections {
		if err := r.loadLines(sel); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) loadLines(sel *models.OrderSelection) error {
	query := `
		SELECT id, selection_id, item_id, quantity, COALESCE(note, '')
		FROM order_items
		WHERE selection_id = $1
		ORDER BY item_id, id
	`

	rows, err := r.db.Query(query, sel.ID)
	if err != nil {
		r.logger.Error("Failed to query order items", "error", err, "selection_id", sel.ID)
		return fmt.Errorf("failed to query order items: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		line := &models.OrderLine{}
		if err := rows.Scan(&line.ID, &line.SelectionID, &line.ItemID, &line.Quantity, &line.Note); err != nil {
			r.logger.Error("Failed to scan order item row", "error", err)
			return fmt.Errorf("failed to scan order item row: %v", err)
		}
		sel.Items = append(sel.Items, line)
	}
	return rows.Err()
}

// ReplaceScheduled atomically replaces the client's scheduled orders with the
// given set: existing scheduled headers are deleted with their selection and
// item rows, then the new rows are inserted. Missing row ids are assigned
// here.
func (r *OrderRepository) ReplaceScheduled(clientID string, orders []*models.ScheduledOrder) error {
	r.logger.Debug("Replacing scheduled orders", "client_id", clientID, "count", len(orders))

	err := r.db.ExecuteInTransaction(func(tx *sql.Tx) error {
		if err := r.deleteScheduled(tx, clientID); err != nil {
			return err
		}

		now := time.Now()
		for _, order := range orders {
			if order.ID == "" {
				order.ID = uuid.New().String()
			}
			order.ClientID = clientID
			order.Status = models.StatusScheduled
			order.CreatedAt = now
			order.UpdatedAt = now

			if err := r.insertOrder(tx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Replaced scheduled orders", "client_id", clientID, "count", len(orders))
	return nil
}

func (r *OrderRepository) deleteScheduled(tx *sql.Tx, clientID string) error {
	queries := []string{
		`DELETE FROM order_items WHERE selection_id IN (
			SELECT s.id FROM order_selections s
			JOIN orders o ON o.id = s.order_id
			WHERE o.client_id = $1 AND o.status = $2
		)`,
		`DELETE FROM order_selections WHERE order_id IN (
			SELECT id FROM orders WHERE client_id = $1 AND status = $2
		)`,
		`DELETE FROM orders WHERE client_id = $1 AND status = $2`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, clientID, models.StatusScheduled); err != nil {
			r.logger.Error("Failed to delete scheduled rows", "error", err, "client_id", clientID)
			return fmt.Errorf("failed to delete scheduled rows: %v", err)
		}
	}
	return nil
}

func (r *OrderRepository) insertOrder(tx *sql.Tx, order *models.ScheduledOrder) error {
	query := `
		INSERT INTO orders (id, client_id, service_type, delivery_day, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(query,
		order.ID, order.ClientID, order.ServiceType, order.DeliveryDay,
		order.Status, order.Notes, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert order header", "error", err, "order_id", order.ID)
		return fmt.Errorf("failed to insert order header: %v", err)
	}

	for _, sel := range order.Selections {
		if sel.ID == "" {
			sel.ID = uuid.New().String()
		}
		sel.OrderID = order.ID

		selQuery := `
			INSERT INTO order_selections (id, order_id, vendor_id, meal_type, box_type_id, box_quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.Exec(selQuery, sel.ID, sel.OrderID, sel.VendorID, sel.MealType, sel.BoxTypeID, sel.BoxQuantity)
		if err != nil {
			r.logger.Error("Failed to insert order selection", "error", err, "selection_id", sel.ID)
			return fmt.Errorf("failed to insert order selection: %v", err)
		}

		for _, line := range sel.Items {
			if line.ID == "" {
				line.ID = uuid.New().String()
			}
			line.SelectionID = sel.ID

			lineQuery := `
				INSERT INTO order_items (id, selection_id, item_id, quantity, note)
				VALUES ($1, $2, $3, $4, $5)
			`
			_, err := tx.Exec(lineQuery, line.ID, line.SelectionID, line.ItemID, line.Quantity, line.Note)
			if err != nil {
				r.logger.Error("Failed to insert order item", "error", err, "item_id", line.ItemID)
				return fmt.Errorf("failed to insert order item: %v", err)
			}
		}
	}
	return nil
}

// CancelScheduled transitions every scheduled header of the client to
// cancelled. Rows are kept; cancellation preserves history.
func (r *OrderRepository) CancelScheduled(clientID string) error {
	r.logger.Debug("Cancelling scheduled orders", "client_id", clientID)

	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE client_id = $3 AND status = $4
	`

	result, err := r.db.Exec(query, models.StatusCancelled, time.Now(), clientID, models.StatusScheduled)
	if err != nil {
		r.logger.Error("Failed to cancel scheduled orders", "error", err, "client_id", clientID)
		return fmt.Errorf("failed to cancel scheduled orders: %v", err)
	}

	cancelled, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}

	r.logger.Info("Cancelled scheduled orders", "client_id", clientID, "count", cancelled)
	return nil
}

// GetLegacyRows retrieves the client's rows from the flat legacy order table,
// the last-resort migration source. The table may not exist in every
// deployment.
func (r *OrderRepository) GetLegacyRows(clientID string) ([]*models.LegacyOrderRow, error) {
	r.logger.Debug("Retrieving legacy order rows", "client_id", clientID)

	query := `
		SELECT client_id, COALESCE(service_type, ''), COALESCE(delivery_day, ''),
		       COALESCE(vendor_id, ''), item_id, quantity
		FROM legacy_orders
		WHERE client_id = $1
		ORDER BY delivery_day, vendor_id, item_id
	`

	rows, err := r.db.Query(query, clientID)
	if err != nil {
		if isMissingTable(err) {
			r.logger.Warn("Legacy order table not present", "client_id", clientID)
			return nil, nil
		}
		r.logger.Error("Failed to query legacy order rows", "error", err, "client_id", clientID)
		return nil, fmt.Errorf("failed to query legacy order rows: %v", err)
	}
	defer rows.Close()

	var legacy []*models.LegacyOrderRow
	for rows.Next() {
		row := &models.LegacyOrderRow{}
		err := rows.Scan(&row.ClientID, &row.ServiceType, &row.DeliveryDay, &row.VendorID, &row.ItemID, &row.Quantity)
		if err != nil {
			r.logger.Error("Failed to scan legacy order row", "error", err)
			return nil, fmt.Errorf("failed to scan legacy order row: %v", err)
		}
		legacy = append(legacy, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy order rows: %v", err)
	}

	r.logger.Info("Retrieved legacy order rows", "client_id", clientID, "count", len(legacy))
	return legacy, nil
}

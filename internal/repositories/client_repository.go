package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/database"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type ClientRepositoryInterface interface {
	GetAll() ([]*models.Client, error)
	GetByID(id string) (*models.Client, error)
	ReplaceDocument(clientID string, doc *models.OrderConfiguration) error
}

type ClientRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewClientRepository(logger *logger.Logger, db *database.DB) *ClientRepository {
	return &ClientRepository{
		logger: logger.WithComponent("client_repository"),
		db:     db,
	}
}

// GetAll retrieves every client with its order document and legacy order field.
func (r *ClientRepository) GetAll() ([]*models.Client, error) {
	r.logger.Debug("Retrieving all clients from database")

	query := `
		SELECT id, name, document, legacy_order
		FROM clients
		ORDER BY name, id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to query clients", "error", err)
		return nil, fmt.Errorf("failed to query clients: %v", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows.Scan)
		if err != nil {
			r.logger.Error("Failed to scan client row", "error", err)
			return nil, fmt.Errorf("failed to scan client row: %v", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating client rows", "error", err)
		return nil, fmt.Errorf("error iterating client rows: %v", err)
	}

	r.logger.Info("Retrieved all clients", "count", len(clients))
	return clients, nil
}

// GetByID retrieves a single client by ID.
func (r *ClientRepository) GetByID(id string) (*models.Client, error) {
	r.logger.Debug("Retrieving client from database", "client_id", id)

	query := `
		SELECT id, name, document, legacy_order
		FROM clients
		WHERE id = $1
	`

	client, err := scanClient(r.db.QueryRow(query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Client not found", "client_id", id)
			return nil, fmt.Errorf("client with id %s not found", id)
		}
		r.logger.Error("Failed to retrieve client", "error", err, "client_id", id)
		return nil, fmt.Errorf("failed to retrieve client: %v", err)
	}

	return client, nil
}

// ReplaceDocument overwrites the client's whole order document. Last write
// wins; there is no per-client locking around document writes.
func (r *ClientRepository) ReplaceDocument(clientID string, doc *models.OrderConfiguration) error {
	r.logger.Debug("Replacing client document", "client_id", clientID)

	if doc == nil {
		doc = &models.OrderConfiguration{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		r.logger.Error("Failed to marshal client document", "error", err, "client_id", clientID)
		return fmt.Errorf("failed to marshal client document: %v", err)
	}

	query := `UPDATE clients SET document = $1 WHERE id = $2`

	result, err := r.db.Exec(query, data, clientID)
	if err != nil {
		r.logger.Error("Failed to replace client document", "error", err, "client_id", clientID)
		return fmt.Errorf("failed to replace client document: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "client_id", clientID)
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to replace document of non-existent client", "client_id", clientID)
		return fmt.Errorf("client with id %s not found", clientID)
	}

	r.logger.Info("Replaced client document", "client_id", clientID)
	return nil
}

func scanClient(scan func(...any) error) (*models.Client, error) {
	client := &models.Client{}
	var document, legacyOrder []byte
	if err := scan(&client.ID, &client.Name, &document, &legacyOrder); err != nil {
		return nil, err
	}
	client.Document = decodeDocument(document)
	client.LegacyOrder = decodeDocument(legacyOrder)
	return client, nil
}

// decodeDocument parses a stored jsonb document. Malformed content decodes to
// an empty document rather than failing the read; absent content stays nil.
func decodeDocument(data []byte) *models.OrderConfiguration {
	if len(data) == 0 {
		return nil
	}
	doc := &models.OrderConfiguration{}
	_ = json.Unmarshal(data, doc)
	return doc
}

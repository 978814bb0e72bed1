package service

import (
	"fmt"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/normalizer"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/repositories"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

type ReconciliationServiceInterface interface {
	Detect() ([]models.Discrepancy, error)
	Resolve(clientID, strategy string) (models.Result, error)
	ResolveBatch(items []models.BatchItem) (models.BatchResult, error)
}

// ReconciliationService compares each client's denormalized document against
// its scheduled normalized rows and executes the chosen resolution direction.
type ReconciliationService struct {
	clientRepo repositories.ClientRepositoryInterface
	orderRepo  repositories.OrderRepositoryInterface
	logger     *logger.Logger
}

func NewReconciliationService(clientRepo repositories.ClientRepositoryInterface, orderRepo repositories.OrderRepositoryInterface, logger *logger.Logger) *ReconciliationService {
	return &ReconciliationService{
		clientRepo: clientRepo,
		orderRepo:  orderRepo,
		logger:     logger.WithComponent("reconciliation_service"),
	}
}

// Detect computes the discrepancy state of every client from current store
// state. Nothing is persisted; a discrepancy ceases to exist on the next pass
// once resolved.
func (s *ReconciliationService) Detect() ([]models.Discrepancy, error) {
	clients, err := s.clientRepo.GetAll()
	if err != nil {
		return nil, err
	}

	var discrepancies []models.Discrepancy
	for _, client := range clients {
		orders, err := s.orderRepo.ListScheduled(client.ID)
		if err != nil {
			return nil, err
		}

		kind := classify(client.Document, orders)
		if kind == "" {
			continue
		}
		discrepancies = append(discrepancies, models.Discrepancy{
			ClientID:   client.ID,
			ClientName: client.Name,
			Kind:       kind,
			Document:   client.Document,
			Orders:     orders,
		})
	}

	s.logger.Info("Discrepancy detection completed", "clients", len(clients), "discrepancies", len(discrepancies))
	return discrepancies, nil
}

// classify returns the discrepancy kind, or empty for in_sync (which is not
// reported). When both representations exist, the relational side must carry a
// complete selection-with-items row set for every header's service type;
// otherwise the pair is downgraded to a forced resync from the document side.
func classify(doc *models.OrderConfiguration, orders []*models.ScheduledOrder) string {
	hasDocument := doc != nil && !doc.IsEmpty()
	hasOrders := len(orders) > 0

	switch {
	case hasDocument && !hasOrders:
		return models.DiscrepancyActiveOrderOnly
	case !hasDocument && hasOrders:
		return models.DiscrepancyUpcomingOrdersOnly
	case !hasDocument && !hasOrders:
		return ""
	}

	for _, order := range orders {
		if !orderComplete(order) {
			return models.DiscrepancyBothExistMismatch
		}
	}
	return ""
}

func orderComplete(order *models.ScheduledOrder) bool {
	switch order.ServiceType {
	case models.ServiceCustom:
		return true
	case models.ServiceBoxes:
		for _, sel := range order.Selections {
			if sel.BoxTypeID != "" && len(sel.Items) > 0 {
				return true
			}
		}
		return false
	default:
		for _, sel := range order.Selections {
			if sel.VendorID != "" && len(sel.Items) > 0 {
				return true
			}
		}
		return false
	}
}

// Resolve executes one resolution strategy for one client.
func (s *ReconciliationService) Resolve(clientID, strategy string) (models.Result, error) {
	s.logger.Info("Resolving discrepancy", "client_id", clientID, "strategy", strategy)

	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return failure("client %s not found", clientID), nil
	}

	switch strategy {
	case models.ResolveUseActiveOrder:
		return s.useActiveOrder(client)
	case models.ResolveUseUpcomingOrders:
		return s.useUpcomingOrders(client)
	case models.ResolveClearBoth:
		return s.clearBoth(client)
	default:
		return failure("unknown resolution strategy %q", strategy), nil
	}
}

// useActiveOrder rewrites the scheduled rows from the document. The document
// is checked for usable data before anything is written; an insufficient
// document fails fast with no partial write.
func (s *ReconciliationService) useActiveOrder(client *models.Client) (models.Result, error) {
	doc := client.Document
	if reason := insufficiencyReason(doc); reason != "" {
		s.logger.Warn("Document has insufficient data for resync", "client_id", client.ID, "reason", reason)
		return models.Result{Success: false, Error: reason}, nil
	}

	orders := normalizer.ToOrders(client.ID, doc)
	if err := s.orderRepo.ReplaceScheduled(client.ID, orders); err != nil {
		return models.Result{}, err
	}

	s.logger.Info("Rebuilt scheduled orders from document", "client_id", client.ID, "orders", len(orders))
	return models.Result{Success: true, Message: fmt.Sprintf("created %d scheduled orders from the active order", len(orders))}, nil
}

// insufficiencyReason validates that the document contains enough data to be
// useful for a resync, per service type. Empty means sufficient.
func insufficiencyReason(doc *models.OrderConfiguration) string {
	if doc == nil || doc.IsEmpty() {
		return "No order data found"
	}

	switch doc.ServiceType {
	case models.ServiceBoxes:
		if !hasTypedBoxOrder(doc) {
			return "No box orders found"
		}
	case models.ServiceMeal:
		switch doc.Shape() {
		case models.ShapeMealSelections:
			if !hasPositiveMealItems(doc) {
				return "No meal selections with items found"
			}
		case models.ShapeEmpty:
			return "No order data found"
		}
	case models.ServiceCustom:
		if doc.Shape() != models.ShapeCustom {
			return "No description found"
		}
	default:
		if len(normalizer.Normalize(doc)) == 0 {
			return "No order data found"
		}
	}

	if len(normalizer.ToOrders("", doc)) == 0 {
		return "No order data found"
	}
	return ""
}

// hasTypedBoxOrder requires at least one effective box that names a box type;
// a box entry with items but no type cannot be rebuilt into selection rows.
func hasTypedBoxOrder(doc *models.OrderConfiguration) bool {
	for _, box := range doc.EffectiveBoxOrders() {
		if box.BoxTypeID != "" {
			return true
		}
	}
	return false
}

func hasPositiveMealItems(doc *models.OrderConfiguration) bool {
	for _, sel := range doc.MealSelections {
		for _, qty := range sel.Items {
			if qty > 0 {
				return true
			}
		}
	}
	return false
}

// useUpcomingOrders reconstructs the document from the scheduled rows and
// overwrites the client's existing one. Re-running with no intervening change
// produces an identical document.
func (s *ReconciliationService) useUpcomingOrders(client *models.Client) (models.Result, error) {
	orders, err := s.orderRepo.ListScheduled(client.ID)
	if err != nil {
		return models.Result{}, err
	}
	if len(orders) == 0 {
		return failure("client %s has no scheduled orders", client.ID), nil
	}

	doc := normalizer.FromOrders(orders)
	if err := s.clientRepo.ReplaceDocument(client.ID, doc); err != nil {
		return models.Result{}, err
	}

	s.logger.Info("Rebuilt document from scheduled orders", "client_id", client.ID, "orders", len(orders))
	return models.Result{Success: true, Message: fmt.Sprintf("rebuilt the active order from %d scheduled orders", len(orders))}, nil
}

// clearBoth empties the document and cancels every scheduled header.
// Cancellation is a status transition; history is preserved.
func (s *ReconciliationService) clearBoth(client *models.Client) (models.Result, error) {
	if err := s.clientRepo.ReplaceDocument(client.ID, &models.OrderConfiguration{}); err != nil {
		return models.Result{}, err
	}
	if err := s.orderRepo.CancelScheduled(client.ID); err != nil {
		return models.Result{}, err
	}

	s.logger.Info("Cleared both order representations", "client_id", client.ID)
	return models.Result{Success: true, Message: "cleared the active order and cancelled scheduled orders"}, nil
}

// ResolveBatch applies resolutions strictly one client at a time. A failed
// client is recorded and does not block the remaining clients; re-running the
// batch is idempotent per client because each unit fully replaces its own
// target state.
func (s *ReconciliationService) ResolveBatch(items []models.BatchItem) (models.BatchResult, error) {
	batch := models.BatchResult{Total: len(items)}

	for i, item := range items {
		clientName := ""
		if client, err := s.clientRepo.GetByID(item.ClientID); err == nil {
			clientName = client.Name
		}
		s.logger.Info("Resolving batch item",
			"index", i+1,
			"total", len(items),
			"client_id", item.ClientID,
			"client_name", clientName)

		itemResult := models.BatchItemResult{
			Index:      i,
			ClientID:   item.ClientID,
			ClientName: clientName,
		}

		result, err := s.Resolve(item.ClientID, item.Strategy)
		switch {
		case err != nil:
			itemResult.Error = err.Error()
		case !result.Success:
			itemResult.Error = result.Error
		default:
			itemResult.Success = true
		}

		if itemResult.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
		batch.Results = append(batch.Results, itemResult)
	}

	s.logger.Info("Batch resolution completed",
		"total", batch.Total, "succeeded", batch.Succeeded, "failed", batch.Failed)
	return batch, nil
}

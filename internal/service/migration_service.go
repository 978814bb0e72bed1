package service

import (
	"encoding/json"
	"fmt"

	"github.com/vercatryx/Triangle-order-managment-sub004/internal/catalog"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/config"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/normalizer"
	"github.com/vercatryx/Triangle-order-managment-sub004/internal/repositories"
	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

// Migration source labels, in lookup precedence order.
const (
	sourceScheduledOrders = "scheduled_orders"
	sourceLegacyOrder     = "legacy_order_field"
	sourceLegacyTable     = "legacy_order_table"
)

type MigrationServiceInterface interface {
	BuildCandidates() ([]models.MigrationCandidate, error)
	Migrate(clientID string, opts models.MigrateOptions) (models.Result, error)
	MigrateBatch(items []models.BatchItem) (models.BatchResult, error)
}

// MigrationService merges each un-migrated client's legacy order sources into
// a proposed canonical document and narrows validation to the checks that can
// be fixed before commit. Quota and deleted-item checks stay with the ongoing
// validator pass after migration.
type MigrationService struct {
	clientRepo  repositories.ClientRepositoryInterface
	orderRepo   repositories.OrderRepositoryInterface
	catalogRepo repositories.CatalogRepositoryInterface
	rules       config.Rules
	logger      *logger.Logger
}

func NewMigrationService(clientRepo repositories.ClientRepositoryInterface, orderRepo repositories.OrderRepositoryInterface, catalogRepo repositories.CatalogRepositoryInterface, rules config.Rules, logger *logger.Logger) *MigrationService {
	return &MigrationService{
		clientRepo:  clientRepo,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		rules:       rules,
		logger:      logger.WithComponent("migration_service"),
	}
}

// BuildCandidates proposes a canonical document for every client that does
// not have one yet.
func (s *MigrationService) BuildCandidates() ([]models.MigrationCandidate, error) {
	snapshot, err := catalog.Load(s.catalogRepo, s.rules, s.logger)
	if err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.GetAll()
	if err != nil {
		return nil, err
	}

	var candidates []models.MigrationCandidate
	for _, client := range clients {
		if client.Document != nil && !client.Document.IsEmpty() {
			continue
		}
		candidate, err := s.buildCandidate(client, snapshot)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}

	s.logger.Info("Built migration candidates", "clients", len(clients), "candidates", len(candidates))
	return candidates, nil
}

func (s *MigrationService) buildCandidate(client *models.Client, snapshot *catalog.Snapshot) (models.MigrationCandidate, error) {
	candidate := models.MigrationCandidate{
		ClientID:   client.ID,
		ClientName: client.Name,
	}

	proposed, source, err := s.proposeDocument(client)
	if err != nil {
		return candidate, err
	}
	if proposed == nil || proposed.IsEmpty() {
		candidate.Classification = models.CandidateNoOrderData
		return candidate, nil
	}

	candidate.Source = source
	candidate.Proposed = proposed
	if preview, err := json.Marshal(proposed); err == nil {
		candidate.PreviewJSON = string(preview)
	}

	classifyCandidate(&candidate, client, proposed, snapshot, s.rules)
	return candidate, nil
}

// proposeDocument merges the legacy order sources in fixed precedence:
// normalized scheduled rows, then the client's legacy order field, then the
// flat legacy order table.
func (s *MigrationService) proposeDocument(client *models.Client) (*models.OrderConfiguration, string, error) {
	orders, err := s.orderRepo.ListScheduled(client.ID)
	if err != nil {
		return nil, "", err
	}
	if len(orders) > 0 {
		return normalizer.FromOrders(orders), sourceScheduledOrders, nil
	}

	if client.LegacyOrder != nil && !client.LegacyOrder.IsEmpty() {
		return client.LegacyOrder, sourceLegacyOrder, nil
	}

	rows, err := s.orderRepo.GetLegacyRows(client.ID)
	if err != nil {
		return nil, "", err
	}
	if len(rows) > 0 {
		return documentFromLegacyRows(rows), sourceLegacyTable, nil
	}

	return nil, "", nil
}

// documentFromLegacyRows lifts flat legacy rows into the multi-day document
// shape (day-less rows collapse to a flat vendor selection list).
func documentFromLegacyRows(rows []*models.LegacyOrderRow) *models.OrderConfiguration {
	doc := &models.OrderConfiguration{ServiceType: rows[0].ServiceType}
	if doc.ServiceType == "" {
		doc.ServiceType = models.ServiceFood
	}

	hasDays := false
	for _, row := range rows {
		if row.DeliveryDay != "" {
			hasDays = true
			break
		}
	}

	for _, row := range rows {
		if row.Quantity <= 0 {
			continue
		}
		if hasDays {
			addLegacyDayItem(doc, row)
		} else {
			addLegacyFlatItem(doc, row)
		}
	}
	return doc
}

func addLegacyDayItem(doc *models.OrderConfiguration, row *models.LegacyOrderRow) {
	if doc.DeliveryDayOrders == nil {
		doc.DeliveryDayOrders = map[string]models.DayOrder{}
	}
	for i := range doc.DeliveryDayOrders[row.DeliveryDay] {
		sel := &doc.DeliveryDayOrders[row.DeliveryDay][i]
		if sel.VendorID == row.VendorID {
			sel.Items[row.ItemID] += row.Quantity
			return
		}
	}
	doc.DeliveryDayOrders[row.DeliveryDay] = append(doc.DeliveryDayOrders[row.DeliveryDay], models.VendorSelection{
		VendorID: row.VendorID,
		Items:    models.ItemQuantities{row.ItemID: row.Quantity},
	})
}

func addLegacyFlatItem(doc *models.OrderConfiguration, row *models.LegacyOrderRow) {
	for i := range doc.VendorSelections {
		if doc.VendorSelections[i].VendorID == row.VendorID {
			doc.VendorSelections[i].Items[row.ItemID] += row.Quantity
			return
		}
	}
	doc.VendorSelections = append(doc.VendorSelections, models.VendorSelection{
		VendorID: row.VendorID,
		Items:    models.ItemQuantities{row.ItemID: row.Quantity},
	})
}

// classifyCandidate runs the proposed document through the validator narrowed
// to vendor and vendor-day checks and derives the candidate class. An
// invalid_day candidate carries the vendor's valid alternative days so an
// operator can pick a replacement.
func classifyCandidate(candidate *models.MigrationCandidate, client *models.Client, proposed *models.OrderConfiguration, snapshot *catalog.Snapshot, rules config.Rules) {
	scanned := Scan([]*models.Client{{ID: client.ID, Name: client.Name, Document: proposed}}, snapshot, rules)

	var issues []models.Issue
	for _, issue := range scanned {
		if issue.Kind == models.IssueInvalidVendor || issue.Kind == models.IssueVendorDayMismatch {
			issues = append(issues, issue)
		}
	}
	candidate.Issues = issues

	if len(issues) == 0 {
		candidate.Classification = models.CandidateValid
		return
	}

	onlyDayMismatches := true
	missingVendor := false
	for _, issue := range issues {
		if issue.Kind != models.IssueVendorDayMismatch {
			onlyDayMismatches = false
			if _, ok := snapshot.Vendors[issue.VendorID]; !ok {
				missingVendor = true
			}
		}
	}

	switch {
	case onlyDayMismatches:
		candidate.Classification = models.CandidateInvalidDay
		candidate.InvalidDay = issues[0].Day
		if vendor, ok := snapshot.Vendors[issues[0].VendorID]; ok {
			days := append([]string(nil), vendor.DeliveryDays...)
			models.SortDays(days)
			candidate.AlternativeDays = days
		}
	case missingVendor:
		candidate.Classification = models.CandidateMissingVendor
	default:
		candidate.Classification = models.CandidateInvalidVendor
	}
}

// Migrate rebuilds the client's candidate fresh and commits the proposed
// document. With a replaceDay option every occurrence of the bad day is
// rewritten first; only valid candidates and invalid_day candidates with a
// replacement day are eligible.
func (s *MigrationService) Migrate(clientID string, opts models.MigrateOptions) (models.Result, error) {
	s.logger.Info("Migrating client", "client_id", clientID)

	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return failure("client %s not found", clientID), nil
	}
	if client.Document != nil && !client.Document.IsEmpty() {
		return failure("client %s already has an order document", clientID), nil
	}

	snapshot, err := catalog.Load(s.catalogRepo, s.rules, s.logger)
	if err != nil {
		return models.Result{}, err
	}

	candidate, err := s.buildCandidate(client, snapshot)
	if err != nil {
		return models.Result{}, err
	}

	switch candidate.Classification {
	case models.CandidateValid:
	case models.CandidateInvalidDay:
		if opts.ReplaceDay == nil || opts.ReplaceDay.ToDay == "" {
			return failure("client %s has orders on an invalid day; a replacement day is required", clientID), nil
		}
		fromDay := opts.ReplaceDay.FromDay
		if fromDay == "" {
			fromDay = candidate.InvalidDay
		}
		replaceDay(candidate.Proposed, fromDay, opts.ReplaceDay.ToDay)
	default:
		return failure("client %s is not eligible for migration: %s", clientID, candidate.Classification), nil
	}

	if err := s.clientRepo.ReplaceDocument(clientID, candidate.Proposed); err != nil {
		return models.Result{}, err
	}

	s.logger.Info("Migrated client", "client_id", clientID, "source", candidate.Source)
	return models.Result{Success: true, Message: fmt.Sprintf("migrated client from %s", candidate.Source)}, nil
}

// replaceDay rewrites every occurrence of one day inside the document.
func replaceDay(doc *models.OrderConfiguration, fromDay, toDay string) {
	if doc == nil || fromDay == "" || toDay == "" || fromDay == toDay {
		return
	}

	if selections, ok := doc.DeliveryDayOrders[fromDay]; ok {
		doc.DeliveryDayOrders[toDay] = append(doc.DeliveryDayOrders[toDay], selections...)
		delete(doc.DeliveryDayOrders, fromDay)
	}

	for i := range doc.VendorSelections {
		sel := &doc.VendorSelections[i]
		if items, ok := sel.ItemsByDay[fromDay]; ok {
			if existing, dup := sel.ItemsByDay[toDay]; dup {
				for itemID, qty := range items {
					existing[itemID] += qty
				}
			} else {
				sel.ItemsByDay[toDay] = items
			}
			delete(sel.ItemsByDay, fromDay)
		}
	}
}

// MigrateBatch migrates clients strictly one at a time; failures are recorded
// per client and do not block the rest.
func (s *MigrationService) MigrateBatch(items []models.BatchItem) (models.BatchResult, error) {
	batch := models.BatchResult{Total: len(items)}

	for i, item := range items {
		clientName := ""
		if client, err := s.clientRepo.GetByID(item.ClientID); err == nil {
			clientName = client.Name
		}
		s.logger.Info("Migrating batch item",
			"index", i+1,
			"total", len(items),
			"client_id", item.ClientID,
			"client_name", clientName)

		itemResult := models.BatchItemResult{
			Index:      i,
			ClientID:   item.ClientID,
			ClientName: clientName,
		}

		var opts models.MigrateOptions
		if item.NewDay != "" {
			opts.ReplaceDay = &models.DayReplacement{ToDay: item.NewDay}
		}

		result, err := s.Migrate(item.ClientID, opts)
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

	s.logger.Info("Batch migration completed",
		"total", batch.Total, "succeeded", batch.Succeeded, "failed", batch.Failed)
	return batch, nil
}

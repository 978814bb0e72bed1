package service

import (
	"fmt"
	"sort"

	"github.com/vercatryx/Triangle-order-managment-sub004/models"
	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

// In-memory repository fakes shared by the service tests.

type fakeClientRepo struct {
	clients map[string]*models.Client
	// written records every ReplaceDocument call by client id.
	written map[string]*models.OrderConfiguration
	failAll bool
}

func newFakeClientRepo(clients ...*models.Client) *fakeClientRepo {
	repo := &fakeClientRepo{
		clients: map[string]*models.Client{},
		written: map[string]*models.OrderConfiguration{},
	}
	for _, client := range clients {
		repo.clients[client.ID] = client
	}
	return repo
}

func (r *fakeClientRepo) GetAll() ([]*models.Client, error) {
	if r.failAll {
		return nil, fmt.Errorf("store unavailable")
	}
	ids := make([]string, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	clients := make([]*models.Client, 0, len(ids))
	for _, id := range ids {
		clients = append(clients, r.clients[id])
	}
	return clients, nil
}

func (r *fakeClientRepo) GetByID(id string) (*models.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("client not found")
	}
	return client, nil
}

func (r *fakeClientRepo) ReplaceDocument(clientID string, doc *models.OrderConfiguration) error {
	if _, ok := r.clients[clientID]; !ok {
		return fmt.Errorf("client not found")
	}
	r.clients[clientID].Document = doc
	r.written[clientID] = doc
	return nil
}

type fakeOrderRepo struct {
	scheduled map[string][]*models.ScheduledOrder
	legacy    map[string][]*models.LegacyOrderRow
	cancelled map[string]bool
	// replaced records every ReplaceScheduled call by client id.
	replaced   map[string][]*models.ScheduledOrder
	replaceErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		scheduled: map[string][]*models.ScheduledOrder{},
		legacy:    map[string][]*models.LegacyOrderRow{},
		cancelled: map[string]bool{},
		replaced:  map[string][]*models.ScheduledOrder{},
	}
}

func (r *fakeOrderRepo) ListScheduled(clientID string) ([]*models.ScheduledOrder, error) {
	return r.scheduled[clientID], nil
}

func (r *fakeOrderRepo) ReplaceScheduled(clientID string, orders []*models.ScheduledOrder) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.scheduled[clientID] = orders
	r.replaced[clientID] = orders
	return nil
}

func (r *fakeOrderRepo) CancelScheduled(clientID string) error {
	r.cancelled[clientID] = true
	r.scheduled[clientID] = nil
	return nil
}

func (r *fakeOrderRepo) GetLegacyRows(clientID string) ([]*models.LegacyOrderRow, error) {
	return r.legacy[clientID], nil
}

type fakeCatalogRepo struct {
	vendors    []*models.Vendor
	items      []*models.MenuItem
	categories []*models.Category
	quotas     []*models.BoxQuota
	mealTypes  []string
}

func (r *fakeCatalogRepo) GetVendors() ([]*models.Vendor, error)      { return r.vendors, nil }
func (r *fakeCatalogRepo) GetMenuItems() ([]*models.MenuItem, error)  { return r.items, nil }
func (r *fakeCatalogRepo) GetCategories() ([]*models.Category, error) { return r.categories, nil }
func (r *fakeCatalogRepo) GetBoxQuotas() ([]*models.BoxQuota, error)  { return r.quotas, nil }
func (r *fakeCatalogRepo) GetMealTypes() ([]string, error)            { return r.mealTypes, nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stderr"})
}

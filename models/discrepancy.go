package models

// Discrepancy kinds between a client's document and its normalized rows.
const (
	DiscrepancyActiveOrderOnly    = "active_order_only"
	DiscrepancyUpcomingOrdersOnly = "upcoming_orders_only"
	DiscrepancyBothExistMismatch  = "both_exist_mismatch"
)

// Resolution strategies.
const (
	ResolveUseActiveOrder    = "use_active_order"
	ResolveUseUpcomingOrders = "use_upcoming_orders"
	ResolveClearBoth         = "clear_both"
)

// Discrepancy is a detected inconsistency between a client's denormalized
// document and its scheduled normalized orders. Computed fresh on every
// detection pass, never persisted; both raw representations are carried for
// side-by-side operator review.
type Discrepancy struct {
	ClientID   string              `json:"client_id"`
	ClientName string              `json:"client_name"`
	Kind       string              `json:"kind"`
	Document   *OrderConfiguration `json:"document,omitempty"`
	Orders     []*ScheduledOrder   `json:"orders,omitempty"`
}

// Result is the outcome of one mutating operation. Business-level failures
// (not found, validation failed) are reported here, never as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchItem names one unit of batch work.
type BatchItem struct {
	ClientID string `json:"client_id"`
	Strategy string `json:"strategy,omitempty"`
	NewDay   string `json:"new_day,omitempty"`
}

// BatchItemResult is the per-client outcome of a batch pass.
type BatchItemResult struct {
	Index      int    `json:"index"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BatchResult summarizes a sequential batch pass. Failed units never roll back
// the successful ones; the per-client errors let an operator re-target just
// the failures.
type BatchResult struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

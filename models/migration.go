package models

// Migration candidate classifications. Only valid candidates, and invalid_day
// candidates with an operator-chosen replacement day, are eligible for batch
// migration.
const (
	CandidateValid         = "valid"
	CandidateInvalidDay    = "invalid_day"
	CandidateInvalidVendor = "invalid_vendor"
	CandidateMissingVendor = "missing_vendor"
	CandidateNoOrderData   = "no_order_data"
)

// MigrationCandidate is one client's proposed canonical document merged from
// its legacy order sources, plus the narrowed validation verdict.
type MigrationCandidate struct {
	ClientID        string              `json:"client_id"`
	ClientName      string              `json:"client_name"`
	Classification  string              `json:"classification"`
	Source          string              `json:"source,omitempty"`
	Proposed        *OrderConfiguration `json:"proposed,omitempty"`
	PreviewJSON     string              `json:"previewJson,omitempty"`
	Issues          []Issue             `json:"issues,omitempty"`
	InvalidDay      string              `json:"invalid_day,omitempty"`
	AlternativeDays []string            `json:"alternative_days,omitempty"`
}

// MigrateOptions tunes a single-client migration. ReplaceDay rewrites every
// occurrence of FromDay in the proposed document to ToDay before commit.
type MigrateOptions struct {
	ReplaceDay *DayReplacement `json:"replaceDay,omitempty"`
}

// DayReplacement names an operator-chosen day substitution.
type DayReplacement struct {
	FromDay string `json:"from_day"`
	ToDay   string `json:"to_day"`
}

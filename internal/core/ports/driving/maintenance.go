package driving

import "context"

// MaintenanceService prepares the case store.
type MaintenanceService interface {
	// InitDatabase optionally clears the store and seeds the sample case.
	InitDatabase(ctx context.Context, opts InitOptions) (*InitReport, error)
}

// InitOptions select what InitDatabase does beyond opening the store.
type InitOptions struct {
	Reset bool
	Seed  bool
}

// InitReport describes what InitDatabase changed.
type InitReport struct {
	Location string `json:"location"`
	Reset    bool   `json:"reset"`
	SeededID int64  `json:"seeded_case_id,omitempty"`
}

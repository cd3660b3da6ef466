package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Clients  []clientSchema  `toml:"clients"`
	Sessions []sessionSchema `toml:"sessions"`
	Payments []paymentSchema `toml:"payments"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported ledger schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type clientSchema struct {
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	Currency      string `toml:"currency"`
	SessionFee    string `toml:"session_fee"`
	Cadence       string `toml:"cadence"`
	NextSession   string `toml:"next_session,omitempty"`
	SessionsCount int    `toml:"sessions_count"`
	Cancellations int    `toml:"cancellations"`
	Reschedules   int    `toml:"reschedules"`
	PaymentsTotal string `toml:"payments_total"`
	Balance       string `toml:"balance"`
	Active        bool   `toml:"active"`
	CreatedAt     string `toml:"created_at,omitempty"`
}

type sessionSchema struct {
	ID              string `toml:"id"`
	ClientName      string `toml:"client_name"`
	StartsAt        string `toml:"starts_at"`
	DurationMinutes int    `toml:"duration_minutes"`
	Status          string `toml:"status"`
	Fee             string `toml:"fee"`
	Payment         string `toml:"payment"`
	Note            string `toml:"note,omitempty"`
}

type paymentSchema struct {
	ID         string `toml:"id"`
	ClientName string `toml:"client_name"`
	PaidAt     string `toml:"paid_at"`
	Amount     string `toml:"amount"`
	Currency   string `toml:"currency"`
	Method     string `toml:"method"`
	Note       string `toml:"note,omitempty"`
}

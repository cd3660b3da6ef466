package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/bnema/practice-ledger/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	LedgerPathKey    = "ledger.path"
	ledgerFileMode   = 0o600
	ledgerDirMode    = 0o700
	ledgerConfigDir  = ".config/practice-ledger"
	ledgerConfigFile = "ledger.toml"
	tempFilePattern  = ".ledger-*.toml.tmp"
)

// Repository keeps the ledger in a single TOML file. Every Save rewrites the
// whole file through a temp file and rename.
type Repository struct {
	ledgerPath string
	mu         *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.LedgerStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	ledgerPath := cfg.GetString(LedgerPathKey)
	if ledgerPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		ledgerPath = filepath.Join(homeDir, ledgerConfigDir, ledgerConfigFile)
	}

	ledgerPath, err := normalizeLedgerPath(ledgerPath)
	if err != nil {
		return nil, err
	}

	return &Repository{ledgerPath: ledgerPath, mu: lockForPath(ledgerPath)}, nil
}

func (r *Repository) Path() string {
	return r.ledgerPath
}

func (r *Repository) Load(ctx context.Context) (domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ledger{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	ledger, err := fromSchema(file)
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	return ledger, nil
}

func (r *Repository) Save(ctx context.Context, ledger domain.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeSchema(toSchema(ledger)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	return nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.ledgerPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read ledger file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode ledger file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeLedgerPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve ledger path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.ledgerPath), ledgerDirMode); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode ledger file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.ledgerPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp ledger file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp ledger file: %w", err)
	}

	if err := tempFile.Chmod(ledgerFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp ledger file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}

	if err := os.Rename(tempName, r.ledgerPath); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	cleanup = false

	return nil
}

func toSchema(ledger domain.Ledger) fileSchema {
	file := fileSchema{
		Version:  currentSchemaVersion,
		Clients:  make([]clientSchema, 0, len(ledger.Clients)),
		Sessions: make([]sessionSchema, 0, len(ledger.Sessions)),
		Payments: make([]paymentSchema, 0, len(ledger.Payments)),
	}

	for _, client := range ledger.Clients {
		encoded := clientSchema{
			ID:            string(client.ID),
			Name:          client.Name,
			Currency:      string(client.Currency),
			SessionFee:    client.SessionFee.String(),
			Cadence:       string(client.Cadence),
			SessionsCount: client.SessionsCount,
			Cancellations: client.Cancellations,
			Reschedules:   client.Reschedules,
			PaymentsTotal: client.PaymentsTotal.String(),
			Balance:       client.Balance.String(),
			Active:        client.Active,
			CreatedAt:     formatTime(client.CreatedAt),
		}
		if client.NextSession != nil {
			encoded.NextSession = formatTime(*client.NextSession)
		}
		file.Clients = append(file.Clients, encoded)
	}

	for _, session := range ledger.Sessions {
		file.Sessions = append(file.Sessions, sessionSchema{
			ID:              string(session.ID),
			ClientName:      session.ClientName,
			StartsAt:        formatTime(session.StartsAt),
			DurationMinutes: int(session.Duration / time.Minute),
			Status:          string(session.Status),
			Fee:             session.Fee.String(),
			Payment:         session.Payment.String(),
			Note:            session.Note,
		})
	}

	for _, payment := range ledger.Payments {
		file.Payments = append(file.Payments, paymentSchema{
			ID:         string(payment.ID),
			ClientName: payment.ClientName,
			PaidAt:     formatTime(payment.PaidAt),
			Amount:     payment.Amount.String(),
			Currency:   string(payment.Currency),
			Method:     payment.Method,
			Note:       payment.Note,
		})
	}

	return file
}

func fromSchema(file fileSchema) (domain.Ledger, error) {
	ledger := domain.Ledger{
		Clients:  make([]domain.Client, 0, len(file.Clients)),
		Sessions: make([]domain.Session, 0, len(file.Sessions)),
		Payments: make([]domain.Payment, 0, len(file.Payments)),
	}

	for _, entry := range file.Clients {
		client, err := fromClientSchema(entry)
		if err != nil {
			return domain.Ledger{}, fmt.Errorf("decode client %q: %w", entry.Name, err)
		}
		ledger.Clients = append(ledger.Clients, client)
	}

	for _, entry := range file.Sessions {
		session, err := fromSessionSchema(entry)
		if err != nil {
			return domain.Ledger{}, fmt.Errorf("decode session %q: %w", entry.ID, err)
		}
		ledger.Sessions = append(ledger.Sessions, session)
	}

	for _, entry := range file.Payments {
		payment, err := fromPaymentSchema(entry)
		if err != nil {
			return domain.Ledger{}, fmt.Errorf("decode payment %q: %w", entry.ID, err)
		}
		ledger.Payments = append(ledger.Payments, payment)
	}

	return ledger, nil
}

func fromClientSchema(entry clientSchema) (domain.Client, error) {
	var errs []error
	fee, err := parseDecimal(entry.SessionFee)
	errs = append(errs, err)
	paymentsTotal, err := parseDecimal(entry.PaymentsTotal)
	errs = append(errs, err)
	balance, err := parseDecimal(entry.Balance)
	errs = append(errs, err)
	createdAt, err := parseTime(entry.CreatedAt)
	errs = append(errs, err)

	client := domain.Client{
		ID:            domain.ClientID(entry.ID),
		Name:          entry.Name,
		Currency:      domain.Currency(entry.Currency),
		SessionFee:    fee,
		Cadence:       domain.Cadence(entry.Cadence),
		SessionsCount: entry.SessionsCount,
		Cancellations: entry.Cancellations,
		Reschedules:   entry.Reschedules,
		PaymentsTotal: paymentsTotal,
		Balance:       balance,
		Active:        entry.Active,
		CreatedAt:     createdAt,
	}

	if entry.NextSession != "" {
		next, err := parseTime(entry.NextSession)
		errs = append(errs, err)
		client.NextSession = &next
	}

	return client, errors.Join(errs...)
}

func fromSessionSchema(entry sessionSchema) (domain.Session, error) {
	var errs []error
	startsAt, err := parseTime(entry.StartsAt)
	errs = append(errs, err)
	fee, err := parseDecimal(entry.Fee)
	errs = append(errs, err)
	payment, err := parseDecimal(entry.Payment)
	errs = append(errs, err)

	duration := time.Duration(entry.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = domain.DefaultSessionDuration
	}

	return domain.Session{
		ID:         domain.SessionID(entry.ID),
		ClientName: entry.ClientName,
		StartsAt:   startsAt,
		Duration:   duration,
		Status:     domain.SessionStatus(entry.Status),
		Fee:        fee,
		Payment:    payment,
		Note:       entry.Note,
	}, errors.Join(errs...)
}

func fromPaymentSchema(entry paymentSchema) (domain.Payment, error) {
	var errs []error
	paidAt, err := parseTime(entry.PaidAt)
	errs = append(errs, err)
	amount, err := parseDecimal(entry.Amount)
	errs = append(errs, err)

	return domain.Payment{
		ID:         domain.PaymentID(entry.ID),
		ClientName: entry.ClientName,
		PaidAt:     paidAt,
		Amount:     amount,
		Currency:   domain.Currency(entry.Currency),
		Method:     entry.Method,
		Note:       entry.Note,
	}, errors.Join(errs...)
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(raw)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, raw)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}

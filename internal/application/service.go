package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/bnema/practice-ledger/internal/logging"
	"github.com/bnema/practice-ledger/internal/metrics"
	"github.com/bnema/practice-ledger/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	noteFirstSession = "first session"
	noteExtraSession = "extra session"
	noteRescheduled  = "rescheduled"
	notePayment      = "recorded via chat"
)

// LedgerService owns the in-memory ledger. Writes are serialized and only
// become visible once the store has persisted them.
type LedgerService struct {
	store ports.LedgerStore
	clock ports.Clock
	log   logrus.FieldLogger
	loc   *time.Location
	hours WorkingHours
	newID func() string

	mu     sync.RWMutex
	ledger domain.Ledger
}

type Option func(*LedgerService)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *LedgerService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLocation sets the zone used to cut days for reports and schedules.
func WithLocation(loc *time.Location) Option {
	return func(s *LedgerService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithWorkingHours(hours WorkingHours) Option {
	return func(s *LedgerService) {
		s.hours = hours
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *LedgerService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewLedgerService loads the ledger snapshot from store.
func NewLedgerService(ctx context.Context, store ports.LedgerStore, clock ports.Clock, opts ...Option) (*LedgerService, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	s := &LedgerService{
		store: store,
		clock: clock,
		log:   logging.Discard(),
		loc:   time.Local,
		hours: DefaultWorkingHours,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.hours.Validate(); err != nil {
		return nil, err
	}

	ledger, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	s.ledger = ledger

	return s, nil
}

func (s *LedgerService) Location() *time.Location {
	return s.loc
}

func (s *LedgerService) CreateClient(ctx context.Context, cmd CreateClientCommand) (domain.Client, error) {
	var created domain.Client

	err := s.mutate(ctx, "create_client", func(ledger *domain.Ledger) error {
		client := domain.Client{
			ID:            domain.ClientID(s.newID()),
			Name:          strings.TrimSpace(cmd.Name),
			Currency:      cmd.Currency,
			SessionFee:    cmd.SessionFee,
			Cadence:       cmd.Cadence,
			PaymentsTotal: decimal.Zero,
			Balance:       cmd.SessionFee.Neg(),
			Active:        true,
			CreatedAt:     s.clock.Now(),
		}
		if err := client.Validate(); err != nil {
			return err
		}
		if cmd.FirstSession.IsZero() {
			return domain.ErrInvalidDate
		}
		if ledger.ClientIndex(client.Name) >= 0 {
			return fmt.Errorf("%w: %q", domain.ErrNameAlreadyExists, client.Name)
		}

		ledger.Clients = append(ledger.Clients, client)
		ledger.Sessions = append(ledger.Sessions, s.newSession(client, cmd.FirstSession, noteFirstSession))
		ledger.RefreshNextSession(client.Name)

		created, _ = ledger.Client(client.Name)
		return nil
	})
	if err != nil {
		return domain.Client{}, err
	}

	s.log.WithFields(logrus.Fields{"client": created.Name, "fee": created.SessionFee.String(), "currency": created.Currency}).Info("client created")
	return created, nil
}

// RecordPayment appends a payment and returns the client's new balance.
func (s *LedgerService) RecordPayment(ctx context.Context, cmd RecordPaymentCommand) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := s.mutate(ctx, "record_payment", func(ledger *domain.Ledger) error {
		if err := domain.ValidateAmount(cmd.Amount); err != nil {
			return err
		}

		idx, err := clientIndex(ledger, cmd.ClientName)
		if err != nil {
			return err
		}
		client := &ledger.Clients[idx]

		method := cmd.Method
		if method == "" {
			method = domain.PaymentMethodCash
		}
		note := cmd.Note
		if note == "" {
			note = notePayment
		}

		ledger.Payments = append(ledger.Payments, domain.Payment{
			ID:         domain.PaymentID(s.newID()),
			ClientName: client.Name,
			PaidAt:     s.clock.Now(),
			Amount:     cmd.Amount,
			Currency:   client.Currency,
			Method:     method,
			Note:       note,
		})
		client.PaymentsTotal = client.PaymentsTotal.Add(cmd.Amount)
		client.Balance = client.Balance.Add(cmd.Amount)

		balance = client.Balance
		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	s.log.WithFields(logrus.Fields{"client": cmd.ClientName, "amount": cmd.Amount.String(), "balance": balance.String()}).Info("payment recorded")
	return balance, nil
}

// Reschedule moves the client's next scheduled session to startsAt. The old
// row is kept with status rescheduled and a new row carries the same fee.
func (s *LedgerService) Reschedule(ctx context.Context, clientName string, startsAt time.Time) (domain.Session, error) {
	var moved domain.Session

	err := s.mutate(ctx, "reschedule", func(ledger *domain.Ledger) error {
		if startsAt.IsZero() {
			return domain.ErrInvalidDate
		}

		idx, err := activeClientIndex(ledger, clientName)
		if err != nil {
			return err
		}
		sessionIdx := ledger.NextScheduledSession(clientName)
		if sessionIdx < 0 {
			return fmt.Errorf("%w for %q", domain.ErrNoScheduledSession, clientName)
		}

		old := ledger.Sessions[sessionIdx]
		ledger.Sessions[sessionIdx].Status = domain.SessionRescheduled

		moved = old
		moved.ID = domain.SessionID(s.newID())
		moved.StartsAt = startsAt
		moved.Status = domain.SessionScheduled
		moved.Note = noteRescheduled
		ledger.Sessions = append(ledger.Sessions, moved)

		ledger.Clients[idx].Reschedules++
		ledger.RefreshNextSession(clientName)
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.log.WithFields(logrus.Fields{"client": clientName, "starts_at": startsAt}).Info("session rescheduled")
	return moved, nil
}

// CancelSession cancels the client's next scheduled session and credits its
// fee back to the balance.
func (s *LedgerService) CancelSession(ctx context.Context, clientName string) (domain.Session, error) {
	var cancelled domain.Session

	err := s.mutate(ctx, "cancel_session", func(ledger *domain.Ledger) error {
		idx, err := clientIndex(ledger, clientName)
		if err != nil {
			return err
		}
		sessionIdx := ledger.NextScheduledSession(clientName)
		if sessionIdx < 0 {
			return fmt.Errorf("%w for %q", domain.ErrNoScheduledSession, clientName)
		}

		session := &ledger.Sessions[sessionIdx]
		session.Status = domain.SessionCancelled

		client := &ledger.Clients[idx]
		client.Cancellations++
		client.Balance = client.Balance.Add(session.Fee)

		cancelled = *session
		ledger.RefreshNextSession(clientName)
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.log.WithFields(logrus.Fields{"client": clientName, "session": cancelled.ID}).Info("session cancelled")
	return cancelled, nil
}

// AddExtraSession books one more session at the current fee.
func (s *LedgerService) AddExtraSession(ctx context.Context, clientName string, startsAt time.Time) (domain.Session, error) {
	var added domain.Session

	err := s.mutate(ctx, "add_extra_session", func(ledger *domain.Ledger) error {
		if startsAt.IsZero() {
			return domain.ErrInvalidDate
		}

		idx, err := activeClientIndex(ledger, clientName)
		if err != nil {
			return err
		}
		client := &ledger.Clients[idx]

		added = s.newSession(*client, startsAt, noteExtraSession)
		ledger.Sessions = append(ledger.Sessions, added)
		client.Balance = client.Balance.Sub(added.Fee)

		ledger.RefreshNextSession(clientName)
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.log.WithFields(logrus.Fields{"client": clientName, "starts_at": startsAt}).Info("extra session added")
	return added, nil
}

// ChangeFee sets the fee for sessions booked from now on.
func (s *LedgerService) ChangeFee(ctx context.Context, clientName string, fee decimal.Decimal) (domain.Client, error) {
	var updated domain.Client

	err := s.mutate(ctx, "change_fee", func(ledger *domain.Ledger) error {
		if err := domain.ValidateAmount(fee); err != nil {
			return err
		}

		idx, err := clientIndex(ledger, clientName)
		if err != nil {
			return err
		}

		ledger.Clients[idx].SessionFee = fee
		updated = ledger.Clients[idx]
		return nil
	})
	if err != nil {
		return domain.Client{}, err
	}

	s.log.WithFields(logrus.Fields{"client": clientName, "fee": fee.String()}).Info("session fee changed")
	return updated, nil
}

// CompleteSession marks the client's next scheduled session as held.
func (s *LedgerService) CompleteSession(ctx context.Context, clientName string) (domain.Session, error) {
	var completed domain.Session

	err := s.mutate(ctx, "complete_session", func(ledger *domain.Ledger) error {
		idx, err := clientIndex(ledger, clientName)
		if err != nil {
			return err
		}
		sessionIdx := ledger.NextScheduledSession(clientName)
		if sessionIdx < 0 {
			return fmt.Errorf("%w for %q", domain.ErrNoScheduledSession, clientName)
		}

		ledger.Sessions[sessionIdx].Status = domain.SessionCompleted
		ledger.Clients[idx].SessionsCount++

		completed = ledger.Sessions[sessionIdx]
		ledger.RefreshNextSession(clientName)
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.log.WithFields(logrus.Fields{"client": clientName, "session": completed.ID}).Info("session completed")
	return completed, nil
}

// EndClient deactivates a client. Sessions and payments stay on record.
func (s *LedgerService) EndClient(ctx context.Context, clientName string) error {
	err := s.mutate(ctx, "end_client", func(ledger *domain.Ledger) error {
		idx, err := activeClientIndex(ledger, clientName)
		if err != nil {
			return err
		}

		ledger.Clients[idx].Active = false
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("client", clientName).Info("client ended")
	return nil
}

func (s *LedgerService) Client(clientName string) (domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.ledger.Client(clientName)
	if !ok {
		return domain.Client{}, fmt.Errorf("%w: %q", domain.ErrClientNotFound, clientName)
	}
	return client, nil
}

// ListClients returns every client, active or not, sorted by name.
func (s *LedgerService) ListClients() []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := s.ledger.Clone().Clients
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients
}

func (s *LedgerService) HasPayments() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ledger.Payments) > 0
}

// Snapshot returns a deep copy of the current ledger.
func (s *LedgerService) Snapshot() domain.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Clone()
}

// mutate applies fn to a copy of the ledger and swaps it in only after the
// store accepted it, so a failed save leaves memory untouched.
func (s *LedgerService) mutate(ctx context.Context, op string, fn func(*domain.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ledger.Clone()
	if err := fn(&next); err != nil {
		metrics.RecordLedgerWrite(op, err)
		return err
	}

	started := time.Now()
	err := s.store.Save(ctx, next)
	metrics.ObserveLedgerSave(time.Since(started))
	if err != nil {
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		metrics.RecordLedgerWrite(op, err)
		s.log.WithError(err).WithField("op", op).Error("ledger save failed, previous snapshot kept")
		return fmt.Errorf("save ledger: %w", err)
	}

	s.ledger = next
	metrics.RecordLedgerWrite(op, nil)
	return nil
}

func (s *LedgerService) newSession(client domain.Client, startsAt time.Time, note string) domain.Session {
	return domain.Session{
		ID:         domain.SessionID(s.newID()),
		ClientName: client.Name,
		StartsAt:   startsAt,
		Duration:   domain.DefaultSessionDuration,
		Status:     domain.SessionScheduled,
		Fee:        client.SessionFee,
		Payment:    decimal.Zero,
		Note:       note,
	}
}

func clientIndex(ledger *domain.Ledger, name string) (int, error) {
	idx := ledger.ClientIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", domain.ErrClientNotFound, name)
	}
	return idx, nil
}

func activeClientIndex(ledger *domain.Ledger, name string) (int, error) {
	idx, err := clientIndex(ledger, name)
	if err != nil {
		return -1, err
	}
	if !ledger.Clients[idx].Active {
		return -1, fmt.Errorf("%w: %q", domain.ErrClientInactive, name)
	}
	return idx, nil
}

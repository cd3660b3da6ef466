package dialogue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/bnema/practice-ledger/internal/application"
	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/bnema/practice-ledger/internal/logging"
	"github.com/bnema/practice-ledger/internal/metrics"
	"github.com/bnema/practice-ledger/internal/ports"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const DefaultIdleTimeout = 30 * time.Minute

// Ledger is the part of application.LedgerService the dialogues drive.
type Ledger interface {
	CreateClient(ctx context.Context, cmd application.CreateClientCommand) (domain.Client, error)
	RecordPayment(ctx context.Context, cmd application.RecordPaymentCommand) (decimal.Decimal, error)
	Reschedule(ctx context.Context, clientName string, startsAt time.Time) (domain.Session, error)
	CancelSession(ctx context.Context, clientName string) (domain.Session, error)
	AddExtraSession(ctx context.Context, clientName string, startsAt time.Time) (domain.Session, error)
	ChangeFee(ctx context.Context, clientName string, fee decimal.Decimal) (domain.Client, error)
	CompleteSession(ctx context.Context, clientName string) (domain.Session, error)
	EndClient(ctx context.Context, clientName string) error

	Client(clientName string) (domain.Client, error)
	ListClients() []domain.Client
	HasPayments() bool
	ComputeClientReport(clientName string) (application.ClientReport, error)
	ComputeFinancialReportForPeriod(period application.Period) (application.FinancialReport, error)
	ComputeScheduleForDay(day time.Time) application.Schedule
}

// ReportRenderer turns report data into reply text.
type ReportRenderer interface {
	RenderClientReport(report application.ClientReport) string
	RenderFinancialReport(report application.FinancialReport) string
	RenderSchedule(schedule application.Schedule) string
}

type conversationKey struct {
	kind Kind
	user string
}

type conversation struct {
	kind        Kind
	user        string
	step        int
	draft       draft
	lastTouched time.Time
}

// draft is the scratch state collected by a conversation before its final
// step. It never reaches the store on its own.
type draft struct {
	name     string
	currency domain.Currency
	fee      decimal.Decimal
	cadence  domain.Cadence
	client   string
}

// Engine routes transport events to per-user conversations. Steps run one at
// a time; no lock is held between turns.
type Engine struct {
	ledger   Ledger
	calendar ports.Calendar
	renderer ReportRenderer
	clock    ports.Clock
	log      logrus.FieldLogger
	idle     time.Duration

	mu            sync.Mutex
	conversations map[conversationKey]*conversation
}

type Option func(*Engine)

func WithClock(clock ports.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithIdleTimeout sets how long a conversation may wait for input. Zero keeps
// conversations until they finish or are cancelled.
func WithIdleTimeout(idle time.Duration) Option {
	return func(e *Engine) {
		if idle >= 0 {
			e.idle = idle
		}
	}
}

func NewEngine(ledger Ledger, calendar ports.Calendar, renderer ReportRenderer, opts ...Option) *Engine {
	e := &Engine{
		ledger:        ledger,
		calendar:      calendar,
		renderer:      renderer,
		clock:         ports.SystemClock{},
		log:           logging.Discard(),
		idle:          DefaultIdleTimeout,
		conversations: map[conversationKey]*conversation{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle processes one event and returns the reply to send back. It never
// panics and never returns an error: failures become reply text.
func (e *Engine) Handle(ctx context.Context, ev Event) (reply Reply) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.log.WithField("user", ev.UserID)
	var current *conversation

	defer func() {
		if r := recover(); r != nil {
			kind := ""
			if current != nil {
				kind = string(current.kind)
				e.removeLocked(current)
			}
			log.WithFields(logrus.Fields{"kind": kind, "panic": r, "stack": string(debug.Stack())}).Error("conversation step panicked")
			metrics.RecordDialogueStep(kind, "panic")
			reply = Reply{Text: msgApology, Done: true}
		}
		metrics.SetActiveConversations(len(e.conversations))
	}()

	if strings.TrimSpace(ev.UserID) == "" {
		return Reply{Text: msgApology, Done: true}
	}

	now := e.clock.Now()
	e.expireLocked(now, ev.UserID)

	if strings.TrimSpace(ev.Command) != "" {
		kind, ok := ParseCommand(ev.Command)
		if !ok {
			return Reply{Text: fmt.Sprintf("Unknown command %s. Send /help for the list of commands.", strings.TrimSpace(ev.Command)), Done: true}
		}

		switch kind {
		case KindHelp:
			return Reply{Text: helpText(), Done: true}
		case KindCancel:
			e.cancelLocked(ev.UserID, log)
			return Reply{Text: msgCancelled, Done: true}
		}

		current = e.startLocked(kind, ev.UserID, now)
		log.WithField("kind", kind).Debug("conversation started")
		return e.enterLocked(current)
	}

	current = e.latestLocked(ev.UserID)
	if current == nil {
		return Reply{Text: msgNoConversation, Done: true}
	}
	current.lastTouched = now

	return e.stepLocked(ctx, current, strings.TrimSpace(ev.input()), log)
}

// Sweep drops conversations idle longer than the idle timeout and returns how
// many were dropped.
func (e *Engine) Sweep() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	dropped := e.expireLocked(e.clock.Now(), "")
	metrics.SetActiveConversations(len(e.conversations))
	return dropped
}

// Active returns the number of conversations waiting for input.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.conversations)
}

func (e *Engine) startLocked(kind Kind, user string, now time.Time) *conversation {
	conv := &conversation{kind: kind, user: user, lastTouched: now}
	e.conversations[conversationKey{kind: kind, user: user}] = conv
	return conv
}

// enterLocked shows the first prompt of a fresh conversation, or ends it
// right away when the flow's guard has nothing to offer.
func (e *Engine) enterLocked(conv *conversation) Reply {
	f := flows[conv.kind]
	if f.guard != nil {
		if reply := f.guard(e); reply != nil {
			e.removeLocked(conv)
			metrics.RecordDialogueStep(string(conv.kind), "completed")
			reply.Done = true
			return *reply
		}
	}

	metrics.RecordDialogueStep(string(conv.kind), "started")
	return f.steps[0].prompt(e, conv)
}

func (e *Engine) stepLocked(ctx context.Context, conv *conversation, input string, log logrus.FieldLogger) Reply {
	f := flows[conv.kind]
	st := f.steps[conv.step]
	log = log.WithFields(logrus.Fields{"kind": conv.kind, "step": st.state})

	reply, err := st.accept(ctx, e, conv, input)
	switch {
	case err == nil && reply != nil:
		e.removeLocked(conv)
		metrics.RecordDialogueStep(string(conv.kind), "completed")
		log.Info("conversation completed")
		reply.Done = true
		return *reply

	case err == nil:
		if conv.step+1 >= len(f.steps) {
			panic(fmt.Sprintf("dialogue %s: final step %s produced no reply", conv.kind, st.state))
		}
		conv.step++
		metrics.RecordDialogueStep(string(conv.kind), "advanced")
		return f.steps[conv.step].prompt(e, conv)

	case recoverable(err):
		metrics.RecordDialogueStep(string(conv.kind), "reprompt")
		log.WithError(err).Debug("input rejected, re-prompting")
		// accept may have rewound the conversation to an earlier step.
		prompt := f.steps[conv.step].prompt(e, conv)
		prompt.Text = userMessage(err, e) + "\n" + prompt.Text
		return prompt

	case errors.Is(err, domain.ErrStoreUnavailable):
		e.removeLocked(conv)
		metrics.RecordDialogueStep(string(conv.kind), "failed")
		log.WithError(err).Error("ledger store unavailable, conversation ended")
		return Reply{Text: msgStoreFailure, Done: true}

	default:
		e.removeLocked(conv)
		metrics.RecordDialogueStep(string(conv.kind), "failed")
		log.WithError(err).Error("conversation step failed")
		return Reply{Text: msgApology, Done: true}
	}
}

func (e *Engine) latestLocked(user string) *conversation {
	var latest *conversation
	for key, conv := range e.conversations {
		if key.user != user {
			continue
		}
		if latest == nil || conv.lastTouched.After(latest.lastTouched) {
			latest = conv
		}
	}
	return latest
}

func (e *Engine) removeLocked(conv *conversation) {
	key := conversationKey{kind: conv.kind, user: conv.user}
	if e.conversations[key] == conv {
		delete(e.conversations, key)
	}
}

func (e *Engine) cancelLocked(user string, log logrus.FieldLogger) {
	for key, conv := range e.conversations {
		if key.user != user {
			continue
		}
		delete(e.conversations, key)
		metrics.RecordDialogueStep(string(conv.kind), "cancelled")
		log.WithField("kind", conv.kind).Info("conversation cancelled")
	}
}

// expireLocked drops idle conversations, only for user when it is set.
func (e *Engine) expireLocked(now time.Time, user string) int {
	if e.idle <= 0 {
		return 0
	}

	dropped := 0
	for key, conv := range e.conversations {
		if user != "" && key.user != user {
			continue
		}
		if now.Sub(conv.lastTouched) <= e.idle {
			continue
		}
		delete(e.conversations, key)
		dropped++
		metrics.RecordDialogueStep(string(conv.kind), "expired")
		e.log.WithFields(logrus.Fields{"user": key.user, "kind": conv.kind}).Debug("idle conversation dropped")
	}
	return dropped
}

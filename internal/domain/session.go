package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionID string

type SessionStatus string

const (
	SessionScheduled   SessionStatus = "scheduled"
	SessionCompleted   SessionStatus = "completed"
	SessionCancelled   SessionStatus = "cancelled"
	SessionRescheduled SessionStatus = "rescheduled"
)

const DefaultSessionDuration = 60 * time.Minute

type Session struct {
	ID         SessionID
	ClientName string
	StartsAt   time.Time
	Duration   time.Duration
	Status     SessionStatus
	// Fee is what the client was charged when the session was booked.
	Fee     decimal.Decimal
	Payment decimal.Decimal
	Note    string
}

// Billed reports whether the session's fee counts against the client balance.
func (s Session) Billed() bool {
	return s.Status == SessionScheduled || s.Status == SessionCompleted
}

func (s Session) OnDay(day time.Time) bool {
	y1, m1, d1 := s.StartsAt.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Clock returns the session start as HH:MM in the given location.
func (s Session) Clock(loc *time.Location) string {
	return s.StartsAt.In(loc).Format("15:04")
}

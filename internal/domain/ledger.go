package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Ledger is the whole dataset: clients, their sessions and their payments.
// Sessions and payments reference clients by name.
type Ledger struct {
	Clients  []Client
	Sessions []Session
	Payments []Payment
}

func (l Ledger) Clone() Ledger {
	clone := Ledger{
		Clients:  make([]Client, len(l.Clients)),
		Sessions: make([]Session, len(l.Sessions)),
		Payments: make([]Payment, len(l.Payments)),
	}

	copy(clone.Sessions, l.Sessions)
	copy(clone.Payments, l.Payments)
	for i, client := range l.Clients {
		if client.NextSession != nil {
			next := *client.NextSession
			client.NextSession = &next
		}
		clone.Clients[i] = client
	}

	return clone
}

// ClientIndex returns the position of the client with exactly this name, or -1.
func (l Ledger) ClientIndex(name string) int {
	for i := range l.Clients {
		if l.Clients[i].Name == name {
			return i
		}
	}
	return -1
}

func (l Ledger) Client(name string) (Client, bool) {
	idx := l.ClientIndex(name)
	if idx < 0 {
		return Client{}, false
	}
	return l.Clients[idx], true
}

func (l Ledger) ClientNames() []string {
	names := make([]string, 0, len(l.Clients))
	for _, client := range l.Clients {
		names = append(names, client.Name)
	}
	sort.Strings(names)
	return names
}

// NextScheduledSession returns the index of the earliest scheduled session
// booked for the client, or -1.
func (l Ledger) NextScheduledSession(name string) int {
	found := -1
	for i, session := range l.Sessions {
		if session.ClientName != name || session.Status != SessionScheduled {
			continue
		}
		if found < 0 || session.StartsAt.Before(l.Sessions[found].StartsAt) {
			found = i
		}
	}
	return found
}

// RefreshNextSession points the client's NextSession at its earliest
// scheduled session.
func (l *Ledger) RefreshNextSession(name string) {
	idx := l.ClientIndex(name)
	if idx < 0 {
		return
	}

	next := l.NextScheduledSession(name)
	if next < 0 {
		l.Clients[idx].NextSession = nil
		return
	}

	startsAt := l.Sessions[next].StartsAt
	l.Clients[idx].NextSession = &startsAt
}

// DerivedBalance recomputes a client's balance from the payment and session
// rows: payments made minus fees of billed sessions.
func (l Ledger) DerivedBalance(name string) decimal.Decimal {
	balance := decimal.Zero
	for _, payment := range l.Payments {
		if payment.ClientName == name {
			balance = balance.Add(payment.Amount)
		}
	}
	for _, session := range l.Sessions {
		if session.ClientName == name && session.Billed() {
			balance = balance.Sub(session.Fee)
		}
	}
	return balance
}

func (l Ledger) SessionsFor(name string) []Session {
	sessions := make([]Session, 0)
	for _, session := range l.Sessions {
		if session.ClientName == name {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

func (l Ledger) PaymentsFor(name string) []Payment {
	payments := make([]Payment, 0)
	for _, payment := range l.Payments {
		if payment.ClientName == name {
			payments = append(payments, payment)
		}
	}
	return payments
}

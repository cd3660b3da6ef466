package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
)

// WorkingHours is the grid of bookable slot start times for one day. EndHour
// is exclusive.
type WorkingHours struct {
	StartHour   int
	EndHour     int
	SlotMinutes int
}

var DefaultWorkingHours = WorkingHours{StartHour: 9, EndHour: 17, SlotMinutes: 60}

func (w WorkingHours) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("invalid working hours %02d-%02d: %w", w.StartHour, w.EndHour, domain.ErrValidation)
	}
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("invalid slot length %d minutes: %w", w.SlotMinutes, domain.ErrValidation)
	}
	return nil
}

// Slots lists the grid as HH:MM strings.
func (w WorkingHours) Slots() []string {
	slots := make([]string, 0)
	for minute := w.StartHour * 60; minute < w.EndHour*60; minute += w.SlotMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", minute/60, minute%60))
	}
	return slots
}

// ComputeScheduleForDay lists the scheduled sessions on day and the grid slots
// no session starts at. Slots are matched on exact HH:MM; session duration and
// overlaps are not considered, and two sessions at the same time are both
// listed as booked.
func (s *LedgerService) ComputeScheduleForDay(day time.Time) Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day = startOfDay(day, s.loc)
	schedule := Schedule{
		Day:       day,
		Booked:    []domain.Session{},
		FreeSlots: []string{},
		Grid:      s.hours.Slots(),
	}

	booked := map[string]struct{}{}
	for _, session := range s.ledger.Sessions {
		if session.Status != domain.SessionScheduled || !session.OnDay(day) {
			continue
		}
		schedule.Booked = append(schedule.Booked, session)
		booked[session.Clock(s.loc)] = struct{}{}
	}
	sort.SliceStable(schedule.Booked, func(i, j int) bool {
		return schedule.Booked[i].StartsAt.Before(schedule.Booked[j].StartsAt)
	})

	for _, slot := range schedule.Grid {
		if _, ok := booked[slot]; ok {
			continue
		}
		schedule.FreeSlots = append(schedule.FreeSlots, slot)
	}

	return schedule
}

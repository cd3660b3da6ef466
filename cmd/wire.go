package cmd

import (
	"context"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	calendaradapter "github.com/bnema/practice-ledger/internal/adapters/calendar"
	reportadapter "github.com/bnema/practice-ledger/internal/adapters/render/report"
	tomlrepo "github.com/bnema/practice-ledger/internal/adapters/repo/toml"
	"github.com/bnema/practice-ledger/internal/application"
	"github.com/bnema/practice-ledger/internal/dialogue"
	"github.com/bnema/practice-ledger/internal/logging"
	"github.com/bnema/practice-ledger/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type app struct {
	cfg      *viper.Viper
	log      *logrus.Logger
	service  *application.LedgerService
	calendar ports.Calendar
	renderer *reportadapter.Renderer
	engine   *dialogue.Engine
	clock    ports.Clock
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(os.Stderr, cfg.GetString(keyLogLevel), cfg.GetString(keyLogFormat))
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	loc, err := time.LoadLocation(cfg.GetString(keyCalendarTimezone))
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.GetString(keyCalendarTimezone), err)
	}

	cal, err := calendaradapter.New(calendaradapter.Kind(cfg.GetString(keyCalendarKind)), loc)
	if err != nil {
		return nil, fmt.Errorf("wire calendar: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire ledger repository: %w", err)
	}

	clock := ports.SystemClock{}
	service, err := application.NewLedgerService(context.Background(), repo, clock,
		application.WithLogger(log.WithField("component", "ledger")),
		application.WithLocation(loc),
		application.WithWorkingHours(application.WorkingHours{
			StartHour:   cfg.GetInt(keyScheduleStart),
			EndHour:     cfg.GetInt(keyScheduleEnd),
			SlotMinutes: cfg.GetInt(keyScheduleSlot),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("wire ledger service (%s): %w", repo.Path(), err)
	}

	renderer := reportadapter.New(cal, os.Stdout)
	engine := dialogue.NewEngine(service, cal, renderer,
		dialogue.WithClock(clock),
		dialogue.WithLogger(log.WithField("component", "dialogue")),
		dialogue.WithIdleTimeout(cfg.GetDuration(keyIdleTimeout)),
	)

	log.WithFields(logrus.Fields{
		"ledger":   repo.Path(),
		"calendar": cfg.GetString(keyCalendarKind),
		"timezone": loc.String(),
	}).Debug("practice ledger wired")

	return &app{
		cfg:      cfg,
		log:      log,
		service:  service,
		calendar: cal,
		renderer: renderer,
		engine:   engine,
		clock:    clock,
	}, nil
}

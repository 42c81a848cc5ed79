package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/ellarushing/asu-connect-sub003/internal/config"
	"github.com/ellarushing/asu-connect-sub003/internal/db"
	announcementdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/announcement"
	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	eventdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/event"
	flagdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/flag"
	moderationdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/moderation"
	profiledomain "github.com/ellarushing/asu-connect-sub003/internal/domain/profile"
	"github.com/ellarushing/asu-connect-sub003/internal/mail"
	"github.com/ellarushing/asu-connect-sub003/internal/notify"
	"github.com/ellarushing/asu-connect-sub003/internal/repository/inmemory"
	announcementrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/announcement"
	clubrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/club"
	eventrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/event"
	flagrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/flag"
	moderationrepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/moderation"
	profilerepo "github.com/ellarushing/asu-connect-sub003/internal/repository/postgres/profile"
	"github.com/ellarushing/asu-connect-sub003/internal/repository/rediscache"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver"
	"github.com/ellarushing/asu-connect-sub003/internal/transport/httpserver/handler"
	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	log        logger.Logger

	kafka      *notify.KafkaNotifier
	redisCache *rediscache.StatsCache
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, db: dbConn, log: log}

	notifier := a.buildNotifier()
	mailer := a.buildMailer()
	statsCache := a.buildStatsCache()

	profiles := profiledomain.NewService(profilerepo.NewPostgres(dbConn), cfg.AdminEmails)

	moderationSvc := moderationdomain.NewService(
		moderationrepo.NewPostgres(dbConn),
		flagrepo.NewPostgres(dbConn),
		clubrepo.NewPostgres(dbConn),
		statsCache,
		moderationdomain.Config{
			CacheTTL:       cfg.Stats.CacheTTL,
			RecentLogCount: cfg.Stats.RecentLogCount,
		},
		log,
	)

	clubs := clubdomain.NewService(clubrepo.NewPostgres(dbConn), moderationSvc, notifier, mailer, profiles)
	events := eventdomain.NewService(eventrepo.NewPostgres(dbConn), clubs, notifier)
	announcements := announcementdomain.NewService(announcementrepo.NewPostgres(dbConn), clubs)

	flags := flagdomain.NewService(
		flagrepo.NewPostgres(dbConn),
		&entityDirectory{clubs: clubs, events: events},
		moderationSvc,
		notifier,
	)

	log.Info("app: initializing router")
	handlers := handler.New(clubs, events, announcements, flags, moderationSvc, log)
	router := httpserver.NewRouter(cfg, handlers, profiles, log)

	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

func (a *App) buildNotifier() notify.Notifier {
	if !a.cfg.Kafka.Enabled {
		return notify.Noop{}
	}
	a.kafka = notify.NewKafkaNotifier(a.cfg.Kafka)
	a.log.Info("app: kafka notifier enabled", "topic", a.cfg.Kafka.Topic)
	return a.kafka
}

func (a *App) buildMailer() mail.Mailer {
	if !a.cfg.SMTP.Enabled {
		return mail.Noop{}
	}
	a.log.Info("app: smtp mailer enabled", "host", a.cfg.SMTP.Host)
	return mail.NewSMTP(a.cfg.SMTP)
}

func (a *App) buildStatsCache() moderationdomain.StatsCache {
	if !a.cfg.Redis.Enabled {
		return inmemory.NewStatsCache()
	}
	cache, err := rediscache.New(a.cfg.Redis)
	if err != nil {
		// Stats still work without the shared cache, just uncached
		// across instances.
		a.log.Error("app: redis unavailable, using in-process stats cache", "err", err)
		return inmemory.NewStatsCache()
	}
	a.redisCache = cache
	a.log.Info("app: redis stats cache enabled", "addr", a.cfg.Redis.Addr)
	return cache
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error

	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// entityDirectory resolves a flagged entity to its creator across the club
// and event domains, folding both not-found cases into the flag domain's.
type entityDirectory struct {
	clubs  *clubdomain.Service
	events *eventdomain.Service
}

func (d *entityDirectory) EntityCreator(ctx context.Context, entityType, entityID string) (string, error) {
	switch entityType {
	case flagdomain.EntityClub:
		_, createdBy, err := d.clubs.ClubState(ctx, entityID)
		if errors.Is(err, clubdomain.ErrClubNotFound) {
			return "", flagdomain.ErrEntityNotFound
		}
		if err != nil {
			return "", err
		}
		return createdBy, nil
	case flagdomain.EntityEvent:
		e, err := d.events.GetEvent(ctx, entityID)
		if errors.Is(err, eventdomain.ErrEventNotFound) {
			return "", flagdomain.ErrEntityNotFound
		}
		if err != nil {
			return "", err
		}
		return e.CreatedBy, nil
	default:
		return "", flagdomain.ErrInvalidEntityType
	}
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/db"
	"github.com/fitcircle/fitcircle/internal/repository"
	"github.com/fitcircle/fitcircle/internal/service"
	"github.com/fitcircle/fitcircle/internal/session"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Gate               session.Gate
	AuthService        *service.AuthService
	MembershipService  *service.MembershipService
	GroupService       *service.GroupService
	EventService       *service.EventService
	GoalService        *service.GoalService
	AchievementService *service.AchievementService

	closeGate func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.DBMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Session gate
	gate, closeGate, err := newGate(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize session gate: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	groupRepository := repository.NewGroupRepository(database)
	membershipRepository := repository.NewMembershipRepository(database)
	eventRepository := repository.NewEventRepository(database)
	attendanceRepository := repository.NewAttendanceRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	achievementRepository := repository.NewAchievementRepository(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	membershipService := service.NewMembershipService(groupRepository, membershipRepository)
	groupService := service.NewGroupService(groupRepository, membershipRepository, membershipService)
	eventService := service.NewEventService(
		eventRepository,
		attendanceRepository,
		membershipService,
		cfg.DefaultEventCapacity,
		cfg.UpcomingEventsLimit,
	)
	goalService := service.NewGoalService(goalRepository, membershipService)
	achievementService := service.NewAchievementService(achievementRepository, goalRepository)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Gate:               gate,
		AuthService:        authService,
		MembershipService:  membershipService,
		GroupService:       groupService,
		EventService:       eventService,
		GoalService:        goalService,
		AchievementService: achievementService,
		closeGate:          closeGate,
	}, nil
}

// newGate uses Redis when REDIS_URL is set so every instance shares session
// state, and falls back to process memory otherwise.
func newGate(ctx context.Context, cfg *config.Config) (session.Gate, func() error, error) {
	if cfg.RedisURL == "" {
		slog.Info("session gate: memory", "ttl", cfg.SessionTTL)
		return session.NewMemoryGate(cfg.SessionTTL), func() error { return nil }, nil
	}

	gate, err := session.NewRedisGate(ctx, cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("session gate: redis", "ttl", cfg.SessionTTL)
	return gate, gate.Close, nil
}

func (a *App) Close() error {
	if a.closeGate != nil {
		if err := a.closeGate(); err != nil {
			slog.Error("failed to close session gate", "error", err)
		}
	}
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}

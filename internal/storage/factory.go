package storage

import (
	"context"
	"fmt"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/config"
)

// Open builds the backend named by cfg.DBType. A backend that cannot be
// initialised is logged and replaced with Unavailable so the server still
// starts.
func Open(ctx context.Context, cfg *config.Config, logger internal.Logger) Store {
	store, err := open(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("storage: %s backend unavailable: %v", cfg.DBType, err)
		return Unavailable{Reason: err.Error()}
	}
	logger.Infof("storage: using %s backend", cfg.DBType)
	return store
}

func open(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "file":
		return NewFileStorage(cfg.FileProfiles, cfg.FileSchedules, logger)
	case "postgres":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DATABASE_URL: %w", internal.ErrNotConfigured)
		}
		return NewPostgresStorage(ctx, cfg.DBDSN, logger)
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH: %w", internal.ErrNotConfigured)
		}
		return NewSQLiteStorage(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.DBType)
	}
}

// Unavailable fails every call with internal.ErrNotConfigured.
type Unavailable struct {
	Reason string
}

func (u Unavailable) err() error {
	if u.Reason == "" {
		return fmt.Errorf("storage: %w", internal.ErrNotConfigured)
	}
	return fmt.Errorf("storage (%s): %w", u.Reason, internal.ErrNotConfigured)
}

func (u Unavailable) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	return nil, u.err()
}

func (u Unavailable) SaveProfile(ctx context.Context, p *internal.UserProfile) error {
	return u.err()
}

func (u Unavailable) SaveSchedule(ctx context.Context, rec *internal.ScheduleRecord) error {
	return u.err()
}

func (u Unavailable) ListSchedules(ctx context.Context, userID string) ([]internal.ScheduleRecord, error) {
	return nil, u.err()
}

func (u Unavailable) Close() error { return nil }

var _ Store = Unavailable{}

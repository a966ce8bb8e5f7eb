package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/storage"
)

// Generator produces a schedule from normalized parameters.
type Generator interface {
	Synthesize(ctx context.Context, p Parameters) (internal.WeeklySchedule, error)
}

type ScheduleService struct {
	profiles  storage.ProfileRepository
	schedules storage.ScheduleRepository
	generator Generator
	logger    internal.Logger
	now       func() time.Time
}

func NewScheduleService(profiles storage.ProfileRepository, schedules storage.ScheduleRepository, generator Generator, logger internal.Logger) *ScheduleService {
	return &ScheduleService{
		profiles:  profiles,
		schedules: schedules,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateForUser looks up the stored profile and generates from it.
// A missing profile yields internal.ErrProfileNotFound.
func (s *ScheduleService) GenerateForUser(ctx context.Context, userID string) (internal.WeeklySchedule, PersistResult, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, PersistResult{}, fmt.Errorf("user_id %s: %w", userID, internal.ErrProfileNotFound)
	}
	if err != nil {
		return nil, PersistResult{}, fmt.Errorf("fetch profile: %w", err)
	}
	name := profile.FullName
	if name == "" {
		name = "Unknown"
	}
	s.logger.Infof("found user profile for %s", name)
	profile.UserID = userID
	return s.generate(ctx, *profile)
}

// GenerateForProfile generates from an inline profile.
func (s *ScheduleService) GenerateForProfile(ctx context.Context, profile internal.UserProfile) (internal.WeeklySchedule, PersistResult, error) {
	return s.generate(ctx, profile)
}

func (s *ScheduleService) generate(ctx context.Context, profile internal.UserProfile) (internal.WeeklySchedule, PersistResult, error) {
	params := NormalizeProfile(profile)
	schedule, err := s.generator.Synthesize(ctx, params)
	if err != nil {
		return nil, PersistResult{}, err
	}

	rec := &internal.ScheduleRecord{
		ID:        uuid.NewString(),
		UserID:    profile.UserID,
		Profile:   profile,
		Schedule:  schedule,
		CreatedAt: s.now(),
	}
	res := PersistSchedule(ctx, s.schedules, rec)
	if res.Err != nil {
		s.logger.Warnf("schedule %s not persisted: %v", res.ID, res.Err)
	}
	return schedule, res, nil
}

// PersistResult reports the outcome of a best-effort write. Callers log Err;
// they never return it.
type PersistResult struct {
	ID  string
	Err error
}

func (r PersistResult) OK() bool { return r.ID != "" && r.Err == nil }

func PersistSchedule(ctx context.Context, repo storage.ScheduleRepository, rec *internal.ScheduleRecord) PersistResult {
	res := PersistResult{ID: rec.ID}
	if repo == nil {
		res.Err = fmt.Errorf("schedule repository: %w", internal.ErrNotConfigured)
		return res
	}
	if err := repo.SaveSchedule(ctx, rec); err != nil {
		res.Err = fmt.Errorf("persist schedule: %w", err)
	}
	return res
}

func (s *ScheduleService) ListSchedules(ctx context.Context, userID string) ([]internal.ScheduleRecord, error) {
	return s.schedules.ListSchedules(ctx, userID)
}

// SaveProfile stores an onboarding profile after format validation.
func (s *ScheduleService) SaveProfile(ctx context.Context, profile *internal.UserProfile) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	return s.profiles.SaveProfile(ctx, profile)
}

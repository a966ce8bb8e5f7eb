package storage

import (
	"context"
	"errors"

	"github.com/KirthanNB/Zchedule.ai/internal"
)

var ErrNotFound = errors.New("storage: not found")

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error)
	SaveProfile(ctx context.Context, profile *internal.UserProfile) error
}

type ScheduleRepository interface {
	SaveSchedule(ctx context.Context, rec *internal.ScheduleRecord) error
	ListSchedules(ctx context.Context, userID string) ([]internal.ScheduleRecord, error)
}

// Store bundles both repositories with the backend's lifecycle.
type Store interface {
	ProfileRepository
	ScheduleRepository
	Close() error
}

func nonNilCommitments(in []internal.FixedCommitment) []internal.FixedCommitment {
	if in == nil {
		return []internal.FixedCommitment{}
	}
	return in
}

func nonNilAreas(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KirthanNB/Zchedule.ai/internal"
)

// PostgresStorage reads user_profiles and writes schedules on the hosted
// database.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- ProfileRepository ---
const selectProfile = `SELECT user_id,
	COALESCE(username, ''), COALESCE(email, ''), COALESCE(full_name, ''),
	COALESCE(wake_up_time, ''), COALESCE(bed_time, ''),
	COALESCE(chronotype, ''), COALESCE(focus_preference, ''),
	COALESCE(short_term_goals, ''), COALESCE(long_term_goals, ''),
	COALESCE(fixed_commitments, '[]'::jsonb),
	COALESCE(working_hours_start::text, ''), COALESCE(working_hours_end::text, ''),
	COALESCE(daily_productivity_hours::text, ''), COALESCE(to_jsonb(priority_areas), '[]'::jsonb)
FROM user_profiles WHERE user_id = $1 LIMIT 1`

func (p *PostgresStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	var (
		u           internal.UserProfile
		commitments []byte
		areas       []byte
	)
	err := p.pool.QueryRow(ctx, selectProfile, userID).Scan(
		&u.UserID, &u.Username, &u.Email, &u.FullName,
		&u.WakeUpTime, &u.BedTime, &u.SleepPreference, &u.FocusPreference,
		&u.ShortTermGoals, &u.LongTermGoals, &commitments,
		&u.WorkingHoursStart, &u.WorkingHoursEnd, &u.DailyProductivityHours, &areas,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to query profile: %v", err)
		return nil, err
	}
	if err := json.Unmarshal(commitments, &u.FixedCommitments); err != nil {
		return nil, fmt.Errorf("decode fixed_commitments: %w", err)
	}
	if err := json.Unmarshal(areas, &u.PriorityAreas); err != nil {
		return nil, fmt.Errorf("decode priority_areas: %w", err)
	}
	return &u, nil
}

func (p *PostgresStorage) SaveProfile(ctx context.Context, u *internal.UserProfile) error {
	commitments, err := json.Marshal(nonNilCommitments(u.FixedCommitments))
	if err != nil {
		return err
	}
	areas, err := json.Marshal(nonNilAreas(u.PriorityAreas))
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO user_profiles
	(user_id, username, email, full_name, wake_up_time, bed_time, chronotype, focus_preference, short_term_goals, long_term_goals, fixed_commitments,
	 working_hours_start, working_hours_end, daily_productivity_hours, priority_areas, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
	ON CONFLICT (user_id) DO UPDATE SET
		username = EXCLUDED.username, email = EXCLUDED.email, full_name = EXCLUDED.full_name,
		wake_up_time = EXCLUDED.wake_up_time, bed_time = EXCLUDED.bed_time, chronotype = EXCLUDED.chronotype,
		focus_preference = EXCLUDED.focus_preference, short_term_goals = EXCLUDED.short_term_goals,
		long_term_goals = EXCLUDED.long_term_goals, fixed_commitments = EXCLUDED.fixed_commitments,
		working_hours_start = EXCLUDED.working_hours_start, working_hours_end = EXCLUDED.working_hours_end,
		daily_productivity_hours = EXCLUDED.daily_productivity_hours, priority_areas = EXCLUDED.priority_areas,
		updated_at = now()`,
		u.UserID, u.Username, u.Email, u.FullName, u.WakeUpTime, u.BedTime, u.SleepPreference,
		u.FocusPreference, u.ShortTermGoals, u.LongTermGoals, commitments,
		u.WorkingHoursStart, u.WorkingHoursEnd, u.DailyProductivityHours, areas)
	if err != nil {
		p.logger.Errorf("failed to upsert profile: %v", err)
		return err
	}
	return nil
}

// --- ScheduleRepository ---
func (p *PostgresStorage) SaveSchedule(ctx context.Context, rec *internal.ScheduleRecord) error {
	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return err
	}
	schedule, err := json.Marshal(rec.Schedule)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO schedules (id, user_id, profile, schedule, created_at) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, nullIfEmpty(rec.UserID), profile, schedule, rec.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert schedule: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListSchedules(ctx context.Context, userID string) ([]internal.ScheduleRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, COALESCE(user_id, ''), profile, schedule, created_at FROM schedules WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query schedules: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []internal.ScheduleRecord{}
	for rows.Next() {
		var (
			r                 internal.ScheduleRecord
			profile, schedule []byte
		)
		if err := rows.Scan(&r.ID, &r.UserID, &profile, &schedule, &r.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan schedule: %v", err)
			return nil, err
		}
		if err := json.Unmarshal(profile, &r.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		if err := json.Unmarshal(schedule, &r.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)

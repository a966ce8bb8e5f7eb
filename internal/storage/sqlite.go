package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KirthanNB/Zchedule.ai/internal"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// Fixed-width so that created_at sorts lexically.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStorage is a single-file local stand-in for the hosted database.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(ctx context.Context, path string, logger internal.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite: %v", err)
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000")
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")

	s := &SQLiteStorage{db: db, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		logger.Errorf("failed to migrate sqlite: %v", err)
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- ProfileRepository ---
func (s *SQLiteStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	var (
		u           internal.UserProfile
		commitments string
		areas       string
	)
	err := s.db.QueryRowContext(ctx, `SELECT user_id, username, email, full_name, wake_up_time, bed_time,
		chronotype, focus_preference, short_term_goals, long_term_goals, fixed_commitments,
		working_hours_start, working_hours_end, daily_productivity_hours, priority_areas
		FROM user_profiles WHERE user_id = ?`, userID).Scan(
		&u.UserID, &u.Username, &u.Email, &u.FullName, &u.WakeUpTime, &u.BedTime,
		&u.SleepPreference, &u.FocusPreference, &u.ShortTermGoals, &u.LongTermGoals, &commitments,
		&u.WorkingHoursStart, &u.WorkingHoursEnd, &u.DailyProductivityHours, &areas,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Errorf("failed to query profile: %v", err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(commitments), &u.FixedCommitments); err != nil {
		return nil, fmt.Errorf("decode fixed_commitments: %w", err)
	}
	if err := json.Unmarshal([]byte(areas), &u.PriorityAreas); err != nil {
		return nil, fmt.Errorf("decode priority_areas: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStorage) SaveProfile(ctx context.Context, u *internal.UserProfile) error {
	commitments, err := json.Marshal(nonNilCommitments(u.FixedCommitments))
	if err != nil {
		return err
	}
	areas, err := json.Marshal(nonNilAreas(u.PriorityAreas))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO user_profiles
		(user_id, username, email, full_name, wake_up_time, bed_time, chronotype, focus_preference, short_term_goals, long_term_goals, fixed_commitments,
		 working_hours_start, working_hours_end, daily_productivity_hours, priority_areas, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
			username=excluded.username, email=excluded.email, full_name=excluded.full_name,
			wake_up_time=excluded.wake_up_time, bed_time=excluded.bed_time, chronotype=excluded.chronotype,
			focus_preference=excluded.focus_preference, short_term_goals=excluded.short_term_goals,
			long_term_goals=excluded.long_term_goals, fixed_commitments=excluded.fixed_commitments,
			working_hours_start=excluded.working_hours_start, working_hours_end=excluded.working_hours_end,
			daily_productivity_hours=excluded.daily_productivity_hours, priority_areas=excluded.priority_areas,
			updated_at=excluded.updated_at`,
		u.UserID, u.Username, u.Email, u.FullName, u.WakeUpTime, u.BedTime, u.SleepPreference,
		u.FocusPreference, u.ShortTermGoals, u.LongTermGoals, string(commitments),
		u.WorkingHoursStart, u.WorkingHoursEnd, u.DailyProductivityHours, string(areas),
		time.Now().UTC().Format(sqliteTime),
	)
	if err != nil {
		s.logger.Errorf("failed to upsert profile: %v", err)
	}
	return err
}

// --- ScheduleRepository ---
func (s *SQLiteStorage) SaveSchedule(ctx context.Context, rec *internal.ScheduleRecord) error {
	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return err
	}
	schedule, err := json.Marshal(rec.Schedule)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO schedules(id, user_id, profile, schedule, created_at) VALUES(?,?,?,?,?)`,
		rec.ID, nullIfEmpty(rec.UserID), string(profile), string(schedule),
		rec.CreatedAt.UTC().Format(sqliteTime),
	)
	if err != nil {
		s.logger.Errorf("failed to insert schedule: %v", err)
	}
	return err
}

func (s *SQLiteStorage) ListSchedules(ctx context.Context, userID string) ([]internal.ScheduleRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(user_id, ''), profile, schedule, created_at FROM schedules WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		s.logger.Errorf("failed to query schedules: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []internal.ScheduleRecord{}
	for rows.Next() {
		var (
			r                            internal.ScheduleRecord
			profile, schedule, createdAt string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &profile, &schedule, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(profile), &r.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		if err := json.Unmarshal([]byte(schedule), &r.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
		if r.CreatedAt, err = time.Parse(sqliteTime, createdAt); err != nil {
			return nil, fmt.Errorf("decode created_at: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// --- Compile-time assertions ---
var _ Store = (*SQLiteStorage)(nil)

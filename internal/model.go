package internal

import "time"

type FixedCommitment struct {
	Day   string `json:"day" validate:"required,weekday"`
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
	Title string `json:"title" validate:"required"`
}

// UserProfile is the loosely-shaped preference record. Empty strings mean the
// field was not supplied and are defaulted by the normalizer.
type UserProfile struct {
	UserID           string            `json:"user_id,omitempty"`
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	FullName         string            `json:"full_name,omitempty"`
	WakeUpTime       string            `json:"wakeUpTime" validate:"omitempty,hhmm"`
	BedTime          string            `json:"bedTime,omitempty" validate:"omitempty,hhmm"`
	SleepPreference  string            `json:"sleepPreference"`
	FocusPreference  string            `json:"focusPreference"`
	ShortTermGoals   string            `json:"shortTermGoals"`
	LongTermGoals    string            `json:"longTermGoals"`
	FixedCommitments []FixedCommitment `json:"fixedCommitments" validate:"dive"`

	WorkingHoursStart      string   `json:"workingHoursStart,omitempty" validate:"omitempty,hhmm"`
	WorkingHoursEnd        string   `json:"workingHoursEnd,omitempty" validate:"omitempty,hhmm"`
	DailyProductivityHours string   `json:"dailyProductivityHours,omitempty"`
	PriorityAreas          []string `json:"priorityAreas,omitempty"`
}

type Activity struct {
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Activity  string `json:"activity" validate:"required"`
}

type DayPlan struct {
	Day        string     `json:"day" validate:"required,weekday"`
	Activities []Activity `json:"activities" validate:"required,min=1,dive"`
}

// WeeklySchedule is serialised as a bare JSON array of seven day plans.
type WeeklySchedule []DayPlan

type ScheduleRecord struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	Profile   UserProfile    `json:"profile"`
	Schedule  WeeklySchedule `json:"schedule"`
	CreatedAt time.Time      `json:"created_at"`
}

// Weekdays lists the canonical day names in output order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

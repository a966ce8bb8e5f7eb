package service

import (
	"strings"

	"github.com/KirthanNB/Zchedule.ai/internal"
)

const (
	DefaultWakeUpTime      = "07:00"
	DefaultBedTime         = "22:00"
	DefaultSleepPreference = "morning_person"
	DefaultFocusPreference = "deep_work"

	RoleStudent      = "Student"
	RoleProfessional = "Professional"
)

// Parameters is the fixed bundle the synthesizer works from.
type Parameters struct {
	Role             string
	WakeUpTime       string
	BedTime          string
	SleepPreference  string
	FocusPreference  string
	ShortTermGoal    string
	LongTermGoal     string
	FixedCommitments []internal.FixedCommitment

	// Optional; empty when the profile does not carry them.
	WorkingHoursStart      string
	WorkingHoursEnd        string
	DailyProductivityHours string
	PriorityAreas          []string
}

// NormalizeProfile fills defaults for every absent field and derives the role.
// It never fails.
func NormalizeProfile(p internal.UserProfile) Parameters {
	commitments := make([]internal.FixedCommitment, len(p.FixedCommitments))
	copy(commitments, p.FixedCommitments)
	var areas []string
	for _, a := range p.PriorityAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}

	return Parameters{
		Role:             DeriveRole(p.ShortTermGoals),
		WakeUpTime:       orDefault(p.WakeUpTime, DefaultWakeUpTime),
		BedTime:          orDefault(p.BedTime, DefaultBedTime),
		SleepPreference:  orDefault(p.SleepPreference, DefaultSleepPreference),
		FocusPreference:  orDefault(p.FocusPreference, DefaultFocusPreference),
		ShortTermGoal:    p.ShortTermGoals,
		LongTermGoal:     p.LongTermGoals,
		FixedCommitments: commitments,

		WorkingHoursStart:      strings.TrimSpace(p.WorkingHoursStart),
		WorkingHoursEnd:        strings.TrimSpace(p.WorkingHoursEnd),
		DailyProductivityHours: strings.TrimSpace(p.DailyProductivityHours),
		PriorityAreas:          areas,
	}
}

func DeriveRole(shortTermGoals string) string {
	if strings.Contains(strings.ToLower(shortTermGoals), "student") {
		return RoleStudent
	}
	return RoleProfessional
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KirthanNB/Zchedule.ai/internal"
)

var fence = regexp.MustCompile("```(?:json)?")

// StripCodeFences removes markdown fence markers anywhere in raw and trims
// the result.
func StripCodeFences(raw string) string {
	return strings.TrimSpace(fence.ReplaceAllString(raw, ""))
}

// ParseWeeklySchedule decodes fenced or bare model output into a schedule.
func ParseWeeklySchedule(raw string) (internal.WeeklySchedule, error) {
	var schedule internal.WeeklySchedule
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return schedule, nil
}

// ScheduleViolations collects every problem found in a generated schedule.
type ScheduleViolations []string

func (v ScheduleViolations) Error() string {
	return "invalid schedule: " + strings.Join(v, "; ")
}

// ValidateWeeklySchedule checks the shape of a generated schedule and returns
// it reordered Monday to Sunday.
func ValidateWeeklySchedule(schedule internal.WeeklySchedule, commitments []internal.FixedCommitment) (internal.WeeklySchedule, error) {
	var problems ScheduleViolations
	byDay := make(map[string]internal.DayPlan, len(internal.Weekdays))

	for i, plan := range schedule {
		if !internal.IsWeekday(plan.Day) {
			problems = append(problems, fmt.Sprintf("entry %d: unknown day %q", i, plan.Day))
			continue
		}
		if _, dup := byDay[plan.Day]; dup {
			problems = append(problems, fmt.Sprintf("%s appears more than once", plan.Day))
			continue
		}
		byDay[plan.Day] = plan
		if err := validate.Struct(plan); err != nil {
			problems = append(problems, describe(plan.Day, err)...)
		}
	}
	for _, day := range internal.Weekdays {
		if _, ok := byDay[day]; !ok {
			problems = append(problems, fmt.Sprintf("%s is missing", day))
		}
	}
	for _, fc := range commitments {
		if !internal.IsWeekday(fc.Day) {
			problems = append(problems, fmt.Sprintf("%q: fixed commitment day is not a weekday", fc.Day))
			continue
		}
		plan, ok := byDay[fc.Day]
		if !ok {
			continue
		}
		if !containsCommitment(plan, fc) {
			problems = append(problems, fmt.Sprintf("%s: fixed commitment %q %s-%s not reproduced", fc.Day, fc.Title, fc.Start, fc.End))
		}
	}
	if len(problems) > 0 {
		return nil, problems
	}

	ordered := make(internal.WeeklySchedule, 0, len(internal.Weekdays))
	for _, day := range internal.Weekdays {
		ordered = append(ordered, byDay[day])
	}
	return ordered, nil
}

func containsCommitment(plan internal.DayPlan, fc internal.FixedCommitment) bool {
	for _, a := range plan.Activities {
		if a.StartTime == fc.Start && a.EndTime == fc.End && a.Activity == fc.Title {
			return true
		}
	}
	return false
}

func describe(day string, err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("%s: %v", day, err)}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "hhmm":
			out = append(out, fmt.Sprintf("%s: %s %q is not HH:MM", day, fe.Field(), fe.Value()))
		case fe.Field() == "Activities":
			out = append(out, fmt.Sprintf("%s: no activities", day))
		default:
			out = append(out, fmt.Sprintf("%s: %s failed %s", day, fe.Namespace(), fe.Tag()))
		}
	}
	return out
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/llm"
)

// stubClient answers the guideline step with canned bullets and the schedule
// step with a week built from the fixed commitments it was given.
type stubClient struct {
	commitments []internal.FixedCommitment
	wrap        func(string) string
	scheduleRaw string
	failOn      int
	calls       []llm.ChatRequest
}

func (s *stubClient) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	s.calls = append(s.calls, req)
	if s.failOn == len(s.calls) {
		return llm.ChatResponse{}, errors.New("upstream unavailable")
	}
	if len(s.calls) == 1 {
		return llm.ChatResponse{Content: "- Monday: breakfast 07:00\n- Sunday: long-term goal session"}, nil
	}
	raw := s.scheduleRaw
	if raw == "" {
		b, _ := json.Marshal(weekWith(s.commitments))
		raw = string(b)
	}
	if s.wrap != nil {
		raw = s.wrap(raw)
	}
	return llm.ChatResponse{Content: raw}, nil
}

func weekWith(commitments []internal.FixedCommitment) internal.WeeklySchedule {
	week := make(internal.WeeklySchedule, 0, 7)
	for _, day := range internal.Weekdays {
		plan := internal.DayPlan{Day: day, Activities: []internal.Activity{
			{StartTime: "07:00", EndTime: "07:30", Activity: "Breakfast"},
			{StartTime: "10:30", EndTime: "12:30", Activity: "Deep work"},
			{StartTime: "12:30", EndTime: "13:30", Activity: "Lunch"},
			{StartTime: "17:00", EndTime: "17:45", Activity: "Exercise"},
			{StartTime: "19:00", EndTime: "20:00", Activity: "Dinner"},
			{StartTime: "21:00", EndTime: "21:30", Activity: "Daily review"},
		}}
		if day == "Sunday" {
			plan.Activities = append(plan.Activities, internal.Activity{StartTime: "15:00", EndTime: "16:00", Activity: "Long-term goal session"})
		}
		for _, fc := range commitments {
			if fc.Day == day {
				plan.Activities = append(plan.Activities, internal.Activity{StartTime: fc.Start, EndTime: fc.End, Activity: fc.Title})
			}
		}
		week = append(week, plan)
	}
	return week
}

func scenarioProfile() internal.UserProfile {
	return internal.UserProfile{
		WakeUpTime:     "06:30",
		BedTime:        "23:00",
		ShortTermGoals: "Prepare for Student exams",
		FixedCommitments: []internal.FixedCommitment{
			{Day: "Monday", Start: "09:00", End: "10:00", Title: "Team sync"},
		},
	}
}

func TestSynthesize_EndToEnd(t *testing.T) {
	profile := scenarioProfile()
	client := &stubClient{commitments: profile.FixedCommitments}
	synth := NewSynthesizer(client, internal.NewNopLogger())

	week, err := synth.Synthesize(context.Background(), NormalizeProfile(profile))
	require.NoError(t, err)
	require.Len(t, week, 7)
	for i, day := range internal.Weekdays {
		assert.Equal(t, day, week[i].Day)
	}
	assert.Contains(t, week[0].Activities, internal.Activity{StartTime: "09:00", EndTime: "10:00", Activity: "Team sync"})

	require.Len(t, client.calls, 2)
	guideline := client.calls[0].Messages[1].Content
	assert.Contains(t, guideline, "student who wakes at 06:30 and sleeps at 23:00")
	assert.Contains(t, guideline, "Role: Student")
	assert.Contains(t, guideline, `"title":"Team sync"`)
	assert.Contains(t, client.calls[0].Messages[0].Content, "Senior Life Coach")

	schedule := client.calls[1].Messages[1].Content
	assert.Contains(t, schedule, "Long-term goal 60 min on Sunday")
	assert.Contains(t, schedule, "- Monday: breakfast 07:00")
	assert.Contains(t, client.calls[1].Messages[0].Content, "Master Micro-Scheduler")
}

func TestSynthesize_FencedOutput(t *testing.T) {
	profile := scenarioProfile()
	for _, wrap := range []func(string) string{
		func(s string) string { return "```json\n" + s + "\n```" },
		func(s string) string { return "```\n" + s + "\n```" },
		func(s string) string { return "  " + s + "  " },
	} {
		client := &stubClient{commitments: profile.FixedCommitments, wrap: wrap}
		week, err := NewSynthesizer(client, internal.NewNopLogger()).Synthesize(context.Background(), NormalizeProfile(profile))
		require.NoError(t, err)
		assert.Len(t, week, 7)
	}
}

func TestSynthesize_ReordersDays(t *testing.T) {
	week := weekWith(nil)
	week[0], week[6] = week[6], week[0]
	b, _ := json.Marshal(week)

	client := &stubClient{scheduleRaw: string(b)}
	got, err := NewSynthesizer(client, internal.NewNopLogger()).Synthesize(context.Background(), NormalizeProfile(internal.UserProfile{}))
	require.NoError(t, err)
	assert.Equal(t, "Monday", got[0].Day)
	assert.Equal(t, "Sunday", got[6].Day)
}

func TestSynthesize_Errors(t *testing.T) {
	profile := scenarioProfile()
	params := NormalizeProfile(profile)

	cases := []struct {
		name   string
		client *stubClient
		stage  string
	}{
		{"guideline call fails", &stubClient{failOn: 1}, "pipeline"},
		{"schedule call fails", &stubClient{failOn: 2}, "pipeline"},
		{"not json", &stubClient{scheduleRaw: "Here is your schedule!"}, "parse"},
		{"wrong shape", &stubClient{scheduleRaw: `{"day":"Monday"}`}, "parse"},
		{"commitment dropped", &stubClient{}, "validate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSynthesizer(tc.client, internal.NewNopLogger()).Synthesize(context.Background(), params)
			require.Error(t, err)
			var gerr *internal.GenerationError
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tc.stage, gerr.Stage)
			assert.True(t, IsGenerationError(err))
		})
	}
}

func TestSynthesize_NoClient(t *testing.T) {
	_, err := NewSynthesizer(nil, internal.NewNopLogger()).Synthesize(context.Background(), Parameters{})
	assert.ErrorIs(t, err, internal.ErrNotConfigured)
}

func TestStripCodeFences(t *testing.T) {
	body := `[{"day":"Monday","activities":[]}]`
	assert.Equal(t, body, StripCodeFences(body))
	assert.Equal(t, body, StripCodeFences("```json\n"+body+"\n```"))
	assert.Equal(t, body, StripCodeFences("```\n"+body+"```"))

	plain, err := ParseWeeklySchedule(body)
	require.NoError(t, err)
	fenced, err := ParseWeeklySchedule("```json" + body + "```")
	require.NoError(t, err)
	assert.Equal(t, plain, fenced)
}

func TestValidateWeeklySchedule(t *testing.T) {
	fc := []internal.FixedCommitment{{Day: "Monday", Start: "09:00", End: "10:00", Title: "Team sync"}}

	_, err := ValidateWeeklySchedule(weekWith(fc), fc)
	require.NoError(t, err)

	missing := weekWith(fc)[:6]
	_, err = ValidateWeeklySchedule(missing, fc)
	assert.ErrorContains(t, err, "Sunday is missing")

	dup := append(weekWith(fc), weekWith(fc)[2])
	_, err = ValidateWeeklySchedule(dup, fc)
	assert.ErrorContains(t, err, "Wednesday appears more than once")

	bad := weekWith(fc)
	bad[1].Activities[0].StartTime = "7am"
	bad[2].Day = "Wed"
	bad[3].Activities = nil
	_, err = ValidateWeeklySchedule(bad, fc)
	var v ScheduleViolations
	require.True(t, errors.As(err, &v))
	joined := strings.Join(v, "\n")
	assert.Contains(t, joined, `"7am" is not HH:MM`)
	assert.Contains(t, joined, `unknown day "Wed"`)
	assert.Contains(t, joined, "Thursday: no activities")

	altered := weekWith([]internal.FixedCommitment{{Day: "Monday", Start: "09:00", End: "10:15", Title: "Team sync"}})
	_, err = ValidateWeeklySchedule(altered, fc)
	assert.ErrorContains(t, err, fmt.Sprintf("fixed commitment %q", "Team sync"))
}

func TestValidateWeeklySchedule_CommitmentOnUnknownDay(t *testing.T) {
	fc := []internal.FixedCommitment{{Day: "monday", Start: "09:00", End: "10:00", Title: "Team sync"}}

	got, err := ValidateWeeklySchedule(weekWith(nil), fc)
	assert.Nil(t, got)
	var v ScheduleViolations
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v, `"monday": fixed commitment day is not a weekday`)
}

func TestSynthesize_RejectsCommitmentOnUnknownDay(t *testing.T) {
	params := NormalizeProfile(internal.UserProfile{
		FixedCommitments: []internal.FixedCommitment{{Day: "Mon", Start: "09:00", End: "10:00", Title: "Team sync"}},
	})
	s := NewSynthesizer(&stubClient{}, internal.NewNopLogger())

	_, err := s.Synthesize(context.Background(), params)
	var genErr *internal.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "validate", genErr.Stage)
	assert.ErrorContains(t, err, `"Mon": fixed commitment day is not a weekday`)
}

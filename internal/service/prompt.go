package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KirthanNB/Zchedule.ai/internal/llm"
)

var (
	lifeCoach = llm.Agent{
		Role:      "Senior Life Coach & Productivity Strategist",
		Goal:      "Create hyper-personalised weekly guidelines",
		Backstory: "20-year expert optimising energy, chronotypes, and goals.",
	}
	microScheduler = llm.Agent{
		Role:      "Master Micro-Scheduler",
		Goal:      "Emit a strict JSON timetable for 7 days, minute-perfect.",
		Backstory: "Constraint-satisfaction wizard.",
	}
)

func profileContext(p Parameters) string {
	commitments, _ := json.Marshal(p.FixedCommitments)
	var b strings.Builder
	fmt.Fprintf(&b, `Role: %s
Wake-up: %s
Bed-time: %s
Chronotype: %s
Deep-work style: %s
Short-term goal: %s
Long-term goal: %s
Fixed commitments: %s
`, p.Role, p.WakeUpTime, p.BedTime, p.SleepPreference, p.FocusPreference,
		p.ShortTermGoal, p.LongTermGoal, commitments)
	if p.WorkingHoursStart != "" && p.WorkingHoursEnd != "" {
		fmt.Fprintf(&b, "Working hours: %s-%s\n", p.WorkingHoursStart, p.WorkingHoursEnd)
	}
	if p.DailyProductivityHours != "" {
		fmt.Fprintf(&b, "Daily productive hours: %s\n", p.DailyProductivityHours)
	}
	if len(p.PriorityAreas) > 0 {
		fmt.Fprintf(&b, "Priority areas: %s\n", strings.Join(p.PriorityAreas, ", "))
	}
	return b.String()
}

// guidelinePrompt asks for the qualitative daily rhythm.
func guidelinePrompt(p Parameters) string {
	return fmt.Sprintf(`Craft PERSONALISED daily rhythm bullets for a %s who wakes at %s and sleeps at %s.

Profile:
%s
Include:
- 3 meals with realistic times
- 30-45 min exercise slot
- 1-2 deep-work blocks (90-120 min each)
- 30 min daily review for the short-term goal
- 60 min weekly session for the long-term goal on Sunday
- all fixed commitments must remain untouched (same day, start, end and title)
`, strings.ToLower(p.Role), p.WakeUpTime, p.BedTime, profileContext(p))
}

const guidelineExpectedOutput = "Bullet list of daily guidelines per weekday"

// schedulePrompt asks for the strict JSON grid. The guideline text reaches it
// as task context.
func schedulePrompt(p Parameters) string {
	commitments, _ := json.Marshal(p.FixedCommitments)
	return fmt.Sprintf(`Using the guidelines above, generate a JSON array **exactly** like:

[
  {"day":"Monday","activities":[
    {"start_time":"05:00","end_time":"05:30","activity":"Wake-up & Hydrate"},
    ...
  ]},
  ...
]

- All 7 days must be present, Monday through Sunday, each exactly once
- Use 24-hour HH:MM format
- Respect fixed commitments exactly; copy day, start, end and title verbatim (title goes in "activity"): %s
- Meals: breakfast 30 min, lunch 60 min, dinner 60 min
- Exercise 30-45 min
- Deep-work >= 90 min
- Daily review 30 min
- Long-term goal 60 min on Sunday
- Output the JSON array only, with no commentary
`, commitments)
}

const scheduleExpectedOutput = "Valid JSON array"

package service

import (
	"context"
	"errors"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/llm"
)

// Synthesizer turns normalized parameters into a weekly schedule through the
// guideline and schedule generation steps.
type Synthesizer struct {
	client llm.Client
	logger internal.Logger
}

func NewSynthesizer(client llm.Client, logger internal.Logger) *Synthesizer {
	return &Synthesizer{client: client, logger: logger}
}

// Synthesize runs both generation steps and parses the result. Every failure
// is a *internal.GenerationError.
func (s *Synthesizer) Synthesize(ctx context.Context, p Parameters) (internal.WeeklySchedule, error) {
	if s.client == nil {
		return nil, internal.NewGenerationError("pipeline", internal.ErrNotConfigured)
	}

	coach, scheduler := lifeCoach, microScheduler
	guidelines := &llm.Task{
		Name:           "guidelines",
		Description:    guidelinePrompt(p),
		ExpectedOutput: guidelineExpectedOutput,
		Agent:          &coach,
	}
	schedule := &llm.Task{
		Name:           "schedule",
		Description:    schedulePrompt(p),
		ExpectedOutput: scheduleExpectedOutput,
		Agent:          &scheduler,
		Context:        []*llm.Task{guidelines},
	}
	crew := &llm.Crew{Tasks: []*llm.Task{guidelines, schedule}, Client: s.client}

	s.logger.Debugf("synthesizer: generating schedule for role=%s wake=%s bed=%s commitments=%d",
		p.Role, p.WakeUpTime, p.BedTime, len(p.FixedCommitments))

	raw, err := crew.Kickoff(ctx)
	if err != nil {
		return nil, internal.NewGenerationError("pipeline", err)
	}
	if g, ok := guidelines.Output(); ok {
		s.logger.Debugf("synthesizer: guidelines produced (%d bytes)", len(g))
	}

	parsed, err := ParseWeeklySchedule(raw)
	if err != nil {
		return nil, internal.NewGenerationError("parse", err)
	}
	ordered, err := ValidateWeeklySchedule(parsed, p.FixedCommitments)
	if err != nil {
		return nil, internal.NewGenerationError("validate", err)
	}
	return ordered, nil
}

// IsGenerationError reports whether err came out of the synthesizer.
func IsGenerationError(err error) bool {
	var gerr *internal.GenerationError
	return errors.As(err, &gerr)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Agent is the persona a task runs under. It becomes the system message.
type Agent struct {
	Role      string
	Goal      string
	Backstory string
}

func (a *Agent) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", a.Role)
	if a.Backstory != "" {
		b.WriteString(a.Backstory)
		b.WriteString("\n")
	}
	if a.Goal != "" {
		fmt.Fprintf(&b, "Your personal goal is: %s\n", a.Goal)
	}
	b.WriteString("Answer with the final result only; do not ask questions and do not delegate.")
	return b.String()
}

// Task is one generation step. Context tasks must run earlier in the same
// crew; their outputs are appended to this task's prompt.
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          *Agent
	Context        []*Task

	output string
	done   bool
}

// Output returns the text produced by the last Kickoff, if any.
func (t *Task) Output() (string, bool) {
	return t.output, t.done
}

func (t *Task) prompt() (string, error) {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(t.Description))
	b.WriteString("\n")
	if t.ExpectedOutput != "" {
		fmt.Fprintf(&b, "\nThis is the expected criteria for your final answer: %s\n", t.ExpectedOutput)
	}
	if len(t.Context) > 0 {
		b.WriteString("\nThis is the context you're working with:\n")
		for _, c := range t.Context {
			out, ok := c.Output()
			if !ok {
				return "", fmt.Errorf("task %q depends on %q which has not run", t.Name, c.Name)
			}
			b.WriteString(strings.TrimSpace(out))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Crew runs tasks strictly in order against a single client.
type Crew struct {
	Tasks  []*Task
	Client Client
}

// Kickoff executes every task and returns the raw output of the last one.
func (c *Crew) Kickoff(ctx context.Context) (string, error) {
	if c.Client == nil {
		return "", errors.New("crew has no llm client")
	}
	if len(c.Tasks) == 0 {
		return "", errors.New("crew has no tasks")
	}
	for _, t := range c.Tasks {
		t.output, t.done = "", false
	}
	var last string
	for _, t := range c.Tasks {
		if t.Agent == nil {
			return "", fmt.Errorf("task %q has no agent", t.Name)
		}
		user, err := t.prompt()
		if err != nil {
			return "", err
		}
		resp, err := c.Client.Chat(ctx, ChatRequest{
			Messages: []Message{
				{Role: "system", Content: t.Agent.systemPrompt()},
				{Role: "user", Content: user},
			},
		})
		if err != nil {
			return "", fmt.Errorf("task %q: %w", t.Name, err)
		}
		t.output, t.done = resp.Content, true
		last = resp.Content
	}
	return last, nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/config"
	"github.com/KirthanNB/Zchedule.ai/internal/llm"
	"github.com/KirthanNB/Zchedule.ai/internal/service"
	"github.com/KirthanNB/Zchedule.ai/internal/storage"
)

type fakeStore struct {
	profiles map[string]*internal.UserProfile
	saved    []internal.ScheduleRecord
	saveErr  error
}

func (f *fakeStore) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) SaveProfile(ctx context.Context, p *internal.UserProfile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeStore) SaveSchedule(ctx context.Context, rec *internal.ScheduleRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *rec)
	return nil
}

func (f *fakeStore) ListSchedules(ctx context.Context, userID string) ([]internal.ScheduleRecord, error) {
	out := []internal.ScheduleRecord{}
	for _, r := range f.saved {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// echoClient replies to the schedule step with a week that carries the
// commitments it was configured with.
type echoClient struct {
	commitments []internal.FixedCommitment
	raw         string
	calls       int
}

func (e *echoClient) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	e.calls++
	if e.calls%2 == 1 {
		return llm.ChatResponse{Content: "- keep mornings for deep work"}, nil
	}
	if e.raw != "" {
		return llm.ChatResponse{Content: e.raw}, nil
	}
	var week internal.WeeklySchedule
	for _, day := range internal.Weekdays {
		plan := internal.DayPlan{Day: day, Activities: []internal.Activity{
			{StartTime: "07:00", EndTime: "07:30", Activity: "Breakfast"},
			{StartTime: "21:00", EndTime: "21:30", Activity: "Daily review"},
		}}
		for _, fc := range e.commitments {
			if fc.Day == day {
				plan.Activities = append(plan.Activities, internal.Activity{StartTime: fc.Start, EndTime: fc.End, Activity: fc.Title})
			}
		}
		week = append(week, plan)
	}
	b, _ := json.Marshal(week)
	return llm.ChatResponse{Content: "```json\n" + string(b) + "\n```"}, nil
}

var teamSync = internal.FixedCommitment{Day: "Monday", Start: "09:00", End: "10:00", Title: "Team sync"}

func setupRouter(t *testing.T, store *fakeStore, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := internal.NewNopLogger()
	cfg := config.Defaults()
	svc := service.NewScheduleService(store, store, service.NewSynthesizer(client, logger), logger)
	return NewRouter(&Deps{Log: logger, Cfg: cfg, Schedule: svc})
}

func newStore() *fakeStore {
	return &fakeStore{profiles: map[string]*internal.UserProfile{
		"u1": {
			UserID:           "u1",
			FullName:         "Test User",
			WakeUpTime:       "06:30",
			BedTime:          "23:00",
			ShortTermGoals:   "Prepare for Student exams",
			FixedCommitments: []internal.FixedCommitment{teamSync},
		},
	}}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGetRoot(t *testing.T) {
	r := setupRouter(t, newStore(), &echoClient{})
	w := do(r, "GET", "/", "")
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"message":"ZcheduleAI Coach API – POST /generate"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPostGenerate_ByUserID(t *testing.T) {
	store := newStore()
	r := setupRouter(t, store, &echoClient{commitments: []internal.FixedCommitment{teamSync}})

	w := do(r, "POST", "/generate", `{"user_id":"u1"}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	var week internal.WeeklySchedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	require.Len(t, week, 7)
	assert.Equal(t, "Monday", week[0].Day)
	assert.Contains(t, week[0].Activities, internal.Activity{StartTime: "09:00", EndTime: "10:00", Activity: "Team sync"})

	require.Len(t, store.saved, 1)
	assert.Equal(t, "u1", store.saved[0].UserID)

	w = do(r, "GET", "/schedules/u1", "")
	require.Equal(t, 200, w.Code)
	var records []internal.ScheduleRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestPostGenerate_Errors(t *testing.T) {
	r := setupRouter(t, newStore(), &echoClient{})

	w := do(r, "POST", "/generate", `{"user_id":"ghost"}`)
	assert.Equal(t, 404, w.Code)
	assert.JSONEq(t, `{"error":"No profile found for user_id: ghost"}`, w.Body.String())

	w = do(r, "POST", "/generate", `{}`)
	assert.Equal(t, 400, w.Code)
	assert.JSONEq(t, `{"error":"user_id is required"}`, w.Body.String())

	w = do(r, "POST", "/generate", `not json`)
	assert.Equal(t, 400, w.Code)

	// u1 has a fixed commitment the echo client leaves out.
	w = do(r, "POST", "/generate", `{"user_id":"u1"}`)
	assert.Equal(t, 502, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["error"], "Failed to generate schedule: "), body["error"])
}

func TestPostGenerate_UnparseableOutput(t *testing.T) {
	r := setupRouter(t, newStore(), &echoClient{raw: "Sorry, I cannot help with that."})
	w := do(r, "POST", "/generate", `{"user_id":"u1"}`)
	assert.Equal(t, 502, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate schedule: parse")
}

func TestPostGenerate_NotConfigured(t *testing.T) {
	r := setupRouter(t, newStore(), llm.NewOpenAIClient(config.LLMConfig{}))
	w := do(r, "POST", "/generate", `{"user_id":"u1"}`)
	assert.Equal(t, 503, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate schedule")
}

func TestPostGenerate_PersistFailureDoesNotChangeResponse(t *testing.T) {
	client := &echoClient{commitments: []internal.FixedCommitment{teamSync}}
	ok := do(setupRouter(t, newStore(), client), "POST", "/generate", `{"user_id":"u1"}`)

	failing := newStore()
	failing.saveErr = errors.New("connection refused")
	bad := do(setupRouter(t, failing, client), "POST", "/generate", `{"user_id":"u1"}`)

	assert.Equal(t, ok.Code, bad.Code)
	assert.Equal(t, ok.Body.String(), bad.Body.String())
}

func TestPostGenerateProfile_Inline(t *testing.T) {
	store := newStore()
	r := setupRouter(t, store, &echoClient{commitments: []internal.FixedCommitment{teamSync}})

	body := `{"username":"ada","email":"ada@example.com","wakeUpTime":"06:30","sleepPreference":"night_owl",
		"focusPreference":"deep_work","shortTermGoals":"Prepare for Student exams","longTermGoals":"graduate",
		"fixedCommitments":[{"day":"Monday","start":"09:00","end":"10:00","title":"Team sync"}]}`
	w := do(r, "POST", "/generate/profile", body)
	require.Equal(t, 200, w.Code, w.Body.String())

	var week internal.WeeklySchedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	assert.Len(t, week, 7)
	require.Len(t, store.saved, 1)
	assert.NotEmpty(t, store.saved[0].ID)
	assert.Equal(t, "ada", store.saved[0].Profile.Username)

	w = do(r, "POST", "/generate/profile", `{"wakeUpTime":"half six"}`)
	assert.Equal(t, 400, w.Code)
}

func TestPutProfile(t *testing.T) {
	store := newStore()
	r := setupRouter(t, store, &echoClient{})

	w := do(r, "PUT", "/profiles/u2", `{"username":"bo","wakeUpTime":"05:45"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	assert.Equal(t, "05:45", store.profiles["u2"].WakeUpTime)

	w = do(r, "PUT", "/profiles/u2", `{"bedTime":"25:00"}`)
	assert.Equal(t, 400, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryMiddleware(internal.NewNopLogger(), false))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := do(r, "GET", "/boom", "")
	assert.Equal(t, 500, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["detail"], "kaboom"))
	assert.Contains(t, body["detail"], "goroutine")
}

func TestCORSPreflight(t *testing.T) {
	r := setupRouter(t, newStore(), &echoClient{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

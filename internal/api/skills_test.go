package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

func TestGetSkillsUsesTraitPrior(t *testing.T) {
	router, ms := setupTestRouter()
	team := seedTeam(ms)
	student := seedStudent(ms, team, "alice")
	student.PersonalityCode = "ENTJ"

	req := httptest.NewRequest("GET", "/api/v1/students/"+student.ID.String()+"/skills", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		StudentID  uuid.UUID          `json:"student_id"`
		Scores     map[string]float64 `json:"scores"`
		Confidence map[string]float64 `json:"confidence"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, student.ID, resp.StudentID)
	assert.Len(t, resp.Scores, 12)
	// No task history: neutral completion rate at 0.3, the 3.4
	// personality prior carries the remaining 0.7 -> 3.28 -> 3.3.
	assert.InDelta(t, 3.3, resp.Scores["planning"], 0.001)
	assert.Equal(t, 0.0, resp.Confidence["planning"])
}

func TestGetSingleSkillWithAssessment(t *testing.T) {
	router, ms := setupTestRouter()
	team := seedTeam(ms)
	student := seedStudent(ms, team, "bob")
	_ = ms.UpsertSelfAssessment(context.Background(), &store.SelfAssessment{
		StudentID:  student.ID,
		Category:   "development",
		Score:      5,
		Confidence: 5,
	})

	req := httptest.NewRequest("GET", "/api/v1/students/"+student.ID.String()+"/skills/development", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Category   string  `json:"category"`
		Score      float64 `json:"score"`
		Confidence float64 `json:"confidence"`
		Breakdown  struct {
			SelfAssessment *float64 `json:"self_assessment"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "development", resp.Category)
	assert.InDelta(t, 4.0, resp.Score, 0.001)
	assert.InDelta(t, 0.7, resp.Confidence, 0.001)
	require.NotNil(t, resp.Breakdown.SelfAssessment)
	assert.Equal(t, 5.0, *resp.Breakdown.SelfAssessment)
}

func TestGetSkillUnknownCategory(t *testing.T) {
	router, ms := setupTestRouter()
	team := seedTeam(ms)
	student := seedStudent(ms, team, "bob")

	req := httptest.NewRequest("GET", "/api/v1/students/"+student.ID.String()+"/skills/juggling", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFreshSuggestions(t *testing.T) {
	router, ms := setupTestRouter()
	team := seedTeam(ms)

	struggling := seedStudent(ms, team, "alice")
	struggling.Load = 4.6
	struggling.Skills = map[string]float64{"development": 2.0}
	helper := seedStudent(ms, team, "bob")
	helper.Load = 1.5
	helper.Motivation = 4.0
	helper.Skills = map[string]float64{"development": 4.5}

	task := &store.Task{
		Title:      "Build parser",
		Category:   "development",
		Difficulty: 3,
		Status:     store.StatusInProgress,
		Assignees:  []uuid.UUID{struggling.ID},
	}
	_ = ms.CreateTask(context.Background(), task)

	req := httptest.NewRequest("GET", "/api/v1/suggestions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp []struct {
		TaskID string `json:"task_id"`
		FromID string `json:"from_student_id"`
		ToID   string `json:"to_student_id"`
		Score  int    `json:"score"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 1)

	assert.Equal(t, task.ID.String(), resp[0].TaskID)
	assert.Equal(t, struggling.ID.String(), resp[0].FromID)
	assert.Equal(t, helper.ID.String(), resp[0].ToID)
	assert.Greater(t, resp[0].Score, 50)
	assert.NotEmpty(t, resp[0].Reason)
}

func TestFreshSuggestionsEmpty(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/suggestions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestLatestSuggestions(t *testing.T) {
	router, ms := setupTestRouter()
	ms.suggestions = []*store.Suggestion{{
		ID:         uuid.New(),
		TaskID:     uuid.New(),
		TaskTitle:  "Build parser",
		FromName:   "alice",
		ToName:     "bob",
		Priority:   "high",
		Score:      83,
		ComputedAt: time.Now(),
	}}

	req := httptest.NewRequest("GET", "/api/v1/suggestions/latest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []*store.Suggestion
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Build parser", resp[0].TaskTitle)
	assert.Equal(t, 83, resp[0].Score)
}

func TestLatestSuggestionsBadLimit(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/suggestions/latest?limit=zero", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExplainStudent(t *testing.T) {
	router, ms := setupTestRouter()
	team := seedTeam(ms)
	student := seedStudent(ms, team, "alice")
	student.PersonalityCode = "ISFP"

	req := httptest.NewRequest("GET", "/api/v1/scoring/explain/"+student.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		PersonalityCode string                            `json:"personality_code"`
		Breakdown       map[string]map[string]interface{} `json:"breakdown"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ISFP", resp.PersonalityCode)
	assert.Len(t, resp.Breakdown, 12)
}

func TestExplainUnknownStudent(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/scoring/explain/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

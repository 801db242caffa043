package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetrack/config"
	controllers "coursetrack/controllers/course"
	"coursetrack/engine"
	"coursetrack/middleware"
	"coursetrack/models/course"
	courseRoutes "coursetrack/routers/courseRoutes"
	"coursetrack/store"
)

type stubCatalog struct {
	snaps map[uint]*course.Snapshot
}

func (s *stubCatalog) GetCourseSnapshot(ctx context.Context, courseID uint) (*course.Snapshot, error) {
	snap, ok := s.snaps[courseID]
	if !ok {
		return nil, engine.ErrCourseNotFound
	}
	return snap, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, learnerName, courseTitle string, issuedAt time.Time) (string, error) {
	return "https://certs.local/" + courseTitle + ".pdf", nil
}

// newTestApp builds the full route stack on an in-memory store with a
// single seeded course: chapters 10 and 11 plus final quiz 20.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	config.LoadConfig()

	catalog := &stubCatalog{snaps: map[uint]*course.Snapshot{
		1: {
			CourseID: 1,
			Title:    "Foundations",
			Chapters: []course.ChapterRef{
				{ID: 10, Title: "Intro"},
				{ID: 11, Title: "Basics"},
			},
			Quizzes: []course.QuizDef{
				{
					ID:           20,
					Title:        "Final Exam",
					PassingScore: 80,
					IsFinal:      true,
					Questions: []course.Question{
						{ID: 201, Prompt: "2+2?", Options: []string{"3", "4"}, CorrectOption: 1},
						{ID: 202, Prompt: "1+1?", Options: []string{"2", "3"}, CorrectOption: 0},
					},
				},
			},
		},
	}}

	eng := engine.New(catalog, store.NewMemoryStore(), stubRenderer{})

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app, controllers.NewProgressController(eng))
	return app
}

func authToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateJWT(42, "Ada Lovelace")
	require.NoError(t, err)
	return token
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCompleteChapterEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	code, resp := doRequest(t, app, http.MethodPost, "/course/1/chapter/10/complete", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Status)

	var result engine.ChapterResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 33, result.CompletionPercentage)
	assert.False(t, result.IsCompleted)
	assert.Nil(t, result.Certificate)
}

func TestCompleteChapterUnknownCourse(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	code, resp := doRequest(t, app, http.MethodPost, "/course/99/chapter/10/complete", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.Status)
}

func TestCompleteChapterUnknownChapter(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	code, _ := doRequest(t, app, http.MethodPost, "/course/1/chapter/77/complete", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCompleteChapterBadIDParam(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	code, _ := doRequest(t, app, http.MethodPost, "/course/abc/chapter/10/complete", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestQuizFlowIssuesCertificate(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	for _, chapter := range []string{"10", "11"} {
		code, _ := doRequest(t, app, http.MethodPost, "/course/1/chapter/"+chapter+"/complete", token, nil)
		require.Equal(t, http.StatusOK, code)
	}

	submission := fiber.Map{"answers": []fiber.Map{
		{"question_id": 201, "answer_index": 1},
		{"question_id": 202, "answer_index": 0},
	}}
	code, resp := doRequest(t, app, http.MethodPost, "/course/1/quiz/20/submit", token, submission)
	require.Equal(t, http.StatusOK, code)

	var result engine.QuizResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 100, result.CompletionPercentage)
	assert.True(t, result.IsCompleted)
	assert.True(t, result.CertificateIssued)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, "https://certs.local/Foundations.pdf", result.Certificate.ArtifactRef)

	// The listing endpoint reflects the freshly issued certificate.
	code, resp = doRequest(t, app, http.MethodGet, "/user/certificates", token, nil)
	require.Equal(t, http.StatusOK, code)

	var listing struct {
		Certificates []engine.IssuedCertificate `json:"certificates"`
		Total        int                        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &listing))
	require.Equal(t, 1, listing.Total)
	assert.Equal(t, "Foundations", listing.Certificates[0].CourseTitle)
	assert.Equal(t, result.Certificate.CertificateID, listing.Certificates[0].CertificateID)
}

func TestSubmitQuizFailedAttempt(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	submission := fiber.Map{"answers": []fiber.Map{
		{"question_id": 201, "answer_index": 0},
		{"question_id": 202, "answer_index": 0},
	}}
	code, resp := doRequest(t, app, http.MethodPost, "/course/1/quiz/20/submit", token, submission)
	require.Equal(t, http.StatusOK, code)

	var result engine.QuizResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
	assert.False(t, result.CertificateIssued)
}

func TestSubmitQuizEmptyAnswersRejected(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	code, resp := doRequest(t, app, http.MethodPost, "/course/1/quiz/20/submit", token, fiber.Map{"answers": []fiber.Map{}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Validation failed!", resp.Message)
}

func TestSubmitQuizDuplicateQuestionRejected(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	submission := fiber.Map{"answers": []fiber.Map{
		{"question_id": 201, "answer_index": 1},
		{"question_id": 201, "answer_index": 0},
	}}
	code, resp := doRequest(t, app, http.MethodPost, "/course/1/quiz/20/submit", token, submission)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Status)
}

func TestSubmitQuizUnknownQuiz(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	submission := fiber.Map{"answers": []fiber.Map{
		{"question_id": 201, "answer_index": 1},
	}}
	code, _ := doRequest(t, app, http.MethodPost, "/course/1/quiz/99/submit", token, submission)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetCourseProgressFreshLearner(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	code, resp := doRequest(t, app, http.MethodGet, "/course/1/progress", token, nil)
	require.Equal(t, http.StatusOK, code)

	var rec struct {
		CompletionPercentage int  `json:"completion_percentage"`
		IsCompleted          bool `json:"is_completed"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &rec))
	assert.Equal(t, 0, rec.CompletionPercentage)
	assert.False(t, rec.IsCompleted)
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/course/1/chapter/10/complete"},
		{http.MethodPost, "/course/1/quiz/20/submit"},
		{http.MethodGet, "/course/1/progress"},
		{http.MethodGet, "/user/certificates"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, fmt.Sprintf("%s %s", p.method, p.path))
	}
}

func TestProgressIsolatedPerLearner(t *testing.T) {
	app := newTestApp(t)
	token := authToken(t)

	otherToken, err := middleware.GenerateJWT(77, "Grace Hopper")
	require.NoError(t, err)

	code, _ := doRequest(t, app, http.MethodPost, "/course/1/chapter/10/complete", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := doRequest(t, app, http.MethodGet, "/course/1/progress", otherToken, nil)
	require.Equal(t, http.StatusOK, code)

	var rec struct {
		CompletionPercentage int `json:"completion_percentage"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &rec))
	assert.Equal(t, 0, rec.CompletionPercentage)
}

package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quanghuy/intelliquiz-backend/config"
	"github.com/quanghuy/intelliquiz-backend/routes"
)

var apiDBSeq int64

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:apidb%d?mode=memory&cache=shared", atomic.AddInt64(&apiDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return routes.SetupRouter(gin.New(), db)
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope from %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func registerUser(t *testing.T, r *gin.Engine, role, email, regNo string) string {
	t.Helper()
	body := gin.H{
		"email":      email,
		"password":   "secret123",
		"first_name": "Test",
		"last_name":  role,
		"role":       role,
	}
	if regNo != "" {
		body["reg_no"] = regNo
	}
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d (%s)", email, w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("register %s: no token in %s", email, env.Data)
	}
	return data.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	registerUser(t, r, "STUDENT", "student@uni.edu", "B21DCCN001")

	// duplicate email
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "student@uni.edu", "password": "secret123",
		"first_name": "Dup", "last_name": "User", "role": "STUDENT",
	})
	if w.Code != http.StatusConflict || env.Success {
		t.Fatalf("duplicate register: status %d, success %v", w.Code, env.Success)
	}

	// login by registration number
	w, env = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email_or_reg_no": "B21DCCN001", "password": "secret123",
	})
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("login by reg no: status %d (%s)", w.Code, w.Body.String())
	}

	// wrong password
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email_or_reg_no": "student@uni.edu", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d", w.Code)
	}
}

func TestRoleGates(t *testing.T) {
	r := newTestRouter(t)
	studentToken := registerUser(t, r, "STUDENT", "s@uni.edu", "B21DCCN002")

	// no token
	w, _ := doJSON(t, r, http.MethodGet, "/api/quizzes/my-quizzes", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", w.Code)
	}

	// student hitting a lecturer route
	w, _ = doJSON(t, r, http.MethodPost, "/api/quizzes", studentToken, gin.H{
		"title": "Nope", "duration": 10,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("student on lecturer route: status %d, want 403", w.Code)
	}
}

func TestQuizTakingFlow(t *testing.T) {
	r := newTestRouter(t)
	lecturerToken := registerUser(t, r, "LECTURER", "prof@uni.edu", "")
	studentToken := registerUser(t, r, "STUDENT", "taker@uni.edu", "B21DCCN003")

	// lecturer creates and publishes a quiz
	_, env := doJSON(t, r, http.MethodPost, "/api/quizzes", lecturerToken, gin.H{
		"title":    "Networks",
		"duration": 20,
		"questions": []gin.H{
			{"text": "What does TCP guarantee?", "options": []string{"Order", "Speed", "Privacy", "Brevity"}, "correct_answer": 0},
			{"text": "Default HTTP port?", "options": []string{"21", "80", "443", "8080"}, "correct_answer": 1},
		},
	})
	var quiz struct {
		ID        string `json:"id"`
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(env.Data, &quiz); err != nil || len(quiz.Questions) != 2 {
		t.Fatalf("create quiz response: %s", env.Data)
	}

	w, _ := doJSON(t, r, http.MethodPatch, "/api/quizzes/"+quiz.ID+"/publish", lecturerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("publish: status %d (%s)", w.Code, w.Body.String())
	}

	// the public catalog must not expose correct answers
	_, env = doJSON(t, r, http.MethodGet, "/api/quizzes/published", studentToken, nil)
	if bytes.Contains(env.Data, []byte("correct_answer")) {
		t.Fatalf("published catalog leaks correct answers: %s", env.Data)
	}

	// student takes the quiz
	w, env = doJSON(t, r, http.MethodPost, "/api/quizzes/session/start", studentToken, gin.H{
		"quiz_id": quiz.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("start session: status %d (%s)", w.Code, w.Body.String())
	}
	if bytes.Contains(env.Data, []byte("correct_answer")) {
		t.Fatalf("session payload leaks correct answers: %s", env.Data)
	}
	var started struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(env.Data, &started); err != nil || len(started.Questions) != 2 {
		t.Fatalf("start session response: %s", env.Data)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/quizzes/answer", studentToken, gin.H{
		"session_id":     started.Session.ID,
		"question_id":    started.Questions[0].ID,
		"selected_index": 0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: status %d (%s)", w.Code, w.Body.String())
	}

	// missing answer value is rejected
	w, _ = doJSON(t, r, http.MethodPost, "/api/quizzes/answer", studentToken, gin.H{
		"session_id":  started.Session.ID,
		"question_id": started.Questions[0].ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty answer: status %d, want 400", w.Code)
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/quizzes/session/"+started.Session.ID+"/submit", studentToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status %d (%s)", w.Code, w.Body.String())
	}
	var submitted struct {
		Result struct {
			TotalQuestions int `json:"total_questions"`
		} `json:"result"`
	}
	if err := json.Unmarshal(env.Data, &submitted); err != nil {
		t.Fatalf("submit response: %s", env.Data)
	}
	if submitted.Result.TotalQuestions != 1 {
		t.Fatalf("total = %d, want 1 answered question", submitted.Result.TotalQuestions)
	}

	// second attempt refused
	w, _ = doJSON(t, r, http.MethodPost, "/api/quizzes/session/start", studentToken, gin.H{
		"quiz_id": quiz.ID,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("second attempt: status %d, want 409", w.Code)
	}

	// student's own results
	_, env = doJSON(t, r, http.MethodGet, "/api/results/my-results", studentToken, nil)
	var results []json.RawMessage
	if err := json.Unmarshal(env.Data, &results); err != nil || len(results) != 1 {
		t.Fatalf("my-results response: %s", env.Data)
	}
}

func TestQuizDetailVisibility(t *testing.T) {
	r := newTestRouter(t)
	ownerToken := registerUser(t, r, "LECTURER", "owner@uni.edu", "")
	studentToken := registerUser(t, r, "STUDENT", "viewer@uni.edu", "B21DCCN004")

	_, env := doJSON(t, r, http.MethodPost, "/api/quizzes", ownerToken, gin.H{
		"title":    "Databases",
		"duration": 15,
		"questions": []gin.H{
			{"text": "What does ACID stand for?", "options": []string{"Atomicity...", "Async...", "Active...", "Atomic..."}, "correct_answer": 0},
		},
	})
	var quiz struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &quiz); err != nil {
		t.Fatalf("create quiz response: %s", env.Data)
	}

	// the owner gets the full question rows
	w, env := doJSON(t, r, http.MethodGet, "/api/quizzes/"+quiz.ID, ownerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner detail: status %d (%s)", w.Code, w.Body.String())
	}
	if !bytes.Contains(env.Data, []byte("correct_answer")) {
		t.Fatalf("owner detail is missing the correct answers: %s", env.Data)
	}

	// students and anonymous readers get the sanitized shape
	for _, token := range []string{studentToken, ""} {
		w, env = doJSON(t, r, http.MethodGet, "/api/quizzes/"+quiz.ID, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("detail with token %q: status %d", token, w.Code)
		}
		if bytes.Contains(env.Data, []byte("correct_answer")) {
			t.Fatalf("quiz detail leaks correct answers: %s", env.Data)
		}
	}
}

func TestGeneratedQuestionsLecturerOnly(t *testing.T) {
	r := newTestRouter(t)
	ownerToken := registerUser(t, r, "LECTURER", "author@uni.edu", "")
	otherToken := registerUser(t, r, "LECTURER", "colleague@uni.edu", "")
	studentToken := registerUser(t, r, "STUDENT", "peeker@uni.edu", "B21DCCN005")

	_, env := doJSON(t, r, http.MethodPost, "/api/quizzes", ownerToken, gin.H{
		"title": "Compilers", "duration": 25,
	})
	var quiz struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &quiz); err != nil {
		t.Fatalf("create quiz response: %s", env.Data)
	}
	materialID := "00000000-0000-0000-0000-000000000001"
	path := "/api/ai/questions/" + quiz.ID + "/" + materialID

	// students never see raw generated questions
	w, _ := doJSON(t, r, http.MethodGet, path, studentToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student read: status %d, want 403", w.Code)
	}

	// neither does a lecturer who does not own the quiz
	w, _ = doJSON(t, r, http.MethodGet, path, otherToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign lecturer read: status %d, want 403", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, path, ownerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner read: status %d (%s)", w.Code, w.Body.String())
	}
}

package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avalue/ci-relay/database"
	"github.com/avalue/ci-relay/middleware"
	"github.com/avalue/ci-relay/models"
	"github.com/avalue/ci-relay/routes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) Send(ctx context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func newStack(t *testing.T) (*gin.Engine, *gorm.DB, *fakeSender) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	sender := &fakeSender{}
	router := gin.New()
	routes.Setup(router, db, sender, middleware.UnknownTokenIgnore)
	return router, db, sender
}

func seedRepo(t *testing.T, db *gorm.DB) models.Repo {
	t.Helper()
	repo := models.Repo{
		ID:          "0123456789abcdef0123456789abcdef",
		Name:        "Turbo",
		Status:      models.StatusIdle,
		ChatBinding: 7,
	}
	if err := db.Create(&repo).Error; err != nil {
		t.Fatalf("seed repo: %v", err)
	}
	return repo
}

func do(t *testing.T, router *gin.Engine, method, target, token, body string) (int, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set(middleware.AuthHeader, token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, decoded
}

func TestLiveness(t *testing.T) {
	t.Parallel()
	router, _, _ := newStack(t)
	code, body := do(t, router, http.MethodGet, "/", "", "")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body: got %v", body)
	}
}

func TestCreateJobRequiresIdentity(t *testing.T) {
	t.Parallel()
	router, _, _ := newStack(t)
	code, body := do(t, router, http.MethodPost, "/job", "", `{"job_id":1}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", code)
	}
	if body["code"] != "UNAUTHENTICATED" {
		t.Errorf("code: got %v, want UNAUTHENTICATED", body["code"])
	}
}

func TestCreateJobRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	router, db, _ := newStack(t)
	repo := seedRepo(t, db)

	code, body := do(t, router, http.MethodPost, "/job", repo.ID, `{"job_id":1,"surprise":true}`)
	if code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", code)
	}
	if body["code"] != "VALIDATION_FAILURE" {
		t.Errorf("code: got %v, want VALIDATION_FAILURE", body["code"])
	}
}

func TestCreateJobRequiresJobID(t *testing.T) {
	t.Parallel()
	router, db, sender := newStack(t)
	repo := seedRepo(t, db)

	code, body := do(t, router, http.MethodPost, "/job", repo.ID, `{"description":"no id supplied"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", code)
	}
	if body["code"] != "VALIDATION_FAILURE" {
		t.Errorf("code: got %v, want VALIDATION_FAILURE", body["code"])
	}

	var count int64
	db.Model(&models.Job{}).Count(&count)
	if count != 0 {
		t.Errorf("job rows: got %d, want 0", count)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent messages: got %d, want 0", len(sender.sent))
	}
}

func TestUpdateJobRequiresJobID(t *testing.T) {
	t.Parallel()
	router, db, _ := newStack(t)
	repo := seedRepo(t, db)

	code, body := do(t, router, http.MethodPut, "/job", repo.ID, `{"status":"success"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", code)
	}
	if body["code"] != "VALIDATION_FAILURE" {
		t.Errorf("code: got %v, want VALIDATION_FAILURE", body["code"])
	}
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	router, db, sender := newStack(t)
	repo := seedRepo(t, db)

	code, _ := do(t, router, http.MethodPost, "/job", repo.ID,
		`{"job_id":11,"url":"https://ci.example.com/11","by":"https://example.com/alice","by_name":"alice"}`)
	if code != http.StatusOK {
		t.Fatalf("create status: got %d, want 200", code)
	}

	code, _ = do(t, router, http.MethodPut, "/job", repo.ID, `{"job_id":11,"status":"success"}`)
	if code != http.StatusOK {
		t.Fatalf("update status: got %d, want 200", code)
	}

	var job models.Job
	if err := db.First(&job, "repo_id = ? AND id = ?", repo.ID, 11).Error; err != nil {
		t.Fatalf("job row: %v", err)
	}
	if job.Status != models.StatusSuccess {
		t.Errorf("job status: got %s, want SUCCESS", job.Status)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent messages: got %d, want 2", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.chatID != repo.ChatBinding {
			t.Errorf("chat id: got %d, want %d", msg.chatID, repo.ChatBinding)
		}
	}
}

func TestUpdateJobUnknownJobIs404(t *testing.T) {
	t.Parallel()
	router, db, _ := newStack(t)
	repo := seedRepo(t, db)

	code, body := do(t, router, http.MethodPut, "/job", repo.ID, `{"job_id":99,"status":"failure"}`)
	if code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", code)
	}
	if body["code"] != "NOT_FOUND" {
		t.Errorf("code: got %v, want NOT_FOUND", body["code"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()
	router, db, sender := newStack(t)
	repo := seedRepo(t, db)

	code, _ := do(t, router, http.MethodPut, "/status?status=running", repo.ID, "")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}

	var got models.Repo
	if err := db.First(&got, "id = ?", repo.ID).Error; err != nil {
		t.Fatalf("reread repo: %v", err)
	}
	if got.Status != models.StatusRunning {
		t.Errorf("repo status: got %s, want RUNNING", got.Status)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent messages: got %d, want 1", len(sender.sent))
	}
}

func TestStatusEndpointRejectsBadEnum(t *testing.T) {
	t.Parallel()
	router, db, _ := newStack(t)
	repo := seedRepo(t, db)

	code, body := do(t, router, http.MethodPut, "/status?status=exploded", repo.ID, "")
	if code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", code)
	}
	if body["code"] != "VALIDATION_FAILURE" {
		t.Errorf("code: got %v, want VALIDATION_FAILURE", body["code"])
	}
}

func TestCreateJobRowCarriesStartTime(t *testing.T) {
	t.Parallel()
	router, db, _ := newStack(t)
	repo := seedRepo(t, db)

	before := time.Now().Add(-time.Second)
	code, _ := do(t, router, http.MethodPost, "/job", repo.ID, `{"job_id":3}`)
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}

	var job models.Job
	if err := db.First(&job, "repo_id = ? AND id = ?", repo.ID, 3).Error; err != nil {
		t.Fatalf("job row: %v", err)
	}
	if job.StartedAt.Before(before) {
		t.Errorf("started_at not set: %v", job.StartedAt)
	}
}

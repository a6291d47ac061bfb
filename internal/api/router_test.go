package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/tosifAN/sunrise-2024/internal/board"
	"github.com/tosifAN/sunrise-2024/internal/models"
	"github.com/tosifAN/sunrise-2024/internal/seed"
	"github.com/tosifAN/sunrise-2024/internal/store"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := board.NewService(store.NewMemoryStore(seed.Default()), logger)
	srv := httptest.NewServer(NewRouter(svc, logger))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func listTasks(t *testing.T, srv *httptest.Server, query string) []models.Task {
	t.Helper()
	resp := doRequest(t, http.MethodGet, srv.URL+"/api/tasks"+query, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	return decodeBody[[]models.Task](t, resp)
}

func findTask(tasks []models.Task, id int) *models.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	health := decodeBody[models.HealthResponse](t, resp)
	if health.Status != "ok" || health.TaskCount != 10 {
		t.Fatalf("unexpected health response: %+v", health)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestListTasks(t *testing.T) {
	srv := setupTestServer(t)

	all := listTasks(t, srv, "")
	if len(all) != 10 {
		t.Fatalf("expected 10 tasks, got %d", len(all))
	}
	if all[0].Title != "Initial Setup" {
		t.Fatalf("expected seed order, got first task %q", all[0].Title)
	}

	// Nothing is completed in the seed, so every task is active.
	if active := listTasks(t, srv, "?active=true"); len(active) != 10 {
		t.Fatalf("expected 10 active tasks, got %d", len(active))
	}
	if completed := listTasks(t, srv, "?completed=true"); len(completed) != 0 {
		t.Fatalf("expected 0 completed tasks, got %d", len(completed))
	}
}

func TestCreateTask(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/tasks", models.CreateTaskRequest{
		Title: "New Task", Description: "Description for new task", Persona: "Persona", Group: 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody[models.CreateTaskResponse](t, resp)
	if created.Message != "Task created successfully" {
		t.Fatalf("unexpected message %q", created.Message)
	}
	if created.Task == nil || created.Task.ID != 11 || created.Task.Stage != models.StageToDo {
		t.Fatalf("unexpected created task: %+v", created.Task)
	}

	all := listTasks(t, srv, "")
	if len(all) != 11 {
		t.Fatalf("expected 11 tasks, got %d", len(all))
	}
	if got := all[10]; got.Title != "New Task" || got.Persona != "Persona" || got.Group != 1 {
		t.Fatalf("unexpected appended task: %+v", got)
	}
}

func TestCreateTaskBadBody(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/tasks", "{not json")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateTask(t *testing.T) {
	srv := setupTestServer(t)

	t.Run("changes only given fields and ignores id", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, srv.URL+"/api/tasks/1", `{"id": 42, "title": "Updated Title"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if msg := decodeBody[models.MessageResponse](t, resp); msg.Message != "Task updated successfully" {
			t.Fatalf("unexpected message %q", msg.Message)
		}

		all := listTasks(t, srv, "")
		got := findTask(all, 1)
		if got == nil {
			t.Fatal("task 1 missing after update")
		}
		want := seed.Default()[0]
		want.Title = "Updated Title"
		if *got != want {
			t.Fatalf("got %+v, want %+v", *got, want)
		}
		if findTask(all, 42) != nil {
			t.Fatal("id must not be overwritten")
		}
	})

	t.Run("missing id still succeeds", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, srv.URL+"/api/tasks/999", `{"title": "ghost"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if len(listTasks(t, srv, "")) != 10 {
			t.Fatal("update on missing id changed the store")
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, srv.URL+"/api/tasks/abc", `{"title": "x"}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown stage is rejected", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, srv.URL+"/api/tasks/1", `{"stage": "Done"}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if body := decodeBody[map[string]string](t, resp); !strings.Contains(body["error"], "invalid stage") {
			t.Fatalf("unexpected error %q", body["error"])
		}

		all := listTasks(t, srv, "")
		active := listTasks(t, srv, "?active=true")
		completed := listTasks(t, srv, "?completed=true")
		if len(active)+len(completed) != len(all) {
			t.Fatalf("active (%d) + completed (%d) != all (%d)", len(active), len(completed), len(all))
		}
		if got := findTask(all, 1); got == nil || got.Stage != models.StageInProgress {
			t.Fatalf("task 1 stage changed: %+v", got)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodDelete, srv.URL+"/api/tasks/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if msg := decodeBody[models.MessageResponse](t, resp); msg.Message != "Task deleted successfully" {
		t.Fatalf("unexpected message %q", msg.Message)
	}
	if findTask(listTasks(t, srv, ""), 1) != nil {
		t.Fatal("task 1 still present after delete")
	}

	resp = doRequest(t, http.MethodDelete, srv.URL+"/api/tasks/999", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for missing id, got %d", resp.StatusCode)
	}
	if n := len(listTasks(t, srv, "")); n != 9 {
		t.Fatalf("expected 9 tasks, got %d", n)
	}
}

func TestCompleteTask(t *testing.T) {
	t.Run("id from body", func(t *testing.T) {
		srv := setupTestServer(t)

		resp := doRequest(t, http.MethodPatch, srv.URL+"/api/tasks/5", map[string]int{"id": 1})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody[models.CompleteTaskResponse](t, resp)
		if body.Message != "Task marked as completed" {
			t.Fatalf("unexpected message %q", body.Message)
		}
		if body.Completed == nil || body.Completed.ID != 1 {
			t.Fatalf("expected task 1 completed, got %+v", body.Completed)
		}
		if body.Activated == nil || body.Activated.ID != 2 {
			t.Fatalf("expected task 2 activated, got %+v", body.Activated)
		}

		all := listTasks(t, srv, "")
		if findTask(all, 5).Stage != models.StageToDo {
			t.Fatal("path id must not be completed when body names another task")
		}
	})

	t.Run("falls back to path id", func(t *testing.T) {
		srv := setupTestServer(t)

		resp := doRequest(t, http.MethodPatch, srv.URL+"/api/tasks/1", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if got := findTask(listTasks(t, srv, ""), 1); got.Stage != models.StageCompleted {
			t.Fatalf("expected task 1 Completed, got %q", got.Stage)
		}
	})

	t.Run("group 2 unlocks after group 1", func(t *testing.T) {
		srv := setupTestServer(t)
		doRequest(t, http.MethodPatch, srv.URL+"/api/tasks/1", nil)
		doRequest(t, http.MethodPatch, srv.URL+"/api/tasks/2", nil)

		active := listTasks(t, srv, "?active=true")
		n := 0
		for _, task := range active {
			if task.Group == 2 {
				n++
			}
		}
		if n != 2 {
			t.Fatalf("expected 2 active group 2 tasks, got %d", n)
		}
		if findTask(active, 3).Stage != models.StageInProgress {
			t.Fatal("expected task 3 In Progress")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		srv := setupTestServer(t)
		resp := doRequest(t, http.MethodPatch, srv.URL+"/api/tasks/999", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody[models.CompleteTaskResponse](t, resp)
		if body.Completed != nil || body.Activated != nil {
			t.Fatalf("expected no changes, got %+v", body)
		}
	})
}

func TestResetTasks(t *testing.T) {
	srv := setupTestServer(t)

	doRequest(t, http.MethodDelete, srv.URL+"/api/tasks/1", nil)
	doRequest(t, http.MethodPost, srv.URL+"/api/tasks", models.CreateTaskRequest{Title: "x", Group: 1})

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/tasks/reset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	all := listTasks(t, srv, "")
	want := seed.Default()
	if len(all) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("position %d: got %+v, want %+v", i, all[i], want[i])
		}
	}
}

func TestBoardEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/board", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	b := decodeBody[models.BoardResponse](t, resp)
	if len(b.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(b.Columns))
	}
	if b.Columns[1].Stage != models.StageInProgress || b.Columns[1].Count != 1 {
		t.Fatalf("unexpected in-progress column: %+v", b.Columns[1])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/tasks"},
		{http.MethodPut, "/api/tasks"},
		{http.MethodGet, "/api/tasks/1"},
		{http.MethodPost, "/api/tasks/1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := doRequest(t, tt.method, srv.URL+tt.path, nil)
			if resp.StatusCode != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", resp.StatusCode)
			}
			if msg := decodeBody[models.MessageResponse](t, resp); msg.Message != "Method not allowed" {
				t.Fatalf("unexpected message %q", msg.Message)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodOptions, srv.URL+"/api/tasks/1", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected permissive CORS origin")
	}
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
	h := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

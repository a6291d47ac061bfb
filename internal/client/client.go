package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tosifAN/sunrise-2024/internal/models"
)

// DefaultBaseURL is where the task board server listens by default.
const DefaultBaseURL = "http://localhost:8080"

// Client talks to the task board HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// ListTasks returns every task, or only active ones.
func (c *Client) ListTasks(ctx context.Context, activeOnly bool) ([]models.Task, error) {
	path := "/api/tasks"
	if activeOnly {
		path += "?active=true"
	}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask adds a task and returns it as stored.
func (c *Client) CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	var resp models.CreateTaskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// UpdateTask merges the set fields of req into task id.
func (c *Client) UpdateTask(ctx context.Context, id int, req *models.UpdateTaskRequest) error {
	return c.do(ctx, http.MethodPut, taskPath(id), req, nil)
}

// DeleteTask removes task id.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// CompleteTask marks task id Completed and reports which task, if any, the
// server moved to In Progress.
func (c *Client) CompleteTask(ctx context.Context, id int) (*models.CompleteTaskResponse, error) {
	var resp models.CompleteTaskResponse
	if err := c.do(ctx, http.MethodPatch, taskPath(id), models.CompleteTaskRequest{ID: &id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset restores the server's seed list.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/tasks/reset", nil, nil)
}

// Board returns the server-rendered column layout.
func (c *Client) Board(ctx context.Context) (*models.BoardResponse, error) {
	var resp models.BoardResponse
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks the server. A degraded server yields an *APIError with
// status 503.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var resp models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func taskPath(id int) string {
	return "/api/tasks/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls "error" or "message" out of a JSON error body, falling
// back to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

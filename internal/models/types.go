package models

// CreateTaskRequest is the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Persona     string `json:"persona"`
	Group       int    `json:"group"`
}

// UpdateTaskRequest is the payload for PUT /api/tasks/{id}. Only non-nil
// fields are merged. There is deliberately no ID field: an "id" key in the
// body is dropped by the decoder.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Persona     *string `json:"persona,omitempty"`
	Group       *int    `json:"group,omitempty"`
	Stage       *Stage  `json:"stage,omitempty"`
}

// CompleteTaskRequest is the payload for PATCH /api/tasks/{id}.
type CompleteTaskRequest struct {
	ID *int `json:"id,omitempty"`
}

// MessageResponse is the body of every mutating endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateTaskResponse is returned from POST /api/tasks.
type CreateTaskResponse struct {
	Message string `json:"message"`
	Task    *Task  `json:"task"`
}

// CompleteTaskResponse is returned from PATCH /api/tasks/{id}.
type CompleteTaskResponse struct {
	Message   string `json:"message"`
	Completed *Task  `json:"completed,omitempty"`
	Activated *Task  `json:"activated,omitempty"`
}

// BoardGroup is one group's slice of a stage column.
type BoardGroup struct {
	Group   int    `json:"group"`
	Blocked bool   `json:"blocked"`
	Tasks   []Task `json:"tasks"`
}

// BoardColumn holds every task in one stage, grouped by group number.
type BoardColumn struct {
	Stage  Stage        `json:"stage"`
	Count  int          `json:"count"`
	Groups []BoardGroup `json:"groups"`
}

// BoardResponse is returned from GET /api/board.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

// HealthResponse is returned from GET /health.
type HealthResponse struct {
	Status    string       `json:"status"`
	Store     ServiceCheck `json:"store"`
	TaskCount int          `json:"taskCount"`
}

// ServiceCheck reports a single dependency's status.
type ServiceCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

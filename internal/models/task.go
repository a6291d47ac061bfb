package models

import (
	"encoding/json"
	"fmt"
)

// Stage is a task's position in its workflow.
type Stage string

const (
	StageToDo       Stage = "To-Do"
	StageInProgress Stage = "In Progress"
	StageCompleted  Stage = "Completed"
)

// Stages lists every stage in board order.
var Stages = []Stage{StageToDo, StageInProgress, StageCompleted}

// IsValid reports whether s is one of the three board stages.
func (s Stage) IsValid() bool {
	return s == StageToDo || s == StageInProgress || s == StageCompleted
}

// IsActive reports whether a task in this stage still needs work.
func (s Stage) IsActive() bool {
	return s == StageToDo || s == StageInProgress
}

// UnmarshalJSON rejects stages outside the three board stages.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !Stage(v).IsValid() {
		return fmt.Errorf("invalid stage %q", v)
	}
	*s = Stage(v)
	return nil
}

// Task is the core domain entity held by the task store.
type Task struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Persona     string `json:"persona" yaml:"persona"`
	Group       int    `json:"group" yaml:"group"`
	Stage       Stage  `json:"stage" yaml:"stage"`
}

// Apply merges the set fields of req into t. The id is never touched, and a
// stage outside the board stages is ignored.
func (t *Task) Apply(req *UpdateTaskRequest) {
	if req == nil {
		return
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Persona != nil {
		t.Persona = *req.Persona
	}
	if req.Group != nil {
		t.Group = *req.Group
	}
	if req.Stage != nil && req.Stage.IsValid() {
		t.Stage = *req.Stage
	}
}

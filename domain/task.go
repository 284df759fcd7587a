package domain

import "time"

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents an item of a list. Its owner is the owner of the list.
type Task struct {
	ID          string     `json:"id"`
	ListID      string     `json:"list_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    *Priority  `json:"priority"`
	IsCompleted *bool      `json:"is_completed"`
	DueDate     *time.Time `json:"due_date"`
}

// NewTask builds a task under listID, applying the creation defaults.
func (in TaskInput) NewTask(listID string) (*Task, error) {
	task := &Task{
		ListID:      listID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    PriorityMedium,
		DueDate:     in.DueDate,
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, BadRequest("priority must be one of low, medium, high")
		}
		task.Priority = *in.Priority
	}
	if in.IsCompleted != nil {
		task.IsCompleted = *in.IsCompleted
	}
	return task, nil
}

// TaskPatch holds a partial task update.
type TaskPatch struct {
	Title       Nullable[string]    `json:"title"`
	Description Nullable[string]    `json:"description"`
	Priority    Nullable[Priority]  `json:"priority"`
	IsCompleted Nullable[bool]      `json:"is_completed"`
	DueDate     Nullable[time.Time] `json:"due_date"`
}

// Apply copies the present fields of the patch onto t.
func (p TaskPatch) Apply(t *Task) error {
	switch {
	case p.Title.Null():
		return BadRequest("title cannot be null")
	case p.Priority.Null():
		return BadRequest("priority cannot be null")
	case p.IsCompleted.Null():
		return BadRequest("is_completed cannot be null")
	}
	if v, ok := p.Title.Get(); ok {
		t.Title = v
	}
	if v, ok := p.Priority.Get(); ok {
		if !v.Valid() {
			return BadRequest("priority must be one of low, medium, high")
		}
		t.Priority = v
	}
	if v, ok := p.IsCompleted.Get(); ok {
		t.IsCompleted = v
	}
	p.Description.ApplyTo(&t.Description)
	p.DueDate.ApplyTo(&t.DueDate)
	return nil
}

package domain

import "time"

// List groups tasks and belongs to exactly one user for its whole lifetime.
type List struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Tasks is only populated by detail reads.
	Tasks []Task `json:"tasks,omitempty"`
}

// OwnedBy reports whether userID owns the list.
func (l *List) OwnedBy(userID string) bool {
	return l != nil && userID != "" && l.OwnerID == userID
}

// ListInput carries the fields accepted when creating a list.
type ListInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// ListPatch holds a partial list update.
type ListPatch struct {
	Name        Nullable[string] `json:"name"`
	Description Nullable[string] `json:"description"`
	Color       Nullable[string] `json:"color"`
}

// Apply copies the present fields of the patch onto l.
func (p ListPatch) Apply(l *List) error {
	if p.Name.Null() {
		return BadRequest("name cannot be null")
	}
	if v, ok := p.Name.Get(); ok {
		l.Name = v
	}
	p.Description.ApplyTo(&l.Description)
	p.Color.ApplyTo(&l.Color)
	return nil
}

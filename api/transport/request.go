package transport

import (
	"net/mail"
	"strings"
	"time"

	"github.com/fastygo/todo/domain"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return domain.BadRequest("username is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return domain.BadRequest("email and password are required")
	}
	return nil
}

type ProfileUpdateRequest struct {
	domain.UserPatch
}

func (r ProfileUpdateRequest) Validate() error {
	if v, ok := r.Username.Get(); ok && strings.TrimSpace(v) == "" {
		return domain.BadRequest("username cannot be empty")
	}
	if v, ok := r.Email.Get(); ok {
		if err := validateEmail(v); err != nil {
			return err
		}
	}
	if v, ok := r.Password.Get(); ok {
		return validatePassword(v)
	}
	return nil
}

type ListRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (r ListRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.BadRequest("name is required")
	}
	return nil
}

func (r ListRequest) Input() domain.ListInput {
	return domain.ListInput{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Color:       r.Color,
	}
}

type ListUpdateRequest struct {
	domain.ListPatch
}

func (r ListUpdateRequest) Validate() error {
	if v, ok := r.Name.Get(); ok && strings.TrimSpace(v) == "" {
		return domain.BadRequest("name cannot be empty")
	}
	return nil
}

type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	IsCompleted *bool   `json:"is_completed"`
	DueDate     *string `json:"due_date"`
}

// Input validates the request and converts it to a domain input.
func (r TaskRequest) Input() (domain.TaskInput, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return domain.TaskInput{}, domain.BadRequest("title is required")
	}
	in := domain.TaskInput{
		Title:       title,
		Description: r.Description,
		IsCompleted: r.IsCompleted,
	}
	if r.Priority != nil {
		p := domain.Priority(strings.ToLower(strings.TrimSpace(*r.Priority)))
		if !p.Valid() {
			return domain.TaskInput{}, domain.BadRequest("priority must be one of low, medium, high")
		}
		in.Priority = &p
	}
	if r.DueDate != nil && strings.TrimSpace(*r.DueDate) != "" {
		due, err := time.Parse(time.RFC3339, strings.TrimSpace(*r.DueDate))
		if err != nil {
			return domain.TaskInput{}, domain.BadRequest("due_date must be an RFC 3339 timestamp")
		}
		due = due.UTC()
		in.DueDate = &due
	}
	return in, nil
}

type TaskUpdateRequest struct {
	domain.TaskPatch
}

func (r TaskUpdateRequest) Validate() error {
	if v, ok := r.Title.Get(); ok && strings.TrimSpace(v) == "" {
		return domain.BadRequest("title cannot be empty")
	}
	if v, ok := r.Priority.Get(); ok && !v.Valid() {
		return domain.BadRequest("priority must be one of low, medium, high")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.BadRequest("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.BadRequest("email is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < domain.MinPasswordLength {
		return domain.BadRequest("password must be at least 6 characters")
	}
	return nil
}

package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestListPatchDecodesAbsentNullAndValue(t *testing.T) {
	var patch ListPatch
	if err := json.Unmarshal([]byte(`{"description":null,"color":"#ff0000"}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if patch.Name.Set {
		t.Fatal("expected name to be absent")
	}
	if !patch.Description.Null() {
		t.Fatal("expected description to be an explicit null")
	}
	if v, ok := patch.Color.Get(); !ok || v != "#ff0000" {
		t.Fatalf("color = %q (%v), want #ff0000", v, ok)
	}

	desc := "weekly"
	list := &List{Name: "Groceries", Description: &desc}
	if err := patch.Apply(list); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if list.Name != "Groceries" {
		t.Fatalf("name = %q, want unchanged", list.Name)
	}
	if list.Description != nil {
		t.Fatalf("description = %q, want cleared", *list.Description)
	}
	if list.Color == nil || *list.Color != "#ff0000" {
		t.Fatalf("color not applied: %v", list.Color)
	}
}

func TestListPatchRejectsNullName(t *testing.T) {
	var patch ListPatch
	if err := json.Unmarshal([]byte(`{"name":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	err := patch.Apply(&List{Name: "x"})
	if !IsDomainError(err, ErrCodeBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestTaskPatchApply(t *testing.T) {
	due := time.Date(2025, 8, 3, 18, 0, 0, 0, time.UTC)
	task := &Task{Title: "Milk", Priority: PriorityMedium, DueDate: &due}

	var patch TaskPatch
	if err := json.Unmarshal([]byte(`{"priority":"high","due_date":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := patch.Apply(task); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if task.Priority != PriorityHigh {
		t.Fatalf("priority = %q, want high", task.Priority)
	}
	if task.DueDate != nil {
		t.Fatal("expected due date to be cleared")
	}
	if task.Title != "Milk" {
		t.Fatalf("title = %q, want unchanged", task.Title)
	}

	bad := TaskPatch{Priority: Some(Priority("urgent"))}
	if err := bad.Apply(task); !IsDomainError(err, ErrCodeBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
	if err := (TaskPatch{IsCompleted: Null[bool]()}).Apply(task); !IsDomainError(err, ErrCodeBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestTaskInputDefaults(t *testing.T) {
	task, err := TaskInput{Title: "Milk"}.NewTask("list-1")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Priority != PriorityMedium {
		t.Fatalf("priority = %q, want medium", task.Priority)
	}
	if task.IsCompleted {
		t.Fatal("expected task to start pending")
	}
	if task.DueDate != nil {
		t.Fatal("expected no due date")
	}
	if task.ListID != "list-1" {
		t.Fatalf("list id = %q, want list-1", task.ListID)
	}
}

func TestErrorIsMatchesWrappedSentinel(t *testing.T) {
	err := WrapError(ErrCodeNotFound, "list not found", nil)
	if !IsDomainError(err, ErrCodeNotFound) {
		t.Fatal("expected not found code")
	}
	if !errors.Is(err, ErrListNotFound) {
		t.Fatal("expected errors.Is to match sentinel by code and message")
	}
}

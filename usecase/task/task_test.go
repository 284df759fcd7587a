package task

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/testkit"
	"github.com/fastygo/todo/usecase/auth"
	"github.com/fastygo/todo/usecase/list"
)

type fixture struct {
	env   *testkit.Env
	auth  *auth.UseCase
	lists *list.UseCase
	tasks *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := testkit.New(t)
	return &fixture{
		env:   env,
		auth:  auth.New(env.Users, env.Tx, env.Issuer, env.Hasher, env.Revocations, nil),
		lists: list.New(env.Lists, env.Tasks, env.Tx, nil),
		tasks: New(env.Lists, env.Tasks, env.Tx, nil),
	}
}

func TestTodoScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, auth.RegisterInput{Username: "Tim", Email: "tim@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Token == "" {
		t.Fatal("register returned no token")
	}
	payload, err := json.Marshal(registered)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(payload), "password") {
		t.Fatalf("auth payload leaks password: %s", payload)
	}

	if _, err := f.auth.Login(ctx, "tim@x.com", "wrong"); !domain.IsDomainError(err, domain.ErrCodeUnauthenticated) {
		t.Fatalf("wrong password err = %v, want UNAUTHENTICATED", err)
	}

	tim := registered.User.ID
	groceries, err := f.lists.Create(ctx, tim, domain.ListInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	milk, err := f.tasks.Create(ctx, tim, groceries.ID, domain.TaskInput{Title: "Milk"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if milk.IsCompleted || milk.Priority != domain.PriorityMedium || milk.DueDate != nil {
		t.Fatalf("unexpected defaults: %+v", milk)
	}

	toggled, err := f.tasks.Toggle(ctx, tim, milk.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Fatal("first toggle did not complete the task")
	}
	toggled, err = f.tasks.Toggle(ctx, tim, milk.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.IsCompleted {
		t.Fatal("second toggle did not restore the task")
	}

	other := f.env.SeedUser(t, "ana", "ana@x.com")
	if _, err := f.lists.Delete(ctx, other.ID, groceries.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("foreign delete err = %v, want FORBIDDEN", err)
	}
}

func TestCreateUnderForeignListIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tim := f.env.SeedUser(t, "tim", "tim@example.com")
	ana := f.env.SeedUser(t, "ana", "ana@example.com")

	timList, err := f.lists.Create(ctx, tim.ID, domain.ListInput{Name: "Tim's"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	if _, err := f.tasks.Create(ctx, ana.ID, timList.ID, domain.TaskInput{Title: "Sneaky"}); !errors.Is(err, domain.ErrListForbidden) {
		t.Fatalf("foreign create err = %v, want ErrListForbidden", err)
	}
	if _, err := f.tasks.Create(ctx, ana.ID, "missing", domain.TaskInput{Title: "Lost"}); !errors.Is(err, domain.ErrListNotFound) {
		t.Fatalf("missing list err = %v, want ErrListNotFound", err)
	}

	tasks, err := f.tasks.ListByList(ctx, tim.ID, timList.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("foreign create persisted: %+v", tasks)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tim := f.env.SeedUser(t, "tim", "tim@example.com")
	l, err := f.lists.Create(ctx, tim.ID, domain.ListInput{Name: "Inbox"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	if _, err := f.tasks.Create(ctx, tim.ID, l.ID, domain.TaskInput{Title: " "}); !domain.IsDomainError(err, domain.ErrCodeBadRequest) {
		t.Fatalf("blank title err = %v, want BAD_REQUEST", err)
	}
	urgent := domain.Priority("urgent")
	if _, err := f.tasks.Create(ctx, tim.ID, l.ID, domain.TaskInput{Title: "x", Priority: &urgent}); !domain.IsDomainError(err, domain.ErrCodeBadRequest) {
		t.Fatalf("bad priority err = %v, want BAD_REQUEST", err)
	}
}

func TestListByListOrdersByDueDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tim := f.env.SeedUser(t, "tim", "tim@example.com")
	l, err := f.lists.Create(ctx, tim.ID, domain.ListInput{Name: "Bills"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	february := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []domain.TaskInput{
		{Title: "someday"},
		{Title: "rent", DueDate: &march},
		{Title: "phone", DueDate: &february},
	} {
		if _, err := f.tasks.Create(ctx, tim.ID, l.ID, in); err != nil {
			t.Fatalf("create %s: %v", in.Title, err)
		}
	}

	tasks, err := f.tasks.ListByList(ctx, tim.ID, l.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	if got := strings.Join(titles, ","); got != "phone,rent,someday" {
		t.Fatalf("order = %s, want phone,rent,someday", got)
	}

	ana := f.env.SeedUser(t, "ana", "ana@example.com")
	if _, err := f.tasks.ListByList(ctx, ana.ID, l.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("foreign list err = %v, want FORBIDDEN", err)
	}
}

func TestUpdatePatchSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tim := f.env.SeedUser(t, "tim", "tim@example.com")
	l, err := f.lists.Create(ctx, tim.ID, domain.ListInput{Name: "Work"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	due := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	desc := "quarterly"
	created, err := f.tasks.Create(ctx, tim.ID, l.ID, domain.TaskInput{Title: "Report", Description: &desc, DueDate: &due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var patch domain.TaskPatch
	if err := json.Unmarshal([]byte(`{"due_date": null, "priority": "high"}`), &patch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	updated, err := f.tasks.Update(ctx, tim.ID, created.ID, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DueDate != nil || updated.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if updated.Description == nil || *updated.Description != desc || updated.Title != "Report" {
		t.Fatalf("absent fields changed: %+v", updated)
	}

	got, err := f.tasks.Get(ctx, tim.ID, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DueDate != nil || got.Priority != domain.PriorityHigh {
		t.Fatalf("update not persisted: %+v", got)
	}

	var nullTitle domain.TaskPatch
	if err := json.Unmarshal([]byte(`{"title": null}`), &nullTitle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := f.tasks.Update(ctx, tim.ID, created.ID, nullTitle); !domain.IsDomainError(err, domain.ErrCodeBadRequest) {
		t.Fatalf("null title err = %v, want BAD_REQUEST", err)
	}
}

func TestForeignTaskMutationsAreForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tim := f.env.SeedUser(t, "tim", "tim@example.com")
	ana := f.env.SeedUser(t, "ana", "ana@example.com")
	l, err := f.lists.Create(ctx, tim.ID, domain.ListInput{Name: "Mine"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	task, err := f.tasks.Create(ctx, tim.ID, l.ID, domain.TaskInput{Title: "Keep"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.tasks.Get(ctx, ana.ID, task.ID); !errors.Is(err, domain.ErrTaskForbidden) {
		t.Fatalf("foreign get err = %v", err)
	}
	if _, err := f.tasks.Update(ctx, ana.ID, task.ID, domain.TaskPatch{Title: domain.Some("Mine now")}); !errors.Is(err, domain.ErrTaskForbidden) {
		t.Fatalf("foreign update err = %v", err)
	}
	if _, err := f.tasks.Toggle(ctx, ana.ID, task.ID); !errors.Is(err, domain.ErrTaskForbidden) {
		t.Fatalf("foreign toggle err = %v", err)
	}
	if _, err := f.tasks.Delete(ctx, ana.ID, task.ID); !errors.Is(err, domain.ErrTaskForbidden) {
		t.Fatalf("foreign delete err = %v", err)
	}

	got, err := f.env.Tasks.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Title != "Keep" || got.IsCompleted {
		t.Fatalf("task modified by stranger: %+v", got)
	}

	res, err := f.tasks.Delete(ctx, tim.ID, task.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.Message != "Task deleted successfully" {
		t.Fatalf("message = %q", res.Message)
	}
	if _, err := f.tasks.Toggle(ctx, tim.ID, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("toggle deleted err = %v, want ErrTaskNotFound", err)
	}
}

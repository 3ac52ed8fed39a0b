// Package memory provides in-memory implementations of the persistence
// interfaces in internal/store. It is the moral equivalent of the browser
// local-storage backend the application supports alongside the database:
// everything lives in process memory, guarded by a mutex, and vanishes on
// restart. Services accept the store interfaces, so the in-memory and
// postgres backends are interchangeable; tests use this package as their
// store double.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/store"
)

// TaskStore is an in-memory store.TaskStore.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

// Ensure TaskStore implements store.TaskStore
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	s.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(task), nil
}

// List implements store.TaskStore.List
func (s *TaskStore) List(_ context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*domain.Task) bool { return true }, false), nil
}

// ListByCategory implements store.TaskStore.ListByCategory
func (s *TaskStore) ListByCategory(_ context.Context, category domain.Category) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(t *domain.Task) bool { return t.Category == category }, false), nil
}

// ListRecurring implements store.TaskStore.ListRecurring
func (s *TaskStore) ListRecurring(_ context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(t *domain.Task) bool { return t.IsRecurring() }, true), nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.tasks[task.ID] = copyTask(task)
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// WithTx implements store.TaskStore.WithTx. The in-memory store has no
// transactions; operations are individually atomic under the mutex, so the
// store itself is returned.
func (s *TaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	return s
}

// collect returns copies of all tasks passing the filter. Ordering matches
// the postgres stores: newest first, or oldest first for the recurring set.
func (s *TaskStore) collect(keep func(*domain.Task) bool, oldestFirst bool) []*domain.Task {
	var out []*domain.Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.LastGenerated != nil {
		lg := *t.LastGenerated
		c.LastGenerated = &lg
	}
	if t.ParentRecurringID != nil {
		p := *t.ParentRecurringID
		c.ParentRecurringID = &p
	}
	return &c
}

// TemplateStore is an in-memory store.TemplateStore.
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]*domain.TaskTemplate
}

// NewTemplateStore creates an empty in-memory template store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{templates: make(map[uuid.UUID]*domain.TaskTemplate)}
}

// Ensure TemplateStore implements store.TemplateStore
var _ store.TemplateStore = (*TemplateStore)(nil)

// Create implements store.TemplateStore.Create
func (s *TemplateStore) Create(_ context.Context, tpl *domain.TaskTemplate) error {
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[tpl.ID]; exists {
		return store.ErrDuplicate
	}
	cp := *tpl
	s.templates[tpl.ID] = &cp
	return nil
}

// GetByID implements store.TemplateStore.GetByID
func (s *TemplateStore) GetByID(_ context.Context, id uuid.UUID) (*domain.TaskTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[id]
	if !ok {
		return nil, store.ErrTemplateNotFound
	}
	cp := *tpl
	return &cp, nil
}

// List implements store.TemplateStore.List
func (s *TemplateStore) List(_ context.Context) ([]*domain.TaskTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*domain.TaskTemplate) bool { return true }), nil
}

// ListByCategory implements store.TemplateStore.ListByCategory
func (s *TemplateStore) ListByCategory(_ context.Context, category domain.Category) ([]*domain.TaskTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(t *domain.TaskTemplate) bool { return t.Category == category }), nil
}

// Update implements store.TemplateStore.Update
func (s *TemplateStore) Update(_ context.Context, tpl *domain.TaskTemplate) error {
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[tpl.ID]; !ok {
		return store.ErrTemplateNotFound
	}
	cp := *tpl
	s.templates[tpl.ID] = &cp
	return nil
}

// Delete implements store.TemplateStore.Delete
func (s *TemplateStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return store.ErrTemplateNotFound
	}
	delete(s.templates, id)
	return nil
}

// WithTx implements store.TemplateStore.WithTx; see TaskStore.WithTx.
func (s *TemplateStore) WithTx(_ *sql.Tx) store.TemplateStore {
	return s
}

func (s *TemplateStore) collect(keep func(*domain.TaskTemplate) bool) []*domain.TaskTemplate {
	var out []*domain.TaskTemplate
	for _, t := range s.templates {
		if keep(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MarkStore is an in-memory store.MarkStore.
type MarkStore struct {
	mu    sync.RWMutex
	marks map[domain.Category]*store.GenerationMark
}

// NewMarkStore creates an empty in-memory mark store.
func NewMarkStore() *MarkStore {
	return &MarkStore{marks: make(map[domain.Category]*store.GenerationMark)}
}

// Ensure MarkStore implements store.MarkStore
var _ store.MarkStore = (*MarkStore)(nil)

// Get implements store.MarkStore.Get
func (s *MarkStore) Get(_ context.Context, category domain.Category) (*store.GenerationMark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mark, ok := s.marks[category]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *mark
	return &cp, nil
}

// Put implements store.MarkStore.Put
func (s *MarkStore) Put(_ context.Context, mark *store.GenerationMark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *mark
	s.marks[mark.Category] = &cp
	return nil
}

// WithTx implements store.MarkStore.WithTx; see TaskStore.WithTx.
func (s *MarkStore) WithTx(_ *sql.Tx) store.MarkStore {
	return s
}

package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
)

// TaskStore implements replenishment.TaskRepository. Creation order is
// tracked explicitly so merge/trim walks and the assigner see tasks the way
// the planner made them, even under equal timestamps.
type TaskStore struct {
	mu    sync.RWMutex
	seq   uint64
	tasks map[string]*storedTask
}

type storedTask struct {
	task *replenishment.Task
	seq  uint64
}

// NewTaskStore creates an empty task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*storedTask)}
}

// Create persists a new task.
func (s *TaskStore) Create(ctx context.Context, task *replenishment.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks[task.ID()] = &storedTask{task: task.Clone(), seq: s.seq}
	return nil
}

// Update saves changes to an existing task.
func (s *TaskStore) Update(ctx context.Context, task *replenishment.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[task.ID()]
	if !ok {
		return &replenishment.ErrTaskNotFound{TaskID: task.ID()}
	}
	stored.task = task.Clone()
	return nil
}

// FindByID retrieves a task by its id.
func (s *TaskStore) FindByID(ctx context.Context, id string) (*replenishment.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.tasks[id]
	if !ok {
		return nil, &replenishment.ErrTaskNotFound{TaskID: id}
	}
	return stored.task.Clone(), nil
}

// FindOpenByRule retrieves a rule's open tasks in create order.
func (s *TaskStore) FindOpenByRule(ctx context.Context, ruleID string) ([]*replenishment.Task, error) {
	return s.collect(func(t *replenishment.Task) bool {
		return t.IsOpen() && t.RuleID() == ruleID
	})
}

// FindOpen retrieves every open task in create order.
func (s *TaskStore) FindOpen(ctx context.Context) ([]*replenishment.Task, error) {
	return s.collect(func(t *replenishment.Task) bool { return t.IsOpen() })
}

// FindAll retrieves every task in create order, optionally filtered.
func (s *TaskStore) FindAll(ctx context.Context, filter replenishment.TaskFilter) ([]*replenishment.Task, error) {
	return s.collect(filter.Matches)
}

func (s *TaskStore) collect(keep func(*replenishment.Task) bool) ([]*replenishment.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type row struct {
		task *replenishment.Task
		seq  uint64
	}
	rows := make([]row, 0)
	for _, stored := range s.tasks {
		if keep(stored.task) {
			rows = append(rows, row{task: stored.task.Clone(), seq: stored.seq})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*replenishment.Task, len(rows))
	for i, r := range rows {
		out[i] = r.task
	}
	return out, nil
}

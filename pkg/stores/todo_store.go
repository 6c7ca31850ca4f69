package stores

// TodoStore owns the todo records. It is the only mutable state shared
// between concurrently connected protocol channels, so every operation runs
// under a single mutex. Callers only ever receive copies; the store keeps
// the canonical records to itself.

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Todo is a single record. The ID is assigned at creation and never changes.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoPatch is a partial update. Nil fields leave the record untouched.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

type todoEntry struct {
	todo    Todo
	seq     uint64
	updated time.Time
}

// TodoStore is an in-memory map keyed by record id, safe for concurrent use.
type TodoStore struct {
	mu   sync.RWMutex
	data map[string]*todoEntry
	seq  uint64
}

func NewTodoStore() *TodoStore {
	return &TodoStore{
		data: make(map[string]*todoEntry),
	}
}

// Create allocates a fresh unique id, inserts the record and returns a copy.
func (s *TodoStore) Create(title string, completed bool) Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo := Todo{
		ID:        uuid.NewString(),
		Title:     title,
		Completed: completed,
	}

	s.seq++
	s.data[todo.ID] = &todoEntry{
		todo:    todo,
		seq:     s.seq,
		updated: time.Now().UTC(),
	}

	return todo
}

// List returns a snapshot of all records in insertion order.
func (s *TodoStore) List() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*todoEntry, 0, len(s.data))

	for _, entry := range s.data {
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	todos := make([]Todo, 0, len(entries))

	for _, entry := range entries {
		todos = append(todos, entry.todo)
	}

	return todos
}

// Update merges the patch onto an existing record. The second return value
// is false when the id is unknown, in which case nothing changed.
func (s *TodoStore) Update(id string, patch TodoPatch) (Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[id]

	if !ok {
		return Todo{}, false
	}

	if patch.Title != nil {
		entry.todo.Title = *patch.Title
	}

	if patch.Completed != nil {
		entry.todo.Completed = *patch.Completed
	}

	entry.updated = time.Now().UTC()

	return entry.todo, true
}

// Delete removes a record. It returns false when the id is unknown, so a
// second delete of the same id is visible to the caller as a failure.
func (s *TodoStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return false
	}

	delete(s.data, id)

	return true
}

// Get returns a copy of a record together with its last modification time.
func (s *TodoStore) Get(id string) (Todo, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry, ok := s.data[id]; ok {
		return entry.todo, entry.updated, true
	}

	return Todo{}, time.Time{}, false
}

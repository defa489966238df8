package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// StaffStore implements staff.Repository.
type StaffStore struct {
	mu      sync.RWMutex
	members map[string]*staff.Member
}

// NewStaffStore creates an empty staff store.
func NewStaffStore() *StaffStore {
	return &StaffStore{members: make(map[string]*staff.Member)}
}

// Save persists a member, replacing any previous version of the id.
func (s *StaffStore) Save(ctx context.Context, member *staff.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID()] = member.Clone()
	return nil
}

// FindByID retrieves a member by id.
func (s *StaffStore) FindByID(ctx context.Context, id string) (*staff.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return nil, &staff.ErrMemberNotFound{StaffID: id}
	}
	return m.Clone(), nil
}

// FindAll retrieves every member in id order.
func (s *StaffStore) FindAll(ctx context.Context) ([]*staff.Member, error) {
	return s.collect(func(*staff.Member) bool { return true })
}

// FindOnShift retrieves the active members in id order.
func (s *StaffStore) FindOnShift(ctx context.Context) ([]*staff.Member, error) {
	return s.collect(func(m *staff.Member) bool { return m.OnShift() })
}

func (s *StaffStore) collect(keep func(*staff.Member) bool) ([]*staff.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*staff.Member, 0, len(s.members))
	for _, m := range s.members {
		if keep(m) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// Package memstore provides the in-memory repositories behind every domain
// port. State lives for the life of the process; the command gateway
// serialises access, and every read hands out a defensive copy so callers
// can never mutate engine state through a read model.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
)

// LocationStore implements layout.LocationRepository.
type LocationStore struct {
	mu        sync.RWMutex
	locations map[string]*layout.Location
}

// NewLocationStore creates an empty location store.
func NewLocationStore() *LocationStore {
	return &LocationStore{locations: make(map[string]*layout.Location)}
}

// Create persists a new location.
func (s *LocationStore) Create(ctx context.Context, location *layout.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[location.ID()]; ok {
		return &layout.ErrLocationExists{LocationID: location.ID()}
	}
	s.locations[location.ID()] = location.Clone()
	return nil
}

// Update saves changes to an existing location.
func (s *LocationStore) Update(ctx context.Context, location *layout.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[location.ID()]; !ok {
		return &layout.ErrLocationNotFound{LocationID: location.ID()}
	}
	s.locations[location.ID()] = location.Clone()
	return nil
}

// Delete removes a location.
func (s *LocationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[id]; !ok {
		return &layout.ErrLocationNotFound{LocationID: id}
	}
	delete(s.locations, id)
	return nil
}

// FindByID retrieves a location by its id.
func (s *LocationStore) FindByID(ctx context.Context, id string) (*layout.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, &layout.ErrLocationNotFound{LocationID: id}
	}
	return loc.Clone(), nil
}

// FindByAntenna retrieves the location owning the given antenna.
func (s *LocationStore) FindByAntenna(ctx context.Context, antennaID string) (*layout.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, loc := range s.locations {
		if loc.HasAntenna(antennaID) {
			return loc.Clone(), nil
		}
	}
	return nil, &layout.ErrAntennaNotFound{AntennaID: antennaID}
}

// FindAll retrieves every registered location in id order.
func (s *LocationStore) FindAll(ctx context.Context) ([]*layout.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*layout.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// Exists reports whether a location id is registered.
func (s *LocationStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.locations[id]
	return ok, nil
}

// ExternalLocationStore implements layout.ExternalLocationRepository.
type ExternalLocationStore struct {
	mu     sync.RWMutex
	labels map[string]string
}

// NewExternalLocationStore creates an empty external source registry.
func NewExternalLocationStore() *ExternalLocationStore {
	return &ExternalLocationStore{labels: make(map[string]string)}
}

// Register adds an external source id with a display label.
func (s *ExternalLocationStore) Register(ctx context.Context, id, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[id] = label
	return nil
}

// Remove deletes an external source id.
func (s *ExternalLocationStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.labels, id)
	return nil
}

// Exists reports whether the external id is registered.
func (s *ExternalLocationStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.labels[id]
	return ok, nil
}

// FindAll returns the registered ids mapped to their labels.
func (s *ExternalLocationStore) FindAll(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.labels))
	for id, label := range s.labels {
		out[id] = label
	}
	return out, nil
}

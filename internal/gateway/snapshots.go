package gateway

import "sync"

// Snapshots holds the latest snapshot per resource.
type Snapshots struct {
	mu sync.RWMutex
	m  map[Resource]*Snapshot
}

func NewSnapshots() *Snapshots {
	return &Snapshots{m: make(map[Resource]*Snapshot)}
}

// Get returns the latest snapshot for r.
func (s *Snapshots) Get(r Resource) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.m[r]
	return snap, ok
}

// Put replaces the snapshot for its resource.
func (s *Snapshots) Put(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	s.m[snap.Resource] = snap
	s.mu.Unlock()
}

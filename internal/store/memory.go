package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"syllabus-cli/internal/errs"
)

// MemoryStore keeps encoded documents in a map. Callers never share document memory
// with the store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	owner   string
	title   string
	version int
	raw     []byte
	updated time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) LoadAggregate(_ context.Context, courseID string) (CourseDocument, error) {
	const op = "store.load_aggregate"
	courseID = strings.TrimSpace(courseID)
	s.mu.Lock()
	rec, ok := s.records[courseID]
	s.mu.Unlock()
	if !ok {
		return CourseDocument{}, errs.NotFound(op, "course", courseID)
	}
	return decodeDocument(op, rec.raw)
}

func (s *MemoryStore) SaveAggregate(_ context.Context, courseID string, doc CourseDocument) error {
	const op = "store.save_aggregate"
	courseID, err := checkSave(op, courseID, doc)
	if err != nil {
		return err
	}
	raw, err := encodeDocument(op, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[courseID]
	if !ok {
		return errs.NotFound(op, "course", courseID)
	}
	rec.title, rec.version, rec.raw, rec.updated = doc.Title, doc.SchemaVersion, raw, s.now().UTC()
	s.records[courseID] = rec
	return nil
}

func (s *MemoryStore) CreateAggregate(_ context.Context, ownerID string, doc CourseDocument) error {
	const op = "store.create_aggregate"
	ownerID, err := checkCreate(op, ownerID, doc)
	if err != nil {
		return err
	}
	raw, err := encodeDocument(op, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[doc.ID]; ok {
		return errs.New(errs.CodeConflict, op, "course already exists: "+doc.ID)
	}
	s.records[doc.ID] = memoryRecord{owner: ownerID, title: doc.Title, version: doc.SchemaVersion, raw: raw, updated: s.now().UTC()}
	return nil
}

func (s *MemoryStore) DeleteAggregate(_ context.Context, courseID string) error {
	courseID = strings.TrimSpace(courseID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[courseID]; !ok {
		return errs.NotFound("store.delete_aggregate", "course", courseID)
	}
	delete(s.records, courseID)
	return nil
}

func (s *MemoryStore) ListAggregates(_ context.Context, ownerID string) ([]AggregateSummary, error) {
	ownerID = strings.TrimSpace(ownerID)
	s.mu.Lock()
	out := make([]AggregateSummary, 0, len(s.records))
	for id, rec := range s.records {
		if ownerID != "" && rec.owner != ownerID {
			continue
		}
		out = append(out, AggregateSummary{ID: id, OwnerID: rec.owner, Title: rec.title, SchemaVersion: rec.version, UpdatedAt: rec.updated})
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CourseOwner(_ context.Context, courseID string) (string, error) {
	courseID = strings.TrimSpace(courseID)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[courseID]
	if !ok {
		return "", errs.NotFound("store.course_owner", "course", courseID)
	}
	return rec.owner, nil
}

package state

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrMalformedID is returned when an id does not carry the numeric suffix
// expected for a replica.
var ErrMalformedID = errors.New("malformed object id")

// Store maps object ids to the last known live object.
type Store struct {
	objects map[string]*Object
	mu      sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		objects: make(map[string]*Object),
	}
}

// Save records o under its id, replacing any previous instance.
func (s *Store) Save(o *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[o.ID] = o
}

// Get returns the object stored under id.
func (s *Store) Get(id string) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[id]
	return o, ok
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// All returns the stored objects sorted by order, ties broken by id.
func (s *Store) All() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		objects = append(objects, o)
	}
	SortByOrder(objects)
	return objects
}

// SortByOrder sorts objects ascending by order, ties broken by id.
func SortByOrder(objects []*Object) {
	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].Order != objects[j].Order {
			return objects[i].Order < objects[j].Order
		}
		return objects[i].ID < objects[j].ID
	})
}

// LocalSuffix extracts the numeric counter from an id generated by replica.
// Ids are formatted as "<replica><counter>".
func LocalSuffix(id, replica string) (int64, error) {
	rest, ok := strings.CutPrefix(id, replica)
	if !ok || rest == "" {
		return 0, fmt.Errorf("%w: %q does not belong to replica %q", ErrMalformedID, id, replica)
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedID, id, err)
	}
	return n, nil
}

// FormatID builds the id of the n-th object created by replica.
func FormatID(replica string, n int64) string {
	return replica + strconv.FormatInt(n, 10)
}

package database

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is a process-local DocumentStore. Documents are kept as JSON
// so callers never share memory with stored values.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryData
	unique      map[string][]string
}

type memoryData struct {
	order []string
	docs  map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryData),
		unique:      make(map[string][]string),
	}
}

func (s *MemoryStore) Collection(name string) Collection {
	return &memoryCollection{store: s, name: name}
}

func (s *MemoryStore) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.unique[collection] {
		if f == field {
			return nil
		}
	}
	s.unique[collection] = append(s.unique[collection], field)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// data must be called with s.mu held for writing.
func (s *MemoryStore) data(name string) *memoryData {
	d, ok := s.collections[name]
	if !ok {
		d = &memoryData{docs: make(map[string][]byte)}
		s.collections[name] = d
	}
	return d
}

type memoryCollection struct {
	store *MemoryStore
	name  string
}

func (c *memoryCollection) Find(ctx context.Context, filter Filter, out interface{}) error {
	want, err := normalizeFilter(filter)
	if err != nil {
		return err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	docs := [][]byte{}
	if d, ok := c.store.collections[c.name]; ok {
		for _, id := range d.order {
			doc := d.docs[id]
			ok, err := matches(doc, want)
			if err != nil {
				return err
			}
			if ok {
				docs = append(docs, doc)
			}
		}
	}
	return decodeDocuments(docs, out)
}

func (c *memoryCollection) FindOne(ctx context.Context, filter Filter, out interface{}) error {
	want, err := normalizeFilter(filter)
	if err != nil {
		return err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	d, ok := c.store.collections[c.name]
	if !ok {
		return ErrNotFound
	}
	for _, id := range d.order {
		doc := d.docs[id]
		ok, err := matches(doc, want)
		if err != nil {
			return err
		}
		if ok {
			return json.Unmarshal(doc, out)
		}
	}
	return ErrNotFound
}

func (c *memoryCollection) FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	d, ok := c.store.collections[c.name]
	if !ok {
		return ErrNotFound
	}
	doc, ok := d.docs[id.Hex()]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(doc, out)
}

func (c *memoryCollection) Insert(ctx context.Context, id primitive.ObjectID, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	d := c.store.data(c.name)
	key := id.Hex()
	if _, exists := d.docs[key]; exists {
		return ErrDuplicateKey
	}
	if err := c.checkUnique(d, key, b); err != nil {
		return err
	}
	d.order = append(d.order, key)
	d.docs[key] = b
	return nil
}

func (c *memoryCollection) Replace(ctx context.Context, id primitive.ObjectID, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	d := c.store.data(c.name)
	key := id.Hex()
	if _, exists := d.docs[key]; !exists {
		return ErrNotFound
	}
	if err := c.checkUnique(d, key, b); err != nil {
		return err
	}
	d.docs[key] = b
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id primitive.ObjectID) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	d := c.store.data(c.name)
	key := id.Hex()
	if _, exists := d.docs[key]; !exists {
		return ErrNotFound
	}
	delete(d.docs, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// checkUnique must be called with the store lock held.
func (c *memoryCollection) checkUnique(d *memoryData, key string, doc []byte) error {
	fields := c.store.unique[c.name]
	if len(fields) == 0 {
		return nil
	}

	var incoming map[string]interface{}
	if err := json.Unmarshal(doc, &incoming); err != nil {
		return err
	}

	for otherKey, other := range d.docs {
		if otherKey == key {
			continue
		}
		var existing map[string]interface{}
		if err := json.Unmarshal(other, &existing); err != nil {
			return err
		}
		for _, f := range fields {
			if reflect.DeepEqual(incoming[f], existing[f]) {
				return ErrDuplicateKey
			}
		}
	}
	return nil
}

// normalizeFilter round-trips the filter through JSON so its values compare
// equal to decoded documents (ObjectIDs become hex strings, numbers float64).
func normalizeFilter(filter Filter) (map[string]interface{}, error) {
	b, err := marshalFilter(filter)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(doc []byte, want map[string]interface{}) (bool, error) {
	if len(want) == 0 {
		return true, nil
	}
	var got map[string]interface{}
	if err := json.Unmarshal(doc, &got); err != nil {
		return false, err
	}
	for k, v := range want {
		if !reflect.DeepEqual(got[k], v) {
			return false, nil
		}
	}
	return true, nil
}

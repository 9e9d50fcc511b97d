package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ Backend = (*Memory)(nil)

// Memory is an in-process Backend used when DB_DRIVER=memory and in tests.
// It counts every call per operation and collection.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]bson.M
	calls       map[string]int
	failures    map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		collections: map[string][]bson.M{},
		calls:       map[string]int{},
		failures:    map[string]error{},
	}
}

func opKey(op, collection string) string {
	return op + ":" + collection
}

// Calls returns how many times op ("find", "get", "findBy", "insert", "update",
// "delete", "count") ran against collection.
func (m *Memory) Calls(op, collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[opKey(op, collection)]
}

// Fail makes every later op on collection return err; a nil err clears it.
func (m *Memory) Fail(op, collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, opKey(op, collection))
		return
	}
	m.failures[opKey(op, collection)] = err
}

// begin records the call and returns the injected failure, if any. Callers hold mu.
func (m *Memory) begin(op, collection string) error {
	m.calls[opKey(op, collection)]++
	return m.failures[opKey(op, collection)]
}

func toM(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *Memory) indexOf(collection, id string) int {
	for i, doc := range m.collections[collection] {
		if oid, ok := doc["_id"].(primitive.ObjectID); ok && oid.Hex() == id {
			return i
		}
	}
	return -1
}

func (m *Memory) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("find", collection); err != nil {
		return err
	}

	docs := append([]bson.M(nil), m.collections[collection]...)
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i][q.OrderBy], docs[j][q.OrderBy])
			if q.Descending {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && int64(len(docs)) > q.Limit {
		docs = docs[:q.Limit]
	}

	raws := make([]bson.Raw, 0, len(docs))
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		raws = append(raws, raw)
	}
	return decodeAll(collection, raws, out)
}

func (m *Memory) FindByID(ctx context.Context, collection, id string, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("get", collection); err != nil {
		return err
	}

	i := m.indexOf(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	return decodeOne(m.collections[collection][i], out)
}

func (m *Memory) FindOneBy(ctx context.Context, collection, field string, value interface{}, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("findBy", collection); err != nil {
		return err
	}

	for _, doc := range m.collections[collection] {
		if compareValues(doc[field], value) == 0 && doc[field] != nil {
			return decodeOne(doc, out)
		}
	}
	return ErrNotFound
}

func decodeOne(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (m *Memory) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("insert", collection); err != nil {
		return "", err
	}

	stored, err := toM(doc)
	if err != nil {
		return "", err
	}
	oid, ok := stored["_id"].(primitive.ObjectID)
	if !ok || oid.IsZero() {
		oid = primitive.NewObjectID()
		stored["_id"] = oid
	}
	m.collections[collection] = append(m.collections[collection], stored)
	return oid.Hex(), nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("update", collection); err != nil {
		return err
	}

	i := m.indexOf(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	set, err := toM(fields)
	if err != nil {
		return err
	}
	for key, value := range set {
		m.collections[collection][i][key] = value
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete", collection); err != nil {
		return err
	}

	i := m.indexOf(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	docs := m.collections[collection]
	m.collections[collection] = append(docs[:i], docs[i+1:]...)
	return nil
}

func (m *Memory) Count(ctx context.Context, collection string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("count", collection); err != nil {
		return 0, err
	}
	return int64(len(m.collections[collection])), nil
}

// compareValues orders BSON values the way a sort on one field does:
// missing and null first, then numbers and dates, then strings.
func compareValues(a, b interface{}) int {
	ra, fa, sa := rank(a)
	rb, fb, sb := rank(b)
	switch {
	case ra != rb:
		return ra - rb
	case ra == 1:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case ra == 2:
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	}
	return 0
}

func rank(v interface{}) (int, float64, string) {
	switch x := v.(type) {
	case nil:
		return 0, 0, ""
	case int32:
		return 1, float64(x), ""
	case int64:
		return 1, float64(x), ""
	case int:
		return 1, float64(x), ""
	case float64:
		return 1, x, ""
	case primitive.DateTime:
		return 1, float64(x), ""
	case time.Time:
		return 1, float64(x.UnixMilli()), ""
	case string:
		return 2, 0, x
	case primitive.ObjectID:
		return 2, 0, x.Hex()
	}
	return 3, 0, fmt.Sprint(v)
}

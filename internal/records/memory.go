package records

import (
	"context"
	"sort"
	"sync"

	"waterhole/internal/utils"
)

// MemoryClient is a map-backed record store used by tests and by the
// STORE_TYPE=memory development mode. Ids are assigned from a per-table
// counter, matching the integer-id behavior of the hosted store.
type MemoryClient struct {
	mu     sync.RWMutex
	tables map[string]map[int]Record
	nextID map[string]int
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		tables: make(map[string]map[int]Record),
		nextID: make(map[string]int),
	}
}

func (m *MemoryClient) FetchRecords(ctx context.Context, table string, query Query) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.tables[table]
	ids := make([]int, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	// Stable base order: insertion (id) order.
	sort.Ints(ids)

	matched := make([]Record, 0, len(ids))
	for _, id := range ids {
		if matchesWhere(rows[id], query.Where) {
			matched = append(matched, rows[id])
		}
	}

	sortRecords(matched, query.OrderBy)

	if query.Paging != nil {
		start := query.Paging.Offset
		if start > len(matched) {
			start = len(matched)
		}
		end := len(matched)
		if query.Paging.Limit > 0 && start+query.Paging.Limit < end {
			end = start + query.Paging.Limit
		}
		matched = matched[start:end]
	}

	out := make([]Record, 0, len(matched))
	for _, rec := range matched {
		out = append(out, project(rec, query.Fields))
	}
	return out, nil
}

func (m *MemoryClient) GetRecordByID(ctx context.Context, table string, id int, query Query) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.tables[table][id]
	if !ok {
		return nil, utils.NewNotFoundError("record")
	}
	return project(rec, query.Fields), nil
}

func (m *MemoryClient) CreateRecord(ctx context.Context, table string, fields Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tables[table] == nil {
		m.tables[table] = make(map[int]Record)
	}
	m.nextID[table]++
	id := m.nextID[table]

	rec := Record{FieldID: id}
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		rec[k] = v
	}
	m.tables[table][id] = rec
	return clone(rec), nil
}

func (m *MemoryClient) UpdateRecord(ctx context.Context, table string, id int, fields Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tables[table][id]
	if !ok {
		return nil, utils.NewNotFoundError("record")
	}
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		rec[k] = v
	}
	return clone(rec), nil
}

func (m *MemoryClient) DeleteRecords(ctx context.Context, table string, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		delete(m.tables[table], id)
	}
	return nil
}

func matchesWhere(rec Record, conditions []Where) bool {
	for _, cond := range conditions {
		value := rec[cond.FieldName]
		switch cond.Operator {
		case OpEqualTo:
			hit := false
			for _, want := range cond.Values {
				if valuesEqual(value, want) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		case OpGreaterThanOrEqualTo:
			have, ok1 := numeric(value)
			if !ok1 || len(cond.Values) == 0 {
				return false
			}
			want, ok2 := numeric(cond.Values[0])
			if !ok2 || have < want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func sortRecords(recs []Record, order []OrderBy) {
	if len(order) == 0 {
		return
	}
	by := order[0]
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i][by.Field], recs[j][by.Field]
		var less bool
		if an, ok := numeric(a); ok {
			bn, _ := numeric(b)
			less = an < bn
		} else {
			as, _ := a.(string)
			bs, _ := b.(string)
			less = as < bs
		}
		if by.Desc {
			return !less && !valuesEqual(a, b)
		}
		return less
	})
}

func project(rec Record, fields []string) Record {
	if len(fields) == 0 {
		return clone(rec)
	}
	out := Record{FieldID: rec[FieldID]}
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

func clone(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

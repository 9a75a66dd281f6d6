package inmem

import (
	"fmt"
	"sort"
	"time"

	"github.com/kompox/shipyard/domain/model"
)

type row[T any] struct {
	v   *T
	seq int64
}

// table is an insertion-ordered map of copies. It is not safe for concurrent use; Store serializes access.
type table[T any] struct {
	prefix string
	rows   map[string]row[T]
	seq    int64
	id     func(*T) *string
	clone  func(*T) *T
	unique []func(*T) string
}

func newTable[T any](prefix string, id func(*T) *string, clone func(*T) *T, unique ...func(*T) string) *table[T] {
	return &table[T]{prefix: prefix, rows: map[string]row[T]{}, id: id, clone: clone, unique: unique}
}

func (t *table[T]) copy() *table[T] {
	c := *t
	c.rows = make(map[string]row[T], len(t.rows))
	for k, r := range t.rows {
		c.rows[k] = row[T]{v: t.clone(r.v), seq: r.seq}
	}
	return &c
}

func (t *table[T]) nextID() string {
	return fmt.Sprintf("%s-%d-%d", t.prefix, time.Now().UnixNano(), t.seq+1)
}

// conflicts reports whether v collides with another row on a unique key. Empty keys never collide.
func (t *table[T]) conflicts(v *T) error {
	id := *t.id(v)
	for _, key := range t.unique {
		k := key(v)
		if k == "" {
			continue
		}
		for rid, r := range t.rows {
			if rid != id && key(r.v) == k {
				return fmt.Errorf("%w: %s", model.ErrAlreadyExists, k)
			}
		}
	}
	return nil
}

func (t *table[T]) insert(v *T) error {
	idp := t.id(v)
	if *idp == "" {
		*idp = t.nextID()
	}
	if _, ok := t.rows[*idp]; ok {
		return fmt.Errorf("%w: %s", model.ErrAlreadyExists, *idp)
	}
	if err := t.conflicts(v); err != nil {
		return err
	}
	t.seq++
	t.rows[*idp] = row[T]{v: t.clone(v), seq: t.seq}
	return nil
}

func (t *table[T]) get(id string, notFound error) (*T, error) {
	r, ok := t.rows[id]
	if !ok {
		return nil, notFound
	}
	return t.clone(r.v), nil
}

func (t *table[T]) replace(v *T, notFound error) error {
	id := *t.id(v)
	r, ok := t.rows[id]
	if !ok {
		return notFound
	}
	if err := t.conflicts(v); err != nil {
		return err
	}
	t.rows[id] = row[T]{v: t.clone(v), seq: r.seq}
	return nil
}

func (t *table[T]) remove(id string, notFound error) error {
	if _, ok := t.rows[id]; !ok {
		return notFound
	}
	delete(t.rows, id)
	return nil
}

// find returns copies of matching rows in insertion order.
func (t *table[T]) find(match func(*T) bool) []*T {
	rows := make([]row[T], 0, len(t.rows))
	for _, r := range t.rows {
		if match == nil || match(r.v) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*T, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.clone(r.v))
	}
	return out
}

func (t *table[T]) first(match func(*T) bool, notFound error) (*T, error) {
	if found := t.find(match); len(found) > 0 {
		return found[0], nil
	}
	return nil, notFound
}

// cloneMap deep-copies decoded JSON values so stored rows never alias caller maps.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = cloneValue(x[i])
		}
		return out
	default:
		return v
	}
}

func sortByRenderOrder(cs []*model.ComponentTemplateConfig) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].RenderOrder < cs[j].RenderOrder })
}

// Package odootest provides an in-memory odoo.Backend for tests.
package odootest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/olgasafonova/odoo-crm-mcp-server/internal/odoo"
)

// Backend stores records per model and answers search_read and create the
// way Odoo does: unknown fields read as false and ids are assigned in order.
type Backend struct {
	// UID is returned by Authenticate. Zero or negative simulates Odoo's false.
	UID int64

	// AuthErr, SearchErr and CreateErr are returned by the matching call when set.
	AuthErr   error
	SearchErr error
	CreateErr error

	mu      sync.Mutex
	records map[string]map[int64]odoo.Record
	nextID  int64

	authCalls   int
	searchCalls int
	createCalls int
}

var _ odoo.Backend = (*Backend)(nil)

// NewBackend returns a Backend that accepts any credentials as uid 2
func NewBackend() *Backend {
	return &Backend{
		UID:     2,
		records: make(map[string]map[int64]odoo.Record),
		nextID:  1,
	}
}

// Seed stores values as a new record of model and returns its id
func (b *Backend) Seed(model string, values odoo.Record) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(model, values)
}

func (b *Backend) Authenticate(ctx context.Context) (int64, error) {
	b.mu.Lock()
	b.authCalls++
	b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if b.AuthErr != nil {
		return 0, b.AuthErr
	}
	return b.UID, nil
}

func (b *Backend) SearchRead(ctx context.Context, uid int64, model string, domain odoo.Domain, fields []string) ([]odoo.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searchCalls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.SearchErr != nil {
		return nil, b.SearchErr
	}

	ids := make([]int64, 0, len(b.records[model]))
	for id, rec := range b.records[model] {
		if matches(rec, domain) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]odoo.Record, 0, len(ids))
	for _, id := range ids {
		rec := b.records[model][id]
		row := odoo.Record{"id": id}
		for _, f := range fields {
			if v, ok := rec[f]; ok && v != "" {
				row[f] = v
			} else {
				row[f] = false
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (b *Backend) Create(ctx context.Context, uid int64, model string, values odoo.Record) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if b.CreateErr != nil {
		return 0, b.CreateErr
	}
	return b.insert(model, values), nil
}

// Calls reports how many times each method was invoked
func (b *Backend) Calls() (auth, search, create int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authCalls, b.searchCalls, b.createCalls
}

// Records returns the stored records of model, ordered by id
func (b *Backend) Records(model string) []odoo.Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]int64, 0, len(b.records[model]))
	for id := range b.records[model] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]odoo.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.records[model][id])
	}
	return out
}

func (b *Backend) insert(model string, values odoo.Record) int64 {
	id := b.nextID
	b.nextID++

	rec := make(odoo.Record, len(values)+1)
	for k, v := range values {
		rec[k] = v
	}
	rec["id"] = id

	if b.records[model] == nil {
		b.records[model] = make(map[int64]odoo.Record)
	}
	b.records[model][id] = rec
	return id
}

// matches supports [field, "=", value] conditions joined by implicit AND
func matches(rec odoo.Record, domain odoo.Domain) bool {
	for _, term := range domain {
		cond, ok := term.([]any)
		if !ok || len(cond) != 3 || cond[1] != "=" {
			continue
		}
		field, _ := cond[0].(string)
		if fmt.Sprint(rec[field]) != fmt.Sprint(cond[2]) {
			return false
		}
	}
	return true
}

package dataset

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/matrix"
	"github.com/Skufu/ddimatrix/internal/metrics"
)

// Source supplies an edge list from somewhere other than a file.
type Source interface {
	LoadEdges(ctx context.Context) (edges.List, error)
}

// Registry holds the currently selected snapshot. A failed load leaves the
// previous snapshot in place.
type Registry struct {
	sheet  string
	policy matrix.ConflictPolicy

	mu      sync.RWMutex
	current *Snapshot
}

func NewRegistry(sheet string, policy matrix.ConflictPolicy) *Registry {
	if sheet == "" {
		sheet = edges.DefaultSheet
	}
	return &Registry{sheet: sheet, policy: policy}
}

func (r *Registry) Current() (*Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.current != nil
}

func (r *Registry) Policy() matrix.ConflictPolicy {
	return r.policy
}

// LoadFile loads a catalog file and selects it.
func (r *Registry) LoadFile(f File) (*Snapshot, error) {
	list, err := edges.LoadFile(f.Path, r.sheet)
	metrics.ObserveLoad("file", err)
	if err != nil {
		log.Printf("load %s failed: %v", f.Name, err)
		return nil, err
	}
	return r.publish(f.Name, "file", list), nil
}

// LoadUpload loads an uploaded file; name decides the format.
func (r *Registry) LoadUpload(name string, body io.Reader) (*Snapshot, error) {
	kind, err := edges.KindFromName(name)
	if err != nil {
		metrics.ObserveLoad("upload", err)
		return nil, err
	}
	list, err := edges.Load(body, kind, r.sheet)
	metrics.ObserveLoad("upload", err)
	if err != nil {
		log.Printf("upload %s rejected: %v", name, err)
		return nil, err
	}
	return r.publish(name, "upload", list), nil
}

// LoadSource pulls edges from src and selects them under name.
func (r *Registry) LoadSource(ctx context.Context, name string, src Source) (*Snapshot, error) {
	list, err := src.LoadEdges(ctx)
	metrics.ObserveLoad("db", err)
	if err != nil {
		log.Printf("load %s failed: %v", name, err)
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return r.publish(name, "db", list), nil
}

func (r *Registry) publish(name, source string, list edges.List) *Snapshot {
	snap := NewSnapshot(name, source, list, r.policy)

	r.mu.Lock()
	r.current = snap
	r.mu.Unlock()

	metrics.SetCurrent(list.Len(), len(snap.Drugs))
	log.Printf("selected %s (%s): %d edges, %d drugs, %d skipped rows",
		name, source, list.Len(), len(snap.Drugs), list.Skipped)
	return snap
}

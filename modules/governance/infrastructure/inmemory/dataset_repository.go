package inmemory

import (
	"context"
	"sync"

	"github.com/iota-uz/governance/modules/governance/domain/dataset"
)

type DatasetRepository struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Dataset
	order    []string
}

func NewDatasetRepository(seed ...*dataset.Dataset) *DatasetRepository {
	r := &DatasetRepository{datasets: map[string]*dataset.Dataset{}}
	for _, ds := range seed {
		clone := *ds
		r.datasets[ds.ID] = &clone
		r.order = append(r.order, ds.ID)
	}
	return r
}

func (r *DatasetRepository) List(_ context.Context) ([]*dataset.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*dataset.Dataset, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.datasets[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *DatasetRepository) Find(_ context.Context, id string) (*dataset.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.datasets[id]
	if !ok {
		return nil, nil
	}
	clone := *ds
	return &clone, nil
}

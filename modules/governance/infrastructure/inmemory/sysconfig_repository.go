package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/iota-uz/governance/modules/governance/domain/sysconfig"
)

type SysConfigRepository struct {
	mu       sync.RWMutex
	settings map[string]string
}

func NewSysConfigRepository() *SysConfigRepository {
	return &SysConfigRepository{settings: map[string]string{}}
}

func (r *SysConfigRepository) List(_ context.Context) ([]*sysconfig.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.settings))
	for k := range r.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*sysconfig.Setting, 0, len(keys))
	for _, k := range keys {
		out = append(out, &sysconfig.Setting{Key: k, Value: r.settings[k]})
	}
	return out, nil
}

func (r *SysConfigRepository) Get(_ context.Context, key string) (*sysconfig.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.settings[key]
	if !ok {
		return nil, nil
	}
	return &sysconfig.Setting{Key: key, Value: value}, nil
}

func (r *SysConfigRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[key] = value
	return nil
}

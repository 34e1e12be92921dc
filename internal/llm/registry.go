package llm

import (
	"context"
	"strings"
	"sync"
)

// Entry is the resolved registration for a single version key.
type Entry struct {
	Key        string
	ProviderID string
	Variant    *Variant
}

// Version returns the entry as a Version pair.
func (e Entry) Version() Version {
	return Version{Key: e.Key, ProviderID: e.ProviderID}
}

// New constructs the model behind this entry.
func (e Entry) New(ctx context.Context) (Model, error) {
	return e.Variant.New(ctx, e.Version())
}

// Registry maps version keys to the variants responsible for them.
// Keys are matched case-insensitively and listed in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register inserts or overwrites the entry for key. An overwritten key keeps
// its original position in the listing.
func (r *Registry) Register(key string, variant *Variant, providerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	norm := normalize(key)
	if _, exists := r.entries[norm]; !exists {
		r.order = append(r.order, norm)
	}
	r.entries[norm] = Entry{
		Key:        key,
		ProviderID: providerID,
		Variant:    variant,
	}
}

// RegisterVariant registers every version the variant serves.
func (r *Registry) RegisterVariant(variant *Variant) {
	for _, v := range variant.Versions {
		r.Register(v.Key, variant, v.ProviderID)
	}
}

// Resolve looks up key. Unknown keys yield an *UnknownVersionError.
func (r *Registry) Resolve(key string) (Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[normalize(key)]
	r.mu.RUnlock()

	if !ok {
		return Entry{}, &UnknownVersionError{Version: key, Available: r.ListAvailable()}
	}
	return e, nil
}

// ListAvailable returns the registered keys in registration order.
func (r *Registry) ListAvailable() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.order))
	for _, norm := range r.order {
		keys = append(keys, r.entries[norm].Key)
	}
	return keys
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

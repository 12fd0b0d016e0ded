package registry

import (
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"rag-chatbot-be/pkg/llm"
)

// ConstructFunc builds a provider handle for a model name.
type ConstructFunc func(modelName string) (llm.LLMProvider, error)

// Registry caches one provider handle per model name for the process
// lifetime. Construction is guarded per key: when two requests race on the
// same model name, exactly one constructs and the other reuses the result.
// A failed construction is not cached, so the next request retries it.
type Registry struct {
	construct ConstructFunc
	handles   *gocache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistry(construct ConstructFunc) *Registry {
	return &Registry{
		construct: construct,
		handles:   gocache.New(gocache.NoExpiration, 0),
		locks:     make(map[string]*sync.Mutex),
	}
}

func (r *Registry) keyLock(modelName string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[modelName]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[modelName] = lock
	}
	return lock
}

// Resolve returns the cached handle for the model name, constructing it on
// first use.
func (r *Registry) Resolve(modelName string) (llm.LLMProvider, error) {
	if handle, found := r.handles.Get(modelName); found {
		return handle.(llm.LLMProvider), nil
	}

	lock := r.keyLock(modelName)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have constructed while we waited for the lock.
	if handle, found := r.handles.Get(modelName); found {
		return handle.(llm.LLMProvider), nil
	}

	handle, err := r.construct(modelName)
	if err != nil {
		return nil, err
	}
	r.handles.Set(modelName, handle, gocache.NoExpiration)
	return handle, nil
}

// Invalidate drops the cached handle for one model name, or every handle when
// the name is empty. Used after credential rotation.
func (r *Registry) Invalidate(modelName string) {
	if modelName == "" {
		r.handles.Flush()
		return
	}
	r.handles.Delete(modelName)
}

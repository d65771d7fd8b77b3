package memory

import (
	"sync"
	"time"

	"derma-triage-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// Thread holds the in-process chat history for one conversation. The mutex
// serializes concurrent turns on the same conversation so interleaved
// requests cannot corrupt the message order.
type Thread struct {
	Mu       sync.Mutex
	Messages []llm.Message
}

type ThreadRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewThreadRepository() *ThreadRepository {
	// Threads idle for 12 hours are dropped, purge sweep every 30 minutes
	c := cache.New(12*time.Hour, 30*time.Minute)
	return &ThreadRepository{
		cache: c,
	}
}

// GetOrCreate returns the thread for the conversation, creating an empty one
// on first use. Creation is guarded so two concurrent first turns share a
// single thread.
func (r *ThreadRepository) GetOrCreate(conversationID string) *Thread {
	if x, found := r.cache.Get(conversationID); found {
		r.cache.Set(conversationID, x, cache.DefaultExpiration)
		return x.(*Thread)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if x, found := r.cache.Get(conversationID); found {
		return x.(*Thread)
	}
	t := &Thread{}
	r.cache.Set(conversationID, t, cache.DefaultExpiration)
	return t
}

func (r *ThreadRepository) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}

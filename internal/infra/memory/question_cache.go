package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"category-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a category's questions from the backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error)
}

// QuestionCache keeps one question set per category. Entries expire after the
// TTL plus up to 10% jitter, and a write to a category drops only that
// category's entry. Concurrent misses for one category share a single load.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[domain.Category]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Category]cachedQuestions),
	}
}

// LoadQuestions serves the category's set from cache or loads it. Callers get
// their own copy of the slice.
func (c *QuestionCache) LoadQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	if questions, ok := c.lookup(category); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(string(category), func() (interface{}, error) {
		if questions, ok := c.lookup(category); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadQuestions(ctx, category)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[category] = cachedQuestions{
			questions: questions,
			expiresAt: c.clock().Add(c.ttlWithJitterLocked()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

// Invalidate forgets category's set so the next read reloads it. Other
// categories keep their entries.
func (c *QuestionCache) Invalidate(_ context.Context, category domain.Category) error {
	c.mu.Lock()
	delete(c.cache, category)
	c.mu.Unlock()
	return nil
}

// lookup returns a live, unexpired entry.
func (c *QuestionCache) lookup(category domain.Category) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[category]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return copyQuestions(entry.questions), true
}

func (c *QuestionCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func copyQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	copy(out, in)
	return out
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"category-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a category's questions from the backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error)
}

// QuestionCache keeps each category's question set as a JSON blob and falls
// back to the loader on a miss:
//
//	SET quiz:questions:{category} <json> EX <ttl>
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	key := questionsKey(category)
	if questions, ok := c.lookup(ctx, key); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another caller filled it.
		if questions, ok := c.lookup(ctx, key); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadQuestions(ctx, category)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate removes the cached set for category.
func (c *QuestionCache) Invalidate(ctx context.Context, category domain.Category) error {
	if err := c.client.Del(ctx, questionsKey(category)).Err(); err != nil {
		return fmt.Errorf("invalidate %s questions: %w", category, err)
	}
	return nil
}

// lookup treats redis errors and undecodable entries as misses.
func (c *QuestionCache) lookup(ctx context.Context, key string) ([]domain.Question, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func questionsKey(category domain.Category) string {
	return "quiz:questions:" + string(category)
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

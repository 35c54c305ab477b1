package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"category-quiz-service/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Direct implements Gateway on top of a DocumentStore.
type Direct struct {
	store  DocumentStore
	loader QuestionLoader
	cache  QuestionCache
	now    func() time.Time
	log    *zap.Logger
}

// Option customizes a Direct gateway.
type Option func(*Direct)

// WithQuestionCache serves question reads from cache and invalidates it on writes.
func WithQuestionCache(cache QuestionCache) Option {
	return func(d *Direct) {
		d.cache = cache
		d.loader = cache
	}
}

// WithLogger reports cache invalidation failures, which never fail a write.
func WithLogger(log *zap.Logger) Option {
	return func(d *Direct) {
		if log != nil {
			d.log = log
		}
	}
}

// WithClock overrides the timestamp source; tests use it for stable output.
func WithClock(now func() time.Time) Option {
	return func(d *Direct) { d.now = now }
}

func NewDirect(store DocumentStore, opts ...Option) *Direct {
	d := &Direct{
		store:  store,
		loader: NewStoreLoader(store),
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ Gateway = (*Direct)(nil)

func (d *Direct) GetQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	return d.loader.LoadQuestions(ctx, category)
}

func (d *Direct) AddQuestion(ctx context.Context, category domain.Category, input domain.QuestionInput) (string, error) {
	if err := ValidateQuestion(input); err != nil {
		return "", err
	}
	now := d.now().UTC()
	data, err := json.Marshal(storedQuestion{
		Question:      input.Question,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return "", fmt.Errorf("encode question: %w", err)
	}
	id, err := d.store.Create(ctx, category.Collection(), data)
	if err != nil {
		return "", fmt.Errorf("create question: %w", err)
	}
	d.invalidate(ctx, category)
	return id, nil
}

func (d *Direct) UpdateQuestion(ctx context.Context, category domain.Category, id string, patch domain.QuestionPatch) error {
	if err := ValidatePatch(patch); err != nil {
		return err
	}
	// A lone options or correct-answer change is checked against the stored pair.
	if (patch.Options == nil) != (patch.CorrectAnswer == nil) {
		current, err := d.storedInput(ctx, category, id)
		if err != nil {
			return err
		}
		if err := ValidatePatchAgainst(current, patch); err != nil {
			return err
		}
	}
	fields := patch.Fields()
	fields["updatedAt"] = d.now().UTC()
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode question patch: %w", err)
	}
	if err := d.store.Update(ctx, category.Collection(), id, data); err != nil {
		return fmt.Errorf("update question %s: %w", id, err)
	}
	d.invalidate(ctx, category)
	return nil
}

func (d *Direct) DeleteQuestion(ctx context.Context, category domain.Category, id string) error {
	if err := d.store.Delete(ctx, category.Collection(), id); err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	d.invalidate(ctx, category)
	return nil
}

// SaveQuizResult appends a session record with a fresh session id and the
// current time as completion time.
func (d *Direct) SaveQuizResult(ctx context.Context, category domain.Category, results []domain.QuizResult, score, total int) (string, error) {
	return d.SaveSubmission(ctx, domain.QuizSessionRecord{
		Category:       category,
		Results:        results,
		Score:          score,
		TotalQuestions: total,
		CompletedAt:    d.now().UTC(),
	})
}

// SaveSubmission appends rec as-is, filling the session id and timestamps
// the caller left empty.
func (d *Direct) SaveSubmission(ctx context.Context, rec domain.QuizSessionRecord) (string, error) {
	if rec.Results == nil {
		return "", fmt.Errorf("%w: results are required", domain.ErrInvalidSubmission)
	}
	now := d.now().UTC()
	if rec.SessionID == "" {
		rec.SessionID = NewSessionID(now)
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = now
	}
	rec.SubmittedAt = now
	rec.ID = ""

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode quiz result: %w", err)
	}
	id, err := d.store.Create(ctx, domain.ResultsCollection, data)
	if err != nil {
		return "", fmt.Errorf("save quiz result: %w", err)
	}
	return id, nil
}

func (d *Direct) GetQuizResults(ctx context.Context) ([]domain.QuizSessionRecord, error) {
	docs, err := d.store.List(ctx, domain.ResultsCollection)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	records := make([]domain.QuizSessionRecord, 0, len(docs))
	for _, doc := range docs {
		var rec domain.QuizSessionRecord
		if err := json.Unmarshal(doc.Data, &rec); err != nil {
			return nil, fmt.Errorf("decode quiz result %s: %w", doc.ID, err)
		}
		rec.ID = doc.ID
		records = append(records, rec)
	}
	return records, nil
}

// Stats counts questions and results for category, or for everything when
// category is empty. Results saved without a category only count in the
// unscoped total.
func (d *Direct) Stats(ctx context.Context, category domain.Category) (domain.Stats, error) {
	categories := domain.Categories()
	if category != "" {
		categories = []domain.Category{category}
	}

	counts := make([]int, len(categories))
	var records []domain.QuizSessionRecord

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		i, c := i, c
		g.Go(func() error {
			questions, err := d.loader.LoadQuestions(gctx, c)
			if err != nil {
				return err
			}
			counts[i] = len(questions)
			return nil
		})
	}
	g.Go(func() error {
		var err error
		records, err = d.GetQuizResults(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Stats{}, fmt.Errorf("collect stats: %w", err)
	}

	if category != "" {
		scoped := records[:0]
		for _, rec := range records {
			if rec.Category == category {
				scoped = append(scoped, rec)
			}
		}
		records = scoped
	}

	stats := domain.Stats{TotalResults: len(records)}
	for _, n := range counts {
		stats.TotalQuestions += n
	}
	if len(records) > 0 {
		total := 0
		for _, rec := range records {
			total += rec.Score
		}
		stats.AverageScore = math.Round(float64(total)/float64(len(records))*100) / 100
	}
	return stats, nil
}

func (d *Direct) storedInput(ctx context.Context, category domain.Category, id string) (domain.QuestionInput, error) {
	doc, err := d.store.Get(ctx, category.Collection(), id)
	if err != nil {
		return domain.QuestionInput{}, fmt.Errorf("update question %s: %w", id, err)
	}
	var sq storedQuestion
	if err := json.Unmarshal(doc.Data, &sq); err != nil {
		return domain.QuestionInput{}, fmt.Errorf("decode question %s: %w", id, err)
	}
	return domain.QuestionInput{Question: sq.Question, Options: sq.Options, CorrectAnswer: sq.CorrectAnswer}, nil
}

// invalidate drops cached questions. Reads fall back to TTL expiry if it fails.
func (d *Direct) invalidate(ctx context.Context, category domain.Category) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Invalidate(ctx, category); err != nil {
		d.log.Warn("question cache invalidation failed",
			zap.Error(err), zap.String("category", string(category)))
	}
}

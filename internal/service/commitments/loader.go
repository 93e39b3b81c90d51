package commitments

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Loader собирает занятость ресурса из всех зарегистрированных источников
type Loader struct {
	sources []Source
	logger  Logger
}

// NewLoader создает новый экземпляр CommitmentLoader
func NewLoader(logger Logger, sources ...Source) *Loader {
	return &Loader{
		sources: sources,
		logger:  logger,
	}
}

// Sources список подключённых источников
func (l *Loader) Sources() []domain.CommitmentSourceKind {
	kinds := make([]domain.CommitmentSourceKind, 0, len(l.sources))
	for _, s := range l.sources {
		kinds = append(kinds, s.Kind())
	}
	return kinds
}

// Load опрашивает источники параллельно и объединяет результат
// Отказ одного источника не прерывает остальные и попадает в LoadResult.Failures
// Ошибка возвращается только при отмене контекста
func (l *Loader) Load(ctx context.Context, q domain.CommitmentQuery) (*LoadResult, error) {
	type sourceResult struct {
		commitments []domain.Commitment
		err         error
	}

	results := make([]sourceResult, len(l.sources))

	var g errgroup.Group
	for i, source := range l.sources {
		g.Go(func() error {
			commitments, err := source.Fetch(ctx, q)
			results[i] = sourceResult{commitments: commitments, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &LoadResult{Commitments: make([]domain.Commitment, 0)}

	for i, res := range results {
		kind := l.sources[i].Kind()

		if res.err != nil {
			l.logger.Warn("Load: source %s failed for resource=%s: %v", kind, q.ResourceID, res.err)
			result.Failures = append(result.Failures, SourceFailure{Source: kind, Err: res.err})
			continue
		}

		for _, c := range res.commitments {
			if !c.IsValid() {
				l.logger.Warn("Load: dropping invalid commitment id=%s from %s for resource=%s: end %s is not after start %s",
					c.ID, kind, q.ResourceID, c.End.Format(time.RFC3339), c.Start.Format(time.RFC3339))
				continue
			}
			if c.Source == "" {
				c.Source = kind
			}
			result.Commitments = append(result.Commitments, c)
		}
	}

	sortCommitments(result.Commitments)

	return result, nil
}

// sortCommitments упорядочивает по началу, затем по концу и id для детерминированного вывода
func sortCommitments(cs []domain.Commitment) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].Start.Equal(cs[j].Start) {
			return cs[i].Start.Before(cs[j].Start)
		}
		if !cs[i].End.Equal(cs[j].End) {
			return cs[i].End.Before(cs[j].End)
		}
		return cs[i].ID < cs[j].ID
	})
}

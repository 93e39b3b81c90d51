package commitments

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// SourceFailure источник, не ответивший на запрос
type SourceFailure struct {
	Source domain.CommitmentSourceKind
	Err    error
}

// LoadResult объединённая занятость ресурса
type LoadResult struct {
	Commitments []domain.Commitment // отсортированы по началу
	Failures    []SourceFailure
}

// Failed возвращает true, если хотя бы один источник не ответил
func (r *LoadResult) Failed() bool {
	return len(r.Failures) > 0
}

// Err собирает отказы источников в *domain.SourceUnavailableError
func (r *LoadResult) Err(resourceID string) error {
	if !r.Failed() {
		return nil
	}

	causes := make(map[domain.CommitmentSourceKind]error, len(r.Failures))
	for _, f := range r.Failures {
		causes[f.Source] = f.Err
	}

	return &domain.SourceUnavailableError{ResourceID: resourceID, Causes: causes}
}

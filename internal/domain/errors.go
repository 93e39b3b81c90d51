package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigurationError политика компании не задана или некорректна
// Не повторяется: оператору нужно исправить настройки компании
type ConfigurationError struct {
	MissingField string // обязательное поле, которое не задано
	Field        string // поле с некорректным значением
	Reason       string
}

func (e *ConfigurationError) Error() string {
	if e.MissingField != "" {
		return fmt.Sprintf("scheduling policy is not configured: %s is missing, set it in company settings", e.MissingField)
	}
	return fmt.Sprintf("scheduling policy is invalid: %s: %s", e.Field, e.Reason)
}

// SourceUnavailableError один или несколько источников занятости ресурса не ответили
type SourceUnavailableError struct {
	ResourceID string
	Causes     map[CommitmentSourceKind]error
}

func (e *SourceUnavailableError) Error() string {
	sources := make([]string, 0, len(e.Causes))
	for source := range e.Causes {
		sources = append(sources, string(source))
	}
	sort.Strings(sources)

	return fmt.Sprintf("commitment sources unavailable for resource %s: %s", e.ResourceID, strings.Join(sources, ", "))
}

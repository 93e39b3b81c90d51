package domain

import "time"

// CandidateSlot потенциальный слот бронирования ресурса
// Никогда не сохраняется: создаётся перечислением и либо принимается, либо отбрасывается фильтром
type CandidateSlot struct {
	ResourceID      string
	Start           time.Time // UTC
	End             time.Time // UTC
	DurationMinutes int
}

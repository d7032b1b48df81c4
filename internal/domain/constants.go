package domain

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxReviewLength             = 1000
	MaxDeclineReasonLength      = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	DateTimeFormat = "2006-01-02T15:04"
	DateFormat     = "2006-01-02"
)

// ActiveStatuses список статусов, при которых бронирование занимает исполнителя
// Используется при проверке занятости в подборе исполнителей
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses список терминальных статусов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}

package domain

// Default availability profile values
const (
	DefaultMeetingDurationMinutes        = 30
	DefaultLeadTimeMinutes               = 60 // 1 hour notice
	DefaultBufferTimeMinutes             = 0
	DefaultCancelRescheduleBufferMinutes = 60
	DefaultAutoCancelAfterMinutes        = 0 // never
	DefaultDailyBookingLimit             = 0 // unlimited
	DefaultTimezone                      = "UTC"
)

// Business validation constants
const (
	MinMeetingDurationMinutes = 5
	MaxMeetingDurationMinutes = 480   // 8 hours
	MaxLeadTimeMinutes        = 10080 // 1 week
	MaxBufferTimeMinutes      = 240
	MaxAutoCancelAfterMinutes = 10080
	MaxDailyBookingLimit      = 100
	MaxNotesLength            = 500
	MaxReasonLength           = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот
// Используется для фильтрации при подсчете доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelledByRequester,
	StatusCancelledByAgent,
	StatusAutoCancelled,
}

// ActiveStatuses список статусов, занимающих слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelledByRequester,
	StatusCancelledByAgent,
	StatusAutoCancelled,
}

// ValidMeetingTypes все допустимые типы встреч
var ValidMeetingTypes = []MeetingType{
	MeetingInPerson,
	MeetingVirtual,
}

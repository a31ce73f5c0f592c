package domain

// Default values
const (
	DefaultServiceDurationMinutes = 30
	DefaultSlotCapacity           = 1
	DefaultAppointmentsPageSize   = 10
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxServiceNameLength      = 200
	MaxSlotCapacity           = 100
	MaxNotesLength            = 1000
	MaxPageSize               = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

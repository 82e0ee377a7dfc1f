package profile

import "errors"

var (
	// ErrAccessDenied возвращается, когда профиль пытается менять не его владелец
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimezone возвращается при нераспознанной IANA таймзоне
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

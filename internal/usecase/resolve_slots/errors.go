package resolve_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resolve_slots: invalid input data")

	// ErrInvalidTimezone возвращается, когда таймзона профиля не распознана
	ErrInvalidTimezone = errors.New("resolve_slots: invalid profile timezone")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("resolve_slots: internal error")
)

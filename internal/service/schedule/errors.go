package schedule

import "errors"

var (
	// ErrAccessDenied возвращается, когда расписание меняет не его владелец
	ErrAccessDenied = errors.New("access denied")

	// ErrEntryNotFound возвращается при обновлении несуществующей записи
	ErrEntryNotFound = errors.New("schedule entry not found")

	// ErrScheduleOverlap возвращается при пересекающихся интервалах одного дня
	ErrScheduleOverlap = errors.New("schedule entries overlap")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidMeetingType возвращается при неизвестном типе встречи
	ErrInvalidMeetingType = errors.New("create_booking: invalid meeting type")

	// ErrSlotNotAvailable возвращается, когда запрошенный слот не входит
	// в актуальный список доступных слотов агента
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrDailyLimitReached возвращается при достигнутом дневном лимите агента
	ErrDailyLimitReached = errors.New("create_booking: daily booking limit reached")

	// ErrBookingCooldown возвращается, когда повторная попытка бронирования
	// к тому же агенту приходит раньше окна cooldown
	ErrBookingCooldown = errors.New("create_booking: too many booking attempts, try again later")

	// ErrDuplicateBooking возвращается при уже существующем активном бронировании
	// того же объекта тем же пользователем
	ErrDuplicateBooking = errors.New("create_booking: duplicate active booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

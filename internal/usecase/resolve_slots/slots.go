package resolve_slots

import (
	"sort"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

// interval полуинтервал [start, end) в минутах от полуночи
type interval struct {
	start int
	end   int
}

func (i interval) empty() bool {
	return i.start >= i.end
}

// toInterval конвертирует пару TimeString в минутный интервал
func toInterval(start, end types.TimeString) (interval, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return interval{}, err
	}
	endMin, err := end.Minutes()
	if err != nil {
		return interval{}, err
	}
	return interval{start: startMin, end: endMin}, nil
}

// mergeIntervals сортирует интервалы и склеивает пересекающиеся и смежные
func mergeIntervals(intervals []interval) []interval {
	if len(intervals) == 0 {
		return intervals
	}

	sort.Slice(intervals, func(a, b int) bool {
		return intervals[a].start < intervals[b].start
	})

	merged := make([]interval, 0, len(intervals))
	current := intervals[0]

	for _, next := range intervals[1:] {
		if next.start <= current.end {
			if next.end > current.end {
				current.end = next.end
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}

	return append(merged, current)
}

// subtractIntervals вычитает busy интервалы из open
// open должен быть отсортирован и без пересечений (результат mergeIntervals)
func subtractIntervals(open, busy []interval) []interval {
	if len(busy) == 0 {
		return open
	}

	busy = mergeIntervals(append([]interval(nil), busy...))
	result := make([]interval, 0, len(open))

	for _, o := range open {
		remaining := o
		for _, b := range busy {
			if b.end <= remaining.start || b.start >= remaining.end {
				continue
			}
			// Левый фрагмент до начала busy
			if b.start > remaining.start {
				result = append(result, interval{start: remaining.start, end: b.start})
			}
			// Продолжаем с хвостом после busy
			if b.end < remaining.end {
				remaining.start = b.end
			} else {
				remaining = interval{}
				break
			}
		}
		if !remaining.empty() {
			result = append(result, remaining)
		}
	}

	return result
}

// discretize нарезает открытые интервалы на слоты фиксированной длительности
// Слоты выравниваются по началу каждого интервала; неполный остаток отбрасывается
func discretize(open []interval, durationMinutes int) []interval {
	slots := make([]interval, 0)

	for _, o := range open {
		for start := o.start; start+durationMinutes <= o.end; start += durationMinutes {
			slots = append(slots, interval{start: start, end: start + durationMinutes})
		}
	}

	return slots
}

// dayInputs входные данные резолвера на одну дату
type dayInputs struct {
	date     time.Time // полночь даты UTC - канонический ключ даты
	schedule []*domain.WeeklyScheduleEntry
	extras   []*domain.ExtraTimeSlot
	bookings []*domain.Booking
}

// resolveDay вычисляет слоты одной даты:
// недельное расписание ∪ extra-слоты − blocked-слоты − бронирования с буферами,
// затем нарезка на слоты, отсечка lead time и пометка дневного лимита
func resolveDay(profile *domain.AgentAvailabilityProfile, in dayInputs, now time.Time) (domain.DaySlots, error) {
	day := domain.DaySlots{Date: in.date, Slots: []domain.AvailableSlot{}}
	weekday := in.date.Weekday()

	// Шаг 1: открытые интервалы недельного расписания на этот день недели
	open := make([]interval, 0)
	for _, entry := range in.schedule {
		if entry.DayOfWeek != weekday {
			continue
		}
		iv, err := toInterval(entry.StartTime, entry.EndTime)
		if err != nil {
			return day, err
		}
		open = append(open, iv)
	}

	// Шаг 2: применяем исключения даты - extra добавляют, blocked вычитают
	// Blocked применяется последним и побеждает и расписание, и extra
	blocked := make([]interval, 0)
	for _, slot := range in.extras {
		if !sameDay(slot.Date, in.date) {
			continue
		}
		iv, err := toInterval(slot.StartTime, slot.EndTime)
		if err != nil {
			return day, err
		}
		if slot.Kind == domain.SlotKindExtra {
			open = append(open, iv)
		} else {
			blocked = append(blocked, iv)
		}
	}

	open = mergeIntervals(open)
	open = subtractIntervals(open, blocked)

	// Шаг 3: вычитаем активные бронирования, расширенные буфером с обеих сторон
	busy := make([]interval, 0)
	confirmedCount := 0
	for _, booking := range in.bookings {
		if !sameDay(booking.BookingDate, in.date) || !booking.IsActive() {
			continue
		}
		// Просроченные pending слот не занимают: при ближайшем чтении
		// сервис бронирований автоотменит их
		if booking.AutoCancelDue(profile, now) {
			continue
		}
		if booking.Status == domain.StatusConfirmed {
			confirmedCount++
		}
		iv, err := toInterval(booking.StartTime, booking.EndTime)
		if err != nil {
			return day, err
		}
		iv.start -= profile.BufferTimeMinutes
		iv.end += profile.BufferTimeMinutes
		if iv.start < 0 {
			iv.start = 0
		}
		if iv.end > 24*60 {
			iv.end = 24 * 60
		}
		busy = append(busy, iv)
	}

	open = subtractIntervals(open, busy)

	// Шаг 4: нарезаем на слоты длительности встречи
	slots := discretize(open, profile.MeetingDurationMinutes)

	// Шаг 5: отсекаем слоты раньше now + lead time (в таймзоне агента)
	minStart, pastDay := leadTimeCutoff(in.date, now, profile.LeadTimeMinutes)
	if pastDay {
		return day, nil
	}

	// Шаг 6: при достигнутом дневном лимите слоты остаются в ответе,
	// но помечаются небронируемыми - UI показывает "fully booked", а не пустоту
	limitReached := profile.HasDailyLimit() && confirmedCount >= profile.DailyBookingLimit
	day.LimitReached = limitReached

	for _, slot := range slots {
		if slot.start < minStart {
			continue
		}

		startTS, err := types.NewTimeStringFromMinutes(slot.start)
		if err != nil {
			return day, err
		}
		endTS, err := endTimeString(slot.end)
		if err != nil {
			return day, err
		}

		day.Slots = append(day.Slots, domain.AvailableSlot{
			StartTime: startTS,
			EndTime:   endTS,
			Bookable:  !limitReached,
		})
	}

	return day, nil
}

// leadTimeCutoff возвращает минимально допустимое время начала слота (в минутах)
// для указанной даты. pastDay == true, если вся дата уже недоступна.
// now передается в таймзоне агента; сравниваются календарные дни,
// поэтому оба нормализуются к полуночи UTC
func leadTimeCutoff(date time.Time, now time.Time, leadTimeMinutes int) (minStart int, pastDay bool) {
	earliest := now.Add(time.Duration(leadTimeMinutes) * time.Minute)
	earliestDay := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, time.UTC)
	dateDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case dateDay.Before(earliestDay):
		return 0, true
	case dateDay.After(earliestDay):
		return 0, false
	default:
		return earliest.Hour()*60 + earliest.Minute(), false
	}
}

// endTimeString конвертирует конец слота, допуская границу 24:00
func endTimeString(minutes int) (types.TimeString, error) {
	if minutes == 24*60 {
		return types.TimeString("24:00"), nil
	}
	return types.NewTimeStringFromMinutes(minutes)
}

// sameDay проверяет, что две даты относятся к одному и тому же дню
func sameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

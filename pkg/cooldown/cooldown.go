package cooldown

import (
	"sync"
	"time"
)

// Tracker отслеживает повторные попытки по ключу в пределах окна cooldown
// Используется для анти-спам защиты бронирований: ключ - пара (requester, agent)
type Tracker struct {
	mu       sync.Mutex
	window   time.Duration
	attempts map[string]time.Time
	now      func() time.Time
}

// New создает tracker с указанным окном cooldown
func New(window time.Duration) *Tracker {
	return &Tracker{
		window:   window,
		attempts: make(map[string]time.Time),
		now:      time.Now,
	}
}

// NewWithClock создает tracker с внешним источником времени (для тестов)
func NewWithClock(window time.Duration, now func() time.Time) *Tracker {
	t := New(window)
	t.now = now
	return t
}

// Allow регистрирует попытку по ключу
// Возвращает false, если предыдущая попытка была меньше окна назад
func (t *Tracker) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.now()

	if last, ok := t.attempts[key]; ok && current.Sub(last) < t.window {
		return false
	}

	t.attempts[key] = current
	t.sweep(current)
	return true
}

// sweep удаляет просроченные записи, вызывается под mutex
func (t *Tracker) sweep(current time.Time) {
	if len(t.attempts) < 1024 {
		return
	}
	for key, last := range t.attempts {
		if current.Sub(last) >= t.window {
			delete(t.attempts, key)
		}
	}
}

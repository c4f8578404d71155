// Пакет debounce — отложенный вызов функции: серия Trigger в пределах
// задержки схлопывается в один вызов после последнего Trigger.
package debounce

import (
	"sync"
	"time"
)

// Debouncer откладывает вызов fn на delay после последнего Trigger.
// Безопасен для конкурентного использования.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
	// seq отличает актуальный таймер от уже сброшенного
	seq uint64
}

// New создаёт Debouncer с задержкой delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger (пере)запускает таймер; по его срабатыванию будет вызвана fn.
// Предыдущая отложенная функция отменяется.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.seq++
	seq := d.seq
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel отменяет отложенный вызов.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.stopLocked()
	d.mu.Unlock()
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// stopLocked останавливает таймер; вызывается под mu.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	d.seq++
}

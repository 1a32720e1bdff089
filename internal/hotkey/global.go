package hotkey

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"golos/internal/config"
)

// debounceInterval - защита от key repeat в shortcut-реестре.
const debounceInterval = 300 * time.Millisecond

// GlobalAdapter регистрирует привязку в глобальном shortcut-реестре ОС
// через golang.design/x/hotkey и транслирует keydown/keyup в события.
type GlobalAdapter struct {
	mu      sync.Mutex
	hk      *hotkey.Hotkey
	current config.HotkeyConfig
	started bool
	stopCh  chan struct{}
	events  chan Event
}

// NewGlobal создаёт адаптер shortcut-реестра.
func NewGlobal() *GlobalAdapter {
	return &GlobalAdapter{
		events: make(chan Event, eventBuffer),
	}
}

// Source возвращает идентификатор источника.
func (g *GlobalAdapter) Source() Source { return SourceGlobal }

// Events возвращает канал событий адаптера.
func (g *GlobalAdapter) Events() <-chan Event { return g.events }

// Start регистрирует привязку. Повторный вызов с той же привязкой - no-op,
// с другой - неявный Stop и перерегистрация.
func (g *GlobalAdapter) Start(binding config.HotkeyConfig) error {
	g.mu.Lock()
	if g.started && g.current.Equal(binding) {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()

	g.Stop()

	if binding.IsSpecial() {
		err := fmt.Errorf("клавиша %q не представима в shortcut-реестре", binding.Key)
		g.emit(Event{Source: SourceGlobal, Type: EventUnavailable, Err: err})
		return err
	}

	// Конвертируем модификаторы
	mods := make([]hotkey.Modifier, 0, len(binding.Modifiers))
	for _, m := range binding.Modifiers {
		if mod, ok := modifierMap[m]; ok {
			mods = append(mods, mod)
		}
	}

	key, ok := keyMap[binding.Key]
	if !ok {
		err := fmt.Errorf("неизвестная клавиша: %q", binding.Key)
		g.emit(Event{Source: SourceGlobal, Type: EventError, Err: err})
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		log.Printf("Ошибка регистрации %s: %v", binding.String(), err)
		g.emit(Event{Source: SourceGlobal, Type: EventUnavailable, Err: err})
		return err
	}

	g.mu.Lock()
	g.hk = hk
	g.current = binding
	g.started = true
	g.stopCh = make(chan struct{})
	stopCh := g.stopCh
	g.mu.Unlock()

	log.Printf("Горячая клавиша зарегистрирована: %s", binding.String())
	g.emit(Event{Source: SourceGlobal, Type: EventReady})
	go g.listen(hk, stopCh)
	return nil
}

func (g *GlobalAdapter) listen(hk *hotkey.Hotkey, stopCh chan struct{}) {
	var lastDown time.Time
	pressed := false

	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			// Debounce: игнорируем повторные keydown от key repeat
			now := time.Now()
			if pressed || now.Sub(lastDown) < debounceInterval {
				continue
			}
			lastDown = now
			pressed = true
			g.emit(Event{Source: SourceGlobal, Type: EventDown})
		case _, ok := <-hk.Keyup():
			if !ok {
				return
			}
			if !pressed {
				continue
			}
			pressed = false
			g.emit(Event{Source: SourceGlobal, Type: EventUp})
		}
	}
}

// Stop отменяет регистрацию. Безопасен без предшествующего Start.
func (g *GlobalAdapter) Stop() {
	g.mu.Lock()
	stopCh := g.stopCh
	hk := g.hk
	g.stopCh = nil
	g.hk = nil
	g.started = false
	g.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	if hk != nil {
		// Unregister на некоторых платформах может зависнуть - ограничиваем
		done := make(chan struct{})
		go func() {
			hk.Unregister()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			log.Printf("Hotkey unregister timeout")
		}
	}
}

func (g *GlobalAdapter) emit(ev Event) {
	// down/up нельзя терять и переупорядочивать - отправляем блокирующе.
	// Статусные события при переполнении дешевле пропустить.
	if ev.Type == EventDown || ev.Type == EventUp {
		g.events <- ev
		return
	}
	select {
	case g.events <- ev:
	default:
		log.Printf("Переполнение канала событий %s, статусное событие пропущено", ev.Source)
	}
}

// RunOnMainThread запускает функцию в главном потоке (требование для macOS).
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

//go:build linux

package hotkey

import (
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"

	"golos/internal/config"
)

const (
	mediaKeysService   = "org.gnome.SettingsDaemon.MediaKeys"
	mediaKeysPath      = "/org/gnome/SettingsDaemon/MediaKeys"
	mediaKeysInterface = "org.gnome.SettingsDaemon.MediaKeys"
	mediaKeysSignal    = "MediaPlayerKeyPressed"
	grabberName        = "golos"
)

// Клавиши медиа-сервиса, которые считаем клавишей диктовки.
var dictationKeys = map[string]bool{
	"Dictate": true,
	"MicMute": true,
}

// SpecialAdapter слушает аппаратную клавишу диктовки через D-Bus сервис
// медиа-клавиш рабочего стола. Сервис шлёт только нажатия, без отпусканий,
// поэтому источник работает лишь в tap режиме - контроллер игнорирует его
// в push режиме.
type SpecialAdapter struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	started bool
	stopCh  chan struct{}
	events  chan Event
}

// NewSpecial создаёт адаптер аппаратной клавиши диктовки.
func NewSpecial() *SpecialAdapter {
	return &SpecialAdapter{
		events: make(chan Event, eventBuffer),
	}
}

// Source возвращает идентификатор источника.
func (s *SpecialAdapter) Source() Source { return SourceSpecial }

// Events возвращает канал событий адаптера.
func (s *SpecialAdapter) Events() <-chan Event { return s.events }

// Start подписывается на сигналы медиа-клавиш. Привязка игнорируется:
// аппаратная клавиша одна и та же независимо от настроек.
func (s *SpecialAdapter) Start(binding config.HotkeyConfig) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		s.emit(Event{Source: SourceSpecial, Type: EventUnavailable, Err: err})
		return err
	}

	obj := conn.Object(mediaKeysService, dbus.ObjectPath(mediaKeysPath))
	call := obj.Call(mediaKeysInterface+".GrabMediaPlayerKeys", 0, grabberName, uint32(0))
	if call.Err != nil {
		conn.Close()
		err := fmt.Errorf("медиа-клавиши недоступны: %w", call.Err)
		s.emit(Event{Source: SourceSpecial, Type: EventUnavailable, Err: err})
		return err
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbus.ObjectPath(mediaKeysPath)),
		dbus.WithMatchInterface(mediaKeysInterface),
		dbus.WithMatchMember(mediaKeysSignal),
	); err != nil {
		conn.Close()
		s.emit(Event{Source: SourceSpecial, Type: EventUnavailable, Err: err})
		return err
	}

	signals := make(chan *dbus.Signal, eventBuffer)
	conn.Signal(signals)

	s.mu.Lock()
	s.conn = conn
	s.started = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.emit(Event{Source: SourceSpecial, Type: EventReady})
	go s.listen(signals, stopCh)
	return nil
}

func (s *SpecialAdapter) listen(signals chan *dbus.Signal, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if sig.Name != mediaKeysInterface+"."+mediaKeysSignal || len(sig.Body) < 2 {
				continue
			}
			key, _ := sig.Body[1].(string)
			if !dictationKeys[key] {
				continue
			}
			// Сервис не отдаёт отпускания - синтезируем пару down/up,
			// чтобы не нарушать контракт адаптера.
			s.emit(Event{Source: SourceSpecial, Type: EventDown})
			s.emit(Event{Source: SourceSpecial, Type: EventUp})
		}
	}
}

// Stop отписывается от сигналов. Безопасен без предшествующего Start.
func (s *SpecialAdapter) Stop() {
	s.mu.Lock()
	conn := s.conn
	stopCh := s.stopCh
	s.conn = nil
	s.stopCh = nil
	s.started = false
	s.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}
	if conn != nil {
		obj := conn.Object(mediaKeysService, dbus.ObjectPath(mediaKeysPath))
		if call := obj.Call(mediaKeysInterface+".ReleaseMediaPlayerKeys", 0, grabberName); call.Err != nil {
			log.Printf("ReleaseMediaPlayerKeys: %v", call.Err)
		}
		conn.Close()
	}
}

func (s *SpecialAdapter) emit(ev Event) {
	if ev.Type == EventDown || ev.Type == EventUp {
		s.events <- ev
		return
	}
	select {
	case s.events <- ev:
	default:
		log.Printf("Переполнение канала событий %s, статусное событие пропущено", ev.Source)
	}
}

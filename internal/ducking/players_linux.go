//go:build linux

package ducking

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = "/org/mpris/MediaPlayer2"
	mprisPlayerIntf = "org.mpris.MediaPlayer2.Player"
)

// mprisPlayers управляет медиаплеерами через MPRIS на сессионной шине.
// Идентификатор плеера - его bus name (org.mpris.MediaPlayer2.spotify).
type mprisPlayers struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

func newPlayers() PlayerController {
	return &mprisPlayers{}
}

func (m *mprisPlayers) bus() (*dbus.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return m.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	m.conn = conn
	return conn, nil
}

// Playing возвращает MPRIS-плееры в состоянии Playing.
func (m *mprisPlayers) Playing() ([]Player, error) {
	conn, err := m.bus()
	if err != nil {
		return nil, err
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, err
	}

	var players []Player
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		obj := conn.Object(name, dbus.ObjectPath(mprisPath))

		status, err := obj.GetProperty(mprisPlayerIntf + ".PlaybackStatus")
		if err != nil {
			continue // плеер без свойства статуса пропускаем
		}
		if s, _ := status.Value().(string); s != "Playing" {
			continue
		}

		canResume := true
		if canPlay, err := obj.GetProperty(mprisPlayerIntf + ".CanPlay"); err == nil {
			if v, ok := canPlay.Value().(bool); ok {
				canResume = v
			}
		}

		players = append(players, Player{ID: name, CanResume: canResume})
	}
	return players, nil
}

func (m *mprisPlayers) Pause(id string) error {
	conn, err := m.bus()
	if err != nil {
		return err
	}
	return conn.Object(id, dbus.ObjectPath(mprisPath)).Call(mprisPlayerIntf+".Pause", 0).Err
}

func (m *mprisPlayers) Resume(id string) error {
	conn, err := m.bus()
	if err != nil {
		return err
	}
	return conn.Object(id, dbus.ObjectPath(mprisPath)).Call(mprisPlayerIntf+".Play", 0).Err
}

package hotkey

import (
	"testing"

	"golos/internal/config"
)

func testBinding() config.HotkeyConfig {
	return config.HotkeyConfig{
		Modifiers: []config.Modifier{config.ModCtrl, config.ModShift},
		Key:       config.KeySpace,
	}
}

func TestGlobalStopWithoutStart(t *testing.T) {
	g := NewGlobal()
	g.Stop() // не должен паниковать
	g.Stop()
}

func TestGlobalRejectsSpecialKey(t *testing.T) {
	g := NewGlobal()

	err := g.Start(config.HotkeyConfig{Key: config.KeyDictate})
	if err == nil {
		t.Fatal("ожидалась ошибка для специальной клавиши")
	}

	ev := <-g.Events()
	if ev.Type != EventUnavailable {
		t.Fatalf("ожидалось EventUnavailable, получено %d", ev.Type)
	}
}

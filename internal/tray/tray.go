// Package tray предоставляет системный трей с меню.
package tray

import (
	"github.com/getlantern/systray"

	"golos/embedded"
	"golos/internal/i18n"
)

// State - состояние приложения для отображения в трее.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateProcessing
)

// Callbacks содержит обработчики событий меню.
type Callbacks struct {
	// OnPushToTalkToggle переключает режим активации;
	// возвращает true если теперь push-to-talk.
	OnPushToTalkToggle func() bool
	// OnDuckingToggle переключает приглушение звука.
	OnDuckingToggle func() bool
	// OnNotificationsToggle переключает уведомления.
	OnNotificationsToggle func() bool
	// OnHotkeyClick открывает выбор горячей клавиши.
	OnHotkeyClick func()
	OnQuit        func()
}

// Options - начальные состояния чекбоксов меню.
type Options struct {
	PushToTalk    bool
	Ducking       bool
	Notifications bool
	HotkeyLabel   string
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks Callbacks
	opts      Options

	status    *systray.MenuItem
	pushMode  *systray.MenuItem
	ducking   *systray.MenuItem
	notifyOn  *systray.MenuItem
	hotkeyBtn *systray.MenuItem
	quitBtn   *systray.MenuItem
}

// New создаёт Tray.
func New(callbacks Callbacks, opts Options) *Tray {
	return &Tray{callbacks: callbacks, opts: opts}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(embedded.IconIdle)
	systray.SetTitle("Golos")
	systray.SetTooltip(i18n.T("app_tooltip"))

	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()

	systray.AddSeparator()

	t.pushMode = systray.AddMenuItemCheckbox(i18n.T("tray_mode_push"), i18n.T("tray_mode_push_hint"), t.opts.PushToTalk)
	t.ducking = systray.AddMenuItemCheckbox(i18n.T("tray_ducking"), i18n.T("tray_ducking_hint"), t.opts.Ducking)
	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.opts.Notifications)

	systray.AddSeparator()

	hotkeyTitle := i18n.T("tray_hotkey")
	if t.opts.HotkeyLabel != "" {
		hotkeyTitle = i18n.T("tray_hotkey") + " (" + t.opts.HotkeyLabel + ")"
	}
	t.hotkeyBtn = systray.AddMenuItem(hotkeyTitle, i18n.T("tray_hotkey_hint"))

	systray.AddSeparator()

	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	go t.handleMenuEvents()
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.pushMode.ClickedCh:
			if t.callbacks.OnPushToTalkToggle != nil {
				setChecked(t.pushMode, t.callbacks.OnPushToTalkToggle())
			}

		case <-t.ducking.ClickedCh:
			if t.callbacks.OnDuckingToggle != nil {
				setChecked(t.ducking, t.callbacks.OnDuckingToggle())
			}

		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				setChecked(t.notifyOn, t.callbacks.OnNotificationsToggle())
			}

		case <-t.hotkeyBtn.ClickedCh:
			if t.callbacks.OnHotkeyClick != nil {
				t.callbacks.OnHotkeyClick()
			}

		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
		}
	}
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// SetState обновляет иконку и строку статуса.
func (t *Tray) SetState(state State) {
	switch state {
	case StateIdle:
		systray.SetIcon(embedded.IconIdle)
		systray.SetTooltip("Golos - " + i18n.T("tray_ready"))
		if t.status != nil {
			t.status.SetTitle(i18n.T("tray_ready"))
		}
	case StateRecording:
		systray.SetIcon(embedded.IconRecording)
		systray.SetTooltip("Golos - " + i18n.T("tray_recording"))
		if t.status != nil {
			t.status.SetTitle(i18n.T("tray_recording"))
		}
	case StateProcessing:
		systray.SetIcon(embedded.IconProcessing)
		systray.SetTooltip("Golos - " + i18n.T("tray_processing"))
		if t.status != nil {
			t.status.SetTitle(i18n.T("tray_processing"))
		}
	}
}

// SetHotkeyLabel обновляет подпись пункта смены горячей клавиши.
func (t *Tray) SetHotkeyLabel(label string) {
	if t.hotkeyBtn == nil {
		return
	}
	if label != "" {
		t.hotkeyBtn.SetTitle(i18n.T("tray_hotkey") + " (" + label + ")")
	} else {
		t.hotkeyBtn.SetTitle(i18n.T("tray_hotkey"))
	}
}

func (t *Tray) onExit() {}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

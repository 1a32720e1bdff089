// Package notify предоставляет системные уведомления.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"golos/internal/i18n"
)

const appName = "Golos"

// Notifier отправляет системные уведомления.
type Notifier struct {
	mu      sync.Mutex
	enabled bool
}

// New создаёт Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// SetEnabled включает/выключает уведомления.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// Ready сообщает, что приложение запущено.
func (n *Notifier) Ready() {
	n.notify("", i18n.T("notify_ready"))
}

// Recording сообщает о начале записи.
func (n *Notifier) Recording() {
	n.notify(i18n.T("notify_recording"), i18n.T("notify_recording_hint"))
}

// Success показывает распознанный текст.
func (n *Notifier) Success(text string) {
	if len(text) > 100 {
		text = text[:100] + "..."
	}
	n.notify(i18n.T("notify_done"), text)
}

// Empty сообщает о пустом результате распознавания.
func (n *Notifier) Empty() {
	n.notify(i18n.T("notify_empty"), i18n.T("notify_empty_hint"))
}

// Error показывает уведомление об ошибке.
func (n *Notifier) Error(msg string) {
	n.notify(i18n.T("notify_error"), msg)
}

// SourceLost сообщает, что источник горячей клавиши отвалился.
func (n *Notifier) SourceLost() {
	n.notify(i18n.T("notify_error"), i18n.T("notify_source_lost"))
}

// NoActivation сообщает, что активировать диктовку нечем.
func (n *Notifier) NoActivation() {
	n.notify(i18n.T("notify_error"), i18n.T("notify_no_activation"))
}

func (n *Notifier) notify(title, message string) {
	n.mu.Lock()
	enabled := n.enabled
	n.mu.Unlock()
	if !enabled {
		return
	}
	// Ошибки уведомлений не критичны
	if title != "" {
		_ = beeep.Notify(appName+": "+title, message, "")
	} else {
		_ = beeep.Notify(appName, message, "")
	}
}

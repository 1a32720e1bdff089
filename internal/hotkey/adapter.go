// Package hotkey предоставляет источники событий глобальной горячей клавиши.
//
// Каждый адаптер превращает один платформенный механизм ввода (глобальный
// shortcut-реестр, низкоуровневый слушатель клавиатуры, аппаратная клавиша
// диктовки) в нормализованный поток событий down/up для одной логической
// привязки. Контроллер активации зависит только от интерфейса Adapter.
package hotkey

import (
	"golos/internal/config"
)

// Source идентифицирует механизм, породивший событие.
type Source string

const (
	// SourceGlobal - глобальный shortcut-реестр ОС.
	SourceGlobal Source = "global"
	// SourceLowLevel - низкоуровневый слушатель клавиатуры (helper-процесс).
	SourceLowLevel Source = "lowlevel"
	// SourceSpecial - аппаратная клавиша диктовки.
	SourceSpecial Source = "special"
)

// EventType тип события адаптера.
type EventType int

const (
	// EventDown - клавиша нажата. Ровно одно на физическое удержание.
	EventDown EventType = iota
	// EventUp - клавиша отпущена.
	EventUp
	// EventReady - адаптер запустился и слушает.
	EventReady
	// EventError - восстановимая ошибка адаптера.
	EventError
	// EventUnavailable - механизм недоступен (нет бинарника, нет прав,
	// платформа не поддерживается). Источник выбывает до перезапуска.
	EventUnavailable
)

// Event - нормализованное событие от адаптера.
type Event struct {
	Source Source
	Type   EventType
	Err    error
}

// Adapter - общий контракт источника событий горячей клавиши.
//
// Start идемпотентен: повторный вызов с той же привязкой - no-op, с другой
// привязкой - неявный Stop и перезапуск. Stop безопасен даже если Start не
// вызывался или завершился ошибкой. Адаптер обязан подавлять автоповтор:
// одно физическое удержание даёт ровно одно EventDown и одно EventUp.
type Adapter interface {
	Source() Source
	Start(binding config.HotkeyConfig) error
	Stop()
	Events() <-chan Event
}

// eventBuffer - размер буфера канала событий адаптера.
// Достаточно чтобы короткие всплески down/up не блокировали слушателя.
const eventBuffer = 16

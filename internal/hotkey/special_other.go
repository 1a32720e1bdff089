//go:build !linux

package hotkey

import (
	"fmt"

	"golos/internal/config"
)

// SpecialAdapter на этой платформе не поддерживается: слушатель аппаратной
// клавиши диктовки есть только на Linux. Start сразу сообщает о
// недоступности, контроллер переключается на другие источники.
type SpecialAdapter struct {
	events chan Event
}

// NewSpecial создаёт заглушку адаптера аппаратной клавиши.
func NewSpecial() *SpecialAdapter {
	return &SpecialAdapter{
		events: make(chan Event, 1),
	}
}

// Source возвращает идентификатор источника.
func (s *SpecialAdapter) Source() Source { return SourceSpecial }

// Events возвращает канал событий адаптера.
func (s *SpecialAdapter) Events() <-chan Event { return s.events }

// Start всегда сообщает о недоступности источника.
func (s *SpecialAdapter) Start(binding config.HotkeyConfig) error {
	err := fmt.Errorf("аппаратная клавиша диктовки не поддерживается на этой платформе")
	select {
	case s.events <- Event{Source: SourceSpecial, Type: EventUnavailable, Err: err}:
	default:
	}
	return err
}

// Stop ничего не делает.
func (s *SpecialAdapter) Stop() {}

package hotkey

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golos/internal/config"
)

// Имена строк протокола helper-процесса golos-keyd.
const (
	lineReady   = "READY"
	lineKeyDown = "KEY_DOWN"
	lineKeyUp   = "KEY_UP"
	lineError   = "ERROR:"
)

// helperName - имя бинарника низкоуровневого слушателя.
const helperName = "golos-keyd"

// LowLevelAdapter запускает helper-процесс, читающий клавиатуру напрямую,
// и транслирует его построчный протокол в события. Нужен там, где
// shortcut-реестр не отдаёт keyup надёжно (Wayland) и для перехвата
// клавиши без регистрации комбинации.
type LowLevelAdapter struct {
	mu         sync.Mutex
	helperPath string
	cmd        *exec.Cmd
	waitCh     chan struct{}
	current    config.HotkeyConfig
	started    bool
	events     chan Event
}

// NewLowLevel создаёт адаптер низкоуровневого слушателя.
// helperPath может быть пустым - тогда бинарник ищется рядом с
// исполняемым файлом приложения, затем в PATH.
func NewLowLevel(helperPath string) *LowLevelAdapter {
	return &LowLevelAdapter{
		helperPath: helperPath,
		events:     make(chan Event, eventBuffer),
	}
}

// Source возвращает идентификатор источника.
func (l *LowLevelAdapter) Source() Source { return SourceLowLevel }

// Events возвращает канал событий адаптера.
func (l *LowLevelAdapter) Events() <-chan Event { return l.events }

// Start запускает helper для указанной привязки. Слушатель знает
// конкретную клавишу, поэтому смена привязки требует перезапуска.
func (l *LowLevelAdapter) Start(binding config.HotkeyConfig) error {
	l.mu.Lock()
	if l.started && l.current.Equal(binding) {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	l.Stop()

	path := l.helperPath
	if path == "" {
		path = findHelper(helperName)
	}
	if path == "" {
		err := fmt.Errorf("%s не найден", helperName)
		l.emit(Event{Source: SourceLowLevel, Type: EventUnavailable, Err: err})
		return err
	}

	cmd := exec.Command(path, "-key", string(binding.Key))
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		l.emit(Event{Source: SourceLowLevel, Type: EventUnavailable, Err: err})
		return err
	}

	if err := cmd.Start(); err != nil {
		log.Printf("Не удалось запустить %s: %v", helperName, err)
		l.emit(Event{Source: SourceLowLevel, Type: EventUnavailable, Err: err})
		return err
	}

	waitCh := make(chan struct{})

	l.mu.Lock()
	l.cmd = cmd
	l.waitCh = waitCh
	l.current = binding
	l.started = true
	l.mu.Unlock()

	go func() {
		l.readEvents(stdout)
		cmd.Wait()
		close(waitCh)
	}()
	return nil
}

// readEvents читает построчный протокол helper-процесса до EOF.
// Подавляет дубликаты down/up: одно физическое удержание даёт
// ровно одну пару событий.
func (l *LowLevelAdapter) readEvents(r io.Reader) {
	scanner := bufio.NewScanner(r)
	pressed := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == lineReady:
			l.emit(Event{Source: SourceLowLevel, Type: EventReady})
		case line == lineKeyDown:
			if pressed {
				continue
			}
			pressed = true
			l.emit(Event{Source: SourceLowLevel, Type: EventDown})
		case line == lineKeyUp:
			if !pressed {
				continue
			}
			pressed = false
			l.emit(Event{Source: SourceLowLevel, Type: EventUp})
		case strings.HasPrefix(line, lineError):
			msg := strings.TrimSpace(strings.TrimPrefix(line, lineError))
			l.emit(Event{Source: SourceLowLevel, Type: EventError, Err: fmt.Errorf("%s", msg)})
		case line == "":
		default:
			log.Printf("%s: непонятная строка %q", helperName, line)
		}
	}

	// Клавиша могла остаться "нажатой" при падении helper'а
	if pressed {
		l.emit(Event{Source: SourceLowLevel, Type: EventUp})
	}
}

// Stop завершает helper-процесс. Безопасен без предшествующего Start.
func (l *LowLevelAdapter) Stop() {
	l.mu.Lock()
	cmd := l.cmd
	waitCh := l.waitCh
	l.cmd = nil
	l.waitCh = nil
	l.started = false
	l.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}

	// Даём процессу завершиться штатно, потом добиваем
	if waitCh != nil {
		select {
		case <-waitCh:
		case <-time.After(500 * time.Millisecond):
			cmd.Process.Kill()
		}
	}
}

func (l *LowLevelAdapter) emit(ev Event) {
	if ev.Type == EventDown || ev.Type == EventUp {
		l.events <- ev
		return
	}
	select {
	case l.events <- ev:
	default:
		log.Printf("Переполнение канала событий %s, статусное событие пропущено", ev.Source)
	}
}

// findHelper ищет helper-бинарник рядом с приложением, затем в PATH.
func findHelper(name string) string {
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return ""
}

package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golos/internal/hotkey"
	"golos/internal/notify"
)

func newQueueApp() *App {
	return &App{
		commands:    make(chan surfaceCmd, commandBuffer),
		quit:        make(chan struct{}),
		sourcesDown: make(map[hotkey.Source]bool),
	}
}

func drainCommands(t *testing.T, a *App, n int) []surfaceCmd {
	t.Helper()
	cmds := make([]surfaceCmd, 0, n)
	for len(cmds) < n {
		select {
		case cmd := <-a.commands:
			cmds = append(cmds, cmd)
		case <-time.After(time.Second):
			t.Fatalf("получено %d команд из %d", len(cmds), n)
		}
	}
	return cmds
}

func TestSurfaceCommandsKeepOrder(t *testing.T) {
	a := newQueueApp()

	// Полный цикл диктовки: контроллер порождает команды последовательно,
	// и очередь обязана сохранить этот порядок до исполнителя
	a.ShowPanel()
	a.StartDictation()
	a.StopDictation()
	a.HidePanel()

	cmds := drainCommands(t, a, 4)
	assert.Equal(t, []surfaceCmd{cmdShowPanel, cmdStartDictation, cmdStopDictation, cmdHidePanel}, cmds)
}

func TestSurfaceStopNeverOvertakesStart(t *testing.T) {
	a := newQueueApp()

	// Отпускание ровно на пороге удержания: start и stop рождаются
	// с разницей в микросекунды. Stop не должен обогнать start,
	// иначе запись и приглушение останутся включёнными навсегда.
	a.StartDictation()
	a.StopDictation()

	cmds := drainCommands(t, a, 2)
	require.Equal(t, cmdStartDictation, cmds[0])
	require.Equal(t, cmdStopDictation, cmds[1])
}

func TestShowPanelKeepsRecordingStart(t *testing.T) {
	a := newQueueApp()

	// В режиме tap закрывающее нажатие показывает панель прямо перед
	// остановкой. Отметка начала записи при этом не должна сбрасываться:
	// от неё считается длительность диктовки
	started := time.Now().Add(-3 * time.Second)
	a.recordingStart = started

	a.ShowPanel()
	drainCommands(t, a, 1)

	assert.True(t, a.recordingStart.Equal(started))
	assert.GreaterOrEqual(t, time.Since(a.recordingStart), MinRecordingDuration)
}

func TestSourceUnavailableCountsDistinctSources(t *testing.T) {
	a := newQueueApp()
	a.notifier = notify.New(false)
	a.totalSources = 3

	downSources := func() int {
		a.mu.Lock()
		defer a.mu.Unlock()
		return len(a.sourcesDown)
	}

	a.SourceUnavailable(hotkey.SourceGlobal, errors.New("нет дисплея"))
	a.SourceUnavailable(hotkey.SourceLowLevel, errors.New("helper завершился"))
	// Повторный отказ того же источника не приближает к "все выбыли"
	a.SourceUnavailable(hotkey.SourceLowLevel, errors.New("helper завершился"))

	require.Eventually(t, func() bool { return downSources() == 2 },
		time.Second, 10*time.Millisecond)

	a.SourceUnavailable(hotkey.SourceSpecial, errors.New("нет D-Bus"))

	require.Eventually(t, func() bool { return downSources() == a.totalSources },
		time.Second, 10*time.Millisecond)
}

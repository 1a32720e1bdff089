package activation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golos/internal/config"
	"golos/internal/hotkey"
)

// fakeSettings - настройки с переключаемым режимом.
type fakeSettings struct {
	mu        sync.Mutex
	mode      config.ActivationMode
	threshold time.Duration
}

func (f *fakeSettings) Hotkey() config.HotkeyConfig {
	return config.HotkeyConfig{Modifiers: []config.Modifier{config.ModCtrl}, Key: config.KeySpace}
}

func (f *fakeSettings) ActivationMode() config.ActivationMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *fakeSettings) HoldThreshold() time.Duration { return f.threshold }

func (f *fakeSettings) setMode(m config.ActivationMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = m
}

// fakeSurface записывает полученные команды.
type fakeSurface struct {
	mu          sync.Mutex
	shows       int
	hides       int
	starts      int
	stops       int
	unavailable []hotkey.Source
}

func (f *fakeSurface) ShowPanel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows++
}

func (f *fakeSurface) HidePanel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hides++
}

func (f *fakeSurface) StartDictation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
}

func (f *fakeSurface) StopDictation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeSurface) SourceUnavailable(src hotkey.Source, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable = append(f.unavailable, src)
}

func (f *fakeSurface) counts() (shows, hides, starts, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shows, f.hides, f.starts, f.stops
}

const testThreshold = 40 * time.Millisecond

func newTestController(mode config.ActivationMode) (*Controller, *fakeSettings, *fakeSurface) {
	settings := &fakeSettings{mode: mode, threshold: testThreshold}
	surface := &fakeSurface{}
	// Без адаптеров: события подаются напрямую через OnKeyDown/OnKeyUp
	c := New(settings, surface)
	return c, settings, surface
}

func TestTapTogglesOncePerPair(t *testing.T) {
	c, _, surface := newTestController(config.ModeTap)

	// Длительность нажатия в tap режиме не важна
	for i := 0; i < 3; i++ {
		c.OnKeyDown(hotkey.SourceGlobal)
		time.Sleep(2 * testThreshold)
		c.OnKeyUp(hotkey.SourceGlobal)
	}

	_, _, starts, stops := surface.counts()
	assert.Equal(t, 2, starts, "нечётные пары включают запись")
	assert.Equal(t, 1, stops, "чётные выключают")
}

func TestPushLongHoldStartsAndStops(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceLowLevel)
	time.Sleep(3 * testThreshold) // дольше порога - запись должна начаться
	c.OnKeyUp(hotkey.SourceLowLevel)

	shows, _, starts, stops := surface.counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
	assert.False(t, c.Recording())
}

func TestPushShortTapIgnored(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceLowLevel)
	time.Sleep(testThreshold / 4) // короче порога
	c.OnKeyUp(hotkey.SourceLowLevel)

	// Таймер не должен выстрелить после отмены
	time.Sleep(2 * testThreshold)

	shows, hides, starts, stops := surface.counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 1, hides, "панель после случайного касания прячется")
	assert.Zero(t, starts)
	assert.Zero(t, stops)
}

func TestPushDuplicateDownDebounced(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceLowLevel)
	c.OnKeyDown(hotkey.SourceLowLevel) // дребезг
	time.Sleep(2 * testThreshold)
	c.OnKeyUp(hotkey.SourceLowLevel)

	shows, _, starts, stops := surface.counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

func TestKeyUpWithoutSessionIgnored(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyUp(hotkey.SourceLowLevel)

	shows, hides, starts, stops := surface.counts()
	assert.Zero(t, shows+hides+starts+stops)
}

func TestHotkeyChangeMidHoldNoStrayStop(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceLowLevel)
	// Смена привязки до срабатывания таймера удержания
	c.OnHotkeyChanged(config.HotkeyConfig{Modifiers: []config.Modifier{config.ModAlt}, Key: config.KeyD})

	time.Sleep(2 * testThreshold)
	c.OnKeyUp(hotkey.SourceLowLevel)

	_, _, starts, stops := surface.counts()
	assert.Zero(t, starts, "отменённый таймер не должен запускать запись")
	assert.Zero(t, stops, "не должно быть stop по несуществующей привязке")
}

func TestHotkeyChangeDuringRecordingForcesStop(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceLowLevel)
	time.Sleep(2 * testThreshold) // запись началась

	c.OnHotkeyChanged(config.HotkeyConfig{Modifiers: []config.Modifier{config.ModAlt}, Key: config.KeyD})

	_, _, starts, stops := surface.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops, "при перепривязке во время записи посылается синтетический stop")
	assert.False(t, c.Recording())

	// Поздний key-up старой привязки больше ничего не делает
	c.OnKeyUp(hotkey.SourceLowLevel)
	_, _, _, stops = surface.counts()
	assert.Equal(t, 1, stops)
}

func TestModeChangeAffectsNextPressOnly(t *testing.T) {
	c, settings, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceLowLevel)
	settings.setMode(config.ModeTap)
	time.Sleep(2 * testThreshold)
	c.OnKeyUp(hotkey.SourceLowLevel)

	// Сессия шла в push режиме: start на таймере, stop на отпускании
	_, _, starts, stops := surface.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)

	// Следующее нажатие уже в tap режиме
	c.OnKeyDown(hotkey.SourceGlobal)
	c.OnKeyUp(hotkey.SourceGlobal)
	_, _, starts, _ = surface.counts()
	assert.Equal(t, 2, starts)
}

func TestSpecialSourceIgnoredInPushMode(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceSpecial)
	c.OnKeyUp(hotkey.SourceSpecial)
	time.Sleep(2 * testThreshold)

	shows, _, starts, stops := surface.counts()
	assert.Zero(t, shows)
	assert.Zero(t, starts+stops)
}

func TestSpecialSourceTogglesInTapMode(t *testing.T) {
	c, _, surface := newTestController(config.ModeTap)

	c.OnKeyDown(hotkey.SourceSpecial)
	c.OnKeyUp(hotkey.SourceSpecial)
	c.OnKeyDown(hotkey.SourceSpecial)
	c.OnKeyUp(hotkey.SourceSpecial)

	_, _, starts, stops := surface.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

func TestGlobalFallsBackWhenLowLevelUnavailable(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	// Пока низкоуровневый слушатель числится живым - global в push игнорируется.
	// Здесь адаптеров нет вовсе, значит fallback активен сразу.
	c.OnKeyDown(hotkey.SourceGlobal)
	time.Sleep(2 * testThreshold)
	c.OnKeyUp(hotkey.SourceGlobal)

	_, _, starts, stops := surface.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

func TestCaptureModeSuspendsAndIsIdempotent(t *testing.T) {
	c, _, surface := newTestController(config.ModeTap)

	c.EnterCaptureMode()
	c.EnterCaptureMode() // повторный вход - no-op

	c.OnKeyDown(hotkey.SourceGlobal)
	c.OnKeyUp(hotkey.SourceGlobal)

	shows, _, starts, _ := surface.counts()
	assert.Zero(t, shows, "в режиме захвата нажатия не активируют диктовку")
	assert.Zero(t, starts)

	newBinding := config.HotkeyConfig{Modifiers: []config.Modifier{config.ModSuper}, Key: config.KeyG}
	c.ExitCaptureMode(&newBinding)
	c.ExitCaptureMode(nil) // повторный выход - no-op

	c.OnKeyDown(hotkey.SourceGlobal)
	_, _, starts, _ = surface.counts()
	assert.Equal(t, 1, starts)
}

func TestCaptureModeDuringRecordingForcesStop(t *testing.T) {
	c, _, surface := newTestController(config.ModeTap)

	c.OnKeyDown(hotkey.SourceGlobal) // toggle on
	c.OnKeyUp(hotkey.SourceGlobal)
	require.True(t, c.Recording())

	c.EnterCaptureMode()

	_, _, _, stops := surface.counts()
	assert.Equal(t, 1, stops)
	assert.False(t, c.Recording())
}

func TestUnavailableReportedOnce(t *testing.T) {
	c, _, surface := newTestController(config.ModePush)

	ev := hotkey.Event{Source: hotkey.SourceLowLevel, Type: hotkey.EventUnavailable}
	c.markUnavailable(hotkey.SourceLowLevel, ev)
	c.markUnavailable(hotkey.SourceLowLevel, ev)

	surface.mu.Lock()
	defer surface.mu.Unlock()
	assert.Len(t, surface.unavailable, 1)
}

func TestScenarioPushTimings(t *testing.T) {
	// Сценарий из постановки: порог 150мс в масштабе testThreshold.
	// Удержание 50мс -> записи нет, панель спрятана.
	// Удержание 300мс -> запись стартует на пороге, стоп на отпускании.
	c, _, surface := newTestController(config.ModePush)

	c.OnKeyDown(hotkey.SourceLowLevel)
	time.Sleep(testThreshold / 3)
	c.OnKeyUp(hotkey.SourceLowLevel)
	time.Sleep(2 * testThreshold)

	shows, hides, starts, stops := surface.counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 1, hides)
	assert.Zero(t, starts+stops)

	c.OnKeyDown(hotkey.SourceLowLevel)
	time.Sleep(2 * testThreshold)

	_, _, starts, _ = surface.counts()
	assert.Equal(t, 1, starts, "запись начинается примерно на пороге, до отпускания")

	c.OnKeyUp(hotkey.SourceLowLevel)
	_, _, starts, stops = surface.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

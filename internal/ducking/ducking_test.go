package ducking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golos/internal/config"
)

// fakeNative - управляемый нативный бэкенд.
type fakeNative struct {
	err      error
	isAvail  bool
	starts   int
	stops    int
	lastOpts Options
}

func (f *fakeNative) start(opts Options) error {
	f.starts++
	f.lastOpts = opts
	return f.err
}

func (f *fakeNative) stop()           { f.stops++ }
func (f *fakeNative) available() bool { return f.isAvail }

// fakePlayers - управляемый набор плееров.
type fakePlayers struct {
	playing  []Player
	listErr  error
	pauseErr map[string]error
	paused   []string
	resumed  []string
}

func (f *fakePlayers) Playing() ([]Player, error) {
	return f.playing, f.listErr
}

func (f *fakePlayers) Pause(id string) error {
	if err := f.pauseErr[id]; err != nil {
		return err
	}
	f.paused = append(f.paused, id)
	return nil
}

func (f *fakePlayers) Resume(id string) error {
	f.resumed = append(f.resumed, id)
	return nil
}

func newTestDucker(native *fakeNative, players *fakePlayers) *Ducker {
	return &Ducker{
		mode:     ModeNone,
		defaults: Options{Level: config.DuckDefault},
		native:   native,
		players:  players,
	}
}

func TestNativeSuccess(t *testing.T) {
	native := &fakeNative{isAvail: true}
	d := newTestDucker(native, &fakePlayers{})

	require.NoError(t, d.Start())

	st := d.Status()
	assert.True(t, st.Active)
	assert.Equal(t, ModeNative, st.Mode)
	assert.True(t, st.NativeAvailable)
	assert.Equal(t, 1, native.starts)
}

func TestStartIdempotentWhenActive(t *testing.T) {
	native := &fakeNative{}
	d := newTestDucker(native, &fakePlayers{})

	require.NoError(t, d.Start())
	require.NoError(t, d.Start()) // уже активно - успешный no-op

	assert.Equal(t, 1, native.starts)
}

func TestNativeFailureFallsBack(t *testing.T) {
	native := &fakeNative{err: errors.New("timeout")}
	players := &fakePlayers{playing: []Player{
		{ID: "org.mpris.MediaPlayer2.spotify", CanResume: true},
		{ID: "org.mpris.MediaPlayer2.vlc", CanResume: true},
	}}
	d := newTestDucker(native, players)

	require.NoError(t, d.Start())

	st := d.Status()
	assert.True(t, st.Active)
	assert.Equal(t, ModeFallback, st.Mode)
	assert.ElementsMatch(t, []string{"org.mpris.MediaPlayer2.spotify", "org.mpris.MediaPlayer2.vlc"}, players.paused)
}

func TestFallbackWithNothingPlayingSucceeds(t *testing.T) {
	native := &fakeNative{err: errors.New("spawn failed")}
	players := &fakePlayers{} // никто не играет
	d := newTestDucker(native, players)

	require.NoError(t, d.Start())

	st := d.Status()
	assert.True(t, st.Active)
	assert.Equal(t, ModeFallback, st.Mode)
	assert.Empty(t, players.paused)
}

func TestFallbackListErrorSurfaces(t *testing.T) {
	native := &fakeNative{err: errors.New("no helper")}
	players := &fakePlayers{listErr: errors.New("dbus down")}
	d := newTestDucker(native, players)

	err := d.Start()
	require.Error(t, err)
	assert.False(t, d.Status().Active)
}

func TestStopResumesOnlyPausedByUs(t *testing.T) {
	native := &fakeNative{err: errors.New("unavailable")}
	players := &fakePlayers{
		playing: []Player{
			{ID: "spotify", CanResume: true},
			{ID: "stubborn", CanResume: true},
			{ID: "radio", CanResume: false}, // пауза есть, возобновление запрещено
		},
		pauseErr: map[string]error{"stubborn": errors.New("nope")},
	}
	d := newTestDucker(native, players)

	require.NoError(t, d.Start())
	require.NoError(t, d.Stop())

	// stubborn не ставился на паузу нами, radio нельзя возобновлять
	assert.Equal(t, []string{"spotify"}, players.resumed)
	assert.False(t, d.Status().Active)
	assert.Equal(t, ModeNone, d.Status().Mode)
}

func TestStopWhenInactiveIsNoop(t *testing.T) {
	native := &fakeNative{}
	players := &fakePlayers{}
	d := newTestDucker(native, players)

	require.NoError(t, d.Stop())
	require.NoError(t, d.Stop())

	assert.Zero(t, native.stops)
	assert.Empty(t, players.resumed)
}

func TestStopNativeSignalsHelper(t *testing.T) {
	native := &fakeNative{}
	d := newTestDucker(native, &fakePlayers{})

	require.NoError(t, d.Start())
	require.NoError(t, d.Stop())

	assert.Equal(t, 1, native.stops)
	assert.False(t, d.Status().Active)
}

func TestNoCrossSessionInterference(t *testing.T) {
	native := &fakeNative{err: errors.New("unavailable")}
	players := &fakePlayers{playing: []Player{{ID: "spotify", CanResume: true}}}
	d := newTestDucker(native, players)

	require.NoError(t, d.Start())
	require.NoError(t, d.Stop())

	// Во второй сессии никто не играет - возобновлений быть не должно
	players.playing = nil
	players.resumed = nil

	require.NoError(t, d.Start())
	require.NoError(t, d.Stop())

	assert.Empty(t, players.resumed)
}

func TestConfigureAffectsFutureStartsOnly(t *testing.T) {
	native := &fakeNative{}
	d := newTestDucker(native, &fakePlayers{})

	require.NoError(t, d.Start())
	d.Configure(Options{Level: config.DuckMax, Advanced: true})

	// Активная сессия продолжает жить со старыми параметрами
	assert.Equal(t, config.DuckDefault, native.lastOpts.Level)

	require.NoError(t, d.Stop())
	require.NoError(t, d.Start())
	assert.Equal(t, config.DuckMax, native.lastOpts.Level)
	assert.True(t, native.lastOpts.Advanced)
}

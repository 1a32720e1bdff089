// Package ducking приглушает чужое аудио на время диктовки.
//
// Двухуровневая стратегия: сначала нативное подавление через helper-процесс
// golos-duckd, при его недоступности - пауза известных медиаплееров
// средствами ОС. Режим выбирается один раз на активацию и держится до Stop.
package ducking

import (
	"log"
	"sync"

	"golos/internal/config"
)

// Mode - способ приглушения, выбранный для текущей активации.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeNative   Mode = "native"
	ModeFallback Mode = "fallback"
)

// Options - параметры приглушения.
type Options struct {
	Level    config.DuckingLevel
	Advanced bool
}

// Status - снимок состояния подсистемы. Чтение без побочных эффектов.
type Status struct {
	Active          bool
	Mode            Mode
	NativeAvailable bool
}

// nativeRunner управляет нативным подавлением (helper-процессом).
type nativeRunner interface {
	start(opts Options) error
	stop()
	available() bool
}

// Player - медиаплеер, найденный проигрывающим.
type Player struct {
	ID        string
	CanResume bool
}

// PlayerController перечисляет и управляет известными медиаплеерами.
type PlayerController interface {
	// Playing возвращает плееры, которые сейчас играют.
	Playing() ([]Player, error)
	Pause(id string) error
	Resume(id string) error
}

// Ducker владеет состоянием приглушения. Все методы потокобезопасны.
type Ducker struct {
	mu       sync.Mutex
	active   bool
	mode     Mode
	paused   map[string]bool // id -> можно ли возобновлять
	defaults Options
	native   nativeRunner
	players  PlayerController
}

// New создаёт подсистему приглушения с платформенными бэкендами.
func New() *Ducker {
	return &Ducker{
		mode:     ModeNone,
		defaults: Options{Level: config.DuckDefault},
		native:   newNativeHelper(),
		players:  newPlayers(),
	}
}

// Configure обновляет параметры для будущих запусков.
// На уже активную сессию не влияет.
func (d *Ducker) Configure(opts Options) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if opts.Level == "" {
		opts.Level = config.DuckDefault
	}
	d.defaults = opts
}

// Start включает приглушение. Если оно уже активно - успешный no-op.
// Сначала пробуем нативный путь; при любой его ошибке переходим на паузу
// плееров. Отсутствие играющих плееров - тоже успех: глушить нечего.
func (d *Ducker) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	opts := d.defaults
	nativeErr := d.native.start(opts)
	if nativeErr == nil {
		d.active = true
		d.mode = ModeNative
		log.Printf("Приглушение: нативный режим, уровень %s", opts.Level)
		return nil
	}
	log.Printf("Нативное приглушение недоступно: %v", nativeErr)

	players, err := d.players.Playing()
	if err != nil {
		// Сам fallback-путь сломан - это единственный случай ошибки Start
		return err
	}

	d.paused = make(map[string]bool, len(players))
	for _, p := range players {
		if err := d.players.Pause(p.ID); err != nil {
			// Не поставили на паузу - значит и не возобновляем
			log.Printf("Пауза %s: %v", p.ID, err)
			continue
		}
		d.paused[p.ID] = p.CanResume
	}

	d.active = true
	d.mode = ModeFallback
	log.Printf("Приглушение: fallback, на паузе %d плеер(ов)", len(d.paused))
	return nil
}

// Stop выключает приглушение. Для неактивной подсистемы - no-op без
// побочных эффектов. Возобновляются только плееры, поставленные на паузу
// нами; ошибки возобновления не мешают сбросу состояния.
func (d *Ducker) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	switch d.mode {
	case ModeNative:
		// Неблокирующий сигнал, подтверждения не ждём
		d.native.stop()
	case ModeFallback:
		for id, canResume := range d.paused {
			if !canResume {
				continue
			}
			if err := d.players.Resume(id); err != nil {
				log.Printf("Возобновление %s: %v", id, err)
			}
		}
	}

	d.active = false
	d.mode = ModeNone
	d.paused = nil
	return nil
}

// Status возвращает снимок состояния.
func (d *Ducker) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{
		Active:          d.active,
		Mode:            d.mode,
		NativeAvailable: d.native.available(),
	}
}

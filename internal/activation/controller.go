// Package activation содержит контроллер активации диктовки.
//
// Контроллер сводит события нескольких разнородных источников горячей
// клавиши в один согласованный сигнал активации: когда показывать панель,
// когда начинать и останавливать запись. Он не опрашивает ничего сам -
// работает только от событий адаптеров.
package activation

import (
	"log"
	"sync"
	"time"

	"golos/internal/config"
	"golos/internal/hotkey"
)

// Surface получает команды контроллера. Реализуется слоем приложения,
// владеющим панелью и пайплайном записи. Методы вызываются под внутренней
// блокировкой контроллера и не должны синхронно обращаться обратно в него.
type Surface interface {
	ShowPanel()
	HidePanel()
	StartDictation()
	StopDictation()
	// SourceUnavailable сообщает, что источник активации выбыл.
	// Вызывается не чаще одного раза на источник до его восстановления.
	SourceUnavailable(src hotkey.Source, err error)
}

// Settings - синхронные геттеры пользовательских настроек.
// Режим активации читается на каждом нажатии: смена режима действует на
// следующие нажатия, но никогда на уже начатое.
type Settings interface {
	Hotkey() config.HotkeyConfig
	ActivationMode() config.ActivationMode
	HoldThreshold() time.Duration
}

// session - живая сессия нажатия для одного источника.
// Создаётся на подходящем key-down, уничтожается на key-up или отмене.
type session struct {
	source           hotkey.Source
	mode             config.ActivationMode // режим, зафиксированный на key-down
	pressedAt        time.Time
	recordingStarted bool
	timer            *time.Timer
	gen              uint64
}

// Controller - машина состояний активации диктовки.
type Controller struct {
	mu          sync.Mutex
	surface     Surface
	settings    Settings
	adapters    map[hotkey.Source]hotkey.Adapter
	sessions    map[hotkey.Source]*session
	unavailable map[hotkey.Source]bool
	binding     config.HotkeyConfig
	recording   bool
	captured    bool // режим захвата горячей клавиши: все адаптеры приостановлены
	nextGen     uint64
	stopCh      chan struct{}
	closed      bool
}

// New создаёт контроллер поверх набора адаптеров.
func New(settings Settings, surface Surface, adapters ...hotkey.Adapter) *Controller {
	m := make(map[hotkey.Source]hotkey.Adapter, len(adapters))
	for _, ad := range adapters {
		m[ad.Source()] = ad
	}
	return &Controller{
		surface:     surface,
		settings:    settings,
		adapters:    m,
		sessions:    make(map[hotkey.Source]*session),
		unavailable: make(map[hotkey.Source]bool),
		binding:     settings.Hotkey(),
		stopCh:      make(chan struct{}),
	}
}

// Run запускает адаптеры под текущую привязку и начинает обработку событий.
func (c *Controller) Run() {
	c.mu.Lock()
	binding := c.binding
	mode := c.settings.ActivationMode()
	c.mu.Unlock()

	for _, ad := range c.adapters {
		go c.consume(ad)
	}
	c.applyBinding(binding, mode)
}

func (c *Controller) consume(ad hotkey.Adapter) {
	for {
		select {
		case <-c.stopCh:
			return
		case ev, ok := <-ad.Events():
			if !ok {
				return
			}
			c.handleEvent(ev)
		}
	}
}

func (c *Controller) handleEvent(ev hotkey.Event) {
	switch ev.Type {
	case hotkey.EventDown:
		c.OnKeyDown(ev.Source)
	case hotkey.EventUp:
		c.OnKeyUp(ev.Source)
	case hotkey.EventReady:
		c.mu.Lock()
		c.unavailable[ev.Source] = false
		c.mu.Unlock()
		log.Printf("Источник %s готов", ev.Source)
	case hotkey.EventError, hotkey.EventUnavailable:
		c.markUnavailable(ev.Source, ev)
	}
}

// OnKeyDown обрабатывает нажатие от источника.
func (c *Controller) OnKeyDown(src hotkey.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.captured || c.closed {
		return
	}

	mode := c.settings.ActivationMode()
	if !c.relevantLocked(src, mode) {
		return
	}

	// Повторный down при живой сессии - дребезг, не вторая сессия
	if _, live := c.sessions[src]; live {
		return
	}

	c.nextGen++
	s := &session{
		source:    src,
		mode:      mode,
		pressedAt: time.Now(),
		gen:       c.nextGen,
	}
	c.sessions[src] = s
	c.surface.ShowPanel()

	switch mode {
	case config.ModePush:
		// Таймер удержания отличает намеренный hold от случайного tap:
		// запись стартует только если сессия доживёт до срабатывания.
		gen := s.gen
		s.timer = time.AfterFunc(c.settings.HoldThreshold(), func() {
			c.holdExpired(src, gen)
		})
	default: // tap: мгновенный toggle, без таймера
		if c.recording {
			c.recording = false
			c.surface.StopDictation()
		} else {
			c.recording = true
			c.surface.StartDictation()
		}
	}
}

// holdExpired срабатывает по таймеру удержания в push режиме.
// Сверка поколения делает отмену на key-up окончательной: таймер,
// переживший свою сессию, не делает ничего.
func (c *Controller) holdExpired(src hotkey.Source, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.sessions[src]
	if s == nil || s.gen != gen {
		return
	}

	s.recordingStarted = true
	c.recording = true
	c.surface.StartDictation()
}

// OnKeyUp обрабатывает отпускание от источника.
func (c *Controller) OnKeyUp(src hotkey.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.sessions[src]
	if s == nil {
		return
	}
	delete(c.sessions, src)

	if s.mode != config.ModePush {
		// tap: toggle уже произошёл на key-down
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}

	if s.recordingStarted {
		c.recording = false
		c.surface.StopDictation()
	} else {
		// Отпущено раньше порога: записи не было, панель не оставляем
		c.surface.HidePanel()
	}
}

// OnHotkeyChanged применяет новую привязку. Живые сессии старой привязки
// отбрасываются; если запись уже началась, посылается синтетический stop,
// чтобы пайплайн захвата не остался в состоянии "пишем".
func (c *Controller) OnHotkeyChanged(binding config.HotkeyConfig) {
	c.mu.Lock()
	c.abandonSessionsLocked()
	c.binding = binding
	captured := c.captured
	mode := c.settings.ActivationMode()
	c.mu.Unlock()

	log.Printf("Смена горячей клавиши: %s", binding.String())

	if captured {
		// Адаптеры приостановлены - восстановятся в ExitCaptureMode
		return
	}
	c.applyBinding(binding, mode)
}

// OnActivationModeChanged перестраивает адаптеры под новый режим.
// Для уже начатого нажатия режим не меняется - сессия отбрасывается.
func (c *Controller) OnActivationModeChanged(mode config.ActivationMode) {
	c.mu.Lock()
	c.abandonSessionsLocked()
	binding := c.binding
	captured := c.captured
	c.mu.Unlock()

	log.Printf("Смена режима активации: %s", mode)

	if captured {
		return
	}
	c.applyBinding(binding, mode)
}

// EnterCaptureMode приостанавливает все адаптеры на время записи новой
// горячей клавиши в UI, чтобы нажатия не уходили в активацию.
func (c *Controller) EnterCaptureMode() {
	c.mu.Lock()
	if c.captured {
		c.mu.Unlock()
		return
	}
	c.captured = true
	c.abandonSessionsLocked()
	c.mu.Unlock()

	for _, ad := range c.adapters {
		ad.Stop()
	}
}

// ExitCaptureMode восстанавливает адаптеры с действующей привязкой.
// effective, если не nil, становится новой привязкой. Повторный вызов
// без входа в режим захвата - no-op.
func (c *Controller) ExitCaptureMode(effective *config.HotkeyConfig) {
	c.mu.Lock()
	if !c.captured {
		c.mu.Unlock()
		return
	}
	c.captured = false
	if effective != nil {
		c.binding = *effective
	}
	binding := c.binding
	mode := c.settings.ActivationMode()
	c.mu.Unlock()

	c.applyBinding(binding, mode)
}

// Recording возвращает true если контроллер считает, что идёт запись.
func (c *Controller) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// Close останавливает обработку событий и все адаптеры.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.abandonSessionsLocked()
	c.mu.Unlock()

	close(c.stopCh)
	for _, ad := range c.adapters {
		ad.Stop()
	}
}

// abandonSessionsLocked отбрасывает все живые сессии. Если запись уже шла,
// посылает синтетический StopDictation, иначе прячет панель.
func (c *Controller) abandonSessionsLocked() {
	hadSession := false
	for src, s := range c.sessions {
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(c.sessions, src)
		hadSession = true
	}

	if c.recording {
		c.recording = false
		c.surface.StopDictation()
	} else if hadSession {
		c.surface.HidePanel()
	}
}

// relevantLocked решает, участвует ли источник в текущем режиме.
func (c *Controller) relevantLocked(src hotkey.Source, mode config.ActivationMode) bool {
	switch mode {
	case config.ModePush:
		switch src {
		case hotkey.SourceSpecial:
			// Медиа-сервис отдаёт только нажатия - push невозможен
			return false
		case hotkey.SourceGlobal:
			// Запасной путь, когда низкоуровневого слушателя нет или он выбыл
			_, has := c.adapters[hotkey.SourceLowLevel]
			return !has || c.unavailable[hotkey.SourceLowLevel]
		default:
			return true
		}
	default: // tap
		return src == hotkey.SourceGlobal || src == hotkey.SourceSpecial
	}
}

// markUnavailable выводит источник из строя и один раз сообщает наверх.
func (c *Controller) markUnavailable(src hotkey.Source, ev hotkey.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.Err != nil {
		log.Printf("Источник %s: %v", src, ev.Err)
	}

	if c.unavailable[src] {
		return
	}
	c.unavailable[src] = true

	// Сессия выбывшего источника отбрасывается
	if s := c.sessions[src]; s != nil {
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(c.sessions, src)
		if s.recordingStarted {
			c.recording = false
			c.surface.StopDictation()
		} else {
			c.surface.HidePanel()
		}
	}

	c.surface.SourceUnavailable(src, ev.Err)
}

// applyBinding запускает и останавливает адаптеры под привязку и режим.
// Низкоуровневый слушатель знает литеральную клавишу, поэтому всегда
// перезапускается; shortcut-реестр перерегистрируется внутри Start.
func (c *Controller) applyBinding(binding config.HotkeyConfig, mode config.ActivationMode) {
	global := c.adapters[hotkey.SourceGlobal]
	lowlevel := c.adapters[hotkey.SourceLowLevel]
	special := c.adapters[hotkey.SourceSpecial]

	if binding.IsSpecial() {
		if global != nil {
			global.Stop()
		}
		if lowlevel != nil {
			lowlevel.Stop()
		}
		if special != nil {
			special.Start(binding)
		}
		return
	}

	if special != nil {
		special.Stop()
	}
	if lowlevel != nil {
		lowlevel.Stop()
		if mode == config.ModePush {
			lowlevel.Start(binding)
		}
	}
	if global != nil {
		global.Start(binding)
	}
}

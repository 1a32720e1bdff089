// Package panel предоставляет плавающее окно диктовки.
package panel

import (
	"image/color"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"

	"golos/internal/i18n"
)

// State - что окно показывает в данный момент.
type State int

const (
	StateRecording   State = iota // волна с микрофона
	StateTranscribe               // распознавание речи
	StateCleanup                  // чистка текста LLM
	StateResult                   // результат с кнопками
)

// SampleProvider отдаёт сэмплы для визуализации.
type SampleProvider interface {
	Samples() []float32
	IsRecording() bool
}

// Config - размеры и палитра окна.
type Config struct {
	Width       int
	Height      int
	RefreshRate time.Duration
	BGColor     color.NRGBA
	WaveColor   color.NRGBA
	DotColor    color.NRGBA
	TextColor   color.NRGBA
	DimColor    color.NRGBA
	AccentColor color.NRGBA
	PanelColor  color.NRGBA
}

// DefaultConfig возвращает палитру по умолчанию.
func DefaultConfig() Config {
	return Config{
		Width:       360,
		Height:      100,
		RefreshRate: 33 * time.Millisecond, // ~30fps
		BGColor:     color.NRGBA{R: 28, G: 28, B: 32, A: 245},
		WaveColor:   color.NRGBA{R: 80, G: 200, B: 120, A: 255},
		DotColor:    color.NRGBA{R: 255, G: 95, B: 95, A: 255},
		TextColor:   color.NRGBA{R: 240, G: 240, B: 245, A: 255},
		DimColor:    color.NRGBA{R: 140, G: 140, B: 150, A: 255},
		AccentColor: color.NRGBA{R: 88, G: 166, B: 255, A: 255},
		PanelColor:  color.NRGBA{R: 45, G: 45, B: 50, A: 255},
	}
}

const windowTitle = "Golos"

// Window управляет плавающим окном диктовки.
type Window struct {
	mu        sync.Mutex
	provider  SampleProvider
	config    Config
	startTime time.Time
	state     State

	resultText string
	editor     widget.Editor
	insertBtn  widget.Clickable
	copyBtn    widget.Clickable
	closeBtn   widget.Clickable
	onInsert   func(text string)
	onCopy     func(text string)
	onCancel   func()

	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New создаёт окно с указанным источником сэмплов.
func New(provider SampleProvider, cfg Config) *Window {
	return &Window{provider: provider, config: cfg}
}

// Show показывает окно (неблокирующе). Повторный вызов при видимом
// окне сбрасывает его в состояние записи.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.state = StateRecording
		w.startTime = time.Now()
		if w.window != nil {
			w.window.Option(app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)))
			w.window.Invalidate()
		}
		return
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.startTime = time.Now()
	w.state = StateRecording

	go w.runEventLoop()
}

// Hide закрывает окно и дожидается завершения его цикла.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.stopCh = nil
	w.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}
	if doneCh != nil {
		select {
		case <-doneCh:
		case <-time.After(time.Second):
		}
	}
}

// IsVisible сообщает, видно ли окно.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// SetState переключает отображаемое состояние.
func (w *Window) SetState(state State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
	if w.window != nil {
		w.window.Invalidate()
	}
}

// SetResult показывает распознанный текст с кнопками вставки.
func (w *Window) SetResult(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resultText = text
	w.editor = widget.Editor{}
	w.editor.SetText(text)

	w.state = StateResult
	if w.window != nil {
		w.window.Option(app.Size(unit.Dp(450), unit.Dp(220)))
		w.window.Invalidate()
	}
}

// OnInsert задаёт обработчик кнопки вставки (или Enter).
func (w *Window) OnInsert(fn func(text string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onInsert = fn
}

// OnCopy задаёт обработчик кнопки копирования.
func (w *Window) OnCopy(fn func(text string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onCopy = fn
}

// OnCancel задаёт обработчик отмены (ESC или крестик).
func (w *Window) OnCancel(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onCancel = fn
}

func (w *Window) runEventLoop() {
	defer close(w.doneCh)

	w.window = new(app.Window)
	w.window.Option(
		app.Title(windowTitle),
		app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)),
		app.Decorated(false),
	)

	var ops op.Ops

	go positionWindow(windowTitle, w.config.Width, w.config.Height)

	ticker := time.NewTicker(w.config.RefreshRate)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-w.stopCh:
				if w.window != nil {
					w.window.Perform(system.ActionClose)
				}
				return
			case <-ticker.C:
				if w.window != nil {
					w.window.Invalidate()
				}
			}
		}
	}()

	for {
		switch e := w.window.Event().(type) {
		case app.DestroyEvent:
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			w.frame(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) frame(gtx C) {
	// ESC закрывает окно в любом состоянии
	for {
		event, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if e, ok := event.(key.Event); ok && e.State == key.Press {
			w.cancel()
			return
		}
	}

	w.mu.Lock()
	startTime := w.startTime
	state := w.state
	w.mu.Unlock()

	elapsed := time.Since(startTime)

	switch state {
	case StateTranscribe:
		drawBusy(gtx, elapsed, w.config, i18n.T("panel_transcribe"))
	case StateCleanup:
		drawBusy(gtx, elapsed, w.config, i18n.T("panel_cleanup"))
	case StateResult:
		w.frameResult(gtx)
	default:
		var samples []float32
		if w.provider != nil {
			samples = w.provider.Samples()
		}
		drawRecording(gtx, samples, elapsed, w.config)
	}
}

func (w *Window) frameResult(gtx C) {
	w.mu.Lock()
	insertFn := w.onInsert
	copyFn := w.onCopy
	w.mu.Unlock()

	// Enter вставляет текст из редактора
	for {
		event, ok := gtx.Event(key.Filter{Name: key.NameReturn})
		if !ok {
			break
		}
		if e, ok := event.(key.Event); ok && e.State == key.Press {
			w.finish(insertFn)
			return
		}
	}

	if w.insertBtn.Clicked(gtx) {
		w.finish(insertFn)
		return
	}
	if w.copyBtn.Clicked(gtx) {
		w.finish(copyFn)
		return
	}
	if w.closeBtn.Clicked(gtx) {
		w.cancel()
		return
	}

	drawResult(gtx, w.config, &w.editor, &w.insertBtn, &w.copyBtn, &w.closeBtn)
}

func (w *Window) finish(fn func(string)) {
	text := w.editor.Text()
	if fn != nil {
		go fn(text)
	}
	go w.Hide()
}

func (w *Window) cancel() {
	w.mu.Lock()
	cancelFn := w.onCancel
	w.mu.Unlock()
	if cancelFn != nil {
		go cancelFn()
	}
	go w.Hide()
}

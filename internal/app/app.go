// Package app содержит основную логику приложения.
package app

import (
	"context"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golos/internal/activation"
	"golos/internal/audio"
	"golos/internal/config"
	"golos/internal/dialog"
	"golos/internal/ducking"
	"golos/internal/hotkey"
	"golos/internal/i18n"
	"golos/internal/input"
	"golos/internal/llm"
	"golos/internal/notify"
	"golos/internal/panel"
	"golos/internal/speech"
	"golos/internal/tray"
)

// MinRecordingDuration - записи короче не отправляются на распознавание.
const MinRecordingDuration = 500 * time.Millisecond

// surfaceCmd - команда контроллера активации для исполнителя.
type surfaceCmd int

const (
	cmdShowPanel surfaceCmd = iota
	cmdHidePanel
	cmdStartDictation
	cmdStopDictation
)

// commandBuffer - запас на всплеск команд; исполнитель разбирает очередь
// быстрее, чем пользователь жмёт клавиши.
const commandBuffer = 16

// App связывает контроллер активации с записью, распознаванием и UI.
type App struct {
	mu         sync.Mutex
	config     *config.Config
	recorder   *audio.Recorder
	recognizer speech.Recognizer
	cleanup    *llm.Client
	typer      input.Typer
	notifier   *notify.Notifier
	ducker     *ducking.Ducker
	tray       *tray.Tray
	panel      *panel.Window
	controller *activation.Controller

	// Команды контроллера исполняются строго по одной и в порядке
	// поступления: start никогда не обгонит show, stop - start.
	commands chan surfaceCmd
	quit     chan struct{}

	sourcesDown  map[hotkey.Source]bool
	totalSources int

	recordingStart time.Time
	processing     bool
	closed         bool
}

// New создаёт приложение.
func New() (*App, error) {
	cfg := config.New()

	if uiLang := cfg.UILanguage(); uiLang != "" {
		i18n.SetLanguage(i18n.Language(uiLang))
	}

	recorder, err := audio.New()
	if err != nil {
		return nil, err
	}

	typer, err := input.New()
	if err != nil {
		recorder.Close()
		return nil, err
	}

	a := &App{
		config:      cfg,
		recorder:    recorder,
		recognizer:  speech.NewHTTP(cfg.SpeechURL()),
		typer:       typer,
		notifier:    notify.New(cfg.NotificationsEnabled()),
		ducker:      ducking.New(),
		commands:    make(chan surfaceCmd, commandBuffer),
		quit:        make(chan struct{}),
		sourcesDown: make(map[hotkey.Source]bool),
	}

	cl := cfg.Cleanup()
	a.cleanup = llm.New(cl.URL, cl.Model, 0)

	d := cfg.Ducking()
	a.ducker.Configure(ducking.Options{Level: d.Level, Advanced: d.Advanced})

	a.panel = panel.New(recorder, panel.DefaultConfig())

	a.panel.OnInsert(func(text string) {
		// Даём окну закрыться и фокусу вернуться в прежнее поле
		time.Sleep(150 * time.Millisecond)
		if err := a.typer.Type(text); err != nil {
			log.Printf("Ошибка ввода текста: %v", err)
			a.notifier.Error(i18n.T("error_input") + ": " + err.Error())
		} else {
			a.notifier.Success(text)
		}
		a.tray.SetState(tray.StateIdle)
	})

	a.panel.OnCopy(func(text string) {
		if err := copyToClipboard(text); err != nil {
			log.Printf("Ошибка копирования в буфер: %v", err)
			a.notifier.Error(i18n.T("error_clipboard"))
		} else {
			a.notifier.Success(text)
		}
		a.tray.SetState(tray.StateIdle)
	})

	a.panel.OnCancel(func() {
		if a.recorder.IsRecording() {
			a.recorder.Stop()
		}
		if err := a.ducker.Stop(); err != nil {
			log.Printf("Ошибка восстановления звука: %v", err)
		}
		a.tray.SetState(tray.StateIdle)
		a.mu.Lock()
		a.processing = false
		a.mu.Unlock()
	})

	adapters := []hotkey.Adapter{
		hotkey.NewGlobal(),
		hotkey.NewLowLevel(""),
		hotkey.NewSpecial(),
	}
	a.totalSources = len(adapters)
	a.controller = activation.New(cfg, a, adapters...)

	a.tray = tray.New(tray.Callbacks{
		OnPushToTalkToggle: func() bool {
			mode := config.ModeTap
			if cfg.ActivationMode() == config.ModeTap {
				mode = config.ModePush
			}
			cfg.SetActivationMode(mode)
			a.controller.OnActivationModeChanged(mode)
			return mode == config.ModePush
		},
		OnDuckingToggle: func() bool {
			d := cfg.Ducking()
			d.Enabled = !d.Enabled
			cfg.SetDucking(d)
			return d.Enabled
		},
		OnNotificationsToggle: func() bool {
			enabled := cfg.ToggleNotifications()
			a.notifier.SetEnabled(enabled)
			return enabled
		},
		OnHotkeyClick: func() {
			go a.changeHotkey()
		},
		OnQuit: func() {
			a.Close()
		},
	}, tray.Options{
		PushToTalk:    cfg.ActivationMode() == config.ModePush,
		Ducking:       cfg.Ducking().Enabled,
		Notifications: cfg.NotificationsEnabled(),
		HotkeyLabel:   cfg.Hotkey().String(),
	})

	return a, nil
}

// Run запускает трей и контроллер активации. Блокирующая функция.
func (a *App) Run() {
	a.tray.Run(func() {
		go a.surfaceLoop()
		a.controller.Run()
		a.notifier.Ready()
		go a.checkCleanup()
	})
}

// checkCleanup предупреждает на старте, если чистка текста включена,
// а Ollama не отвечает.
func (a *App) checkCleanup() {
	if !a.config.Cleanup().Enabled {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !a.cleanup.IsAvailable(ctx) {
		log.Printf("Ollama недоступен, чистка текста моделью %s работать не будет", a.cleanup.Model())
	}
}

// changeHotkey проводит пользователя через выбор новой горячей клавиши.
// На время диалога адаптеры приостановлены, чтобы пробные нажатия
// не запускали диктовку.
func (a *App) changeHotkey() {
	a.controller.EnterCaptureMode()

	hk, err := dialog.SelectHotkey(a.config.Hotkey())
	if err != nil {
		log.Printf("Выбор горячей клавиши отменён: %v", err)
		a.controller.ExitCaptureMode(nil)
		return
	}

	a.config.SetHotkey(hk)
	a.tray.SetHotkeyLabel(hk.String())
	a.controller.ExitCaptureMode(&hk)
}

// ShowPanel реализует activation.Surface.
func (a *App) ShowPanel() { a.enqueue(cmdShowPanel) }

// HidePanel реализует activation.Surface.
func (a *App) HidePanel() { a.enqueue(cmdHidePanel) }

// StartDictation реализует activation.Surface.
func (a *App) StartDictation() { a.enqueue(cmdStartDictation) }

// StopDictation реализует activation.Surface.
func (a *App) StopDictation() { a.enqueue(cmdStopDictation) }

// enqueue ставит команду в очередь исполнителя. Вызывается под
// блокировкой контроллера; исполнитель в контроллер не ходит,
// поэтому блокирующая отправка безопасна.
func (a *App) enqueue(cmd surfaceCmd) {
	a.commands <- cmd
}

// surfaceLoop - единственный исполнитель команд контроллера.
// Последовательность здесь и есть гарантия порядка: panel/recorder/ducker
// видят команды ровно в том порядке, в котором их породил контроллер.
func (a *App) surfaceLoop() {
	for {
		select {
		case <-a.quit:
			return
		case cmd := <-a.commands:
			a.apply(cmd)
		}
	}
}

func (a *App) apply(cmd surfaceCmd) {
	switch cmd {
	case cmdShowPanel:
		a.panel.Show()
	case cmdHidePanel:
		a.panel.Hide()
	case cmdStartDictation:
		a.startDictation()
	case cmdStopDictation:
		a.stopDictation()
	}
}

// SourceUnavailable реализует activation.Surface.
func (a *App) SourceUnavailable(src hotkey.Source, err error) {
	go func() {
		log.Printf("Источник %s недоступен: %v", src, err)

		a.mu.Lock()
		a.sourcesDown[src] = true
		allDown := len(a.sourcesDown) >= a.totalSources
		a.mu.Unlock()

		if allDown {
			// Выбыли все источники - активировать диктовку больше нечем
			a.notifier.NoActivation()
		} else {
			a.notifier.SourceLost()
		}
	}()
}

func (a *App) startDictation() {
	a.mu.Lock()
	if a.processing {
		a.mu.Unlock()
		return
	}
	// Отметка времени ставится только здесь, при фактическом старте
	// записи: от неё считается минимальная длительность диктовки.
	a.recordingStart = time.Now()
	a.mu.Unlock()

	if a.config.Ducking().Enabled {
		if err := a.ducker.Start(); err != nil {
			// Приглушение не критично для диктовки
			log.Printf("Приглушение звука не удалось: %v", err)
		}
	}

	if err := a.recorder.Start(); err != nil {
		log.Printf("Ошибка начала записи: %v", err)
		a.notifier.Error(i18n.T("error_recording") + ": " + err.Error())
		a.ducker.Stop()
		a.panel.Hide()
		return
	}

	a.tray.SetState(tray.StateRecording)
	a.notifier.Recording()
}

func (a *App) stopDictation() {
	a.mu.Lock()
	if a.processing {
		a.mu.Unlock()
		return
	}
	a.processing = true
	elapsed := time.Since(a.recordingStart)
	a.mu.Unlock()

	done := func() {
		a.mu.Lock()
		a.processing = false
		a.mu.Unlock()
	}

	a.panel.SetState(panel.StateTranscribe)
	samples := a.recorder.Stop()

	if err := a.ducker.Stop(); err != nil {
		log.Printf("Ошибка восстановления звука: %v", err)
	}

	if elapsed < MinRecordingDuration || len(samples) == 0 {
		a.panel.Hide()
		a.tray.SetState(tray.StateIdle)
		done()
		return
	}

	a.tray.SetState(tray.StateProcessing)

	go func() {
		defer done()

		text, err := a.recognizer.Transcribe(samples, a.config.Language())
		if err != nil {
			log.Printf("Ошибка распознавания: %v", err)
			a.notifier.Error(i18n.T("error_recognition"))
			a.panel.Hide()
			a.tray.SetState(tray.StateIdle)
			return
		}
		if text == "" {
			a.notifier.Empty()
			a.panel.Hide()
			a.tray.SetState(tray.StateIdle)
			return
		}

		if a.config.Cleanup().Enabled {
			a.panel.SetState(panel.StateCleanup)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			cleaned, err := a.cleanup.CleanupText(ctx, text)
			cancel()
			if err == nil && cleaned != "" {
				text = cleaned
			}
		}

		a.panel.SetResult(text)
		a.tray.SetState(tray.StateIdle)
	}()
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	if a.controller != nil {
		a.controller.Close()
	}
	close(a.quit)
	if a.ducker != nil {
		a.ducker.Stop()
	}
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.recognizer != nil {
		a.recognizer.Close()
	}
	if a.panel != nil {
		a.panel.Hide()
	}
}

// copyToClipboard копирует текст в системный буфер обмена.
func copyToClipboard(text string) error {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		cmd := exec.Command("wl-copy")
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
	cmd := exec.Command("xclip", "-selection", "clipboard")
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

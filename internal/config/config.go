// Package config предоставляет конфигурацию приложения с сохранением в файл.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу.
type Key string

const (
	KeySpace  Key = "space"
	KeyReturn Key = "return"
	KeyTab    Key = "tab"
	KeyA      Key = "a"
	KeyB      Key = "b"
	KeyC      Key = "c"
	KeyD      Key = "d"
	KeyE      Key = "e"
	KeyF      Key = "f"
	KeyG      Key = "g"
	KeyH      Key = "h"
	KeyI      Key = "i"
	KeyJ      Key = "j"
	KeyK      Key = "k"
	KeyL      Key = "l"
	KeyM      Key = "m"
	KeyN      Key = "n"
	KeyO      Key = "o"
	KeyP      Key = "p"
	KeyQ      Key = "q"
	KeyR      Key = "r"
	KeyS      Key = "s"
	KeyT      Key = "t"
	KeyU      Key = "u"
	KeyV      Key = "v"
	KeyW      Key = "w"
	KeyX      Key = "x"
	KeyY      Key = "y"
	KeyZ      Key = "z"
	KeyF1     Key = "f1"
	KeyF2     Key = "f2"
	KeyF3     Key = "f3"
	KeyF4     Key = "f4"
	KeyF5     Key = "f5"
	KeyF6     Key = "f6"
	KeyF7     Key = "f7"
	KeyF8     Key = "f8"
	KeyF9     Key = "f9"
	KeyF10    Key = "f10"
	KeyF11    Key = "f11"
	KeyF12    Key = "f12"

	// KeyDictate - аппаратная клавиша диктовки (микрофон на мультимедийных
	// клавиатурах). Не имеет представления в обычном shortcut-реестре и
	// обрабатывается отдельным слушателем.
	KeyDictate Key = "dictate"
)

// ActivationMode определяет как горячая клавиша запускает диктовку.
type ActivationMode string

const (
	// ModeTap - короткое нажатие переключает запись (toggle).
	ModeTap ActivationMode = "tap"
	// ModePush - запись идёт пока клавиша удерживается (push-to-talk).
	ModePush ActivationMode = "push"
)

// DuckingLevel уровень приглушения чужого аудио во время диктовки.
type DuckingLevel string

const (
	DuckMin     DuckingLevel = "min"
	DuckDefault DuckingLevel = "default"
	DuckMid     DuckingLevel = "mid"
	DuckMax     DuckingLevel = "max"
)

// HotkeyConfig хранит настройки горячей клавиши.
type HotkeyConfig struct {
	Modifiers []Modifier `json:"modifiers"`
	Key       Key        `json:"key"`
}

// IsSpecial возвращает true для аппаратной клавиши без обычного представления.
func (h HotkeyConfig) IsSpecial() bool {
	return h.Key == KeyDictate
}

// String возвращает строковое представление горячей клавиши.
func (h HotkeyConfig) String() string {
	result := ""
	for _, m := range h.Modifiers {
		if result != "" {
			result += "+"
		}
		result += string(m)
	}
	if result != "" {
		result += "+"
	}
	result += string(h.Key)
	return result
}

// Equal сравнивает две привязки горячих клавиш.
func (h HotkeyConfig) Equal(other HotkeyConfig) bool {
	if h.Key != other.Key || len(h.Modifiers) != len(other.Modifiers) {
		return false
	}
	for i, m := range h.Modifiers {
		if other.Modifiers[i] != m {
			return false
		}
	}
	return true
}

// DuckingConfig хранит настройки приглушения аудио.
type DuckingConfig struct {
	Enabled  bool         `json:"enabled"`
	Level    DuckingLevel `json:"level,omitempty"`
	Advanced bool         `json:"advanced,omitempty"`
}

// CleanupConfig хранит настройки LLM-коррекции текста.
type CleanupConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url,omitempty"`
	Model   string `json:"model,omitempty"`
}

// configData структура для сериализации.
type configData struct {
	Language        string         `json:"language"`
	UILanguage      string         `json:"ui_language,omitempty"`
	Notifications   bool           `json:"notifications"`
	Hotkey          HotkeyConfig   `json:"hotkey"`
	ActivationMode  ActivationMode `json:"activation_mode,omitempty"`
	HoldThresholdMS int            `json:"hold_threshold_ms,omitempty"`
	Ducking         DuckingConfig  `json:"ducking,omitempty"`
	SpeechURL       string         `json:"speech_url,omitempty"`
	Cleanup         CleanupConfig  `json:"cleanup,omitempty"`
}

// DefaultHoldThreshold - минимальное удержание клавиши в push режиме.
// Более короткое нажатие считается случайным касанием, запись не стартует.
const DefaultHoldThreshold = 150 * time.Millisecond

// DefaultSpeechURL - адрес локального сервера распознавания (whisper-server).
const DefaultSpeechURL = "http://localhost:8090"

// Config хранит настройки приложения.
type Config struct {
	mu            sync.RWMutex
	language      string
	uiLanguage    string
	notifications bool
	hotkey        HotkeyConfig
	mode          ActivationMode
	holdThreshold time.Duration
	ducking       DuckingConfig
	speechURL     string
	cleanup       CleanupConfig
	configPath    string
}

// New создаёт конфигурацию, загружая из файла или с настройками по умолчанию.
func New() *Config {
	// Файл конфигурации лежит рядом с бинарником
	path := ""
	execPath, err := os.Executable()
	if err == nil {
		execPath, err = filepath.EvalSymlinks(execPath)
		if err == nil {
			path = filepath.Join(filepath.Dir(execPath), "config.json")
		}
	}
	return newAt(path)
}

// newAt создаёт конфигурацию с явным путём к файлу (используется в тестах).
func newAt(path string) *Config {
	c := &Config{
		language:      "auto", // auto для смешанного русского/английского
		uiLanguage:    "ru",   // По умолчанию русский интерфейс
		notifications: true,
		hotkey: HotkeyConfig{
			Modifiers: []Modifier{ModCtrl, ModShift},
			Key:       KeySpace,
		},
		mode:          ModeTap,
		holdThreshold: DefaultHoldThreshold,
		ducking: DuckingConfig{
			Enabled: true,
			Level:   DuckDefault,
		},
		speechURL:  DefaultSpeechURL,
		configPath: path,
	}

	c.load()
	return c
}

// load загружает конфигурацию из файла.
func (c *Config) load() {
	if c.configPath == "" {
		return
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return // Файл не существует, используем defaults
	}

	var cfg configData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}

	if cfg.Language != "" {
		c.language = cfg.Language
	}
	if cfg.UILanguage != "" {
		c.uiLanguage = cfg.UILanguage
	}
	c.notifications = cfg.Notifications
	if cfg.Hotkey.Key != "" {
		c.hotkey = cfg.Hotkey
	}
	if cfg.ActivationMode == ModeTap || cfg.ActivationMode == ModePush {
		c.mode = cfg.ActivationMode
	}
	if cfg.HoldThresholdMS > 0 {
		c.holdThreshold = time.Duration(cfg.HoldThresholdMS) * time.Millisecond
	}
	if cfg.Ducking.Level != "" {
		c.ducking = cfg.Ducking
	}
	if cfg.SpeechURL != "" {
		c.speechURL = cfg.SpeechURL
	}
	c.cleanup.Enabled = cfg.Cleanup.Enabled
	if cfg.Cleanup.URL != "" {
		c.cleanup.URL = cfg.Cleanup.URL
	}
	if cfg.Cleanup.Model != "" {
		c.cleanup.Model = cfg.Cleanup.Model
	}
}

// save сохраняет конфигурацию в файл.
func (c *Config) save() {
	if c.configPath == "" {
		return
	}

	cfg := configData{
		Language:        c.language,
		UILanguage:      c.uiLanguage,
		Notifications:   c.notifications,
		Hotkey:          c.hotkey,
		ActivationMode:  c.mode,
		HoldThresholdMS: int(c.holdThreshold / time.Millisecond),
		Ducking:         c.ducking,
		SpeechURL:       c.speechURL,
		Cleanup:         c.cleanup,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}

	os.WriteFile(c.configPath, data, 0644)
}

// Language возвращает текущий язык распознавания.
func (c *Config) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// SetLanguage устанавливает язык распознавания.
func (c *Config) SetLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = lang
	c.save()
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uiLanguage
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uiLanguage = lang
	c.save()
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notifications
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = !c.notifications
	c.save()
	return c.notifications
}

// Hotkey возвращает текущую горячую клавишу.
func (c *Config) Hotkey() HotkeyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hotkey
}

// SetHotkey устанавливает горячую клавишу.
func (c *Config) SetHotkey(hk HotkeyConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hotkey = hk
	c.save()
}

// ActivationMode возвращает текущий режим активации.
// При неизвестном значении в файле возвращает ModeTap.
func (c *Config) ActivationMode() ActivationMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mode != ModeTap && c.mode != ModePush {
		return ModeTap
	}
	return c.mode
}

// SetActivationMode устанавливает режим активации.
func (c *Config) SetActivationMode(mode ActivationMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.save()
}

// HoldThreshold возвращает порог удержания для push режима.
func (c *Config) HoldThreshold() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.holdThreshold <= 0 {
		return DefaultHoldThreshold
	}
	return c.holdThreshold
}

// Ducking возвращает настройки приглушения аудио.
func (c *Config) Ducking() DuckingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ducking
}

// SetDucking устанавливает настройки приглушения аудио.
func (c *Config) SetDucking(d DuckingConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ducking = d
	c.save()
}

// ToggleDucking переключает приглушение аудио.
func (c *Config) ToggleDucking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ducking.Enabled = !c.ducking.Enabled
	c.save()
	return c.ducking.Enabled
}

// SpeechURL возвращает адрес сервера распознавания речи.
func (c *Config) SpeechURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.speechURL
}

// Cleanup возвращает настройки LLM-коррекции.
func (c *Config) Cleanup() CleanupConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cleanup
}

// SetCleanupEnabled включает/выключает LLM-коррекцию.
func (c *Config) SetCleanupEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanup.Enabled = enabled
	c.save()
}

// AvailableModifiers возвращает список доступных модификаторов.
func AvailableModifiers() []Modifier {
	return []Modifier{ModCtrl, ModShift, ModAlt, ModSuper}
}

// AvailableKeys возвращает список доступных клавиш.
func AvailableKeys() []Key {
	return []Key{
		KeySpace, KeyReturn, KeyTab,
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
		KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
	}
}

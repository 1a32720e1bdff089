// Package i18n provides internationalization support.
package i18n

import "sync"

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = RU // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name":    "Golos",
		"app_tooltip": "Golos - голосовой ввод",

		// Tray menu
		"tray_ready":              "Готов к работе",
		"tray_recording":          "Запись...",
		"tray_processing":         "Распознавание...",
		"tray_mode_push":          "Push-to-talk",
		"tray_mode_push_hint":     "Запись пока клавиша удерживается",
		"tray_mode_tap":           "Переключение нажатием",
		"tray_ducking":            "Приглушать звук",
		"tray_ducking_hint":       "Приглушать музыку и видео во время диктовки",
		"tray_notifications":      "Уведомления",
		"tray_notifications_hint": "Показывать уведомления",
		"tray_hotkey":             "Горячая клавиша...",
		"tray_hotkey_hint":        "Изменить комбинацию активации",
		"tray_quit":               "Выход",
		"tray_quit_hint":          "Закрыть приложение",

		// Notifications
		"notify_recording":       "Запись...",
		"notify_recording_hint":  "Говорите в микрофон",
		"notify_processing":      "Распознаю...",
		"notify_processing_hint": "Пожалуйста, подождите",
		"notify_done":            "Готово",
		"notify_empty":           "Не удалось распознать",
		"notify_empty_hint":      "Попробуйте ещё раз",
		"notify_error":           "Ошибка",
		"notify_ready":           "Golos готов к работе",
		"notify_source_lost":     "Источник горячей клавиши недоступен, используется запасной",
		"notify_no_activation":   "Нет доступного способа активации диктовки",

		// Panel
		"panel_recording":  "Запись",
		"panel_transcribe": "Распознавание речи...",
		"panel_cleanup":    "Коррекция текста...",
		"panel_result":     "Результат",
		"panel_insert":     "Вставить",
		"panel_copy":       "Скопировать",

		// Errors
		"error_recording":      "Ошибка записи",
		"error_recognition":    "Ошибка распознавания",
		"error_input":          "Ошибка ввода текста",
		"error_clipboard":      "Не удалось скопировать в буфер обмена",
		"error_hotkey":         "Не удалось зарегистрировать горячую клавишу",
		"error_hotkey_capture": "Выбор горячей клавиши отменён",

		// Hotkey dialog
		"dialog_mods_title":  "Горячая клавиша - Модификаторы",
		"dialog_mods_text":   "Выберите модификаторы:",
		"dialog_keys_title":  "Горячая клавиша - Клавиша",
		"dialog_keys_text":   "Выберите клавишу:",
		"dialog_need_mod":    "необходимо выбрать хотя бы один модификатор",
		"dialog_key_dictate": "Клавиша диктовки (микрофон)",
	},
	EN: {
		// App
		"app_name":    "Golos",
		"app_tooltip": "Golos - voice typing",

		// Tray menu
		"tray_ready":              "Ready",
		"tray_recording":          "Recording...",
		"tray_processing":         "Transcribing...",
		"tray_mode_push":          "Push-to-talk",
		"tray_mode_push_hint":     "Record while the key is held",
		"tray_mode_tap":           "Toggle by tap",
		"tray_ducking":            "Duck other audio",
		"tray_ducking_hint":       "Quiet music and video while dictating",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_hotkey":             "Hotkey...",
		"tray_hotkey_hint":        "Change the activation shortcut",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close the application",

		// Notifications
		"notify_recording":       "Recording...",
		"notify_recording_hint":  "Speak into the microphone",
		"notify_processing":      "Transcribing...",
		"notify_processing_hint": "Please wait",
		"notify_done":            "Done",
		"notify_empty":           "Nothing recognized",
		"notify_empty_hint":      "Please try again",
		"notify_error":           "Error",
		"notify_ready":           "Golos is ready",
		"notify_source_lost":     "Hotkey source unavailable, falling back",
		"notify_no_activation":   "No working dictation activation path",

		// Panel
		"panel_recording":  "Recording",
		"panel_transcribe": "Transcribing speech...",
		"panel_cleanup":    "Cleaning up text...",
		"panel_result":     "Result",
		"panel_insert":     "Insert",
		"panel_copy":       "Copy",

		// Errors
		"error_recording":      "Recording error",
		"error_recognition":    "Recognition error",
		"error_input":          "Text input error",
		"error_clipboard":      "Could not copy to clipboard",
		"error_hotkey":         "Could not register the hotkey",
		"error_hotkey_capture": "Hotkey selection cancelled",

		// Hotkey dialog
		"dialog_mods_title":  "Hotkey - Modifiers",
		"dialog_mods_text":   "Select modifiers:",
		"dialog_keys_title":  "Hotkey - Key",
		"dialog_keys_text":   "Select a key:",
		"dialog_need_mod":    "at least one modifier is required",
		"dialog_key_dictate": "Dictation key (microphone)",
	},
}

// SetLanguage switches the current UI language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; ok {
		current = lang
	}
}

// Current returns the current UI language.
func Current() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T returns the translation for the given key in the current language.
// Falls back to the key itself if no translation exists.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if table, ok := translations[current]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	// Fallback на русский
	if s, ok := translations[RU][key]; ok {
		return s
	}
	return key
}

// Package dialog предоставляет GUI диалоги для настройки приложения.
package dialog

import (
	"fmt"
	"strings"

	"github.com/ncruces/zenity"

	"golos/internal/config"
	"golos/internal/i18n"
)

// SelectHotkey открывает двухшаговый диалог выбора горячей клавиши.
// Возвращает выбранную конфигурацию или ошибку если пользователь отменил.
func SelectHotkey(current config.HotkeyConfig) (config.HotkeyConfig, error) {
	modOptions := []string{"Ctrl", "Shift", "Alt", "Super (Win/Cmd)"}
	modValues := []config.Modifier{config.ModCtrl, config.ModShift, config.ModAlt, config.ModSuper}

	currentMods := make([]string, 0)
	for _, m := range current.Modifiers {
		for i, v := range modValues {
			if m == v {
				currentMods = append(currentMods, modOptions[i])
			}
		}
	}

	// Специальную клавишу предлагаем отдельным пунктом: у неё нет
	// модификаторов и она работает только в режиме переключения.
	dictateLabel := i18n.T("dialog_key_dictate")

	keyOptions := []string{
		dictateLabel,
		"Space", "Return", "Tab",
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
		"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
		"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	}
	keyValues := []config.Key{
		config.KeyDictate,
		config.KeySpace, config.KeyReturn, config.KeyTab,
		config.KeyA, config.KeyB, config.KeyC, config.KeyD, config.KeyE,
		config.KeyF, config.KeyG, config.KeyH, config.KeyI, config.KeyJ,
		config.KeyK, config.KeyL, config.KeyM, config.KeyN, config.KeyO,
		config.KeyP, config.KeyQ, config.KeyR, config.KeyS, config.KeyT,
		config.KeyU, config.KeyV, config.KeyW, config.KeyX, config.KeyY, config.KeyZ,
		config.KeyF1, config.KeyF2, config.KeyF3, config.KeyF4,
		config.KeyF5, config.KeyF6, config.KeyF7, config.KeyF8,
		config.KeyF9, config.KeyF10, config.KeyF11, config.KeyF12,
	}

	currentKey := strings.ToUpper(string(current.Key))
	switch current.Key {
	case config.KeySpace:
		currentKey = "Space"
	case config.KeyReturn:
		currentKey = "Return"
	case config.KeyTab:
		currentKey = "Tab"
	case config.KeyDictate:
		currentKey = dictateLabel
	}

	selectedKey, err := zenity.List(
		i18n.T("dialog_keys_text"),
		keyOptions,
		zenity.Title(i18n.T("dialog_keys_title")),
		zenity.DefaultItems(currentKey),
	)
	if err != nil {
		return current, err // Пользователь отменил
	}

	var newKey config.Key
	for i, opt := range keyOptions {
		if selectedKey == opt {
			newKey = keyValues[i]
			break
		}
	}

	if newKey == config.KeyDictate {
		return config.HotkeyConfig{Key: newKey}, nil
	}

	selectedMods, err := zenity.ListMultiple(
		i18n.T("dialog_mods_text"),
		modOptions,
		zenity.Title(i18n.T("dialog_mods_title")),
		zenity.DefaultItems(currentMods...),
	)
	if err != nil {
		return current, err
	}
	if len(selectedMods) == 0 {
		return current, fmt.Errorf(i18n.T("dialog_need_mod"))
	}

	newMods := make([]config.Modifier, 0, len(selectedMods))
	for _, s := range selectedMods {
		for i, opt := range modOptions {
			if s == opt {
				newMods = append(newMods, modValues[i])
				break
			}
		}
	}

	return config.HotkeyConfig{Modifiers: newMods, Key: newKey}, nil
}

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	zenity.Info(message, zenity.Title(title))
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title))
}

//go:build linux

package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// Константы evdev (linux/input-event-codes.h).
const (
	evKey = 0x01

	valueUp     = 0
	valueDown   = 1
	valueRepeat = 2
)

// keyCodes - имена клавиш конфигурации -> коды evdev.
var keyCodes = map[string]uint16{
	"space": 57, "return": 28, "tab": 15,
	"q": 16, "w": 17, "e": 18, "r": 19, "t": 20, "y": 21, "u": 22, "i": 23, "o": 24, "p": 25,
	"a": 30, "s": 31, "d": 32, "f": 33, "g": 34, "h": 35, "j": 36, "k": 37, "l": 38,
	"z": 44, "x": 45, "c": 46, "v": 47, "b": 48, "n": 49, "m": 50,
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64, "f7": 65, "f8": 66, "f9": 67, "f10": 68,
	"f11": 87, "f12": 88,
	// KEY_MICMUTE - аппаратная клавиша диктовки/микрофона
	"dictate": 248,
}

// inputEvent - struct input_event для 64-битных платформ.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var printMu sync.Mutex

func emit(line string) {
	printMu.Lock()
	fmt.Println(line)
	printMu.Unlock()
}

// run слушает все клавиатурные устройства и печатает события одной клавиши.
// Какое именно устройство - клавиатура, заранее не известно, поэтому
// открываем все и фильтруем по коду.
func run(key string) error {
	code, ok := keyCodes[key]
	if !ok {
		return fmt.Errorf("неизвестная клавиша %q", key)
	}

	devices, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(devices) == 0 {
		return fmt.Errorf("устройства ввода не найдены")
	}

	opened := 0
	for _, dev := range devices {
		f, err := os.Open(dev)
		if err != nil {
			continue // нет прав на часть устройств - это нормально
		}
		opened++
		go watch(f, code)
	}

	if opened == 0 {
		return fmt.Errorf("нет доступа к /dev/input (нужна группа input)")
	}

	emit("READY")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGTERM, unix.SIGINT)
	<-sigCh
	return nil
}

// watch читает события устройства и печатает переходы нужной клавиши.
func watch(f *os.File, code uint16) {
	defer f.Close()

	var ev inputEvent
	pressed := false
	for {
		if err := binary.Read(f, binary.LittleEndian, &ev); err != nil {
			if err != io.EOF {
				emit(fmt.Sprintf("ERROR: чтение %s: %v", f.Name(), err))
			}
			return
		}
		if ev.Type != evKey || ev.Code != code {
			continue
		}
		switch ev.Value {
		case valueDown:
			if pressed {
				continue
			}
			pressed = true
			emit("KEY_DOWN")
		case valueUp:
			if !pressed {
				continue
			}
			pressed = false
			emit("KEY_UP")
		case valueRepeat:
			// Автоповтор подавляем: одно удержание - одна пара down/up
		}
	}
}

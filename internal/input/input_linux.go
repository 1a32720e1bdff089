//go:build linux

package input

import (
	"fmt"
	"os"
	"os/exec"
)

// linuxTyper печатает текст через wtype (Wayland) или xdotool (X11).
type linuxTyper struct {
	wayland bool
}

func newTyper() (Typer, error) {
	t := &linuxTyper{wayland: os.Getenv("WAYLAND_DISPLAY") != ""}

	tool := "xdotool"
	if t.wayland {
		tool = "wtype"
	}
	if _, err := exec.LookPath(tool); err != nil {
		return nil, fmt.Errorf("%s не установлен: %w", tool, err)
	}
	return t, nil
}

func (t *linuxTyper) Type(text string) error {
	if t.wayland {
		return exec.Command("wtype", text).Run()
	}
	return exec.Command("xdotool", "type", "--clearmodifiers", "--", text).Run()
}

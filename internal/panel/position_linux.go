//go:build linux

package panel

import (
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// positionWindow ставит окно в правый нижний угол экрана и поднимает
// его поверх остальных. Вызывается после появления окна.
func positionWindow(title string, width, height int) {
	// Окну нужно время, чтобы появиться
	time.Sleep(100 * time.Millisecond)

	screenW, screenH := screenSize()
	if screenW == 0 || screenH == 0 {
		return
	}

	x := screenW - width - 20
	y := screenH - height - 60 // место под панель задач

	out, err := exec.Command("xdotool", "search", "--name", title).Output()
	if err != nil {
		return
	}
	ids := strings.Fields(string(out))
	if len(ids) == 0 {
		return
	}
	id := ids[0]

	exec.Command("xdotool", "windowmove", id, strconv.Itoa(x), strconv.Itoa(y)).Run()

	// always-on-top: wmctrl, при его отсутствии xprop
	if err := exec.Command("wmctrl", "-i", "-r", id, "-b", "add,above").Run(); err != nil {
		exec.Command("xprop", "-id", id, "-f", "_NET_WM_STATE", "32a",
			"-set", "_NET_WM_STATE", "_NET_WM_STATE_ABOVE").Run()
	}
}

func screenSize() (width, height int) {
	out, err := exec.Command("xdotool", "getdisplaygeometry").Output()
	if err != nil {
		return 0, 0
	}
	parts := strings.Fields(string(out))
	if len(parts) != 2 {
		return 0, 0
	}
	width, _ = strconv.Atoi(parts[0])
	height, _ = strconv.Atoi(parts[1])
	return width, height
}

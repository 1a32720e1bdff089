//go:build darwin

package ducking

import (
	"fmt"
	"os/exec"
	"strings"
)

// Плееры, которыми умеем управлять через AppleScript.
var knownPlayers = []string{"Spotify", "Music"}

// osaPlayers управляет известными плеерами через osascript.
// Идентификатор плеера - имя приложения.
type osaPlayers struct{}

func newPlayers() PlayerController {
	return &osaPlayers{}
}

func osascript(script string) (string, error) {
	out, err := exec.Command("osascript", "-e", script).Output()
	return strings.TrimSpace(string(out)), err
}

// Playing возвращает запущенные плееры в состоянии playing.
func (o *osaPlayers) Playing() ([]Player, error) {
	var players []Player
	for _, app := range knownPlayers {
		running, err := osascript(fmt.Sprintf(`application %q is running`, app))
		if err != nil || running != "true" {
			continue
		}
		state, err := osascript(fmt.Sprintf(`tell application %q to player state as string`, app))
		if err != nil || state != "playing" {
			continue
		}
		players = append(players, Player{ID: app, CanResume: true})
	}
	return players, nil
}

func (o *osaPlayers) Pause(id string) error {
	_, err := osascript(fmt.Sprintf(`tell application %q to pause`, id))
	return err
}

func (o *osaPlayers) Resume(id string) error {
	_, err := osascript(fmt.Sprintf(`tell application %q to play`, id))
	return err
}

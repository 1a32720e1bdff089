//go:build windows

package ducking

// noPlayers - на Windows управляемых плееров нет: fallback-приглушение
// всегда успешно завершается с пустым списком пауз.
type noPlayers struct{}

func newPlayers() PlayerController {
	return &noPlayers{}
}

func (noPlayers) Playing() ([]Player, error) { return nil, nil }
func (noPlayers) Pause(id string) error      { return nil }
func (noPlayers) Resume(id string) error     { return nil }

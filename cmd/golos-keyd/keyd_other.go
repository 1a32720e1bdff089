//go:build !linux

package main

import "fmt"

// На платформах без evdev низкоуровневый слушатель не работает:
// приложение переключается на shortcut-реестр.
func run(key string) error {
	return fmt.Errorf("низкоуровневый слушатель поддерживается только на Linux")
}

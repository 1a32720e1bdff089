//go:build !linux

package main

import "fmt"

// Вне Linux нативного приглушения нет: приложение использует
// fallback с паузой плееров.
func run(percent int, advanced bool) error {
	return fmt.Errorf("нативное приглушение поддерживается только на Linux")
}

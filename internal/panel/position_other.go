//go:build !linux

package panel

// Позиционирование окна реализовано только для Linux.
func positionWindow(title string, width, height int) {}

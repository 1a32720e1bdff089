// Package input предоставляет ввод текста в активное поле.
package input

// Typer вводит текст в текущее активное поле ввода.
type Typer interface {
	Type(text string) error
}

// New создаёт платформо-специфичный Typer.
func New() (Typer, error) {
	return newTyper()
}

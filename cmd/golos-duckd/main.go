// golos-duckd - нативное приглушение звука на время диктовки.
//
// Приглушает все активные аудиопотоки, печатает DUCKING_STARTED и ждёт
// сигнала завершения. По SIGTERM/SIGINT восстанавливает исходную
// громкость и печатает DUCKING_STOPPED. При ошибке печатает
// "ERROR: <сообщение>" и завершается, ничего не трогая.
package main

import (
	"flag"
	"fmt"
	"os"
)

// duckPercent - уровень приглушения -> процент от исходной громкости.
var duckPercent = map[string]int{
	"min":     75,
	"default": 50,
	"mid":     35,
	"max":     15,
}

func main() {
	level := flag.String("level", "default", "уровень приглушения: min, default, mid, max")
	advanced := flag.Bool("advanced", false, "полное отключение звука вместо приглушения")
	flag.Parse()

	percent, ok := duckPercent[*level]
	if !ok {
		fmt.Printf("ERROR: неизвестный уровень %q\n", *level)
		os.Exit(1)
	}

	if err := run(percent, *advanced); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

// Golos - приложение для голосового ввода текста.
//
// Работает в системном трее. Диктовка активируется горячей клавишей
// в одном из двух режимов: переключение нажатием или push-to-talk.
// На время записи звук других приложений приглушается.
package main

import (
	"log"
	"os"

	"golos/internal/app"
	"golos/internal/hotkey"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("Golos %s запускается...", Version)

	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	hotkey.RunOnMainThread(run)
}

func run() {
	application, err := app.New()
	if err != nil {
		log.Printf("Ошибка инициализации: %v", err)
		os.Exit(1)
	}

	log.Println("Приложение запущено.")
	application.Run()
}

// golos-keyd - низкоуровневый слушатель одной клавиши.
//
// Запускается приложением как helper-процесс и печатает построчный
// протокол в stdout: READY после старта, затем KEY_DOWN / KEY_UP на
// каждое физическое нажатие и отпускание. Автоповтор подавляется.
// При ошибке печатает "ERROR: <сообщение>" и завершается.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	key := flag.String("key", "", "имя клавиши (space, a..z, f1..f12, dictate)")
	flag.Parse()

	if *key == "" {
		fmt.Println("ERROR: не указана клавиша (-key)")
		os.Exit(1)
	}

	if err := run(*key); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

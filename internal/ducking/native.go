package ducking

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Протокол helper-процесса golos-duckd: ровно одна строка-статус.
const (
	lineStarted = "DUCKING_STARTED"
	lineStopped = "DUCKING_STOPPED"
	lineError   = "ERROR:"
)

// duckHelperName - имя бинарника нативного приглушения.
const duckHelperName = "golos-duckd"

// startTimeout ограничивает ожидание подтверждения от helper-процесса.
const startTimeout = 3 * time.Second

// nativeHelper запускает golos-duckd и ждёт от него DUCKING_STARTED.
// Helper живёт пока идёт диктовка и восстанавливает громкость по SIGTERM.
type nativeHelper struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

func newNativeHelper() *nativeHelper {
	return &nativeHelper{}
}

func (n *nativeHelper) available() bool {
	return helperPath(duckHelperName) != ""
}

func (n *nativeHelper) start(opts Options) error {
	path := helperPath(duckHelperName)
	if path == "" {
		return fmt.Errorf("%s не найден", duckHelperName)
	}

	args := []string{"-level", string(opts.Level)}
	if opts.Advanced {
		args = append(args, "-advanced")
	}

	cmd := exec.Command(path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	// Ждём строку-подтверждение, но не дольше startTimeout
	lineCh := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(stdout)
		if scanner.Scan() {
			lineCh <- strings.TrimSpace(scanner.Text())
		}
		close(lineCh)
	}()

	select {
	case line, ok := <-lineCh:
		if !ok {
			cmd.Process.Kill()
			go cmd.Wait()
			return fmt.Errorf("%s завершился без подтверждения", duckHelperName)
		}
		if strings.HasPrefix(line, lineError) {
			cmd.Process.Kill()
			go cmd.Wait()
			return fmt.Errorf("%s: %s", duckHelperName, strings.TrimSpace(strings.TrimPrefix(line, lineError)))
		}
		if line != lineStarted {
			cmd.Process.Kill()
			go cmd.Wait()
			return fmt.Errorf("%s: неожиданный ответ %q", duckHelperName, line)
		}
	case <-time.After(startTimeout):
		cmd.Process.Kill()
		go cmd.Wait()
		return fmt.Errorf("%s: нет подтверждения за %s", duckHelperName, startTimeout)
	}

	n.mu.Lock()
	n.cmd = cmd
	n.mu.Unlock()
	return nil
}

// stop посылает helper'у сигнал завершения и не ждёт подтверждения.
func (n *nativeHelper) stop() {
	n.mu.Lock()
	cmd := n.cmd
	n.cmd = nil
	n.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		log.Printf("SIGTERM %s: %v", duckHelperName, err)
		cmd.Process.Kill()
	}
	go cmd.Wait() // только чтобы не оставить зомби
}

// helperPath ищет helper-бинарник рядом с приложением, затем в PATH.
func helperPath(name string) string {
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return ""
}

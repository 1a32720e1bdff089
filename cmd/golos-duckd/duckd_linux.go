//go:build linux

package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// sinkInput - один аудиопоток PulseAudio/PipeWire с исходным состоянием.
type sinkInput struct {
	id      string
	volume  int // процент до приглушения
	wasMute bool
}

var (
	inputRe  = regexp.MustCompile(`^Sink Input #(\d+)`)
	volumeRe = regexp.MustCompile(`(\d+)%`)
)

// run приглушает потоки через pactl и восстанавливает их по сигналу.
func run(percent int, advanced bool) error {
	inputs, err := listSinkInputs()
	if err != nil {
		return err
	}

	var touched []sinkInput
	for _, in := range inputs {
		if advanced {
			if in.wasMute {
				continue
			}
			if err := pactl("set-sink-input-mute", in.id, "1"); err != nil {
				continue // поток мог исчезнуть между list и set
			}
		} else {
			target := in.volume * percent / 100
			if err := pactl("set-sink-input-volume", in.id, strconv.Itoa(target)+"%"); err != nil {
				continue
			}
		}
		touched = append(touched, in)
	}

	fmt.Println("DUCKING_STARTED")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGTERM, unix.SIGINT)
	<-sigCh

	// Восстанавливаем только то, что трогали сами
	for _, in := range touched {
		if advanced {
			pactl("set-sink-input-mute", in.id, "0")
		} else {
			pactl("set-sink-input-volume", in.id, strconv.Itoa(in.volume)+"%")
		}
	}

	fmt.Println("DUCKING_STOPPED")
	return nil
}

// listSinkInputs разбирает вывод pactl list sink-inputs.
func listSinkInputs() ([]sinkInput, error) {
	out, err := exec.Command("pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl недоступен: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

func parseSinkInputs(out string) []sinkInput {
	var inputs []sinkInput
	var cur *sinkInput
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := inputRe.FindStringSubmatch(trimmed); m != nil {
			if cur != nil {
				inputs = append(inputs, *cur)
			}
			cur = &sinkInput{id: m[1], volume: -1}
			continue
		}
		if cur == nil {
			continue
		}
		if strings.HasPrefix(trimmed, "Mute:") {
			cur.wasMute = strings.Contains(trimmed, "yes")
		}
		if cur.volume < 0 && strings.HasPrefix(trimmed, "Volume:") {
			if m := volumeRe.FindStringSubmatch(trimmed); m != nil {
				if v, err := strconv.Atoi(m[1]); err == nil {
					cur.volume = v
				}
			}
		}
	}
	if cur != nil {
		inputs = append(inputs, *cur)
	}

	// Потоки без распознанной громкости пропускаем
	valid := inputs[:0]
	for _, in := range inputs {
		if in.volume >= 0 {
			valid = append(valid, in)
		}
	}
	return valid
}

func pactl(args ...string) error {
	return exec.Command("pactl", args...).Run()
}

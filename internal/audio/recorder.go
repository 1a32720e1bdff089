// Package audio предоставляет запись аудио с микрофона.
package audio

import (
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate - частота дискретизации, ожидаемая распознаванием.
	SampleRate = 16000
	// Channels - количество каналов (mono).
	Channels = 1
	// FramesPerBuffer - размер буфера чтения.
	FramesPerBuffer = 1024
	// MinSamples - минимальная длина записи (200ms при 16kHz).
	// Короче этого распознавание отказывает, добиваем тишиной.
	MinSamples = SampleRate / 5
)

// pollInterval - пауза между опросами потока, когда данных нет.
const pollInterval = 10 * time.Millisecond

// Recorder записывает аудио с микрофона.
type Recorder struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []float32
	samples []float32
	running bool
	done    chan struct{}
}

// New инициализирует PortAudio и создаёт Recorder.
func New() (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return &Recorder{buf: make([]float32, FramesPerBuffer)}, nil
}

// Start открывает входной поток и начинает накапливать сэмплы.
// Повторный вызов при активной записи - no-op.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(Channels, 0, SampleRate, FramesPerBuffer, r.buf)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	r.stream = stream
	r.samples = make([]float32, 0, SampleRate*30)
	r.done = make(chan struct{})
	r.running = true

	go r.loop()
	return nil
}

func (r *Recorder) loop() {
	defer close(r.done)

	for {
		r.mu.Lock()
		running, stream := r.running, r.stream
		r.mu.Unlock()
		if !running || stream == nil {
			return
		}

		available, err := stream.AvailableToRead()
		if err != nil || available == 0 {
			time.Sleep(pollInterval)
			continue
		}
		if err := stream.Read(); err != nil {
			time.Sleep(pollInterval)
			continue
		}

		r.mu.Lock()
		if r.running {
			r.samples = append(r.samples, r.buf...)
		}
		r.mu.Unlock()
	}
}

// Stop останавливает запись и возвращает накопленные сэмплы.
// Слишком короткая запись дополняется тишиной до MinSamples.
func (r *Recorder) Stop() []float32 {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	stream := r.stream
	r.stream = nil
	samples := r.samples
	r.samples = nil
	done := r.done
	r.mu.Unlock()

	// Дожидаемся loop, чтобы закрыть поток без гонки
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	if stream != nil {
		stream.Stop()
		stream.Close()
	}

	if len(samples) < MinSamples {
		samples = append(samples, make([]float32, MinSamples-len(samples))...)
	}
	return samples
}

// IsRecording сообщает, идёт ли запись.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Samples возвращает копию накопленных сэмплов, не останавливая запись.
func (r *Recorder) Samples() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || len(r.samples) == 0 {
		return nil
	}
	out := make([]float32, len(r.samples))
	copy(out, r.samples)
	return out
}

// Close останавливает запись и освобождает PortAudio.
func (r *Recorder) Close() {
	r.Stop()
	portaudio.Terminate()
}

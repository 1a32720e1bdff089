package speech

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// sampleRate - частота, в которой recorder отдаёт сэмплы.
const sampleRate = 16000

// HTTPRecognizer отправляет аудио на whisper-server (/inference).
// Сервер держит модель в памяти, приложению не нужны cgo-биндинги.
type HTTPRecognizer struct {
	baseURL string
	client  *http.Client
}

// inferenceResponse - JSON-ответ whisper-server.
type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// NewHTTP создаёт распознаватель поверх whisper-server по указанному URL.
func NewHTTP(baseURL string) *HTTPRecognizer {
	return &HTTPRecognizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Name возвращает название движка.
func (h *HTTPRecognizer) Name() string {
	return "whisper-http"
}

// Transcribe кодирует сэмплы в WAV и отправляет на сервер.
func (h *HTTPRecognizer) Transcribe(samples []float32, lang string) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if err := writeWAV(part, samples); err != nil {
		return "", err
	}
	if lang != "" {
		w.WriteField("language", lang)
	}
	w.WriteField("response_format", "json")
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, h.baseURL+"/inference", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper-server недоступен: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper-server: статус %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result inferenceResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("некорректный ответ whisper-server: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("whisper-server: %s", result.Error)
	}

	return strings.TrimSpace(result.Text), nil
}

// Close у HTTP-клиента освобождать нечего.
func (h *HTTPRecognizer) Close() {}

// writeWAV пишет сэмплы как WAV PCM16 mono 16kHz.
func writeWAV(w io.Writer, samples []float32) error {
	dataSize := len(samples) * 2

	var header bytes.Buffer
	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, uint32(36+dataSize))
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	binary.Write(&header, binary.LittleEndian, uint32(16))
	binary.Write(&header, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&header, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(&header, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&header, binary.LittleEndian, uint16(16))           // bits per sample
	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, uint32(dataSize))
	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}

	pcm := make([]byte, dataSize)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s*math.MaxInt16)))
	}
	_, err := w.Write(pcm)
	return err
}

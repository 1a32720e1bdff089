package speech

import (
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribeSendsWAVAndParsesText(t *testing.T) {
	var gotLang string
	var gotWAV []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/inference", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		gotLang = r.FormValue("language")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotWAV, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Write([]byte(`{"text": " привет, мир "}`))
	}))
	defer srv.Close()

	rec := NewHTTP(srv.URL)
	text, err := rec.Transcribe(make([]float32, 3200), "ru")
	require.NoError(t, err)

	assert.Equal(t, "привет, мир", text)
	assert.Equal(t, "ru", gotLang)

	// Заголовок WAV: RIFF/WAVE, mono, 16kHz, 16 бит
	require.GreaterOrEqual(t, len(gotWAV), 44)
	assert.Equal(t, "RIFF", string(gotWAV[0:4]))
	assert.Equal(t, "WAVE", string(gotWAV[8:12]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(gotWAV[22:24]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(gotWAV[24:28]))
	assert.Equal(t, 44+3200*2, len(gotWAV))
}

func TestTranscribeEmptyInputSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	rec := NewHTTP(srv.URL)
	text, err := rec.Transcribe(nil, "ru")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.False(t, called)
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := NewHTTP(srv.URL)
	_, err := rec.Transcribe(make([]float32, 100), "auto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestTranscribeErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "audio too short"}`))
	}))
	defer srv.Close()

	rec := NewHTTP(srv.URL)
	_, err := rec.Transcribe(make([]float32, 100), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio too short")
}

func TestTranscribeUnreachableServer(t *testing.T) {
	rec := NewHTTP("http://127.0.0.1:1")
	_, err := rec.Transcribe(make([]float32, 100), "ru")
	require.Error(t, err)
}

//go:build linux

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePactlOutput = `Sink Input #42
	Driver: protocol-native.c
	Owner Module: 12
	Client: 87
	Sink: 1
	Sample Specification: float32le 2ch 44100Hz
	Mute: no
	Volume: front-left: 52428 /  80% / -5.81 dB,   front-right: 52428 /  80% / -5.81 dB
	        balance 0.00
	Properties:
		application.name = "Spotify"

Sink Input #57
	Driver: protocol-native.c
	Mute: yes
	Volume: front-left: 65536 / 100% / 0.00 dB,   front-right: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "Firefox"
`

func TestParseSinkInputs(t *testing.T) {
	inputs := parseSinkInputs(samplePactlOutput)
	require.Len(t, inputs, 2)

	assert.Equal(t, "42", inputs[0].id)
	assert.Equal(t, 80, inputs[0].volume)
	assert.False(t, inputs[0].wasMute)

	assert.Equal(t, "57", inputs[1].id)
	assert.Equal(t, 100, inputs[1].volume)
	assert.True(t, inputs[1].wasMute)
}

func TestParseSinkInputsEmpty(t *testing.T) {
	assert.Empty(t, parseSinkInputs(""))
}

func TestDuckPercentLevels(t *testing.T) {
	assert.Equal(t, 75, duckPercent["min"])
	assert.Equal(t, 50, duckPercent["default"])
	assert.Equal(t, 35, duckPercent["mid"])
	assert.Equal(t, 15, duckPercent["max"])
}

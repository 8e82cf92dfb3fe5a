package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBand(t *testing.T) {
	tests := []struct {
		input   string
		want    Band
		wantErr bool
	}{
		{"2.4GHz", Band24, false},
		{" 2.4ghz ", Band24, false},
		{"2g", Band24, false},
		{"5GHz", Band5, false},
		{"5", Band5, false},
		{"", BandNone, true},
		{"6GHz", BandNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBand(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanSample_Accessors(t *testing.T) {
	zero, mhz, khz := 0.0, 2437.0, 5_180_000.0
	sig := -55

	s := ScanSample{Freq: &mhz, Frequency: &khz, Signal: &sig}
	assert.Equal(t, mhz, *s.FrequencyValue())
	assert.Equal(t, -55, s.SignalDBm())

	s = ScanSample{Freq: &zero, Frequency: &khz}
	assert.Equal(t, khz, *s.FrequencyValue(), "zero freq falls back to frequency")
	assert.Equal(t, NoiseFloorDBm, s.SignalDBm())

	assert.Nil(t, ScanSample{}.FrequencyValue())
}

func TestDataset_SortedBySignalIsStable(t *testing.T) {
	d := Dataset{
		{SSID: "a", Signal: -50},
		{SSID: "b", Signal: -70},
		{SSID: "c", Signal: -50},
	}

	sorted := d.SortedBySignal()
	assert.Equal(t, []string{"b", "a", "c"}, []string{sorted[0].SSID, sorted[1].SSID, sorted[2].SSID})
	assert.Equal(t, "a", d[0].SSID, "input is not reordered")
}

func TestConnectionInfo_Connected(t *testing.T) {
	assert.True(t, ConnectionInfo{SSID: "home"}.Connected())
	assert.False(t, ConnectionInfo{SSID: UnknownSSID}.Connected())
	assert.False(t, ConnectionInfo{SSID: "  "}.Connected())
}

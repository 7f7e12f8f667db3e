package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVitals_LabeledBlock(t *testing.T) {
	sample := ExtractVitals("HR: 140 bpm, BP: 90/60 mmHg, RR: 28, SpO2: 91%, Temp: 36.5°C")
	require.NotNil(t, sample)

	require.NotNil(t, sample.HeartRate)
	assert.Equal(t, 140, *sample.HeartRate)
	require.NotNil(t, sample.Systolic)
	assert.Equal(t, 90, *sample.Systolic)
	require.NotNil(t, sample.Diastolic)
	assert.Equal(t, 60, *sample.Diastolic)
	require.NotNil(t, sample.RespiratoryRate)
	assert.Equal(t, 28, *sample.RespiratoryRate)
	require.NotNil(t, sample.SpO2)
	assert.Equal(t, 91, *sample.SpO2)
	require.NotNil(t, sample.Temperature)
	assert.Equal(t, 36.5, *sample.Temperature)
}

func TestExtractVitals_NoSignals(t *testing.T) {
	assert.Nil(t, ExtractVitals("The patient seems stable."))
	assert.Nil(t, ExtractVitals(""))
}

func TestExtractVitals_BulletsAndParentheses(t *testing.T) {
	text := "Current observations:\n- HR: 102\n- BP: 130/85\n(the pulse was 110 ten minutes ago)"
	sample := ExtractVitals(text)
	require.NotNil(t, sample)
	require.NotNil(t, sample.HeartRate)
	// First match wins per signal.
	assert.Equal(t, 102, *sample.HeartRate)
	require.NotNil(t, sample.Systolic)
	assert.Equal(t, 130, *sample.Systolic)
	assert.Equal(t, 85, *sample.Diastolic)
	assert.Nil(t, sample.SpO2)
	assert.Nil(t, sample.Temperature)
}

func TestExtractVitals_Synonyms(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		check func(t *testing.T, s *Sample)
	}{
		{"pulse", "Pulse 88, regular rhythm", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.HeartRate)
			assert.Equal(t, 88, *s.HeartRate)
		}},
		{"heart rate", "Heart Rate: 72", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.HeartRate)
			assert.Equal(t, 72, *s.HeartRate)
		}},
		{"blood pressure prose", "Blood pressure is 120/80 today", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.Systolic)
			assert.Equal(t, 120, *s.Systolic)
			assert.Equal(t, 80, *s.Diastolic)
		}},
		{"bare mmhg", "reading of 110/70 mmHg at triage", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.Systolic)
			assert.Equal(t, 110, *s.Systolic)
		}},
		{"sats", "sats 94% on room air", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.SpO2)
			assert.Equal(t, 94, *s.SpO2)
		}},
		{"oxygen saturation", "Oxygen saturation: 97%", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.SpO2)
			assert.Equal(t, 97, *s.SpO2)
		}},
		{"respirations", "Respirations: 22 per minute", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.RespiratoryRate)
			assert.Equal(t, 22, *s.RespiratoryRate)
		}},
		{"temp no unit", "Temp 38.2", func(t *testing.T, s *Sample) {
			require.NotNil(t, s.Temperature)
			assert.Equal(t, 38.2, *s.Temperature)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ExtractVitals(tc.text)
			require.NotNil(t, s)
			tc.check(t, s)
		})
	}
}

func TestExtractVitals_ScatteredProse(t *testing.T) {
	text := "The pulse has climbed to 130 while saturation has dropped to 88%. " +
		"Breathing looks laboured at 32 breaths per minute."
	sample := ExtractVitals(text)
	require.NotNil(t, sample)
	require.NotNil(t, sample.HeartRate)
	assert.Equal(t, 130, *sample.HeartRate)
	require.NotNil(t, sample.SpO2)
	assert.Equal(t, 88, *sample.SpO2)
	require.NotNil(t, sample.RespiratoryRate)
	assert.Equal(t, 32, *sample.RespiratoryRate)
	assert.Nil(t, sample.Systolic)
}

func TestExtractVitals_PartialSample(t *testing.T) {
	sample := ExtractVitals("Only the temperature was taken: 37.9°C.")
	require.NotNil(t, sample)
	require.NotNil(t, sample.Temperature)
	assert.Equal(t, 37.9, *sample.Temperature)
	assert.Nil(t, sample.HeartRate)
	assert.Nil(t, sample.Systolic)
	assert.Nil(t, sample.RespiratoryRate)
	assert.Nil(t, sample.SpO2)
}

func TestExtractScore(t *testing.T) {
	score, ok := ExtractScore("Final Score: 7/10")
	require.True(t, ok)
	assert.InDelta(t, 70, score, 0.001)

	score, ok = ExtractScore("Score: 85%")
	require.True(t, ok)
	assert.InDelta(t, 85, score, 0.001)

	score, ok = ExtractScore("You did well. Score: 8 out of 10, keep practicing.")
	require.True(t, ok)
	assert.InDelta(t, 80, score, 0.001)

	_, ok = ExtractScore("no mention")
	assert.False(t, ok)

	_, ok = ExtractScore("the score will be announced later")
	assert.False(t, ok)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveOpen(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	window := &RegistrationWindow{IsOpen: true, StartDate: &start, EndDate: &end}

	assert.True(t, window.EffectiveOpen(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, window.EffectiveOpen(start))
	assert.True(t, window.EffectiveOpen(end))
	assert.False(t, window.EffectiveOpen(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, window.EffectiveOpen(start.Add(-time.Second)))

	window.IsOpen = false
	assert.False(t, window.EffectiveOpen(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))

	var missing *RegistrationWindow
	assert.False(t, missing.EffectiveOpen(start))
	assert.False(t, (&RegistrationWindow{IsOpen: true}).EffectiveOpen(start))
}

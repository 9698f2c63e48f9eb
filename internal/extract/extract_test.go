package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	amount, ok := Amount("Supermercado: $125.50")
	require.True(t, ok)
	assert.Equal(t, 125.50, amount)

	amount, ok = Amount("45")
	require.True(t, ok)
	assert.Equal(t, 45.0, amount)

	_, ok = Amount("sin cifras aquí")
	assert.False(t, ok)
}

func TestTemperature(t *testing.T) {
	c, text, ok := Temperature("temperatura de 37,5 grados")
	require.True(t, ok)
	assert.Equal(t, 37.5, c)
	assert.Equal(t, "37.5", text)

	c, _, ok = Temperature("temperatura 38.2")
	require.True(t, ok)
	assert.Equal(t, 38.2, c)

	_, _, ok = Temperature("fiebre alta")
	assert.False(t, ok)
}

func TestBloodPressure(t *testing.T) {
	sys, dia, text, ok := BloodPressure("presión de 130/85 esta mañana")
	require.True(t, ok)
	assert.Equal(t, 130, sys)
	assert.Equal(t, 85, dia)
	assert.Equal(t, "130/85", text)

	_, _, _, ok = BloodPressure("presión alta")
	assert.False(t, ok)
}

func TestOxygen(t *testing.T) {
	p, ok := Oxygen("oxígeno al 96%")
	require.True(t, ok)
	assert.Equal(t, 96, p)

	p, ok = Oxygen("oxigeno 94 por ciento")
	require.True(t, ok)
	assert.Equal(t, 94, p)
}

func TestSleepHours(t *testing.T) {
	h, raw, ok := SleepHours("Durmió 8 horas seguidas")
	require.True(t, ok)
	assert.Equal(t, 8.0, h)
	assert.Equal(t, "8", raw)

	h, _, ok = SleepHours("durmió 6,5 hs")
	require.True(t, ok)
	assert.Equal(t, 6.5, h)

	_, _, ok = SleepHours("durmió bien")
	assert.False(t, ok)
}

func TestParseTaggedVariants(t *testing.T) {
	v := Parse("presión de 120/80")
	assert.Equal(t, KindBloodPressure, v.Kind)
	assert.Equal(t, 120, v.Systolic)
	assert.Equal(t, 80, v.Diastolic)

	v = Parse("temperatura 36,8")
	assert.Equal(t, KindTemperature, v.Kind)
	assert.Equal(t, 36.8, v.Celsius)

	v = Parse("oxígeno 97%")
	assert.Equal(t, KindOxygen, v.Kind)
	assert.Equal(t, 97, v.Percent)

	v = Parse("durmió 7 horas")
	assert.Equal(t, KindSleepHours, v.Kind)
	assert.Equal(t, 7.0, v.Hours)

	v = Parse("caminó hasta la plaza")
	assert.Equal(t, KindUnrecognized, v.Kind)
	assert.Equal(t, "caminó hasta la plaza", v.Raw)
}

func TestParseTemperaturePrecedesBloodPressure(t *testing.T) {
	// When a value mentions both vitals, the temperature reading wins.
	v := Parse("temperatura 36,5 y presión normal")
	assert.Equal(t, KindTemperature, v.Kind)
	assert.Equal(t, 36.5, v.Celsius)
}

func TestStatusFromConfidence(t *testing.T) {
	assert.Equal(t, StatusNormal, StatusFromConfidence(0.85))
	assert.Equal(t, StatusNormal, StatusFromConfidence(0.8))
	assert.Equal(t, StatusModerate, StatusFromConfidence(0.6))
	assert.Equal(t, StatusModerate, StatusFromConfidence(0.5))
	assert.Equal(t, StatusLow, StatusFromConfidence(0.2))
}

func TestStatusFromSleepHours(t *testing.T) {
	assert.Equal(t, StatusNormal, StatusFromSleepHours(8))
	assert.Equal(t, StatusNormal, StatusFromSleepHours(7))
	assert.Equal(t, StatusModerate, StatusFromSleepHours(6.5))
	assert.Equal(t, StatusLow, StatusFromSleepHours(4))
}

func TestRating(t *testing.T) {
	assert.Equal(t, 9, Rating(0.9))
	assert.Equal(t, 7, Rating(0.65))
	assert.Equal(t, 6, Rating(0.64))
	assert.Equal(t, 0, Rating(0))
	assert.Equal(t, 10, Rating(1))
	// out-of-range confidences still map into [0,10]
	assert.Equal(t, 10, Rating(1.4))
	assert.Equal(t, 0, Rating(-0.3))
}

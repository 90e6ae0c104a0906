package balls

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func freshBall(ct ClickType) Ball {
	return Ball{ID: 1, ClickType: ct, Status: Active}
}

func TestClassify_SingleFirstClickPops(t *testing.T) {
	b, outcome := Classify(freshBall(Single), t0)

	assert.Equal(t, Pop, outcome)
	assert.Equal(t, PopPoints, outcome.Points())
	assert.Equal(t, Popping, b.Status)
	assert.Equal(t, 0, b.ClickCount)
	assert.Equal(t, t0, b.LastClickTime)
}

func TestClassify_SingleRapidSecondClickMismatches(t *testing.T) {
	b := freshBall(Single)
	b.ClickCount = 1
	b.LastClickTime = t0

	got, outcome := Classify(b, t0.Add(120*time.Millisecond))

	assert.Equal(t, Mismatch, outcome)
	assert.Equal(t, 0, outcome.Points())
	assert.Equal(t, Active, got.Status)
	assert.Equal(t, 0, got.ClickCount)
	assert.Equal(t, t0.Add(120*time.Millisecond), got.LastClickTime)
}

func TestClassify_DoubleClickSequence(t *testing.T) {
	b, outcome := Classify(freshBall(Double), t0)
	require.Equal(t, Progress, outcome)
	assert.Equal(t, 1, b.ClickCount)
	assert.Equal(t, Active, b.Status)

	b, outcome = Classify(b, t0.Add(150*time.Millisecond))
	assert.Equal(t, Pop, outcome)
	assert.Equal(t, Popping, b.Status)
	assert.Equal(t, 0, b.ClickCount)
}

func TestClassify_DoubleSlowSecondClickRestartsSequence(t *testing.T) {
	b, _ := Classify(freshBall(Double), t0)

	b, outcome := Classify(b, t0.Add(400*time.Millisecond))

	// Outside the window the click starts a new sequence instead of popping.
	assert.Equal(t, Progress, outcome)
	assert.Equal(t, Active, b.Status)
	assert.Equal(t, 1, b.ClickCount)
	assert.Equal(t, 0, outcome.Points())
}

func TestClassify_DoubleRapidThirdClickResets(t *testing.T) {
	b := freshBall(Double)
	b.ClickCount = 0
	b.LastClickTime = t0

	got, outcome := Classify(b, t0.Add(100*time.Millisecond))

	assert.Equal(t, Reset, outcome)
	assert.Equal(t, 0, got.ClickCount)
	assert.Equal(t, Active, got.Status)
}

func TestClassify_ExactWindowIsNeverQualifying(t *testing.T) {
	tests := []struct {
		name      string
		clickType ClickType
		count     int
	}{
		{"single after reset", Single, 0},
		{"single second click", Single, 1},
		{"double first click", Double, 0},
		{"double second click", Double, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := freshBall(tt.clickType)
			b.ClickCount = tt.count
			b.LastClickTime = t0

			got, outcome := Classify(b, t0.Add(DoubleClickWindow))

			assert.Equal(t, Reset, outcome)
			assert.Equal(t, 0, got.ClickCount)
		})
	}
}

func TestClassify_PoppingBallIgnored(t *testing.T) {
	b := freshBall(Double)
	b.Status = Popping
	b.ClickCount = 1
	b.LastClickTime = t0

	got, outcome := Classify(b, t0.Add(50*time.Millisecond))

	assert.Equal(t, Ignored, outcome)
	assert.Equal(t, b, got)
}

func TestClassify_Deterministic(t *testing.T) {
	b := freshBall(Double)
	b.ClickCount = 1
	b.LastClickTime = t0
	now := t0.Add(200 * time.Millisecond)

	first, o1 := Classify(b, now)
	for i := 0; i < 10; i++ {
		got, o := Classify(b, now)
		assert.Equal(t, o1, o)
		assert.Equal(t, first, got)
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "pop", Pop.String())
	assert.Equal(t, "mismatch", Mismatch.String())
	assert.Equal(t, "progress", Progress.String())
	assert.Equal(t, "reset", Reset.String())
	assert.Equal(t, "ignored", Ignored.String())
}

package mascot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForScore(t *testing.T) {
	tests := []struct {
		score   int
		emotion Emotion
		message string
	}{
		{100, Excited, "やったね！100てんだよ！すごいよ！"},
		{95, Excited, "もうすこし！がんばれ～！"},
		{90, Excited, "もうすこし！がんばれ～！"},
		{85, Happy, "あとちょっと！がんばって！"},
		{80, Happy, "あとちょっと！がんばって！"},
		{75, Happy, "いいかんじ！はんぶんいじょうできたよ！"},
		{60, Happy, "いいかんじ！はんぶんいじょうできたよ！"},
		{55, Neutral, "このちょうしでがんばろう！クリックとダブルクリックのコツをつかんできたね！"},
		{40, Neutral, "このちょうしでがんばろう！クリックとダブルクリックのコツをつかんできたね！"},
		{35, Neutral, "いいスタートだよ！どんどんクリックしていこう！"},
		{20, Neutral, "いいスタートだよ！どんどんクリックしていこう！"},
		{15, Neutral, "そのちょうし！クリックとダブルクリックがじょうずになってきたね！"},
		{5, Neutral, "そのちょうし！クリックとダブルクリックがじょうずになってきたね！"},
	}

	for _, tt := range tests {
		mood, ok := ForScore(tt.score)
		assert.True(t, ok, "score %d", tt.score)
		assert.Equal(t, tt.emotion, mood.Emotion, "score %d", tt.score)
		assert.Equal(t, tt.message, mood.Message, "score %d", tt.score)
	}
}

func TestForScore_ZeroKeepsCurrent(t *testing.T) {
	_, ok := ForScore(0)
	assert.False(t, ok)
}

func TestInitial(t *testing.T) {
	m := Initial()
	assert.Equal(t, Neutral, m.Emotion)
	assert.Equal(t, InitialMessage, m.Message)
}

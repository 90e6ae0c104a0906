// Package mascot maps the score to the mascot's face and speech bubble.
package mascot

type Emotion string

const (
	Neutral = Emotion("neutral")
	Happy   = Emotion("happy")
	Excited = Emotion("excited")
)

const (
	InitialMessage = "がんばってね！あおいボールはクリック、あかいボールはダブルクリックだよ！"
	MismatchHint   = "あおいボールはクリックだけだよ！"
	WarningText    = "みぎクリックしないでね"

	CelebrationTitle = "おめでとう！"
	CelebrationScore = "100点だよ！！"
)

const WinScore = 100

type Mood struct {
	Emotion Emotion `json:"emotion"`
	Message string  `json:"message"`
}

func Initial() Mood {
	return Mood{Emotion: Neutral, Message: InitialMessage}
}

type threshold struct {
	min  int
	mood Mood
}

// Highest first; the first qualifying entry wins.
var thresholds = []threshold{
	{WinScore, Mood{Excited, "やったね！100てんだよ！すごいよ！"}},
	{90, Mood{Excited, "もうすこし！がんばれ～！"}},
	{80, Mood{Happy, "あとちょっと！がんばって！"}},
	{60, Mood{Happy, "いいかんじ！はんぶんいじょうできたよ！"}},
	{40, Mood{Neutral, "このちょうしでがんばろう！クリックとダブルクリックのコツをつかんできたね！"}},
	{20, Mood{Neutral, "いいスタートだよ！どんどんクリックしていこう！"}},
	{1, Mood{Neutral, "そのちょうし！クリックとダブルクリックがじょうずになってきたね！"}},
}

// ForScore returns the mood for score. ok is false for a score of zero (or
// below), where the current mood is kept as it is.
func ForScore(score int) (mood Mood, ok bool) {
	for _, t := range thresholds {
		if score >= t.min {
			return t.mood, true
		}
	}
	return Mood{}, false
}

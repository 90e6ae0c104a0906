package balls

import (
	"math/rand"

	"github.com/samber/lo"
)

const (
	PerType = 10
	Total   = PerType * 2

	// Balls are kept away from the board edges.
	MinX  = 10.0
	SpanX = 80.0
	MinY  = 10.0
	SpanY = 70.0
)

var Palettes = map[ClickType][]string{
	Single: {"#87CEEB", "#4169E1", "#1E90FF", "#00BFFF"},
	Double: {"#FF69B4", "#FF6347", "#FFA500", "#FF4500"},
}

// NewSet returns a fresh board: ids 0..9 are single-click balls, 10..19 double-click.
func NewSet() []Ball {
	return lo.Times(Total, func(i int) Ball {
		clickType := Single
		if i >= PerType {
			clickType = Double
		}
		return Ball{
			ID:        i,
			X:         rand.Float64()*SpanX + MinX,
			Y:         rand.Float64()*SpanY + MinY,
			Color:     lo.Sample(Palettes[clickType]),
			ClickType: clickType,
			Status:    Active,
		}
	})
}

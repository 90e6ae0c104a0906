package balls

import "time"

type ClickType string

const (
	Single = ClickType("single")
	Double = ClickType("double")
)

type Status string

const (
	Active  = Status("active")
	Popping = Status("popping")
)

// Ball is one circle on the board. X and Y are percentages of the board size.
type Ball struct {
	ID            int       `json:"id"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Color         string    `json:"color"`
	ClickType     ClickType `json:"clickType"`
	Status        Status    `json:"status"`
	ClickCount    int       `json:"-"`
	LastClickTime time.Time `json:"-"`
}

package bubble

import (
	"fmt"
	"strings"
)

// Side identifies the canvas edge the bubble hugs.
type Side int

const (
	SideLeft Side = iota
	SideTop
	SideRight
	SideBottom
)

var sideNames = []string{"left", "top", "right", "bottom"}

func (s Side) String() string {
	if s < SideLeft || s > SideBottom {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Valid reports whether s is one of the four edges.
func (s Side) Valid() bool {
	return s >= SideLeft && s <= SideBottom
}

// Sides lists the edges in toolbar order.
func Sides() []Side {
	return []Side{SideLeft, SideTop, SideRight, SideBottom}
}

// ParseSide converts a side name such as "left" into a Side.
func ParseSide(name string) (Side, error) {
	spec := strings.ToLower(strings.TrimSpace(name))
	for i, n := range sideNames {
		if n == spec {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("unknown side %q", name)
}

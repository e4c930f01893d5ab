package models

import "fmt"

// Zone is an axis-aligned search rectangle in pixel space.
// The right and bottom edges are exclusive.
type Zone struct {
	UpperLeftX int `json:"upper_left_x"`
	UpperLeftY int `json:"upper_left_y"`
	DownRightX int `json:"down_right_x"`
	DownRightY int `json:"down_right_y"`
}

// Width returns the number of columns scanned in the zone.
func (z Zone) Width() int {
	return z.DownRightX - z.UpperLeftX
}

// Height returns the number of rows scanned per column.
func (z Zone) Height() int {
	return z.DownRightY - z.UpperLeftY
}

func (z Zone) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", z.UpperLeftX, z.UpperLeftY, z.DownRightX, z.DownRightY)
}

// RawSample is a located curve point in pixel coordinates.
type RawSample struct {
	X int
	Y float64
}

// CalibrationEntry is one row of an axis calibration table.
type CalibrationEntry struct {
	Pixel int     `json:"pixel"`
	Value float64 `json:"value"`
	Delta int     `json:"delta"` // pixels from the previous entry, 0 for the first
}

package calibration

import (
	"fmt"
	"image"
)

// ResolutionMismatchError means the image does not have the size the grid
// tables were measured on, so every pixel coordinate would be meaningless.
type ResolutionMismatchError struct {
	Want image.Point
	Got  image.Point
}

func (e *ResolutionMismatchError) Error() string {
	return fmt.Sprintf("calibration: image is %dx%d, calibration expects %dx%d",
		e.Got.X, e.Got.Y, e.Want.X, e.Want.Y)
}

// CheckResolution fails with *ResolutionMismatchError unless bounds has the
// expected size.
func CheckResolution(bounds image.Rectangle, want image.Point) error {
	if got := bounds.Size(); got != want {
		return &ResolutionMismatchError{Want: want, Got: got}
	}
	return nil
}

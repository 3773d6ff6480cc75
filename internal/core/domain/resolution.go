package domain

import "fmt"

// Resolution describes a capture/encode target in pixels.
type Resolution struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// PixelCount returns the number of pixels in a frame at this resolution.
func (r Resolution) PixelCount() int {
	return r.Width * r.Height
}

// DefaultResolutions is the catalog of supported capture resolutions,
// ordered smallest to largest. The quality ladder is derived from it.
var DefaultResolutions = []Resolution{
	{Width: 640, Height: 360},
	{Width: 640, Height: 480},
	{Width: 800, Height: 600},
	{Width: 1024, Height: 768},
	{Width: 1280, Height: 720},
	{Width: 1366, Height: 768},
	{Width: 1600, Height: 900},
	{Width: 1920, Height: 1080},
	{Width: 2560, Height: 1440},
	{Width: 3840, Height: 2160},
}

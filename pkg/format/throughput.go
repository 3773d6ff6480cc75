package format

import (
	"fmt"
	"math"
)

// Throughput renders a bytes-per-second figure as a short human-readable
// string. Display values above the Bps range are rounded to the nearest
// integer.
func Throughput(bandwidth int) string {
	switch {
	case bandwidth < 1000:
		return fmt.Sprintf("%d Bps", bandwidth)
	case bandwidth < 1000*1000:
		return fmt.Sprintf("%d Kbps", round(bandwidth, 1000))
	case bandwidth < 1000*1000*1000:
		return fmt.Sprintf("%d Mbps", round(bandwidth, 1000*1000))
	default:
		return fmt.Sprintf("%d Gbps", round(bandwidth, 1000*1000*1000))
	}
}

func round(value, unit int) int {
	return int(math.Round(float64(value) / float64(unit)))
}

package domain

import "sort"

// DefaultCompressionRatio approximates the size of an encoded frame
// relative to its raw RGB payload.
const DefaultCompressionRatio = 0.07

var (
	// DefaultFrameRates are the frame rates considered when deriving
	// quality levels, in frames per second.
	DefaultFrameRates = []int{24, 30}

	// DefaultColorDepths are the color depths considered when deriving
	// quality levels, in bits per pixel.
	DefaultColorDepths = []int{16, 32}
)

// EncodingProfile is a concrete encoding target: the resolution, frame
// rate and color depth whose estimated bandwidth produced a quality level.
type EncodingProfile struct {
	Resolution Resolution
	FrameRate  int
	ColorDepth int
}

// QualityLevel is one entry in the quality ladder. Bandwidth is the
// estimated bytes per second required to sustain the profile.
type QualityLevel struct {
	Index     int
	Bandwidth int
	Profile   EncodingProfile
}

// LadderOptions tunes quality ladder generation. Zero values fall back
// to the package defaults.
type LadderOptions struct {
	FrameRates       []int
	ColorDepths      []int
	CompressionRatio float64
}

// BuildQualityLadder derives the quality ladder from the cross product of
// the resolution catalog, frame rates and color depths. Each combination
// yields an estimated bandwidth in bytes per second:
//
//	width * height * fps * depth * compressionRatio / 8
//
// Duplicate bandwidth values are collapsed (the first combination in
// catalog order wins), the remainder is sorted ascending and assigned
// contiguous indices starting at 0. The result is deterministic for a
// given catalog and is treated as immutable by all consumers.
func BuildQualityLadder(resolutions []Resolution, opts LadderOptions) []QualityLevel {
	frameRates := opts.FrameRates
	if len(frameRates) == 0 {
		frameRates = DefaultFrameRates
	}
	colorDepths := opts.ColorDepths
	if len(colorDepths) == 0 {
		colorDepths = DefaultColorDepths
	}
	ratio := opts.CompressionRatio
	if ratio == 0 {
		ratio = DefaultCompressionRatio
	}

	profiles := make(map[int]EncodingProfile)
	for _, res := range resolutions {
		for _, fps := range frameRates {
			for _, depth := range colorDepths {
				bandwidth := int(float64(res.PixelCount()*fps*depth) * ratio / 8)
				if _, seen := profiles[bandwidth]; !seen {
					profiles[bandwidth] = EncodingProfile{
						Resolution: res,
						FrameRate:  fps,
						ColorDepth: depth,
					}
				}
			}
		}
	}

	bandwidths := make([]int, 0, len(profiles))
	for bw := range profiles {
		bandwidths = append(bandwidths, bw)
	}
	sort.Ints(bandwidths)

	ladder := make([]QualityLevel, len(bandwidths))
	for i, bw := range bandwidths {
		ladder[i] = QualityLevel{Index: i, Bandwidth: bw, Profile: profiles[bw]}
	}
	return ladder
}

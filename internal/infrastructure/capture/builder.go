package capture

import (
	"fmt"
	"strings"

	"framecast/internal/core/ports"
)

// StrategyBuilder assembles a capture strategy from a type name and a set
// of options, so the wiring code does not need to know each backend's
// constructor shape.
//
//	strategy, err := capture.NewStrategyBuilder().
//		SetStrategyType("pattern").
//		SetOption("width", 1280).
//		SetOption("height", 720).
//		SetOption("fps", 30).
//		Build()
type StrategyBuilder struct {
	strategyType string
	options      map[string]int
}

func NewStrategyBuilder() *StrategyBuilder {
	return &StrategyBuilder{options: make(map[string]int)}
}

func (b *StrategyBuilder) SetStrategyType(strategyType string) *StrategyBuilder {
	b.strategyType = strategyType
	return b
}

func (b *StrategyBuilder) SetOption(key string, value int) *StrategyBuilder {
	b.options[key] = value
	return b
}

func (b *StrategyBuilder) option(key string, fallback int) int {
	if v, ok := b.options[key]; ok {
		return v
	}
	return fallback
}

// Build constructs the configured strategy. Unknown strategy types are an
// error rather than a silent nil.
func (b *StrategyBuilder) Build() (ports.CaptureStrategy, error) {
	switch strings.ToLower(b.strategyType) {
	case "pattern":
		return NewPatternStrategy(
			b.option("width", 1280),
			b.option("height", 720),
			b.option("fps", 30),
		), nil
	case "":
		return nil, fmt.Errorf("capture strategy type not set")
	default:
		return nil, fmt.Errorf("unknown capture strategy type %q", b.strategyType)
	}
}

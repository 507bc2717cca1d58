package profile

import "fmt"

// Strategy selects how an author vector is derived from publications.
// It is chosen once per run, never per author, so one output never mixes
// derivations.
type Strategy int

const (
	// StrategyAggregate embeds each publication independently and takes
	// the element-wise mean. N embedding calls, zero LLM calls.
	StrategyAggregate Strategy = iota + 1

	// StrategySummarize generates one LLM research summary for the
	// author and embeds that. One LLM call, one embedding call.
	StrategySummarize
)

// ParseStrategy maps the run-parameter spelling to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "aggregate":
		return StrategyAggregate, nil
	case "summarize":
		return StrategySummarize, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// String returns the run-parameter spelling of the strategy.
// Used in output file names.
func (s Strategy) String() string {
	switch s {
	case StrategyAggregate:
		return "aggregate"
	case StrategySummarize:
		return "summarize"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyAggregate || s == StrategySummarize
}

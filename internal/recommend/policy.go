package recommend

import "fmt"

// DefaultTopRatio is the fraction of qualified candidates kept when no
// policy is supplied.
const DefaultTopRatio = 0.15

// ConfigError reports an invalid selection policy configuration. It is
// raised at construction time, never during selection.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid selection policy: " + e.Reason
}

type policyMode int

const (
	modeRatio policyMode = iota
	modeCount
)

// Policy is the selection size policy: either a fraction of qualified
// candidates or an absolute count, never both. The zero value is not valid;
// construct via ByRatio, ByCount, DefaultPolicy or FromOptions.
type Policy struct {
	mode  policyMode
	ratio float64
	n     int
}

// ByRatio keeps floor(qualified * ratio) rows. The ratio must lie in [0,1].
func ByRatio(ratio float64) (Policy, error) {
	if ratio < 0 || ratio > 1 {
		return Policy{}, &ConfigError{Reason: fmt.Sprintf("top ratio %v outside [0,1]", ratio)}
	}
	return Policy{mode: modeRatio, ratio: ratio}, nil
}

// ByCount keeps at most n rows. Zero yields an empty result; a negative
// count is a configuration error.
func ByCount(n int) (Policy, error) {
	if n < 0 {
		return Policy{}, &ConfigError{Reason: fmt.Sprintf("top count %d is negative", n)}
	}
	return Policy{mode: modeCount, n: n}, nil
}

// DefaultPolicy returns ByRatio(DefaultTopRatio).
func DefaultPolicy() Policy {
	return Policy{mode: modeRatio, ratio: DefaultTopRatio}
}

// FromOptions builds a policy from optional inputs. Supplying both is a
// ConfigError; supplying neither yields the default ratio policy.
func FromOptions(topRatio *float64, topN *int) (Policy, error) {
	switch {
	case topRatio != nil && topN != nil:
		return Policy{}, &ConfigError{Reason: "use either top ratio or top count, not both"}
	case topN != nil:
		return ByCount(*topN)
	case topRatio != nil:
		return ByRatio(*topRatio)
	}
	return DefaultPolicy(), nil
}

// String describes the policy for logs.
func (p Policy) String() string {
	if p.mode == modeCount {
		return fmt.Sprintf("top_n=%d", p.n)
	}
	return fmt.Sprintf("top_ratio=%v", p.ratio)
}

// cutoff returns the number of rows to keep given the qualified candidate
// count, before clamping to the distinct-client count.
func (p Policy) cutoff(qualified int) int {
	if p.mode == modeCount {
		return p.n
	}
	return int(float64(qualified) * p.ratio)
}

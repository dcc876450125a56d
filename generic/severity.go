/*
severity.go - Outcome taxonomy for compliance evaluation

PURPOSE:
  Compliance engines never fail with Go errors for domain conditions.
  Every evaluation returns a fully-populated result, graded by severity:

    SeverityOK:       proceed silently
    SeverityWarning:  proceed, surface advisory text
    SeverityBlocking: refuse unless explicitly overridden

  Degenerate inputs (zero staff, zero children, empty history) resolve to
  SeverityOK with zero-valued counts, never to a nil result.

OVERRIDES:
  A blocking outcome can only be bypassed with an explicit override flag on
  the caller's options. There is no implicit escalation path.
*/
package generic

// Severity grades a compliance outcome.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityBlocking Severity = "blocking"
)

// Worse returns the more severe of the two.
func (s Severity) Worse(other Severity) Severity {
	if s.rank() >= other.rank() {
		return s
	}
	return other
}

func (s Severity) rank() int {
	switch s {
	case SeverityBlocking:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// GradeOutcome collapses issue lists into a single severity.
func GradeOutcome(warnings, blocking []string) Severity {
	switch {
	case len(blocking) > 0:
		return SeverityBlocking
	case len(warnings) > 0:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

package consent

import "strings"

// DefaultReason is used when a veto is raised without explanation
const DefaultReason = "Vetoed"

// Consent represents interaction verdict, a veto always carries at least one reason
type Consent struct {
	reasons []string
}

// Allowed returns true if no advisor vetoed
func (c *Consent) Allowed() bool {
	return c == nil || len(c.reasons) == 0
}

// Vetoed returns true if any advisor vetoed
func (c *Consent) Vetoed() bool {
	return !c.Allowed()
}

// Reasons returns veto reasons in evaluation order
func (c *Consent) Reasons() []string {
	if c == nil {
		return nil
	}
	return c.reasons
}

// Reason returns veto reasons joined with semicolon
func (c *Consent) Reason() string {
	if c == nil {
		return ""
	}
	return strings.Join(c.reasons, "; ")
}

func (c *Consent) String() string {
	if c.Allowed() {
		return "allowed"
	}
	return "vetoed: " + c.Reason()
}

func (c *Consent) add(reason string) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultReason
	}
	c.reasons = append(c.reasons, reason)
}

// Allow creates allowing consent
func Allow() *Consent {
	return &Consent{}
}

// Veto creates vetoing consent, empty reasons are replaced with DefaultReason
func Veto(reasons ...string) *Consent {
	ret := &Consent{}
	if len(reasons) == 0 {
		ret.add("")
	}
	for _, reason := range reasons {
		ret.add(reason)
	}
	return ret
}

package announcer

import "fmt"

// Policy decides what a rejected announcement means to the caller.
type Policy string

const (
	// PolicyReport logs rejections and returns them only through
	// Result.Status.
	PolicyReport Policy = "report"

	// PolicyStrict additionally returns a *RejectedError.
	PolicyStrict Policy = "strict"
)

// Decode implements envconfig.Decoder.
func (p *Policy) Decode(value string) error {
	switch Policy(value) {
	case PolicyReport, PolicyStrict:
		*p = Policy(value)
		return nil
	case "":
		*p = PolicyReport
		return nil
	default:
		return fmt.Errorf("unknown announce policy %q: use %q or %q", value, PolicyReport, PolicyStrict)
	}
}

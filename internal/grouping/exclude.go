package grouping

// Exclusions is the fixed set of structural entity domains that are never
// offered for regrouping or domain filtering. It is injected configuration,
// not derived state.
type Exclusions map[string]struct{}

// NewExclusions builds an exclusion set from a domain list.
func NewExclusions(domains []string) Exclusions {
	e := make(Exclusions, len(domains))
	for _, d := range domains {
		e[d] = struct{}{}
	}
	return e
}

// DefaultExclusions covers the hub's structural and meta domains: presence
// trackers, automation definitions, calendars, the grouping primitives
// themselves, ambient sensors, and this service's own domain.
func DefaultExclusions() Exclusions {
	return NewExclusions([]string{
		"person",
		"backup",
		"automation",
		"script",
		"device_tracker",
		"calendar",
		"area",
		"zone",
		"label",
		"sun",
		"tts",
		"text",
		"ai_task",
		"group",
		"conversation",
		"event",
		"weather",
		"groupdeck",
	})
}

// Excluded reports whether a domain is on the exclusion list.
func (e Exclusions) Excluded(domain string) bool {
	_, ok := e[domain]
	return ok
}

package grouping

import "sync"

// DomainSelector holds the active domain filter for one panel. The selection
// survives index rebuilds; it only moves when the operator picks a different
// domain or the current one disappears from the snapshot.
type DomainSelector struct {
	mu      sync.Mutex
	current string
	domains []string
}

// NewDomainSelector returns an unset selector.
func NewDomainSelector() *DomainSelector {
	return &DomainSelector{}
}

// Reconcile applies a freshly built domain set. An unset selector initializes
// to the first domain. A selection that vanished from the set falls back to
// the first available domain rather than filtering to a permanently empty
// view. No domains at all clears the selection.
func (s *DomainSelector) Reconcile(domains []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains = domains
	if len(domains) == 0 {
		s.current = ""
		return
	}
	if s.current == "" || !contains(domains, s.current) {
		s.current = domains[0]
	}
}

// Select moves the filter to domain. Domains outside the current set are
// rejected as a no-op; the caller only offers valid choices, so a miss is a
// stale client, not an error.
func (s *DomainSelector) Select(domain string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !contains(s.domains, domain) {
		return false
	}
	s.current = domain
	return true
}

// Current returns the active domain filter, or "" when unset.
func (s *DomainSelector) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Domains returns the domain set from the last reconcile.
func (s *DomainSelector) Domains() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domains
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

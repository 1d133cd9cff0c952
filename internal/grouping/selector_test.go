package grouping

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainSelectorSuite struct {
	suite.Suite
	selector *DomainSelector
}

func TestDomainSelectorSuite(t *testing.T) {
	suite.Run(t, new(DomainSelectorSuite))
}

func (s *DomainSelectorSuite) SetupTest() {
	s.selector = NewDomainSelector()
}

func (s *DomainSelectorSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *DomainSelectorSuite) TestReconcile() {
	s.Run("unset selector initializes to the first domain", func() {
		s.selector.Reconcile([]string{"cover", "light", "switch"})
		s.Equal("cover", s.selector.Current())
	})

	s.Run("existing selection survives a rebuild", func() {
		s.selector.Reconcile([]string{"cover", "light", "switch"})
		s.True(s.selector.Select("light"))

		s.selector.Reconcile([]string{"cover", "light", "switch"})
		s.Equal("light", s.selector.Current())
	})

	s.Run("vanished selection falls back to the first available domain", func() {
		s.selector.Reconcile([]string{"cover", "light"})
		s.True(s.selector.Select("light"))

		s.selector.Reconcile([]string{"cover", "switch"})
		s.Equal("cover", s.selector.Current())
	})

	s.Run("empty domain set clears the selection", func() {
		s.selector.Reconcile([]string{"light"})
		s.selector.Reconcile(nil)
		s.Equal("", s.selector.Current())
	})

	s.Run("selection returns after domains reappear", func() {
		s.selector.Reconcile(nil)
		s.selector.Reconcile([]string{"switch"})
		s.Equal("switch", s.selector.Current())
	})
}

func (s *DomainSelectorSuite) TestSelect() {
	s.Run("domain inside the set moves the filter", func() {
		s.selector.Reconcile([]string{"cover", "light"})
		s.True(s.selector.Select("light"))
		s.Equal("light", s.selector.Current())
	})

	s.Run("domain outside the set is a no-op", func() {
		s.selector.Reconcile([]string{"cover", "light"})
		s.False(s.selector.Select("vacuum"))
		s.Equal("cover", s.selector.Current())
	})

	s.Run("select before any reconcile is rejected", func() {
		s.False(s.selector.Select("light"))
		s.Equal("", s.selector.Current())
	})
}

func (s *DomainSelectorSuite) TestDomains() {
	s.selector.Reconcile([]string{"cover", "light"})
	s.Equal([]string{"cover", "light"}, s.selector.Domains())
}

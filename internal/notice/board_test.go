package notice

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BoardSuite struct {
	suite.Suite
}

func TestBoardSuite(t *testing.T) {
	suite.Run(t, new(BoardSuite))
}

func (s *BoardSuite) TestPost() {
	ctx := context.Background()

	s.Run("posted notices come back most recent first", func() {
		board := NewBoard(10)
		board.Post(ctx, LevelInfo, "first", "one")
		board.Post(ctx, LevelWarning, "second", "two")

		recent := board.Recent()
		s.Require().Len(recent, 2)
		s.Equal("second", recent[0].Title)
		s.Equal(LevelWarning, recent[0].Level)
		s.Equal("first", recent[1].Title)
		s.NotEmpty(recent[0].ID)
		s.False(recent[0].Timestamp.IsZero())
	})

	s.Run("the oldest notices fall off past capacity", func() {
		board := NewBoard(3)
		for i := 0; i < 5; i++ {
			board.Post(ctx, LevelInfo, fmt.Sprintf("n%d", i), "")
		}

		recent := board.Recent()
		s.Require().Len(recent, 3)
		s.Equal("n4", recent[0].Title)
		s.Equal("n2", recent[2].Title)
	})

	s.Run("zero capacity falls back to the default", func() {
		board := NewBoard(0)
		board.Post(ctx, LevelInfo, "t", "m")
		s.Len(board.Recent(), 1)
	})
}

func (s *BoardSuite) TestWarn() {
	board := NewBoard(10)
	board.Warn(context.Background(), "Regrouping failed", "details")

	recent := board.Recent()
	s.Require().Len(recent, 1)
	s.Equal(LevelWarning, recent[0].Level)
}

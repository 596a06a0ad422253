package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorString() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeTokenNotFound, Message: "certificate 7 not found"}
		s.Equal("certificate 7 not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotOwner}
		s.Equal("not_owner", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	s.Run("same code different message", func() {
		a := New(CodeNotOwner, "caller does not own 1")
		b := New(CodeNotOwner, "caller does not own 2")
		s.True(errors.Is(a, b))
	})

	s.Run("different codes", func() {
		s.False(errors.Is(New(CodeNotOwner, ""), New(CodeNotAdmin, "")))
	})

	s.Run("plain errors never match", func() {
		s.False(errors.Is(New(CodeNotFound, "not found"), errors.New("not found")))
	})

	s.Run("found through fmt wrapping", func() {
		err := fmt.Errorf("mint: %w", New(CodeUnauthenticated, "bad proof"))
		s.True(errors.Is(err, &Error{Code: CodeUnauthenticated}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the original domain code", func() {
		wrapped := Wrap(New(CodeTokenNotFound, "missing"), CodeInternal, "read attrs")
		var de *Error
		s.Require().True(errors.As(wrapped, &de))
		s.Equal(CodeTokenNotFound, de.Code)
		s.Equal("read attrs", de.Message)
	})

	s.Run("uses the given code for foreign errors", func() {
		root := errors.New("disk full")
		wrapped := Wrap(root, CodeInternal, "write owner")
		s.True(HasCode(wrapped, CodeInternal))
		s.ErrorIs(wrapped, root)
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeUninitialized, CodeOf(New(CodeUninitialized, "no admin")))
	s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	s.False(HasCode(nil, CodeNotFound))
}

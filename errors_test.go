package chameleon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileErrorMessageIncludesFileAndPosition(t *testing.T) {
	loc := Location{Line: 3, Column: 7}
	err := newParseError("grammar.chm", NewSpan(loc, loc), "unexpected token")
	assert.Equal(t, "ParseError: unexpected token @ grammar.chm @ 3:7", err.Error())
}

func TestCompileErrorMessageWithSuggestion(t *testing.T) {
	err := newEntrypointNotFound("Roott")
	err.Suggestion = "Root"
	assert.Contains(t, err.Error(), "did you mean `Root`?")
}

func TestCompileErrorWithoutPosition(t *testing.T) {
	err := newEntrypointNotFound("Missing")
	assert.Equal(t, "EntrypointNotFound: entrypoint `Missing` is not defined", err.Error())
}

package diag_test

import (
	"testing"

	"github.com/cmlang/cmc/pkg/diag"
	"github.com/cmlang/cmc/pkg/token"
	"github.com/stretchr/testify/assert"
)

func TestCollectReportsAbortAndMessage(t *testing.T) {
	d, report := diag.Collect()
	tok := token.Token{Line: 3, Column: 7}

	caught := diag.Try(func() {
		report(tok, "Unknown type '%s'", "Foo")
	})

	assert.Same(t, d, caught)
	assert.True(t, d.Failed())
	assert.Equal(t, "Compile Error @ line (3, 7): Unknown type 'Foo'", d.Messages[0])
}

func TestTryReturnsNilWhenNoAbort(t *testing.T) {
	caught := diag.Try(func() {})
	assert.Nil(t, caught)
}

func TestTryPropagatesUnrelatedPanics(t *testing.T) {
	assert.Panics(t, func() {
		diag.Try(func() {
			panic("boom")
		})
	})
}

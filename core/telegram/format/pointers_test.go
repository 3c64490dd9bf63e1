package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeref(t *testing.T) {
	s := "hello"
	assert.Equal(t, "hello", Deref(&s, "fallback"))
	assert.Equal(t, "fallback", Deref[string](nil, "fallback"))

	n := 42
	assert.Equal(t, 42, Deref(&n, 0))
	assert.Equal(t, 0, Deref[int](nil, 0))
}

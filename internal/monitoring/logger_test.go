package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("hello %d", 1)
	assert.Equal(t, "hello %d", got)

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("muted") })
}

package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackTraceFormatting(t *testing.T) {
	err := Wrap(ErrDuplicate, "asset")

	assert.NotNil(t, stackTrace(err))

	full := fmt.Sprintf("%+v", err)
	assert.Contains(t, full, "asset: duplicate")
	assert.Contains(t, full, "errors/stacktrace_test.go")

	short := fmt.Sprintf("%v", err)
	assert.True(t, strings.HasPrefix(short, "asset: duplicate"))
	assert.False(t, strings.Contains(short, "\n"), "only one line is expected")

	assert.Equal(t, "asset: duplicate", fmt.Sprintf("%s", err))
}

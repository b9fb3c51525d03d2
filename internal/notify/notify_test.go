package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := &Bell{W: &buf}
	require.NoError(t, b.Notify("Focus", "time for a break"))
	assert.Equal(t, "\aFocus: time for a break\n", buf.String())

	buf.Reset()
	b.Quiet = true
	require.NoError(t, b.Notify("Focus", "back to work"))
	assert.Equal(t, "Focus: back to work\n", buf.String())

	assert.NoError(t, (&Bell{}).Notify("x", "y"))
}

func TestRecorderAndNop(t *testing.T) {
	var n Notifier = &Recorder{}
	require.NoError(t, n.Notify("a", "b"))
	assert.Equal(t, []string{"a: b"}, n.(*Recorder).Sent)
	assert.NoError(t, Nop{}.Notify("a", "b"))
}

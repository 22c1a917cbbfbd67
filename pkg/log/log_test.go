package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "warn")

	l.Infof("hidden %d", 1)
	l.Warnf("cartridge type %02X unsupported", 0xFC)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "msg=cartridge type FC unsupported")
}

func TestNewWithOutput_BadLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "loud")

	l.Debugf("debug")
	l.Infof("info")

	assert.NotContains(t, buf.String(), "msg=debug")
	assert.Contains(t, buf.String(), "msg=info")
}

package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/standin/internal/ui/output"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, termenv.Ascii, output.ColorProfile())
}

func TestNew_NilWriterDefaultsToStderr(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out := output.New(nil)
	assert.NotNil(t, out)
}

func TestNew_WritesPlainWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	out := output.New(buf)

	styled := out.String("hello").Foreground(termenv.RGBColor("#ff0000"))
	_, err := out.WriteString(styled.String())
	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

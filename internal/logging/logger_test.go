package logging

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCombinedWriter_Write(t *testing.T) {
	sb1 := &strings.Builder{}
	sb1.WriteString("already-here")
	sb2 := &strings.Builder{}

	cw := NewCombinedWriter(sb1, sb2)
	n, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "already-hereabc", sb1.String())
	assert.Equal(t, "abc", sb2.String())

	cw = NewCombinedWriter(failingWriter{}, sb2, failingWriter{})
	n, err = cw.Write([]byte("d"))
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "abcd", sb2.String())
}

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("nonsense"))
}

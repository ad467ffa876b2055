package plugin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePluginTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePluginTable(&buf, testPlugins()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"Plugin", "Enabled", "Keys"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"blog", "yes", "enabled,", "title"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"news", "no"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"shop", "no", "currency,", "enabled"}, strings.Fields(lines[4]))
}

package luks

import (
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapperPath(t *testing.T) {
	assert.Equal(t, "/dev/mapper/luks-abcd", MapperPath("luks-abcd"))
}

func TestCrypttabEntry(t *testing.T) {
	entry := CrypttabEntry("luks-abcd", "abcd-1234")
	assert.Equal(t, []string{"luks-abcd", "UUID=abcd-1234", "none", "luks,discard"}, entry)
}

func TestLuksFormatKeepsPassphraseOutOfLogs(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	// The command itself fails without a LUKS device, only the command
	// tracing matters here
	_ = LuksFormat(&pathPartition{"/dev/null"}, "sup3r-s3cret")

	require.NotEmpty(t, hook.AllEntries())
	for _, entry := range hook.AllEntries() {
		assert.NotContains(t, entry.Message, "sup3r-s3cret")
	}
}

func TestLuksOpenKeepsPassphraseOutOfLogs(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	_ = LuksOpen(&pathPartition{"/dev/null"}, "luks-test", "sup3r-s3cret")

	require.NotEmpty(t, hook.AllEntries())
	for _, entry := range hook.AllEntries() {
		assert.NotContains(t, entry.Message, "sup3r-s3cret")
	}
}

func TestGenCrypttab(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0o755))

	entries := [][]string{
		CrypttabEntry("luks-abcd", "abcd-1234"),
	}

	err := GenCrypttab(root, entries)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "etc/crypttab"))
	require.NoError(t, err)
	assert.Equal(t, "luks-abcd UUID=abcd-1234 none luks,discard\n", string(content))
}

package refdata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mailprobe/internal/refdata"
)

func TestDisposableSetEmbeddedList(t *testing.T) {
	set := refdata.NewDisposableSet(nil)

	assert.Positive(t, set.Len())
	assert.True(t, set.Contains("mailinator.com"))
	assert.True(t, set.Contains("MAILINATOR.COM"), "lookup is case insensitive")
	assert.False(t, set.Contains("gmail.com"))
}

func TestDisposableSetExtraDomains(t *testing.T) {
	set := refdata.NewDisposableSet([]string{"Burner.Example", "  spaced.example  "})

	assert.True(t, set.Contains("burner.example"))
	assert.True(t, set.Contains("spaced.example"))
}

func TestDisposableSetFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.txt")
	content := "# comment line\nfromfile.example\n\n  another.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := refdata.NewDisposableSetFromFile(path, nil)
	require.NoError(t, err)

	assert.True(t, set.Contains("fromfile.example"))
	assert.True(t, set.Contains("another.example"))
	assert.False(t, set.Contains("# comment line"))
	// File entries merge with, not replace, the embedded list.
	assert.True(t, set.Contains("mailinator.com"))
}

func TestDisposableSetFromMissingFile(t *testing.T) {
	_, err := refdata.NewDisposableSetFromFile("/no/such/file", nil)
	assert.Error(t, err)
}

func TestProviderLookups(t *testing.T) {
	assert.True(t, refdata.IsCommonProvider("gmail.com"))
	assert.True(t, refdata.IsCommonProvider("GMAIL.com"))
	assert.False(t, refdata.IsCommonProvider("example.com"))

	assert.True(t, refdata.IsPopularTLD("example.com"))
	assert.True(t, refdata.IsPopularTLD("example.io"))
	assert.False(t, refdata.IsPopularTLD("example.xyz"))
	assert.False(t, refdata.IsPopularTLD("nodot"))
}

package file

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDriverWritesTimestampedArtifact(t *testing.T) {
	d := &FileDriver{
		dir:       t.TempDir(),
		extension: "csv",
	}
	require.NoError(t, d.Init())

	assert.Regexp(t, regexp.MustCompile(`output_results_\d{14}\.csv$`), d.Path())

	require.NoError(t, d.Send(nil, []byte("Tag,Count\nweb,1\n")))
	require.NoError(t, d.Close())

	data, err := os.ReadFile(d.Path())
	require.NoError(t, err)
	assert.Equal(t, "Tag,Count\nweb,1\n", string(data))
}

func TestFileDriverFreshFilePerRun(t *testing.T) {
	dir := t.TempDir()
	d := &FileDriver{dir: dir, extension: "csv"}
	require.NoError(t, d.Init())
	require.NoError(t, d.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(d.Path()), entries[0].Name())
}

func TestFileDriverStdout(t *testing.T) {
	d := &FileDriver{toStdout: true}
	require.NoError(t, d.Init())
	assert.Empty(t, d.Path())
	require.NoError(t, d.Close())
}

package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "subjects.json", `{
		"subjects": ["项目管理", "市场营销", "研发"],
		"weights": {"项目管理": 2.0}
	}`)

	v, err := LoadJSON(path)
	require.NoError(t, err)
	require.Equal(t, 3, v.Len())

	// Weighted subject sorts first
	assert.Equal(t, "项目管理", v.Subject(0).Label)
	assert.Equal(t, 2.0, v.Subject(0).Weight)
}

func TestLoadJSONInvalid(t *testing.T) {
	path := writeTemp(t, "bad.json", `{"subjects": [`)
	_, err := LoadJSON(path)
	assert.Error(t, err)
}

func TestLoadTOML(t *testing.T) {
	path := writeTemp(t, "subjects.toml", `
subjects = ["项目管理", "财务"]

[weights]
"财务" = 1.5
`)

	v, err := LoadTOML(path)
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())
	assert.Equal(t, "财务", v.Subject(0).Label)
}

func TestLoadList(t *testing.T) {
	path := writeTemp(t, "subjects.txt", "项目管理\n\n# comment\n市场营销\n  研发  \n")

	v, err := LoadList(path)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())
}

func TestLoadFileDispatch(t *testing.T) {
	jsonPath := writeTemp(t, "v.json", `{"subjects": ["项目"]}`)
	v, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	txtPath := writeTemp(t, "v.txt", "市场\n")
	v, err = LoadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

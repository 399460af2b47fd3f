package liquid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type conformanceCase struct {
	Name     string         `yaml:"name"`
	Template string         `yaml:"template"`
	Assigns  map[string]any `yaml:"assigns"`
	Want     string         `yaml:"want"`
}

type conformanceFile struct {
	Cases []conformanceCase `yaml:"cases"`
}

func loadConformanceCases(t *testing.T) []conformanceCase {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "conformance.yaml"))
	require.NoError(t, err)

	var file conformanceFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.NotEmpty(t, file.Cases)
	return file.Cases
}

// TestConformance renders every fixture under both grammars. Valid markup
// must parse to the same structure either way, so the outputs have to
// agree too.
func TestConformance(t *testing.T) {
	cases := loadConformanceCases(t)

	modes := []struct {
		name string
		mode ParseMode
	}{
		{"lax", ParseModeLax},
		{"strict", ParseModeStrict},
	}
	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					env := NewEnvironment()
					env.SetParseMode(m.mode)
					tmpl, err := env.TemplateFromString(tc.Template)
					require.NoError(t, err)

					got, err := tmpl.Render(tc.Assigns)
					require.NoError(t, err)
					assert.Equal(t, tc.Want, got)
				})
			}
		})
	}
}

package chameleon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTestdataFixturesTranslateCleanly runs every checked-in .chm
// fixture through the full pipeline. These are the grammars behind
// the scenarios in spec.md §8 (S1-S4); S5 and S6 are exercised
// directly against EmitOptions in emit_c_test.go since they're about
// flags rather than grammar shape.
func TestTestdataFixturesTranslateCleanly(t *testing.T) {
	entries, err := os.ReadDir("testdata")
	require.NoError(t, err)

	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".chm" {
			continue
		}
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("testdata", entry.Name()))
			require.NoError(t, err)
			_, err = translateSrc(t, string(data), TranslateOptions{})
			require.NoError(t, err)
		})
	}
}

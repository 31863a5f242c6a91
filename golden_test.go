package mmdgrid_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/asciigraph/mmdgrid"
)

// TestGolden renders every testdata/golden/*.mm.md fixture and compares it against its paired
// *.expect.txt, the way the teacher's visual test compares two renderings byte for byte.
func TestGolden(t *testing.T) {
	sources, err := filepath.Glob(filepath.Join("testdata", "golden", "*.mm.md"))
	require.NoErrorf(t, err, "globbing testdata/golden")
	require.Truef(t, len(sources) > 0, "expected at least one golden fixture")

	for _, src := range sources {
		name := strings.TrimSuffix(filepath.Base(src), ".mm.md")
		t.Run(name, func(t *testing.T) {
			in, err := os.ReadFile(src)
			require.NoErrorf(t, err, "reading %s", src)

			wantPath := filepath.Join("testdata", "golden", name+".expect.txt")
			want, err := os.ReadFile(wantPath)
			require.NoErrorf(t, err, "reading %s", wantPath)

			got, err := mmdgrid.Render(string(in))
			require.NoErrorf(t, err, "Render(%s)", src)

			assert.NoDiff(t, got, string(want))
		})
	}
}

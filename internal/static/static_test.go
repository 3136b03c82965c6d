package static

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledDefaults(t *testing.T) {
	for _, name := range []string{"default-avatar.png", "default-clan.png"} {
		data, err := fs.ReadFile(FS(), name)
		require.NoError(t, err, name)
		assert.Equal(t, "\x89PNG", string(data[:4]))
	}
}

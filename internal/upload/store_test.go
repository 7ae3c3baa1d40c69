package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	id := ulid.Make()
	tests := []struct {
		in   string
		want string
	}{
		{"poster.PNG", "poster-" + id.String() + ".png"},
		{"my photo (1).jpg", "my_photo__1_-" + id.String() + ".jpg"},
		{"../../etc/passwd", "passwd-" + id.String()},
		{`C:\Users\asha\flyer.webp`, "flyer-" + id.String() + ".webp"},
		{"", "image-" + id.String()},
		{"नेपाल.gif", "image-" + id.String() + ".gif"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.in, id), tt.in)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "uploads"), 16)
	require.NoError(t, err)

	name, err := store.Save("poster.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "poster-"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	other, err := store.Save("poster.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestSaveRejectsOversizedContent(t *testing.T) {
	store, err := NewStore(t.TempDir(), 4)
	require.NoError(t, err)

	_, err = store.Save("big.png", strings.NewReader("too many bytes"))
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "logos/teams/1/a.png", "https://cdn.example.com/logos/teams/1/a.png"},
		{"https://cdn.example.com/", "/logos/a.png", "https://cdn.example.com/logos/a.png"},
		{"https://cdn.example.com/media", "logos/a.png", "https://cdn.example.com/media/logos/a.png"},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, PublicURL(base, tt.key))
	}
	assert.Equal(t, "", PublicURL(nil, "a.png"))
}

func TestLogoKey(t *testing.T) {
	key := LogoKey("teams", 12, ".png")
	assert.True(t, strings.HasPrefix(key, "logos/teams/12/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, LogoKey("teams", 12, ".png"))
}

func TestImageExtension(t *testing.T) {
	ext, ok := ImageExtension("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = ImageExtension("text/csv")
	assert.False(t, ok)
}

func TestDisabled(t *testing.T) {
	var u FileUploader = Disabled{}
	_, err := u.Upload(context.Background(), "k", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, u.Delete(context.Background(), "k"), ErrStorageDisabled)
	assert.Empty(t, u.GetPublicURL("k"))
}

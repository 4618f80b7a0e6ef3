package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ice Hockey", "ice-hockey"},
		{"  Long Island   Amateur Hockey League ", "long-island-amateur-hockey-league"},
		{"Montréal Canadiens", "montreal-canadiens"},
		{"Green Machine IceCats!", "green-machine-icecats"},
		{"U-12 / Bantam", "u-12-bantam"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestTitleName(t *testing.T) {
	assert.Equal(t, "Ice Hockey", TitleName("ice   hockey"))
	assert.Equal(t, "Long Island AHL", TitleName("long island AHL"))
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.Len(t, a, APITokenLength)
	assert.NotEqual(t, a, b)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "League of Ice Hockey", CollapseSpaces("  League  of\tIce Hockey "))
	assert.Empty(t, CollapseSpaces("   "))
}

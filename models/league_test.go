package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviateName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "multi word", in: "Long Island Amateur Hockey League", want: "LIAHL"},
		{name: "skips lowercase words", in: "League of Ice Hockey", want: "LIH"},
		{name: "single word kept", in: "Liahl", want: "Liahl"},
		{name: "extra spaces", in: "  National   Hockey League ", want: "NHL"},
		{name: "no capitals", in: "weekend beer league", want: "WBL"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbbreviateName(tt.in))
		})
	}

	l := League{FullName: "Long Island Amateur Hockey League"}
	assert.Equal(t, "LIAHL", l.AbbreviatedName())
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSeason_Label(t *testing.T) {
	assert.Equal(t, "2017-2018 Season", Season{StartDate: date("2017-09-01"), EndDate: date("2018-03-31")}.Label())
	assert.Equal(t, "2018 Season", Season{StartDate: date("2018-01-01"), EndDate: date("2018-08-31")}.Label())
}

func TestSeason_NextYear(t *testing.T) {
	s := Season{StartDate: date("2017-09-01"), EndDate: date("2018-03-31")}
	start, end := s.NextYear()
	assert.Equal(t, date("2018-09-01"), start)
	assert.Equal(t, date("2019-03-31"), end)
}

func TestSeason_ExpiresWithin(t *testing.T) {
	now := date("2018-03-01")
	window := 30 * 24 * time.Hour

	assert.True(t, Season{EndDate: date("2018-03-31")}.ExpiresWithin(now, window))
	assert.False(t, Season{EndDate: date("2018-04-01")}.ExpiresWithin(now, window))
	assert.False(t, Season{EndDate: date("2018-02-28")}.ExpiresWithin(now, window))
}

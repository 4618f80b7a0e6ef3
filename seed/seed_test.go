package seed

import (
	"testing"
	"testing/fstest"

	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSeeds(t *testing.T) {
	sports, err := Sports(nil, "")
	require.NoError(t, err)
	require.NotEmpty(t, sports)
	assert.Equal(t, "Ice Hockey", sports[0].Name)

	switches, err := Switches(nil, "")
	require.NoError(t, err)
	names := make([]string, 0, len(switches))
	for _, s := range switches {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{
		models.SwitchPlayerUpdate,
		models.SwitchSeasonCopy,
		models.SwitchLiveGameFeed,
		models.SwitchBulkUploadTeams,
	}, names)

	choices, err := Choices(nil, "")
	require.NoError(t, err)
	kinds := map[string]int{}
	for _, c := range choices {
		kinds[c.ContentType]++
	}
	assert.Positive(t, kinds[models.ChoiceGameType])
	assert.Positive(t, kinds[models.ChoiceGamePointValue])
}

func TestSeedFromFile(t *testing.T) {
	fsys := fstest.MapFS{
		"custom.yaml": {Data: []byte("sports:\n  - name: lacrosse\n    description: Field lacrosse\n")},
		"bad.yaml":    {Data: []byte("choices:\n  - long_value: Missing keys\n")},
	}

	sports, err := Sports(fsys, "custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, []models.Sport{{Name: "lacrosse", Description: "Field lacrosse"}}, sports)

	_, err = Choices(fsys, "bad.yaml")
	assert.Error(t, err)

	_, err = Switches(fsys, "missing.yaml")
	assert.Error(t, err)
}

// Package seed holds the reference data loaded by "leaguectl seed".
package seed

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Dosada05/league-system/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

type sportsFile struct {
	Sports []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"sports"`
}

type switchesFile struct {
	Switches []models.FeatureSwitch `yaml:"switches"`
}

type choicesFile struct {
	Choices []models.GenericChoice `yaml:"choices"`
}

func decode(fsys fs.FS, path string, dst interface{}) error {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse seed %s: %w", path, err)
	}
	return nil
}

// Sports returns the embedded sports, or those of path when it is not empty.
func Sports(fsys fs.FS, path string) ([]models.Sport, error) {
	fsys, path = source(fsys, path, "data/sports.yaml")
	var f sportsFile
	if err := decode(fsys, path, &f); err != nil {
		return nil, err
	}
	sports := make([]models.Sport, 0, len(f.Sports))
	for _, s := range f.Sports {
		sports = append(sports, models.Sport{Name: s.Name, Description: s.Description})
	}
	return sports, nil
}

func Switches(fsys fs.FS, path string) ([]models.FeatureSwitch, error) {
	fsys, path = source(fsys, path, "data/switches.yaml")
	var f switchesFile
	if err := decode(fsys, path, &f); err != nil {
		return nil, err
	}
	return f.Switches, nil
}

func Choices(fsys fs.FS, path string) ([]models.GenericChoice, error) {
	fsys, path = source(fsys, path, "data/choices.yaml")
	var f choicesFile
	if err := decode(fsys, path, &f); err != nil {
		return nil, err
	}
	for i, c := range f.Choices {
		if c.ContentType == "" || c.ShortValue == "" {
			return nil, fmt.Errorf("parse seed %s: choice %d needs content_type and short_value", path, i+1)
		}
	}
	return f.Choices, nil
}

// source falls back to the embedded file when no path is given.
func source(fsys fs.FS, path, embedded string) (fs.FS, string) {
	if path == "" || fsys == nil {
		return dataFS, embedded
	}
	return fsys, path
}

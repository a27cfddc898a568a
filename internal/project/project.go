package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Extension is the file extension of saved projects.
const Extension = ".atlasproj"

// ErrNotProject is returned when a file decodes but holds no project.
var ErrNotProject = errors.New("not an AtlasPack project")

// WithExtension appends Extension to path unless it already ends with it.
func WithExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// SaveProject writes proj to path as indented JSON, creating parent
// directories.
func SaveProject(path string, proj model.Project) error {
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// LoadProject reads a project written by SaveProject. Settings absent from
// the file take their defaults.
func LoadProject(path string) (model.Project, error) {
	data, err := readFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("read project: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Project{}, fmt.Errorf("parse project %s: %w", path, err)
	}
	if _, ok := raw["sprites"]; !ok {
		return model.Project{}, fmt.Errorf("%s: %w", path, ErrNotProject)
	}

	proj := model.NewProject()
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("parse project %s: %w", path, err)
	}
	if proj.Sprites == nil {
		proj.Sprites = []model.Sprite{}
	}
	return proj, nil
}

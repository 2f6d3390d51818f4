package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// bboxFixture is the YAML-facing shape of a BboxResolution: category_id,
// bbox, score, read straight off disk for CLI-driven confusion matrix
// generation.
type bboxFixture struct {
	CategoryID int        `yaml:"category_id"`
	Bbox       [4]float64 `yaml:"bbox"`
	Score      float64    `yaml:"score"`
}

// LoadBboxResolutions reads a YAML list of {category_id, bbox, score}
// fixtures from path into BboxResolution values.
func LoadBboxResolutions(path string) ([]BboxResolution, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}
	var fixtures []bboxFixture
	if err := yaml.Unmarshal(b, &fixtures); err != nil {
		return nil, fmt.Errorf("layout: parse %s: %w", path, err)
	}
	out := make([]BboxResolution, len(fixtures))
	for i, f := range fixtures {
		out[i] = BboxResolution{CategoryID: f.CategoryID, Bbox: f.Bbox, Score: f.Score}
	}
	return out, nil
}

// LoadClassNames reads a YAML map of category id -> class name, used to
// label the diagonal scalars ComputeMetrics returns.
func LoadClassNames(path string) (map[int]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}
	var names map[int]string
	if err := yaml.Unmarshal(b, &names); err != nil {
		return nil, fmt.Errorf("layout: parse %s: %w", path, err)
	}
	return names, nil
}

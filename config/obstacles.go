package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Block is an axis-aligned obstacle rectangle in arena pixels.
type Block struct {
	Top    int    `yaml:"top" json:"top"`
	Left   int    `yaml:"left" json:"left"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
	Color  string `yaml:"color,omitempty" json:"color,omitempty"` // "" = contrast with background
}

// ObstacleFileError reports a malformed obstacle document.
type ObstacleFileError struct {
	Path   string
	Index  int // Block index, -1 for document-level errors
	Field  string
	Reason string
	Err    error
}

func (e *ObstacleFileError) Error() string {
	msg := "obstacle file " + e.Path
	if e.Index >= 0 {
		msg += fmt.Sprintf(": blocks[%d]", e.Index)
		if e.Field != "" {
			msg += "." + e.Field
		}
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ObstacleFileError) Unwrap() error { return e.Err }

// LoadBlocks reads an obstacle document. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. The document must hold a "blocks"
// list whose entries carry numeric top, left, width and height and an
// optional string color.
func LoadBlocks(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ObstacleFileError{Path: path, Index: -1, Reason: "cannot read", Err: err}
	}
	return ParseBlocks(path, data)
}

// ParseBlocks parses an obstacle document already read from path.
func ParseBlocks(path string, data []byte) ([]Block, error) {
	var doc map[string]any
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &ObstacleFileError{Path: path, Index: -1, Reason: "cannot parse", Err: err}
	}

	raw, ok := doc["blocks"]
	if !ok {
		return nil, &ObstacleFileError{Path: path, Index: -1, Reason: `missing "blocks" list`}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &ObstacleFileError{Path: path, Index: -1, Reason: `"blocks" is not a list`}
	}

	blocks := make([]Block, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, &ObstacleFileError{Path: path, Index: i, Reason: "not an object"}
		}
		var b Block
		fields := []struct {
			name     string
			dst      *int
			positive bool
		}{
			{"top", &b.Top, false},
			{"left", &b.Left, false},
			{"width", &b.Width, true},
			{"height", &b.Height, true},
		}
		for _, f := range fields {
			v, present := entry[f.name]
			if !present {
				return nil, &ObstacleFileError{Path: path, Index: i, Field: f.name, Reason: "missing"}
			}
			n, ok := toInt(v)
			if !ok {
				return nil, &ObstacleFileError{Path: path, Index: i, Field: f.name, Reason: fmt.Sprintf("not an integer: %v", v)}
			}
			if n < 0 || (f.positive && n == 0) {
				return nil, &ObstacleFileError{Path: path, Index: i, Field: f.name, Reason: fmt.Sprintf("out of range: %d", n)}
			}
			*f.dst = n
		}
		if c, present := entry["color"]; present && c != nil {
			s, ok := c.(string)
			if !ok {
				return nil, &ObstacleFileError{Path: path, Index: i, Field: "color", Reason: "not a string"}
			}
			b.Color = s
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// toInt accepts JSON (float64) and YAML (int, float64) numbers with an
// integral value.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// ApplyBlocksOption applies the -blocks command line value: "0" disables
// obstacles, a positive integer requests that many random blocks per game,
// and anything else names an obstacle document.
func (c *Config) ApplyBlocksOption(opt string) error {
	opt = strings.TrimSpace(opt)
	if opt == "" {
		return nil
	}
	if n, err := strconv.Atoi(opt); err == nil {
		if n < 0 {
			return configErr("blocks", "must be 0, a positive count or a file, got %d", n)
		}
		c.Obstacles.Count = n
		c.Obstacles.File = ""
		c.Obstacles.Blocks = nil
		return nil
	}
	c.Obstacles.Count = 0
	c.Obstacles.File = opt
	c.Obstacles.Blocks = nil
	return nil
}

// RandomObstacles reports whether obstacles are generated per game.
func (c *Config) RandomObstacles() bool {
	return len(c.Derived.Blocks) == 0 && c.Obstacles.Count > 0
}

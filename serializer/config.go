package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/telepack/errs"
)

// Config is the file form of the serializer settings.
//
// RequestLimit and RecordLimit hold [normal, beacon] byte limits. Missing or
// out of range entries fall back to the builtin limits.
//
// Example YAML:
//
//	requestLimit: [1048576, 60000]
//	recordLimit: [500000]
//	enableCompoundKey: true
type Config struct {
	RequestLimit     []int `yaml:"requestLimit" json:"requestLimit"`
	RecordLimit      []int `yaml:"recordLimit" json:"recordLimit"`
	StringifyObjects bool  `yaml:"stringifyObjects" json:"stringifyObjects"`
	CompoundKeys     bool  `yaml:"enableCompoundKey" json:"enableCompoundKey"`
	ExcludeMetadata  bool  `yaml:"excludeCsMetaData" json:"excludeCsMetaData"`
}

// SizeLimits returns the limits described by the config, or an error when a
// limit list has more than two entries.
func (c Config) SizeLimits() (SizeLimits, error) {
	if len(c.RequestLimit) > 2 {
		return SizeLimits{}, fmt.Errorf("%w: requestLimit has %d entries, want at most 2", errs.ErrInvalidSizeLimit, len(c.RequestLimit))
	}
	if len(c.RecordLimit) > 2 {
		return SizeLimits{}, fmt.Errorf("%w: recordLimit has %d entries, want at most 2", errs.ErrInvalidSizeLimit, len(c.RecordLimit))
	}

	limits := SizeLimits{
		Request:       entry(c.RequestLimit, 0),
		BeaconRequest: entry(c.RequestLimit, 1),
		Record:        entry(c.RecordLimit, 0),
		BeaconRecord:  entry(c.RecordLimit, 1),
	}

	return limits.validated(), nil
}

func entry(list []int, i int) int {
	if i < len(list) {
		return list[i]
	}

	return 0
}

// ParseConfig decodes a configuration document. Documents starting with '{'
// are read as JSON with comments and trailing commas; anything else is read
// as YAML.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return cfg, nil
	}

	if trimmed[0] == '{' {
		if err := json.Unmarshal(jsonc.ToJSON(trimmed), &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parsing JSON config: %w", errs.ErrInvalidConfig, err)
		}
	} else if err := yaml.Unmarshal(trimmed, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing YAML config: %w", errs.ErrInvalidConfig, err)
	}

	if _, err := cfg.SizeLimits(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// LoadConfig reads and parses the configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

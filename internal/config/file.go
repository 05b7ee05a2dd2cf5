package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileConfig mirrors the md2html.json configuration file. Pointer fields
// distinguish "absent" from zero values so file settings never clobber CLI
// flags that were explicitly given.
type FileConfig struct {
	Input             inputList         `json:"input"`
	Output            *string           `json:"output"`
	PreserveStructure *bool             `json:"preserve_structure"`
	Recursive         *bool             `json:"recursive"`
	Watch             *bool             `json:"watch"`
	Serve             *serveConfig      `json:"serve"`
	Port              *int              `json:"port"`
	Execute           *bool             `json:"execute"`
	Verbose           *bool             `json:"verbose"`
	ForceOverwrite    *bool             `json:"force_overwrite"`
	Templates         *string           `json:"templates"`
	BuildCommands     map[string]string `json:"build_commands"`
}

// inputList accepts either a single string or an array of strings.
type inputList []string

func (l *inputList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = inputList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// serveConfig accepts either a boolean or {"enabled": bool, "port": int}.
type serveConfig struct {
	Enabled bool
	Port    *int
}

func (s *serveConfig) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		s.Enabled = b
		return nil
	}
	var obj struct {
		Enabled bool `json:"enabled"`
		Port    *int `json:"port"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Enabled = obj.Enabled
	s.Port = obj.Port
	return nil
}

// LoadFile reads and decodes a configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fc, nil
}

// Apply folds the file settings into cfg and returns any inputs the file
// declares. CLI-provided values win: Apply is called before flags overwrite
// the corresponding fields.
func (fc *FileConfig) Apply(cfg *Config) []string {
	if fc.Output != nil {
		cfg.OutputPath = *fc.Output
	}
	if fc.PreserveStructure != nil {
		cfg.Flatten = !*fc.PreserveStructure
	}
	if fc.Recursive != nil {
		cfg.Recursive = *fc.Recursive
	}
	if fc.Watch != nil {
		cfg.Watch = *fc.Watch
	}
	if fc.Serve != nil {
		cfg.Serve = fc.Serve.Enabled
		if fc.Serve.Port != nil {
			cfg.Port = *fc.Serve.Port
		}
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.Execute != nil {
		cfg.Execute = *fc.Execute
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.ForceOverwrite != nil {
		cfg.ForceOverwrite = *fc.ForceOverwrite
	}
	if fc.Templates != nil {
		cfg.TemplatesDir = *fc.Templates
	}
	for ext, cmd := range fc.BuildCommands {
		cfg.BuildCommands[ext] = cmd
	}
	return fc.Input
}

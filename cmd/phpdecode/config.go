package main

import (
	"os"

	"gopkg.in/yaml.v2"
)

// fileConfig mirrors the subset of phpserialize.Option that makes sense to
// pin in a config file rather than pass on the command line every time.
type fileConfig struct {
	Strict      bool   `yaml:"strict"`
	AutoUnescape *bool `yaml:"auto_unescape"`
	MaxDepth    int    `yaml:"max_depth"`
	ErrorPolicy string `yaml:"error_policy"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

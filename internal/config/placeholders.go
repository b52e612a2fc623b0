package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// PlaceholdersFrom merges the placeholders of the project: the placeholders map
// of the config, then the placeholder files in order, then overrides. Later
// sources win. Keys are normalized with PlaceholderKey.
func (c *ProjectConfig) PlaceholdersFrom(projectDir string, overrides map[string]string) (map[string]string, error) {
	merged := make(map[string]string)
	add := func(pairs map[string]string) {
		for k, v := range pairs {
			merged[PlaceholderKey(k)] = v
		}
	}

	add(c.Placeholders)
	for _, file := range c.PlaceholderFiles {
		pairs, err := ReadPlaceholderFile(Resolve(projectDir, file))
		if err != nil {
			return nil, err
		}
		add(pairs)
	}
	add(overrides)

	return merged, nil
}

// ReadPlaceholderFile parses a file of KEY=value lines in .env syntax.
func ReadPlaceholderFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: placeholder file: %v", sprocgen.ErrInvalidConfig, err)
	}
	defer f.Close()

	pairs, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: placeholder file %s: %v", sprocgen.ErrInvalidConfig, path, err)
	}
	return pairs, nil
}

// ParsePlaceholderFlag splits a KEY=value command line placeholder.
func ParsePlaceholderFlag(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: placeholder %q must have the form KEY=value", sprocgen.ErrInvalidConfig, s)
	}
	return key, value, nil
}

// PlaceholderKey returns the lower-cased placeholder token of key, adding
// the @ delimiters unless present: "APP_SCHEMA" and "@app_schema@" both
// yield "@app_schema@".
func PlaceholderKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if len(key) >= 2 && strings.HasPrefix(key, "@") && strings.HasSuffix(key, "@") {
		return key
	}
	return "@" + strings.Trim(key, "@") + "@"
}

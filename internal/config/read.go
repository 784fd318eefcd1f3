package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localPath returns `<dir>/<name>.local.<ext>` for `<dir>/<name>.<ext>`.
func localPath(name string) string {
	ext := filepath.Ext(name)
	prefix := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s.local%s", prefix, ext)
}

// readFile reads a json5 configuration file, `name` should come with a file extension.
// the following files are merged, where the higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// if neither exist os.ErrNotExist is returned.
func readFile[T any](name string) (T, error) {
	var out T
	allNotFound := true

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	local := localPath(name)
	localFile, err := os.ReadFile(local)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", local, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", local)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}

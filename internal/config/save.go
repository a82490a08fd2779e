package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/capfix/internal/config/loader"
	"github.com/dshills/capfix/internal/settings"
)

// settingKeys is the order in which new keys are written.
var settingKeys = []string{
	settings.KeyExclusionWords,
	settings.KeyAbbreviations,
	settings.KeyCapitalizeListItems,
	settings.KeyCapitalizeSentences,
}

// Save writes s to the settings file at path in the format chosen by its
// extension. Existing keys that are not settings are preserved; JSON files
// keep their layout.
func Save(path string, s settings.Settings) error {
	format, err := loader.FormatOf(path)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var data []byte
	switch format {
	case loader.FormatJSON:
		data, err = encodeJSON(path, existing, s)
	default:
		data, err = encodeMap(path, format, existing, s)
	}
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// encodeJSON sets each settings key in the existing document in place.
func encodeJSON(path string, existing []byte, s settings.Settings) ([]byte, error) {
	fresh := len(bytes.TrimSpace(existing)) == 0
	doc := existing
	if fresh {
		doc = []byte("{}")
	} else if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return nil, &loader.ParseError{Path: path, Message: "not a JSON object"}
	}

	values := s.ToMap()
	for _, key := range settingKeys {
		var err error
		doc, err = sjson.SetBytes(doc, key, values[key])
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", key, err)
		}
	}

	if fresh {
		doc = []byte(gjson.GetBytes(doc, "@pretty").Raw)
	}
	return doc, nil
}

// encodeMap merges the settings over the decoded document and marshals the
// result again.
func encodeMap(path string, format loader.Format, existing []byte, s settings.Settings) ([]byte, error) {
	fl, err := loader.ForPath(nil, path)
	if err != nil {
		return nil, err
	}
	current, err := fl.LoadFromReader(bytes.NewReader(existing))
	if err != nil {
		return nil, err
	}
	merged := loader.DeepMerge(current, s.ToMap())

	if format == loader.FormatTOML {
		return toml.Marshal(merged)
	}
	return yaml.Marshal(merged)
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/store"
)

// LoadFormFile reads a form definition from a YAML (or JSON) file.
func LoadFormFile(path string) (store.Form, error) {
	var def store.Form
	if err := readYAML(path, &def); err != nil {
		return store.Form{}, err
	}
	if def.Fields == nil {
		def.Fields = []store.Field{}
	}
	return def, nil
}

// LoadInputFile reads a submission from a YAML (or JSON) file with
// "values" and optional "checked" maps.
func LoadInputFile(path string) (form.Input, error) {
	var in form.Input
	if err := readYAML(path, &in); err != nil {
		return form.Input{}, err
	}
	return in, nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

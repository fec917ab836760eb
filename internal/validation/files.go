package validation

import (
	"errors"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

func isReadablePath(fl validator.FieldLevel) bool {
	file, err := os.Open(stringField(fl))
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// isYAMLFile accepts an existing regular file that decodes as YAML. An empty
// file is valid.
func isYAMLFile(fl validator.FieldLevel) bool {
	path := stringField(fl)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	var content any
	if err := yaml.NewDecoder(file).Decode(&content); err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	return true
}

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// Problem describes one schema violation in a config file.
type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// Validate checks raw YAML config bytes against the settings schema.
// Returns one Problem per violation; an empty result means the config
// is valid. The error return is for schema machinery failures only,
// never for config content.
func Validate(data []byte) ([]Problem, error) {
	// An empty file means "all defaults", which is always valid
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile settings schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Settings"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("lookup settings definition: %w", err)
	}

	file, err := cueyaml.Extract("config.yaml", data)
	if err != nil {
		return []Problem{{Message: fmt.Sprintf("invalid yaml: %v", err)}}, nil
	}
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return []Problem{{Message: fmt.Sprintf("invalid yaml: %v", err)}}, nil
	}

	unified := def.Unify(value)
	// Concrete(false): all fields are optional, only shapes and enums matter
	err = unified.Validate(cue.Concrete(false))
	if err == nil {
		return nil, nil
	}

	var problems []Problem
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		problems = append(problems, Problem{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return problems, nil
}

// ValidateFile checks the config file at path against the settings
// schema. A missing file is valid: defaults always conform.
func ValidateFile(path string) ([]Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Validate(data)
}

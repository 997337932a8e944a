package projectconf

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/conf.schema.json
var schemaBytes []byte

const schemaURL = "conf.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// document is the JSON shape the schema describes.
type document struct {
	Version struct {
		Major int `json:"major"`
		Minor int `json:"minor"`
		Patch int `json:"patch"`
	} `json:"version"`
	ProjectDirectory string `json:"project_directory"`
	Executable       string `json:"executable"`
	OutputDirectory  string `json:"output_directory"`
	SourceDirectory  string `json:"source_directory"`
	Dialect          string `json:"dialect"`
}

func toDocument(c *Config) document {
	var d document
	d.Version.Major = c.Version.Major
	d.Version.Minor = c.Version.Minor
	d.Version.Patch = c.Version.Patch
	d.ProjectDirectory = c.ProjectDirectory
	d.Executable = c.Executable
	d.OutputDirectory = c.OutputDirectory
	d.SourceDirectory = c.SourceDirectory
	d.Dialect = c.Dialect.String()
	return d
}

// Validate checks that every field of c is populated and fits the file
// format: values stay on one line, the executable is a bare file name, and
// the output and source directories are relative to the project.
func Validate(c *Config) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	raw, err := json.Marshal(toDocument(c))
	if err != nil {
		return fmt.Errorf("converting config to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("preparing config for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &ValidationError{Issues: extractIssues(ve)}
}

func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}

	seen := make(map[ValidationIssue]bool)
	var unique []ValidationIssue
	for _, issue := range issues {
		if !seen[issue] {
			seen[issue] = true
			unique = append(unique, issue)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Key < unique[j].Key })
	return unique
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}

	keyword := ""
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	if keyword == "$ref" || keyword == "allOf" {
		return
	}

	key := ""
	if len(ve.InstanceLocation) > 0 {
		key = ve.InstanceLocation[0]
	}
	*issues = append(*issues, ValidationIssue{
		Key:     key,
		Message: describe(key, keyword, ve.ErrorKind.LocalizedString(printer)),
	})
}

// describe replaces the schema's regular expressions with something a
// user can act on.
func describe(key, keyword, msg string) string {
	switch keyword {
	case "pattern":
		switch key {
		case KeyExecutable:
			return "must be a file name without whitespace or path separators"
		case KeyOutputDirectory, KeySourceDirectory:
			return "must be a non-empty relative path on a single line"
		default:
			return "must be a non-empty single line without leading whitespace"
		}
	case "not":
		return "is not a usable name"
	}
	return msg
}

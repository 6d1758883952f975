package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quadforge/quadforge/internal/generator"
)

// summaryResult is the structured form of a Report for --output json|yaml,
// modeled on the teacher's OperationResult pattern in cmd/output.go.
type summaryResult struct {
	Generated []generatedUnit `json:"generated" yaml:"generated"`
	Failed    []failedUnit    `json:"failed,omitempty" yaml:"failed,omitempty"`
	Warnings  []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Summary   map[string]int  `json:"summary" yaml:"summary"`
}

type generatedUnit struct {
	Unit       string `json:"unit" yaml:"unit"`
	ObjectPath string `json:"dbusObjectPath" yaml:"dbusObjectPath"`
}

type failedUnit struct {
	Unit  string `json:"unit" yaml:"unit"`
	Error string `json:"error" yaml:"error"`
}

func printStructured(format string, report *generator.Report) error {
	res := summaryResult{
		Warnings: report.Warnings,
		Summary: map[string]int{
			"generated": len(report.Generated),
			"failed":    len(report.Failed),
			"warnings":  len(report.Warnings),
		},
	}
	for _, name := range report.Generated {
		res.Generated = append(res.Generated, generatedUnit{Unit: name, ObjectPath: unitObjectPath(name)})
	}
	for _, f := range report.Failed {
		res.Failed = append(res.Failed, failedUnit{
			Unit:  fmt.Sprintf("%s.%s", f.Stem, f.Kind),
			Error: f.Err.Error(),
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer func() { _ = enc.Close() }()
		return enc.Encode(res)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/rules"
	"github.com/TimurManjosov/govtag/internal/store"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseFormat validates a --output value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want table, json or yaml)", s)
	}
}

// PrintRules outputs the supported rule kinds.
func PrintRules(w io.Writer, kinds []rules.Kind, format OutputFormat) error {
	return render(w, format, map[string][]rules.Kind{"rules": kinds}, func(t *tablewriter.Table) {
		t.Header("#", "Rule")
		for i, k := range kinds {
			t.Append(strconv.Itoa(i+1), string(k))
		}
	})
}

// PrintCheck outputs the verdict of a single rule.
func PrintCheck(w io.Writer, rule, value string, passed bool, format OutputFormat) error {
	data := map[string]any{"rule": rule, "value": value, "passed": passed}
	return render(w, format, data, func(t *tablewriter.Table) {
		t.Header("Rule", "Value", "Passed")
		t.Append(rule, value, strconv.FormatBool(passed))
	})
}

// PrintOutcome outputs a chain outcome.
func PrintOutcome(w io.Writer, chain string, outcome engine.Outcome, format OutputFormat) error {
	return render(w, format, outcome, func(t *tablewriter.Table) {
		t.Header("Chain", "Passed", "Failing Rule", "Index")
		failing, index := "", ""
		if outcome.FailingToken != nil {
			failing = outcome.FailingToken.Raw
			index = strconv.Itoa(outcome.FailingIndex)
		}
		t.Append(chain, strconv.FormatBool(outcome.Passed), failing, index)
	})
}

// PrintReport outputs a form validation report.
func PrintReport(w io.Writer, report form.Report, format OutputFormat) error {
	return render(w, format, report, func(t *tablewriter.Table) {
		t.Header("Field", "Result", "Failing Rule", "Message")
		for _, f := range report.Fields {
			result := "fail"
			switch {
			case f.Skipped:
				result = "skipped"
			case f.Passed:
				result = "pass"
			}
			t.Append(f.Field, result, f.FailingRule, f.Message)
		}
		t.Footer("", verdict(report.Valid), "", report.RunID.String())
	})
}

// PrintForms outputs form definitions.
func PrintForms(w io.Writer, forms []store.Form, format OutputFormat) error {
	return render(w, format, map[string][]store.Form{"forms": forms}, func(t *tablewriter.Table) {
		t.Header("Name", "Fields", "Engine", "Description", "Updated At")
		for _, f := range forms {
			description := f.Description
			if len(description) > 40 {
				description = description[:37] + "..."
			}
			updated := ""
			if !f.UpdatedAt.IsZero() {
				updated = f.UpdatedAt.Format("2006-01-02 15:04")
			}
			t.Append(f.Name, strconv.Itoa(len(f.Fields)), f.Engine, description, updated)
		}
	})
}

func verdict(valid bool) string {
	if valid {
		return "VALID"
	}
	return "INVALID"
}

func render(w io.Writer, format OutputFormat, data any, table func(*tablewriter.Table)) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(data)
	case FormatTable:
		t := tablewriter.NewWriter(w)
		table(t)
		return t.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

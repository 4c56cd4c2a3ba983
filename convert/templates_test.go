package convert

import (
	"strings"
	"testing"

	"trexport/config"
	"trexport/testrail"
)

func TestExpandTemplate_SimpleText(t *testing.T) {
	run := &testrail.Run{ID: 1}

	result, err := expandTemplate(run, config.OutputNameTemplateFieldName, "simple-text", testGenerated, "build")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "simple-text" {
		t.Errorf("expandTemplate() = %q, want %q", result, "simple-text")
	}
}

func TestExpandTemplate_Fields(t *testing.T) {
	run := &testrail.Run{ID: 7, Name: "Nightly", Refs: "ABC-1", IsCompleted: true}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"run id", "{{ .RunID }}", "7"},
		{"run name", "{{ .RunName }}", "Nightly"},
		{"refs", "{{ .Refs }}", "ABC-1"},
		{"date", "{{ .Date }}", "2024-03-05"},
		{"mode", "{{ .Mode }}", "stream"},
		{"context", "{{ .Context }}", string(config.OutputNameTemplateFieldName)},
		{"completed", "{{ if .Completed }}final{{ else }}draft{{ end }}", "final"},
		{"sprig function", `{{ .RunName | lower }}-{{ printf "%04d" .RunID }}`, "nightly-0007"},
		{"sprig default", `{{ .Refs | replace "-" "_" | default "none" }}`, "ABC_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandTemplate(run, config.OutputNameTemplateFieldName, tt.template, testGenerated, "stream")
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("expandTemplate() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExpandTemplate_ParseError(t *testing.T) {
	run := &testrail.Run{ID: 1}

	_, err := expandTemplate(run, config.OutputNameTemplateFieldName, "{{ .RunID ", testGenerated, "build")
	if err == nil {
		t.Fatal("expandTemplate() expected parse error")
	}
	if !strings.Contains(err.Error(), string(config.OutputNameTemplateFieldName)) {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestExpandTemplate_ExecuteError(t *testing.T) {
	run := &testrail.Run{ID: 1}

	if _, err := expandTemplate(run, config.OutputNameTemplateFieldName, "{{ .Unknown }}", testGenerated, "build"); err == nil {
		t.Fatal("expandTemplate() expected execution error for unknown field")
	}
}

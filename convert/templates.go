package convert

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	"trexport/config"
	"trexport/testrail"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context   string
	RunID     int64
	RunName   string
	Refs      string
	Completed bool
	Date      string
	Mode      string
}

func expandTemplate(run *testrail.Run, name config.TemplateFieldName, field string, generated time.Time, mode string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:   string(name),
		RunID:     run.ID,
		RunName:   run.Name,
		Refs:      run.Refs,
		Completed: run.IsCompleted,
		Date:      generated.Format("2006-01-02"),
		Mode:      mode,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

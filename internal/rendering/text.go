package rendering

import (
	"embed"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-analyzer/internal/types"
)

//go:embed templates/report.tmpl
var templateFS embed.FS

const (
	barWidth    = 30
	sliderWidth = 31
)

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// TextRenderer renders reports as plain text, one named template per section.
type TextRenderer struct {
	tmpl *template.Template
}

// NewTextRenderer returns a renderer using the built-in templates.
func NewTextRenderer() (*TextRenderer, error) {
	tmpl, err := template.New("report").Funcs(templateFuncs).ParseFS(templateFS, "templates/report.tmpl")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse built-in template", Cause: err}
	}
	return &TextRenderer{tmpl: tmpl}, nil
}

// ParseTextTemplate loads a custom template file. It must define a template
// for every section it will be asked to render.
func ParseTextTemplate(path string) (*TextRenderer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Message: fmt.Sprintf("template file not found: %s", path), Cause: err}
		}
		return nil, &TemplateError{Message: "failed to read template file", Cause: err}
	}
	tmpl, err := template.New("report").Funcs(templateFuncs).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return &TextRenderer{tmpl: tmpl}, nil
}

type textView struct {
	Report     *types.Report
	Traits     []traitRow
	ToneSlider string
	ATSBar     string
}

type traitRow struct {
	Trait string
	Count int
	Bar   string
}

// Render writes the requested sections of report to w, separated by blank
// lines. No sections means all of them.
func (r *TextRenderer) Render(w io.Writer, report *types.Report, sections ...Section) error {
	if report == nil {
		return &RenderError{Message: "report is nil"}
	}
	if len(sections) == 0 {
		sections = AllSections()
	}

	view := newTextView(report)
	for i, s := range sections {
		if s == SectionAll {
			return r.Render(w, report, AllSections()...)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return &RenderError{Message: "failed to write output", Cause: err}
			}
		}
		if err := r.tmpl.ExecuteTemplate(w, string(s), view); err != nil {
			return &TemplateError{Message: fmt.Sprintf("failed to execute section %s", s), Cause: err}
		}
	}
	return nil
}

// RenderText renders report with the built-in templates.
func RenderText(report *types.Report, sections ...Section) (string, error) {
	r, err := NewTextRenderer()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := r.Render(&sb, report, sections...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func newTextView(report *types.Report) textView {
	view := textView{
		Report:     report,
		ToneSlider: ToneSlider(report.Tone.Polarity, sliderWidth),
		ATSBar:     Bar(report.ATS.Score, 100, barWidth),
	}
	maxCount := 0
	for _, t := range report.Traits {
		maxCount = max(maxCount, t.Count)
	}
	for _, t := range report.Traits {
		view.Traits = append(view.Traits, traitRow{Trait: t.Trait, Count: t.Count, Bar: Bar(t.Count, maxCount, barWidth/2)})
	}
	return view
}

// Bar draws value/total as a fixed-width text bar.
func Bar(value, total, width int) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(width) * float64(min(max(value, 0), total)) / float64(total)))
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// ToneSlider draws a polarity in [-1, 1] as a marker on a horizontal scale.
func ToneSlider(polarity float64, width int) string {
	if width < 2 {
		width = 2
	}
	pos := sliderPosition(polarity, width-1)
	runes := []rune(strings.Repeat("-", width))
	runes[pos] = '|'
	return "[" + string(runes) + "]"
}

// sliderPosition maps polarity onto 0..span.
func sliderPosition(polarity float64, span int) int {
	if math.IsNaN(polarity) {
		polarity = 0
	}
	polarity = math.Max(-1, math.Min(1, polarity))
	return int(math.Round((polarity + 1) / 2 * float64(span)))
}

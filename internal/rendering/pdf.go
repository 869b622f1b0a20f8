package rendering

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Layout constants, in millimetres.
const (
	pdfLineHeight  = 7.0
	pdfLabelWidth  = 45.0
	pdfBarWidth    = 100.0
	pdfBarHeight   = 5.0
	pdfGradientSeg = 100
)

type rgb struct{ r, g, b int }

var (
	colorHeading = rgb{33, 37, 41}
	colorBarFill = rgb{70, 130, 180}
	colorBarBack = rgb{230, 230, 230}
	colorWarning = rgb{176, 90, 0}
)

// RenderPDF writes report as a one-document PDF to w.
func RenderPDF(w io.Writer, report *types.Report) error {
	if report == nil {
		return &RenderError{Message: "report is nil"}
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Resume Analysis Report", true)
	doc.SetCreator("resume-analyzer", true)
	if !report.GeneratedAt.IsZero() {
		doc.SetCreationDate(report.GeneratedAt)
	}
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	p := &pdfWriter{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	p.title(report)
	p.candidate(report.Candidate)
	p.skills(report.Skills)
	p.traits(report.Traits)
	p.tone(report.Tone)
	p.ats(report.ATS)
	if report.Match != nil {
		p.match(report.Match)
	}

	if err := doc.Output(w); err != nil {
		return &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return nil
}

type pdfWriter struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfWriter) title(report *types.Report) {
	p.doc.SetFont("Helvetica", "B", 16)
	p.setText(colorHeading)
	p.doc.CellFormat(0, 10, "Resume Analysis Report", "", 1, "C", false, 0, "")
	p.doc.SetFont("Helvetica", "", 9)
	meta := report.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")
	if report.Source != "" {
		meta = p.tr(report.Source) + " - " + meta
	}
	p.doc.CellFormat(0, 5, meta, "", 1, "C", false, 0, "")
	p.doc.Ln(4)
}

func (p *pdfWriter) heading(text string) {
	p.doc.Ln(3)
	p.doc.SetFont("Helvetica", "B", 12)
	p.setText(colorHeading)
	p.doc.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
	p.doc.Ln(2)
	p.doc.SetFont("Helvetica", "", 11)
}

func (p *pdfWriter) field(label, value string) {
	p.doc.SetFont("Helvetica", "B", 11)
	p.doc.CellFormat(pdfLabelWidth, pdfLineHeight, label, "", 0, "L", false, 0, "")
	p.doc.SetFont("Helvetica", "", 11)
	p.doc.MultiCell(0, pdfLineHeight, p.tr(value), "", "L", false)
}

func (p *pdfWriter) note(text string, c rgb) {
	p.setText(c)
	p.doc.MultiCell(0, pdfLineHeight, p.tr(text), "", "L", false)
	p.setText(colorHeading)
}

func (p *pdfWriter) candidate(c types.CandidateFields) {
	p.heading("Candidate Details")
	p.field("Name:", c.Name)
	p.field("Email:", c.Email)
}

func (p *pdfWriter) skills(skills []string) {
	p.heading("Extracted Skills")
	if len(skills) == 0 {
		p.note("No matching skills found in the resume.", colorWarning)
		return
	}
	p.doc.MultiCell(0, pdfLineHeight, p.tr(strings.Join(skills, ", ")), "", "L", false)
}

func (p *pdfWriter) traits(traits []types.TraitScore) {
	p.heading("Personality Traits")
	if len(traits) == 0 {
		p.note("No traits identified from extracted skills.", colorWarning)
		return
	}
	maxCount := 0
	for _, t := range traits {
		maxCount = max(maxCount, t.Count)
	}
	for _, t := range traits {
		p.doc.CellFormat(pdfLabelWidth, pdfLineHeight, p.tr(t.Trait), "", 0, "L", false, 0, "")
		p.bar(float64(t.Count) / float64(maxCount))
		p.doc.CellFormat(0, pdfLineHeight, fmt.Sprintf("  %d", t.Count), "", 1, "L", false, 0, "")
	}
}

func (p *pdfWriter) tone(t types.ToneResult) {
	p.heading("Resume Tone")
	p.field("Tone:", fmt.Sprintf("%s (polarity %+.2f)", t.Label, t.Polarity))

	x, y := p.doc.GetXY()
	x += pdfLabelWidth
	seg := pdfBarWidth / pdfGradientSeg
	for i := 0; i < pdfGradientSeg; i++ {
		c := gradient(float64(i) / float64(pdfGradientSeg-1))
		p.doc.SetFillColor(c.r, c.g, c.b)
		p.doc.Rect(x+float64(i)*seg, y+1, seg+0.05, pdfBarHeight, "F")
	}
	marker := x + float64(sliderPosition(t.Polarity, 1000))/1000*pdfBarWidth
	p.doc.SetDrawColor(0, 0, 0)
	p.doc.SetLineWidth(0.8)
	p.doc.Line(marker, y, marker, y+pdfBarHeight+2)
	p.doc.SetLineWidth(0.2)

	p.doc.SetFont("Helvetica", "", 8)
	p.doc.SetXY(x, y+pdfBarHeight+2)
	p.doc.CellFormat(pdfBarWidth/2, 4, "Negative", "", 0, "L", false, 0, "")
	p.doc.CellFormat(pdfBarWidth/2, 4, "Positive", "", 1, "R", false, 0, "")
	p.doc.SetFont("Helvetica", "", 11)
}

func (p *pdfWriter) ats(a types.ATSResult) {
	p.heading("ATS Score")
	p.doc.CellFormat(pdfLabelWidth, pdfLineHeight, fmt.Sprintf("%d%%", a.Score), "", 0, "L", false, 0, "")
	p.bar(float64(a.Score) / 100)
	p.doc.CellFormat(0, pdfLineHeight, "  "+a.Strategy, "", 1, "L", false, 0, "")
}

func (p *pdfWriter) match(m *types.MatchResult) {
	p.heading("Job Description Match")
	if m.NoJobSkills {
		p.note("No recognizable skills found in the job description.", colorWarning)
		return
	}
	p.field("Skills in JD:", strings.Join(m.JobSkills, ", "))
	p.field("Matching:", orNone(m.MatchedSkills))
	p.field("Missing:", orNone(m.MissingSkills))
	p.field("Match score:", fmt.Sprintf("%d%% (%s)", m.ScorePercent, m.Band))
	if m.LowConfidence {
		p.note("Job description has very few recognized skills; the score may not be meaningful.", colorWarning)
	}
	if m.SingleSkillMatch {
		p.note("Only 1 skill matched; a 100% score may not be reliable.", colorWarning)
	}
}

// bar draws a horizontal bar filled to fraction at the current position.
func (p *pdfWriter) bar(fraction float64) {
	fraction = max(0, min(1, fraction))
	x, y := p.doc.GetXY()
	top := y + (pdfLineHeight-pdfBarHeight)/2
	p.doc.SetFillColor(colorBarBack.r, colorBarBack.g, colorBarBack.b)
	p.doc.Rect(x, top, pdfBarWidth, pdfBarHeight, "F")
	if fraction > 0 {
		p.doc.SetFillColor(colorBarFill.r, colorBarFill.g, colorBarFill.b)
		p.doc.Rect(x, top, pdfBarWidth*fraction, pdfBarHeight, "F")
	}
	p.doc.SetX(x + pdfBarWidth)
}

func (p *pdfWriter) setText(c rgb) {
	p.doc.SetTextColor(c.r, c.g, c.b)
}

// gradient runs from red at 0 to green at 1.
func gradient(t float64) rgb {
	t = max(0, min(1, t))
	return rgb{r: int(255 * (1 - t)), g: int(255 * t), b: 0}
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

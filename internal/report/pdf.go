package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"ieee-funding-portal/internal/forms"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Attachment is one uploaded supporting document, held in memory for the
// lifetime of report generation.
type Attachment struct {
	DocType  string
	FileName string
	MIME     string
	Data     []byte
}

// DocumentTypes is the fixed checklist of supporting documents.
var DocumentTypes = []string{
	"project-proposal",
	"mentor-endorsement",
	"budget-quotation",
	"ieee-membership-proof",
	"institution-noc",
}

var docTypeLabels = map[string]string{
	"project-proposal":      "Project Proposal",
	"mentor-endorsement":    "Mentor Endorsement Letter",
	"budget-quotation":      "Budget Quotation",
	"ieee-membership-proof": "IEEE Membership Proof",
	"institution-noc":       "Institution NOC",
}

const (
	pageBottom   = 270.0 // mm; content below this triggers a page break
	contentWidth = 180.0
	imageMaxW    = 160.0
	imageMaxH    = 100.0
	textPreview  = 300 // characters of a text attachment shown inline
)

// FileName names the generated artifact: IEEE_Application_{studentID}_{ts}.pdf.
func FileName(studentID string, ts time.Time) string {
	return fmt.Sprintf("IEEE_Application_%s_%d.pdf", studentID, ts.UnixMilli())
}

// Generator renders a submitted application into a paginated PDF. A failure
// on one attachment is isolated: it is logged, marked inline, and generation
// continues.
type Generator struct {
	log *zap.Logger
}

func NewGenerator(log *zap.Logger) *Generator {
	return &Generator{log: log}
}

func (g *Generator) Build(f *forms.FormData, docs []Attachment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	g.header(pdf, f)

	g.section(pdf, "Basic Information", [][2]string{
		{"Name", strings.TrimSpace(f.FirstName + " " + f.LastName)},
		{"Student ID", f.StudentID},
		{"IEEE Membership No", f.IEEEMembershipNo},
		{"Email", f.EmailID},
		{"Phone", f.PhoneNo},
		{"Year", f.Year},
		{"Department", f.Department},
	})

	g.section(pdf, "Project Information", [][2]string{
		{"Project Title", f.ProjectTitle},
		{"Primary SDG Goal", f.PrimarySDGGoal},
		{"Team Size", f.TeamSize},
		{"Mentor", f.MentorName},
		{"Mentor ID", f.MentorID},
		{"SAP Code", f.SAPCode},
	})

	g.section(pdf, "Project Idea & Technicals", [][2]string{
		{"Problem Statement", f.ProblemStatement},
		{"Project Idea", f.ProjectIdeaDescription},
		{"Methodology", f.ProjectMethodology},
		{"Technical Stack", f.TechnicalStack},
	})

	g.section(pdf, "Funding & Timeline", [][2]string{
		{"Technology Readiness Level", f.TechnologyReadinessLevel},
		{"TRL Justification", f.TRLJustification},
		{"Selected SDG Goals", formatGoals(f.SelectedSDGGoals)},
		{"SDG Justification", f.SDGJustification},
		{"Funding Programs", formatPrograms(f.FundingPrograms)},
		{"Funding Amount", f.FundingAmount},
		{"IEEE Funding Program", f.IEEEFundingProgram},
		{"Project Start", f.ProjectStartDate},
		{"Project End", f.ProjectEndDate},
		{"Key Milestones", f.KeyMilestones},
	})

	g.budgetTable(pdf, f.BudgetItems)

	g.section(pdf, "Impact & Declaration", [][2]string{
		{"Target Beneficiaries", f.TargetBeneficiaries},
		{"Expected Outcomes", f.ExpectedOutcomes},
		{"Sustainability Plan", f.SustainabilityPlan},
	})

	g.documents(pdf, f, docs)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) header(pdf *gofpdf.Fpdf, f *forms.FormData) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentWidth, 10, "IEEE Student Chapter", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentWidth, 8, "Project Funding Application", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentWidth, 6,
		fmt.Sprintf("Application ID: %s    Generated: %s", f.StudentID, time.Now().Format("2006-01-02 15:04")),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetDrawColor(0, 98, 155) // IEEE blue
	pdf.SetLineWidth(0.6)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(4)
}

func (g *Generator) section(pdf *gofpdf.Fpdf, title string, pairs [][2]string) {
	g.ensureSpace(pdf, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 238, 245)
	pdf.CellFormat(contentWidth, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(1)

	for _, pair := range pairs {
		label, value := pair[0], pair[1]
		if value == "" {
			value = "-"
		}
		g.ensureSpace(pdf, 12)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(55, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentWidth-55, 6, value, "", "L", false)
	}
	pdf.Ln(3)
}

func (g *Generator) budgetTable(pdf *gofpdf.Fpdf, items []forms.BudgetItem) {
	g.ensureSpace(pdf, 24)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 238, 245)
	pdf.CellFormat(contentWidth, 8, "Budget Items", "", 1, "L", true, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(10, 6, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, "Components", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Justification", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, it := range items {
		g.ensureSpace(pdf, 8)
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, truncate(it.Items, 32), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, truncate(it.Components, 28), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, it.Quantity, "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, truncate(it.Justification, 34), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (g *Generator) documents(pdf *gofpdf.Fpdf, f *forms.FormData, docs []Attachment) {
	g.ensureSpace(pdf, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 238, 245)
	pdf.CellFormat(contentWidth, 8, "Supporting Documents", "", 1, "L", true, 0, "")
	pdf.Ln(1)

	if len(docs) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentWidth, 6, "No documents uploaded", "", 1, "L", false, 0, "")
		return
	}

	for i, doc := range docs {
		g.ensureSpace(pdf, 14)
		label := docTypeLabels[doc.DocType]
		if label == "" {
			label = doc.DocType
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentWidth, 6, fmt.Sprintf("%s - %s", label, doc.FileName), "", 1, "L", false, 0, "")

		if err := g.renderAttachment(pdf, i, doc); err != nil {
			g.log.Error("attachment render failed",
				zap.String("studentId", f.StudentID),
				zap.String("file", doc.FileName),
				zap.Error(err))
			pdf.ClearError()
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(180, 0, 0)
			pdf.CellFormat(contentWidth, 6, "Error displaying document", "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(2)
	}
}

func (g *Generator) renderAttachment(pdf *gofpdf.Fpdf, idx int, doc Attachment) error {
	switch {
	case strings.HasPrefix(doc.MIME, "image/"):
		return g.renderImage(pdf, idx, doc)
	case doc.MIME == "application/pdf":
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentWidth, 6, "[PDF attachment - included as submitted]", "", 1, "L", false, 0, "")
		return nil
	case strings.HasPrefix(doc.MIME, "text/"):
		preview := truncate(string(doc.Data), textPreview)
		pdf.SetFont("Courier", "", 8)
		pdf.MultiCell(contentWidth, 4, preview, "1", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		return nil
	default:
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentWidth, 6, fmt.Sprintf("[Attachment of type %s]", doc.MIME), "", 1, "L", false, 0, "")
		return nil
	}
}

// renderImage scales the image into a bounding box preserving aspect ratio.
func (g *Generator) renderImage(pdf *gofpdf.Fpdf, idx int, doc Attachment) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(doc.Data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("image has zero dimension")
	}

	w, h := imageMaxW, imageMaxW*float64(cfg.Height)/float64(cfg.Width)
	if h > imageMaxH {
		h = imageMaxH
		w = imageMaxH * float64(cfg.Width) / float64(cfg.Height)
	}

	imgType := ""
	switch doc.MIME {
	case "image/png":
		imgType = "PNG"
	case "image/jpeg", "image/jpg":
		imgType = "JPG"
	case "image/gif":
		imgType = "GIF"
	default:
		return fmt.Errorf("unsupported image type %s", doc.MIME)
	}

	g.ensureSpace(pdf, h+4)
	opts := gofpdf.ImageOptions{ImageType: imgType}
	name := fmt.Sprintf("attachment-%d", idx)
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(doc.Data))
	if pdf.Err() {
		return pdf.Error()
	}
	pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), w, h, true, opts, 0, "")
	if pdf.Err() {
		return pdf.Error()
	}
	return nil
}

func (g *Generator) ensureSpace(pdf *gofpdf.Fpdf, needed float64) {
	if pdf.GetY()+needed > pageBottom {
		pdf.AddPage()
	}
}

func formatGoals(goals []int) string {
	if len(goals) == 0 {
		return ""
	}
	parts := make([]string, len(goals))
	for i, goal := range goals {
		parts[i] = fmt.Sprintf("Goal %d", goal)
	}
	return strings.Join(parts, ", ")
}

func formatPrograms(p forms.FundingPrograms) string {
	var parts []string
	if p.IEEESight {
		parts = append(parts, "IEEE SIGHT")
	}
	if p.IEEEHTB {
		parts = append(parts, "IEEE HTB")
	}
	if p.IEEEFoundation {
		parts = append(parts, "IEEE Foundation")
	}
	if p.IEEESmartVillage {
		parts = append(parts, "IEEE Smart Village")
	}
	return strings.Join(parts, ", ")
}

// truncate cuts to max runes, never mid-rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

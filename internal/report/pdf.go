package report

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const dateLayout = "2006-01-02"

// fontFamily is a UTF-8 font so localized month names render intact.
const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

func render(r SprintReport) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.Cell(40, 10, "Sprint Report: "+r.Sprint.Name)
	pdf.Ln(12)

	pdf.SetFont(fontFamily, "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%s - %s (%s)",
		r.Sprint.StartDate.Format(dateLayout), r.Sprint.EndDate.Format(dateLayout), r.Sprint.State))
	pdf.Ln(8)
	if r.Sprint.Goal != "" {
		pdf.MultiCell(0, 8, "Goal: "+r.Sprint.Goal, "", "", false)
	}
	pdf.Ln(4)

	// Metrics
	pdf.SetFont(fontFamily, "B", 14)
	header := "Completion"
	if r.Metrics.FromSnapshot {
		header += " (snapshot at close)"
	}
	pdf.Cell(0, 10, header)
	pdf.Ln(8)
	pdf.SetFont(fontFamily, "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%d of %d tasks done, %.2f%%",
		r.Metrics.DoneCount, r.Metrics.TaskCount, r.Metrics.CompletionPercentage))
	pdf.Ln(12)

	// Tasks
	pdf.SetFont(fontFamily, "B", 14)
	pdf.Cell(0, 10, "Tasks")
	pdf.Ln(8)
	pdf.SetFont(fontFamily, "", 12)
	if len(r.Tasks) == 0 {
		pdf.Cell(0, 8, "  - No tasks assigned.")
		pdf.Ln(8)
	}
	for _, t := range r.Tasks {
		status := "[ ]"
		if t.Done {
			status = "[x]"
		}
		pdf.Cell(0, 8, fmt.Sprintf("  %s %s", status, t.Name))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	if len(r.Activity) > 0 {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.Cell(0, 10, "Activity")
		pdf.Ln(8)
		pdf.SetFont(fontFamily, "", 11)
		for _, a := range r.Activity {
			pdf.MultiCell(0, 6, fmt.Sprintf("[%s] %s", a.At.Format("2006-01-02 15:04"), a.Body), "", "", false)
		}
	}
	return pdf
}

// WritePDF renders the report to w.
func WritePDF(r SprintReport, w io.Writer) error {
	pdf := render(r)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}

// WritePDFFile renders the report to path.
func WritePDFFile(r SprintReport, path string) error {
	return render(r).OutputFileAndClose(path)
}

package payroll

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PayslipWriter renders a finalized record into a stored document and
// returns its path.
type PayslipWriter interface {
	Write(p Payroll) (string, error)
}

// FilePayslipWriter renders a minimal single-page PDF to local disk.
// Object storage would slot in behind the same interface.
type FilePayslipWriter struct {
	Dir string
}

func NewFilePayslipWriter(dir string) *FilePayslipWriter {
	return &FilePayslipWriter{Dir: dir}
}

func (w *FilePayslipWriter) Write(p Payroll) (string, error) {
	lines := []string{
		"PAYSLIP " + p.PayrollMonth,
		fmt.Sprintf("Employee: %s", p.EmployeeID),
		fmt.Sprintf("Period: %s to %s", p.PeriodStart.Format("2006-01-02"), p.PeriodEnd.Format("2006-01-02")),
		fmt.Sprintf("Base salary: %.2f %s", p.Salary.Base, p.Currency),
		fmt.Sprintf("Prorated: %.2f (%d/%d days)", p.Salary.Prorated, p.DaysWorked, p.WorkingDays),
		fmt.Sprintf("Allowances: %.2f", p.Allowances.Total),
		fmt.Sprintf("Overtime: %.2f", p.Overtime.Amount),
		fmt.Sprintf("Bonuses: %.2f", p.Bonuses.Total),
		fmt.Sprintf("Gross pay: %.2f", p.GrossPay),
		fmt.Sprintf("Tax (%.2f%%): %.2f", p.Deductions.Tax.Rate, p.Deductions.Tax.Amount),
		fmt.Sprintf("Pension (%.2f%%): %.2f", p.Deductions.Pension.Rate, p.Deductions.Pension.Amount),
		fmt.Sprintf("Total deductions: %.2f", p.Deductions.Total),
		fmt.Sprintf("NET PAY: %.2f %s", p.NetPay, p.Currency),
	}

	doc := buildPayslipPDF(lines)

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(w.Dir, fmt.Sprintf("payslip-%s-%s.pdf", p.PayrollMonth, p.ID))
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// buildPayslipPDF hand-assembles a one-page PDF 1.4 document: a text
// stream in Helvetica, one object per structural element, plus the
// xref table. Enough for a readable payslip without a PDF dependency.
func buildPayslipPDF(lines []string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", pdfEscape(line)))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", pdfEscape(line)))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes()
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}

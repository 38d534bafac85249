package projects

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

const pdfContentType = "application/pdf"

// FactSheetData is one printable project page.
type FactSheetData struct {
	ProjectID   int64
	ProjectName string
	VillageName string
	Description string
	Status      string
	Details     []DetailItem
}

// factSheetCode is the value encoded in the fact sheet barcode.
func factSheetCode(projectID int64) string {
	return fmt.Sprintf("PRJ%08d", projectID)
}

func renderProjectFactSheetPDF(sheet FactSheetData, printedAt time.Time) ([]byte, string, error) {
	if sheet.ProjectID <= 0 {
		return nil, "", fmt.Errorf("project id is required")
	}
	code := factSheetCode(sheet.ProjectID)
	barcodePNG, err := renderCode128PNG(code, 1200, 240)
	if err != nil {
		return nil, "", fmt.Errorf("render barcode %s: %w", code, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Project %d", sheet.ProjectID), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	name := strings.TrimSpace(sheet.ProjectName)
	if name == "" {
		name = "No name"
	}
	pdf.SetFont("Helvetica", "B", 26)
	pdf.CellFormat(0, 14, tr(name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, tr(strings.TrimSpace(sheet.VillageName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Status: "+sheet.Status, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	labelW := 50.0
	valueW := pageW - left - right - labelW
	for _, item := range sheet.Details {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(labelW, 8, item.Label, "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(valueW, 8, tr(item.Value), "B", 1, "L", false, 0, "")
	}

	if desc := strings.TrimSpace(sheet.Description); desc != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Description", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(desc), "", "L", false)
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "project-barcode-" + code
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	imgW := 120.0
	imgH := 26.0
	y := pdf.GetY() + 12
	pdf.ImageOptions(imageName, (pageW-imgW)/2, y, imgW, imgH, false, opt, 0, "")
	pdf.SetY(y + imgH + 3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, code, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Printed: "+printedAt.Format(DisplayLayout), "", 1, "R", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, "", err
	}
	return out.Bytes(), code, nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

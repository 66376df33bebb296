package pdf

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/casecite/internal/pdf/errors"
)

// PageExtractor returns the plain text of every page of a PDF, in page order.
type PageExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// Reader extracts page text with ledongthuc/pdf.
type Reader struct {
	validator *Validator
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{validator: NewValidator(maxFileSize)}
}

// ExtractPages implements PageExtractor.
func (r *Reader) ExtractPages(path string) ([]string, error) {
	extraction, err := r.Extract(path)
	if err != nil {
		return nil, err
	}
	return extraction.Pages, nil
}

// Extract reads every page of the file at path. A page that cannot be read
// yields an empty string so page positions are preserved; its failure is
// recorded in PageErrors. A document in which no page produced text is an
// error of kind NoText.
func (r *Reader) Extract(path string) (*Extraction, error) {
	if err := r.validator.ValidatePath(path); err != nil {
		return nil, err
	}

	f, reader, err := open(path)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.KindOpen, path, err)
	}
	defer f.Close()

	extraction := &Extraction{
		Path:       path,
		PageCount:  reader.NumPage(),
		Pages:      make([]string, 0, reader.NumPage()),
		PageErrors: pdferrors.NewPageErrors(path),
	}

	hasText := false
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		content, err := pageText(reader, pageNum)
		if err != nil {
			extraction.PageErrors.Add(pageNum, err)
		}
		if content != "" {
			hasText = true
		}
		extraction.Pages = append(extraction.Pages, content)
	}

	if !hasText {
		return nil, pdferrors.New(pdferrors.KindNoText, path, "no text content could be extracted from PDF")
	}
	return extraction, nil
}

// open wraps pdf.Open, which panics on some malformed trailers.
func open(path string) (f *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return pdf.Open(path)
}

// pageText returns the text of one page, one line per row of glyphs, turning
// parser panics into errors. A page with any text ends with a newline.
func pageText(reader *pdf.Reader, pageNum int) (content string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			content, err = "", fmt.Errorf("parser panic: %v", rec)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page is null")
	}
	return joinRows(groupRows(page.Content().Text)), nil
}

// groupRows buckets positioned glyphs into rows, top of the page first. A glyph
// belongs to a row when its baseline lies within half a font size of the row's
// first glyph. The newline markers the parser emits after TJ arrays are dropped.
func groupRows(glyphs []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.Trim(g.S, "\r\n") != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]pdf.Text
	var anchor pdf.Text
	for _, g := range sorted {
		if len(rows) == 0 || anchor.Y-g.Y > rowTolerance(anchor) {
			rows = append(rows, nil)
			anchor = g
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], g)
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

func rowTolerance(g pdf.Text) float64 {
	if g.FontSize <= 0 {
		return 1
	}
	return math.Max(1, g.FontSize/2)
}

// joinRows renders rows as newline-terminated lines. Glyphs separated by a
// horizontal gap wider than a fifth of the font size get a space between them,
// for producers that position words instead of emitting space characters. Fonts
// without widths report W as 0 and never get a space inserted.
func joinRows(rows [][]pdf.Text) string {
	var b strings.Builder
	for _, row := range rows {
		for i, g := range row {
			if i > 0 {
				prev := row[i-1]
				gap := g.X - (prev.X + prev.W)
				if prev.W > 0 && g.FontSize > 0 && gap > g.FontSize/5 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

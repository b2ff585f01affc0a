package forticare

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// codePattern matches a registration code: four groups of five and one group of
// six alphanumerics joined by hyphens.
var codePattern = regexp.MustCompile(`[0-9A-Za-z]{5}-[0-9A-Za-z]{5}-[0-9A-Za-z]{5}-[0-9A-Za-z]{5}-[0-9A-Za-z]{6}`)

// FindCode returns the first registration code in text.
func FindCode(text string) (RegistrationCode, bool) {
	m := codePattern.FindString(text)
	return RegistrationCode(m), m != ""
}

// PageTextFunc returns the plain text of the first page of a PDF document.
type PageTextFunc func(doc []byte) (string, error)

// Extractor pulls registration codes out of the PDF certificates inside zip archives.
type Extractor struct {
	// Logger receives progress and per-item warnings. Nil means slog.Default().
	Logger *slog.Logger
	// PageText extracts first-page text. Nil means FirstPageText.
	PageText PageTextFunc
}

// ExtractCodes scans the archives at paths with a default Extractor.
func ExtractCodes(logger *slog.Logger, paths ...string) ExtractResult {
	e := &Extractor{Logger: logger}
	return e.Extract(paths...)
}

// Extract scans every archive in order and every PDF member in archive order.
// Unreadable archives and PDFs without a code are skipped with a warning.
func (e *Extractor) Extract(paths ...string) ExtractResult {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageText := e.PageText
	if pageText == nil {
		pageText = FirstPageText
	}

	var result ExtractResult
	for _, p := range paths {
		logger.Info("reading archive", slog.String("archive", p))
		zr, err := zip.OpenReader(p)
		if err != nil {
			logger.Warn("skipping unreadable archive", slog.String("archive", p), slog.Any("error", err))
			result.Skipped = append(result.Skipped, ItemError{Item: p, Err: err})
			continue
		}
		e.scanArchive(logger, p, &zr.Reader, pageText, &result)
		zr.Close()
	}
	return result
}

func (e *Extractor) scanArchive(logger *slog.Logger, archive string, zr *zip.Reader, pageText PageTextFunc, result *ExtractResult) {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".pdf") {
			continue
		}
		item := archive + ":" + f.Name
		log := logger.With(slog.String("archive", archive), slog.String("member", f.Name))

		code, err := readMemberCode(f, pageText)
		if err != nil {
			log.Warn("skipping certificate", slog.Any("error", err))
			result.Skipped = append(result.Skipped, ItemError{Item: item, Err: err})
			continue
		}
		log.Info("extracted registration code", slog.String("code", string(code)))
		result.Codes = append(result.Codes, code)
	}
}

func readMemberCode(f *zip.File, pageText PageTextFunc) (RegistrationCode, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open member: %w", err)
	}
	defer rc.Close()

	doc, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read member: %w", err)
	}
	text, err := pageText(doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	code, ok := FindCode(text)
	if !ok {
		return "", ErrNoCode
	}
	return code, nil
}

// FirstPageText extracts the plain text of page 1 of a PDF document.
// The pdf reader panics on some malformed documents; those are reported as errors.
func FirstPageText(doc []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", err
	}
	if r.NumPage() < 1 {
		return "", fmt.Errorf("document has no pages")
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("page 1 is empty")
	}
	return page.GetPlainText(nil)
}

package ocr

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner scripts the external binaries. The pdftoppm hook creates page
// images under the output prefix the way the real tool does.
type stubRunner struct {
	t           *testing.T
	nativeText  string
	nativeErr   error
	ocrText     string
	ocrErr      error
	renderPages int
	invocations []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.invocations = append(s.invocations, name)
	switch name {
	case "pdftotext":
		if s.nativeErr != nil {
			return nil, []byte("pdftotext boom"), s.nativeErr
		}
		return []byte(s.nativeText), nil, nil
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= s.renderPages; i++ {
			path := prefix + "-" + string(rune('0'+i)) + ".png"
			require.NoError(s.t, os.WriteFile(path, []byte("png"), 0o644))
		}
		return nil, nil, nil
	case "tesseract":
		if s.ocrErr != nil {
			return nil, []byte("tesseract boom"), s.ocrErr
		}
		return []byte(s.ocrText), nil, nil
	}
	s.t.Fatalf("unexpected command %q", name)
	return nil, nil, nil
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = r
	return e
}

func TestExtractPDF_RichTextLayerSkipsOCR(t *testing.T) {
	native := strings.Repeat("Crown - Porcelain/Ceramic $1,200.00\n", 3)
	runner := &stubRunner{t: t, nativeText: native}
	e := newTestExtractor(runner)

	res, err := e.ExtractPDF(context.Background(), "invoice.pdf")

	require.NoError(t, err)
	assert.Equal(t, native, res.Text)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, []string{"pdftotext"}, runner.invocations)
}

func TestExtractPDF_SparseTextTriggersOCRAppend(t *testing.T) {
	runner := &stubRunner{
		t:           t,
		nativeText:  "short",
		ocrText:     "OCR RECOVERED LINE ITEMS",
		renderPages: 2,
	}
	e := newTestExtractor(runner)

	res, err := e.ExtractPDF(context.Background(), "scan.pdf")

	require.NoError(t, err)
	// Native text is kept, OCR output appended.
	assert.Contains(t, res.Text, "short")
	assert.Contains(t, res.Text, "OCR RECOVERED LINE ITEMS")
	assert.Equal(t, "pdf-text+ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, runner.invocations, "pdftoppm")
	assert.Contains(t, runner.invocations, "tesseract")
}

func TestExtractPDF_SparseMultibyteTextTriggersOCR(t *testing.T) {
	// 25 characters but 75 bytes: the threshold must count characters.
	runner := &stubRunner{
		t:           t,
		nativeText:  strings.Repeat("သ", 25),
		ocrText:     "ocr output",
		renderPages: 1,
	}
	e := newTestExtractor(runner)

	res, err := e.ExtractPDF(context.Background(), "burmese.pdf")

	require.NoError(t, err)
	assert.Contains(t, runner.invocations, "pdftoppm")
	assert.Equal(t, "pdf-text+ocr", res.Method)
}

func TestExtractPDF_MultibyteTextAboveThresholdSkipsOCR(t *testing.T) {
	runner := &stubRunner{t: t, nativeText: strings.Repeat("သ", 60)}
	e := newTestExtractor(runner)

	res, err := e.ExtractPDF(context.Background(), "burmese.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"pdftotext"}, runner.invocations)
	assert.Equal(t, "pdf-text", res.Method)
}

func TestExtractPDF_NativeFailureDegradesToOCR(t *testing.T) {
	runner := &stubRunner{
		t:           t,
		nativeErr:   os.ErrPermission,
		ocrText:     "scanned content only",
		renderPages: 1,
	}
	e := newTestExtractor(runner)

	res, err := e.ExtractPDF(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, "scanned content only", res.Text)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractPDF_EverythingFailsReturnsEmpty(t *testing.T) {
	runner := &stubRunner{
		t:         t,
		nativeErr: os.ErrPermission,
		ocrErr:    os.ErrPermission,
		// pdftoppm succeeds but tesseract fails on every page
		renderPages: 1,
	}
	e := newTestExtractor(runner)

	res, _ := e.ExtractPDF(context.Background(), "broken.pdf")

	assert.Empty(t, strings.TrimSpace(res.Text))
}

func TestExtractImage_RunsOCRDirectly(t *testing.T) {
	runner := &stubRunner{t: t, ocrText: "invoice photo text"}
	e := newTestExtractor(runner)

	res, err := e.ExtractImage(context.Background(), "photo.jpg")

	require.NoError(t, err)
	assert.Equal(t, "invoice photo text", res.Text)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, []string{"tesseract"}, runner.invocations)
}

func TestExtractImage_HEICWithoutConverterFails(t *testing.T) {
	runner := &stubRunner{t: t}
	e := newTestExtractor(runner)

	_, err := e.ExtractImage(context.Background(), "photo.heic")

	require.Error(t, err)
	assert.Empty(t, runner.invocations, "no OCR attempt without a converted image")
}

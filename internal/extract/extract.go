package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"findmyjob-backend/internal/shared/storage/object"
	"findmyjob-backend/internal/shared/util"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var (
	// ErrUnsupportedType is returned for payloads that are not PDF, DOCX or plain text.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrDocumentTooLarge is returned when a DOCX body expands past MaxExpandedBytes.
	ErrDocumentTooLarge = errors.New("document too large")
)

// MaxExpandedBytes caps the decompressed size of word/document.xml.
var MaxExpandedBytes int64 = 80 << 20

// ExtractedSuffix names the derived text artifact stored next to an upload.
const ExtractedSuffix = "extracted.txt"

// ExtractText pulls text from a stored object and persists a derived .extracted.txt copy.
func ExtractText(ctx context.Context, store object.Store, fileKey string, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := object.DerivedKey(fileKey, ExtractedSuffix)
	if _, err := store.Put(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s: save derived: %w", fileKey, err)
	}
	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch normalized := NormalizeMimeType(mimeType, fileName, data); normalized {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeText:
		return extractPlain(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
}

// Supported reports whether a payload can be extracted.
func Supported(mimeType string, fileName string, data []byte) bool {
	switch NormalizeMimeType(mimeType, fileName, data) {
	case MimePDF, MimeDOCX, MimeText:
		return true
	}
	return false
}

// extractPDF recovers from parser panics on malformed files.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("read pdf: %v", rec)
		}
	}()
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	docFile := findZipEntry(zr, "word/document.xml")
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	limit := MaxExpandedBytes
	if limit > 0 && docFile.UncompressedSize64 > uint64(limit) {
		return "", fmt.Errorf("%w: document.xml declares %d bytes", ErrDocumentTooLarge, docFile.UncompressedSize64)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if limit > 0 && int64(len(raw)) > limit {
		return "", fmt.Errorf("%w: document.xml exceeds %d bytes", ErrDocumentTooLarge, limit)
	}
	return stripDocxXML(string(raw)), nil
}

func extractPlain(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), " "), nil
	}
	return string(data), nil
}

// stripDocxXML keeps character data, one line per paragraph.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			if inText {
				buf.WriteString(string(t))
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType maps sniffed or client-declared types onto the supported set.
// Sniffers report DOCX as application/zip and unknown binaries as application/octet-stream,
// so the archive contents and then the file extension decide.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := util.FileExt(fileName)

	switch clean {
	case "application/zip", "application/x-zip-compressed":
		if isDOCXArchive(data) {
			return MimeDOCX
		}
		if len(data) == 0 && ext == "docx" {
			return MimeDOCX
		}
		return clean
	case "", "application/octet-stream":
		switch ext {
		case "pdf":
			return MimePDF
		case "docx":
			return MimeDOCX
		case "txt":
			return MimeText
		}
		return clean
	}
	return clean
}

func isDOCXArchive(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findZipEntry(zr, "word/document.xml") != nil
}

func findZipEntry(zr *zip.Reader, want string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == want {
			return f
		}
	}
	return nil
}

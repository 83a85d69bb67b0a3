package ingestion

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/circuitboard-backend/internal/clients/gcp"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
)

// DocumentExtractor turns one uploaded binary into plain text. Extraction
// never fails the upload: the raw artifact is already stored and stays
// useful as a download, so a failed extraction only produces an empty body
// and a degraded signal for the caller to log.
type DocumentExtractor struct {
	log  *logger.Logger
	docs gcp.DocumentClient
}

func NewDocumentExtractor(log *logger.Logger, docs gcp.DocumentClient) *DocumentExtractor {
	return &DocumentExtractor{
		log:  log.With("adapter", "DocumentExtractor"),
		docs: docs,
	}
}

// Extract dispatches on the declared kind. The switch is exhaustive over
// FileKind so a new kind cannot ship without a handling decision.
func (e *DocumentExtractor) Extract(ctx context.Context, kind FileKind, filename string, data []byte) (text string, degraded bool) {
	switch kind {
	case KindText:
		return sanitizeText(data), false
	case KindPDF:
		return e.extractPDF(ctx, filename, data)
	case KindDoc, KindDocx, KindPpt, KindPptx:
		// Accepted for storage, not extracted.
		return "", false
	}
	return "", false
}

func (e *DocumentExtractor) extractPDF(ctx context.Context, filename string, data []byte) (string, bool) {
	if e.docs == nil {
		e.log.Warn("PDF extraction skipped, no document client configured", "file", filename)
		return "", true
	}
	text, err := e.docs.ExtractText(ctx, data, "application/pdf")
	if err != nil {
		e.log.Warn("PDF extraction degraded, storing empty body", "file", filename, "error", err)
		return "", true
	}
	return text, false
}

// sanitizeText passes .txt bodies through verbatim apart from dropping
// invalid UTF-8, which would otherwise poison the composed prompt.
func sanitizeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

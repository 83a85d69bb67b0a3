package ingestion

import (
	"path/filepath"
	"strings"

	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

// FileKind is the closed set of upload types the service accepts. Adding a
// kind here forces the extractor switch to handle it.
type FileKind int

const (
	KindText FileKind = iota
	KindPDF
	KindDoc
	KindDocx
	KindPpt
	KindPptx
)

// KindFromFilename resolves the declared extension to a FileKind. Unknown
// extensions are rejected before any adapter runs.
func KindFromFilename(name string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return KindText, nil
	case ".pdf":
		return KindPDF, nil
	case ".doc":
		return KindDoc, nil
	case ".docx":
		return KindDocx, nil
	case ".ppt":
		return KindPpt, nil
	case ".pptx":
		return KindPptx, nil
	default:
		return 0, apierr.Validationf("unsupported file type: %s", filepath.Ext(name))
	}
}

func (k FileKind) ContentKind() types.ContentKind {
	switch k {
	case KindText:
		return types.ContentKindText
	case KindPDF:
		return types.ContentKindPDF
	case KindDoc, KindDocx, KindPpt, KindPptx:
		return types.ContentKindOffice
	}
	return types.ContentKindText
}

func (k FileKind) MimeType() string {
	switch k {
	case KindText:
		return "text/plain"
	case KindPDF:
		return "application/pdf"
	case KindDoc:
		return "application/msword"
	case KindDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case KindPpt:
		return "application/vnd.ms-powerpoint"
	case KindPptx:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}
	return "application/octet-stream"
}

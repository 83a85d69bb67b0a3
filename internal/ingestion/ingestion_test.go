package ingestion

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want FileKind
		ok   bool
	}{
		{"notes.txt", KindText, true},
		{"syllabus.PDF", KindPDF, true},
		{"old.doc", KindDoc, true},
		{"paper.docx", KindDocx, true},
		{"deck.ppt", KindPpt, true},
		{"deck.pptx", KindPptx, true},
		{"image.png", 0, false},
		{"archive.zip", 0, false},
		{"noextension", 0, false},
	}
	for _, tt := range tests {
		got, err := KindFromFilename(tt.name)
		if tt.ok {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tt.name, err)
			}
			if got != tt.want {
				t.Fatalf("%s: want=%v got=%v", tt.name, tt.want, got)
			}
			continue
		}
		if !apierr.IsCode(err, apierr.CodeValidation) {
			t.Fatalf("%s: want validation error got %v", tt.name, err)
		}
	}
}

func TestFileKindContentKind(t *testing.T) {
	if got := KindPDF.ContentKind(); got != types.ContentKindPDF {
		t.Fatalf("want=%q got=%q", types.ContentKindPDF, got)
	}
	for _, k := range []FileKind{KindDoc, KindDocx, KindPpt, KindPptx} {
		if got := k.ContentKind(); got != types.ContentKindOffice {
			t.Fatalf("kind %v: want=%q got=%q", k, types.ContentKindOffice, got)
		}
	}
}

type fakeDocumentClient struct {
	text string
	err  error
}

func (f *fakeDocumentClient) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	return f.text, f.err
}
func (f *fakeDocumentClient) Close() error { return nil }

func TestExtractTextVerbatim(t *testing.T) {
	e := NewDocumentExtractor(testLogger(t), nil)
	text, degraded := e.Extract(context.Background(), KindText, "notes.txt", []byte("hello class"))
	if degraded {
		t.Fatalf("txt extraction should never degrade")
	}
	if text != "hello class" {
		t.Fatalf("want=%q got=%q", "hello class", text)
	}
}

func TestExtractPDFDegradesOnFailure(t *testing.T) {
	// An upstream 500 from the extraction boundary means "no text", never
	// a failed upload.
	e := NewDocumentExtractor(testLogger(t), &fakeDocumentClient{err: fmt.Errorf("rpc error: internal")})
	text, degraded := e.Extract(context.Background(), KindPDF, "syllabus.pdf", []byte("%PDF-1.4"))
	if text != "" {
		t.Fatalf("degraded extraction must produce empty body, got %q", text)
	}
	if !degraded {
		t.Fatalf("degraded flag not set")
	}
}

func TestExtractPDFSuccess(t *testing.T) {
	e := NewDocumentExtractor(testLogger(t), &fakeDocumentClient{text: "chapter one"})
	text, degraded := e.Extract(context.Background(), KindPDF, "syllabus.pdf", []byte("%PDF-1.4"))
	if degraded || text != "chapter one" {
		t.Fatalf("want=%q degraded=false got=%q degraded=%v", "chapter one", text, degraded)
	}
}

func TestExtractOfficeKindsStoredEmpty(t *testing.T) {
	e := NewDocumentExtractor(testLogger(t), &fakeDocumentClient{text: "should not be called"})
	for _, k := range []FileKind{KindDoc, KindDocx, KindPpt, KindPptx} {
		text, degraded := e.Extract(context.Background(), k, "file", []byte("binary"))
		if text != "" || degraded {
			t.Fatalf("kind %v: office uploads store empty bodies without degradation, got %q/%v", k, text, degraded)
		}
	}
}

type fakeSpeechClient struct {
	text string
	err  error
}

func (f *fakeSpeechClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return f.text, f.err
}
func (f *fakeSpeechClient) Close() error { return nil }

func TestTranscribeSuccess(t *testing.T) {
	tr := NewTranscriber(testLogger(t), &fakeSpeechClient{text: "today we reviewed fractions"})
	tr.now = func() time.Time { return time.Date(2025, 9, 12, 10, 30, 0, 0, time.UTC) }

	got, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got.Text != "today we reviewed fractions" {
		t.Fatalf("want text=%q got=%q", "today we reviewed fractions", got.Text)
	}
	if !strings.HasPrefix(got.Title, "Class recording ") || !strings.Contains(got.Title, "2025-09-12") {
		t.Fatalf("title missing capture timestamp: %q", got.Title)
	}
}

func TestTranscribeCorruptAudio(t *testing.T) {
	tr := NewTranscriber(testLogger(t), &fakeSpeechClient{err: apierr.InvalidAudio(fmt.Errorf("bad encoding"))})
	_, err := tr.Transcribe(context.Background(), []byte("not audio"), "audio/wav")
	if !apierr.IsCode(err, apierr.CodeInvalidAudio) {
		t.Fatalf("want invalid_audio got %v", err)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	tr := NewTranscriber(testLogger(t), &fakeSpeechClient{text: "unreachable"})
	_, err := tr.Transcribe(context.Background(), nil, "audio/wav")
	if !apierr.IsCode(err, apierr.CodeInvalidAudio) {
		t.Fatalf("want invalid_audio got %v", err)
	}
}

func TestTranscribeNoRecognizedSpeech(t *testing.T) {
	tr := NewTranscriber(testLogger(t), &fakeSpeechClient{text: "   "})
	_, err := tr.Transcribe(context.Background(), []byte("silence"), "audio/wav")
	if !apierr.IsCode(err, apierr.CodeInvalidAudio) {
		t.Fatalf("want invalid_audio got %v", err)
	}
}

package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/circuitboard-backend/internal/clients/gcp"
	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
)

// Transcript is one successful transcription: the text plus a generated
// title carrying the capture timestamp.
type Transcript struct {
	Title string
	Text  string
}

// Transcriber turns one audio clip into a transcript. Failure is hard: a
// transcript with no text has no other value, so unlike document
// extraction nothing is persisted when the upstream call fails.
type Transcriber struct {
	log    *logger.Logger
	speech gcp.SpeechClient
	now    func() time.Time
}

func NewTranscriber(log *logger.Logger, speech gcp.SpeechClient) *Transcriber {
	return &Transcriber{
		log:    log.With("adapter", "Transcriber"),
		speech: speech,
		now:    time.Now,
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (Transcript, error) {
	if len(audio) == 0 {
		return Transcript{}, apierr.InvalidAudio(fmt.Errorf("empty audio payload"))
	}

	text, err := t.speech.Transcribe(ctx, audio, mimeType)
	if err != nil {
		t.log.Warn("Transcription failed", "mime_type", mimeType, "error", err)
		return Transcript{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Transcript{}, apierr.InvalidAudio(fmt.Errorf("no speech recognized in audio"))
	}

	return Transcript{
		Title: "Class recording " + t.now().Format("2006-01-02 15:04"),
		Text:  text,
	}, nil
}

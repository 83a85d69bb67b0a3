package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/platform/ctxutil"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
)

// SpeechClient is the transcription boundary: one audio clip in, plain
// transcript text out. Failures map to the upstream taxonomy; there is no
// retry loop here because a caller who can re-record is better placed to
// decide whether retrying is worth it.
type SpeechClient interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	Close() error
}

type SpeechConfig struct {
	Credentials  Credentials
	LanguageCode string
	Model        string

	EnableAutomaticPunctuation bool
}

type speechClient struct {
	log    *logger.Logger
	client *speech.Client
	cfg    SpeechConfig
}

func NewSpeechClient(log *logger.Logger, cfg SpeechConfig) (SpeechClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}

	c, err := speech.NewClient(context.Background(), cfg.Credentials.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &speechClient{
		log:    log.With("client", "gcp.Speech"),
		client: c,
		cfg:    cfg,
	}, nil
}

func (s *speechClient) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	if len(audio) == 0 {
		return "", apierr.InvalidAudio(fmt.Errorf("empty audio payload"))
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               s.cfg.LanguageCode,
			Model:                      s.cfg.Model,
			EnableAutomaticPunctuation: s.cfg.EnableAutomaticPunctuation,
			Encoding:                   inferSpeechEncoding(mimeType),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	op, err := s.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return "", mapSpeechError(err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return "", mapSpeechError(err)
	}
	return joinTranscript(resp), nil
}

func joinTranscript(resp *speechpb.LongRunningRecognizeResponse) string {
	if resp == nil {
		return ""
	}
	var full strings.Builder
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		t := strings.TrimSpace(r.Alternatives[0].Transcript)
		if t == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(t)
	}
	return full.String()
}

func inferSpeechEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || strings.Contains(m, "opus") || strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func mapSpeechError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return apierr.UpstreamAuth(fmt.Errorf("speech: %w", err))
	case codes.ResourceExhausted:
		return apierr.UpstreamRateLimited(fmt.Errorf("speech: %w", err))
	case codes.InvalidArgument, codes.OutOfRange:
		return apierr.InvalidAudio(fmt.Errorf("speech: %w", err))
	default:
		return apierr.UpstreamTransient(fmt.Errorf("speech: %w", err))
	}
}

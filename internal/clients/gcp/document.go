package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/yungbote/circuitboard-backend/internal/platform/ctxutil"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
)

// DocumentClient is the document-extraction boundary. Callers treat any
// error as "no text" rather than a hard failure, so this client reports
// errors plainly and leaves the degradation policy to the ingestion layer.
type DocumentClient interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
	Close() error
}

type DocumentConfig struct {
	Credentials      Credentials
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
}

type documentClient struct {
	log    *logger.Logger
	client *documentai.DocumentProcessorClient
	cfg    DocumentConfig
}

func NewDocumentClient(log *logger.Logger, cfg DocumentConfig) (DocumentClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("documentai config requires project id and processor id")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)
	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, cfg.Credentials.ClientOptions()...)
	c, err := documentai.NewDocumentProcessorClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}

	slog := log.With("client", "gcp.Document")
	slog.Info("Document AI initialized", "endpoint", endpoint)
	return &documentClient{log: slog, client: c, cfg: cfg}, nil
}

func (d *documentClient) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *documentClient) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	if len(data) == 0 {
		return "", nil
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return "", fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	if resp == nil || resp.Document == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Document.Text), nil
}

func (d *documentClient) processorName() string {
	if d.cfg.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			d.cfg.ProjectID, d.cfg.Location, d.cfg.ProcessorID, d.cfg.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		d.cfg.ProjectID, d.cfg.Location, d.cfg.ProcessorID)
}

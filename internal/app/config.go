package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/circuitboard-backend/internal/platform/envutil"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
)

// Config gathers every tunable in one place so adapters receive their
// settings (API keys included) through constructors instead of reading the
// environment at call sites.
type Config struct {
	HTTPAddr     string   `yaml:"http_addr"`
	JWTSecretKey string   `yaml:"jwt_secret_key"`
	AllowOrigins []string `yaml:"allow_origins"`

	OpenAI struct {
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"openai"`

	GCP struct {
		CredentialsSource string `yaml:"credentials_source"`
		BucketName        string `yaml:"bucket_name"`
		Speech            struct {
			LanguageCode string `yaml:"language_code"`
			Model        string `yaml:"model"`
		} `yaml:"speech"`
		DocumentAI struct {
			ProjectID        string `yaml:"project_id"`
			Location         string `yaml:"location"`
			ProcessorID      string `yaml:"processor_id"`
			ProcessorVersion string `yaml:"processor_version"`
		} `yaml:"documentai"`
	} `yaml:"gcp"`

	Composer struct {
		// MaxKnowledgeBytes bounds the assembled knowledge-base section;
		// 0 keeps the historical unbounded behavior.
		MaxKnowledgeBytes int `yaml:"max_knowledge_bytes"`
	} `yaml:"composer"`
}

func (c Config) OpenAITimeout() time.Duration {
	if c.OpenAI.TimeoutSeconds <= 0 {
		return 180 * time.Second
	}
	return time.Duration(c.OpenAI.TimeoutSeconds) * time.Second
}

// LoadConfig reads env defaults and then overlays CONFIG_FILE when set.
func LoadConfig(log *logger.Logger) (Config, error) {
	var cfg Config

	cfg.HTTPAddr = envutil.Get("HTTP_ADDR", ":8080", log)
	cfg.JWTSecretKey = envutil.Get("JWT_SECRET_KEY", "defaultsecret", log)
	if origins := envutil.Get("ALLOW_ORIGINS", "", log); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	cfg.OpenAI.APIKey = envutil.Get("OPENAI_API_KEY", "", log)
	cfg.OpenAI.BaseURL = envutil.Get("OPENAI_BASE_URL", "https://api.openai.com", log)
	cfg.OpenAI.Model = envutil.Get("OPENAI_MODEL", "gpt-4o-mini", log)
	cfg.OpenAI.TimeoutSeconds = envutil.GetInt("OPENAI_TIMEOUT_SECONDS", 180, log)

	cfg.GCP.CredentialsSource = envutil.Get("GOOGLE_APPLICATION_CREDENTIALS_JSON", "", log)
	if cfg.GCP.CredentialsSource == "" {
		cfg.GCP.CredentialsSource = envutil.Get("GOOGLE_APPLICATION_CREDENTIALS", "", log)
	}
	cfg.GCP.BucketName = envutil.Get("CONTENT_GCS_BUCKET_NAME", "", log)
	cfg.GCP.Speech.LanguageCode = envutil.Get("SPEECH_LANGUAGE_CODE", "en-US", log)
	cfg.GCP.Speech.Model = envutil.Get("SPEECH_MODEL", "latest_long", log)
	cfg.GCP.DocumentAI.ProjectID = envutil.Get("GCP_PROJECT_ID", "", log)
	cfg.GCP.DocumentAI.Location = envutil.Get("DOCUMENTAI_LOCATION", "us", log)
	cfg.GCP.DocumentAI.ProcessorID = envutil.Get("DOCUMENTAI_PROCESSOR_ID", "", log)
	cfg.GCP.DocumentAI.ProcessorVersion = envutil.Get("DOCUMENTAI_PROCESSOR_VERSION", "", log)

	cfg.Composer.MaxKnowledgeBytes = envutil.GetInt("COMPOSER_MAX_KNOWLEDGE_BYTES", 0, log)

	if path := envutil.Get("CONFIG_FILE", "", log); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	return cfg, nil
}

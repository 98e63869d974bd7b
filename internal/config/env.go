package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvConfig carries every runtime setting. All configuration comes from the
// process environment; there is no config file.
type EnvConfig struct {
	ListenAddr string

	Slack   SlackEnvConfig
	ArXiv   ArXivEnvConfig
	OpenAI  OpenAIEnvConfig
	OTel    OTelEnvConfig
	History HistoryEnvConfig
	Policy  PolicyEnvConfig
	Sweeper SweeperEnvConfig
}

type SlackEnvConfig struct {
	BotToken      string
	SigningSecret string
}

type ArXivEnvConfig struct {
	APIBaseURL  string
	PDFBaseURL  string
	HTTPTimeout time.Duration
	UserAgent   string
	DownloadDir string
}

type OpenAIEnvConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
	Timeout     time.Duration
	OTel        OpenAIOTelEnvConfig
}

type OpenAIOTelEnvConfig struct {
	Enabled       bool
	CaptureBodies bool
	MaxBodyBytes  int
}

type OTelEnvConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	Protocol    string // "grpc" or "http/protobuf"
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

type HistoryEnvConfig struct {
	Capacity int
}

type PolicyEnvConfig struct {
	// MessageFilter is an optional expr rule over {text, length}. A message is
	// only inspected for preprint links when the rule evaluates to true.
	// Empty disables filtering.
	MessageFilter string
}

type SweeperEnvConfig struct {
	Schedule string
	MaxAge   time.Duration
}

func LoadEnv() EnvConfig {
	otlpEndpoint := strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_ENDPOINT", ""))

	return EnvConfig{
		ListenAddr: ":" + envString("PORT", "3000"),
		Slack: SlackEnvConfig{
			BotToken:      strings.TrimSpace(envString("SLACK_BOT_TOKEN", "")),
			SigningSecret: strings.TrimSpace(envString("SLACK_SIGNING_SECRET", "")),
		},
		ArXiv: ArXivEnvConfig{
			APIBaseURL:  strings.TrimSpace(envString("ARXIV_API_BASE_URL", "https://export.arxiv.org/api/query")),
			PDFBaseURL:  strings.TrimSpace(envString("ARXIV_PDF_BASE_URL", "https://arxiv.org/pdf")),
			HTTPTimeout: envDuration("ARXIV_HTTP_TIMEOUT", 30*time.Second),
			UserAgent:   envString("ARXIV_USER_AGENT", "arxiv-bot/0.1"),
			DownloadDir: envString("ARXIV_DOWNLOAD_DIR", os.TempDir()),
		},
		OpenAI: OpenAIEnvConfig{
			APIKey:      strings.TrimSpace(envString("OPENAI_API_KEY", "")),
			BaseURL:     strings.TrimSpace(envString("OPENAI_BASE_URL", "")),
			Model:       strings.TrimSpace(envString("OPENAI_MODEL", "gpt-4o-mini")),
			Temperature: envFloatPtr("OPENAI_TEMPERATURE"),
			Timeout:     envDuration("OPENAI_TIMEOUT", 30*time.Second),
			OTel: OpenAIOTelEnvConfig{
				Enabled:       envBool("OTEL_OPENAI_ENABLED", true),
				CaptureBodies: envBool("OTEL_CAPTURE_OPENAI_BODIES", false),
				MaxBodyBytes:  envInt("OTEL_OPENAI_MAX_BODY_BYTES", 64*1024),
			},
		},
		OTel: OTelEnvConfig{
			Enabled:     envBool("OTEL_ENABLED", false),
			ServiceName: strings.TrimSpace(envString("OTEL_SERVICE_NAME", "arxiv-bot")),
			Endpoint:    otlpEndpoint,
			Protocol:    strings.ToLower(strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			Headers:     parseHeaders(envString("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", otlpEndpoint == ""),
			SampleRatio: clamp01(envFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0)),
		},
		History: HistoryEnvConfig{
			Capacity: envInt("HISTORY_CAPACITY", 20),
		},
		Policy: PolicyEnvConfig{
			MessageFilter: strings.TrimSpace(envString("MESSAGE_FILTER", "")),
		},
		Sweeper: SweeperEnvConfig{
			Schedule: envString("SWEEP_SCHEDULE", "@hourly"),
			MaxAge:   envDuration("SWEEP_MAX_AGE", 24*time.Hour),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envFloatPtr(key string) *float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := parseDurationExtended(v)
	if err != nil {
		return fallback
	}
	return d
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Package config loads pdfocr settings from defaults, an optional pdfocr.yaml,
// the environment (PDFOCR_* plus the well-known service variables) and
// command-line overrides, in increasing order of precedence.
package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

// AppConfig is the resolved configuration of one run.
type AppConfig struct {
	DPI          int    `mapstructure:"dpi"`
	FirstPage    int    `mapstructure:"first_page"`
	LastPage     int    `mapstructure:"last_page"`
	PopplerPath  string `mapstructure:"poppler_path"`
	TesseractCmd string `mapstructure:"tesseract_cmd"`
	OCRLang      string `mapstructure:"ocr_lang"`
	OCREngine    string `mapstructure:"ocr_engine"`

	Mode         string `mapstructure:"mode"`
	RawOut       string `mapstructure:"raw_out"`
	CorrectedOut string `mapstructure:"corrected_out"`
	DiffOut      string `mapstructure:"diff_out"`
	Summary      string `mapstructure:"summary"`

	Model         string  `mapstructure:"model"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	Temperature   float64 `mapstructure:"temperature"`
	OpenAIAPIKey  string  `mapstructure:"openai_api_key"`
	OpenAIBaseURL string  `mapstructure:"openai_base_url"`

	NoProgress bool `mapstructure:"no_progress"`
	Verbose    bool `mapstructure:"verbose"`

	S3       S3Config       `mapstructure:"s3"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	Insecure  bool   `mapstructure:"insecure"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Enabled reports whether both the bot token and the chat are set.
func (t TelegramConfig) Enabled() bool { return t.Token != "" && t.ChatID != 0 }

// Engines lists the accepted ocr_engine values. "gosseract" is only usable
// in binaries built with -tags gosseract.
var Engines = []string{"cli", "gosseract"}

// LoadDotEnv loads .env from the working directory if present. It reports
// whether a file was loaded.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load resolves the configuration. path selects an explicit config file; when
// empty, pdfocr.yaml in the working directory is used if it exists. overrides
// are keyed like the mapstructure tags and win over every other source.
func Load(path string, overrides map[string]any) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PDFOCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindServiceEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &apperr.ConfigError{Field: "config", Msg: err.Error()}
		}
	} else {
		v.SetConfigName("pdfocr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, &apperr.ConfigError{Field: "config", Msg: err.Error()}
			}
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &apperr.ConfigError{Field: "config", Msg: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dpi", 300)
	v.SetDefault("first_page", 1)
	v.SetDefault("last_page", 0)
	v.SetDefault("poppler_path", "")
	v.SetDefault("tesseract_cmd", "")
	v.SetDefault("ocr_lang", "")
	v.SetDefault("ocr_engine", "cli")
	v.SetDefault("mode", "raw")
	v.SetDefault("raw_out", "output_raw.txt")
	v.SetDefault("corrected_out", "output_corrected.txt")
	v.SetDefault("diff_out", "output_diff.txt")
	v.SetDefault("summary", "")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("max_tokens", 2048)
	v.SetDefault("temperature", 0.5)
	v.SetDefault("no_progress", false)
	v.SetDefault("verbose", false)
}

// bindServiceEnv maps the unprefixed variables other tools already use.
func bindServiceEnv(v *viper.Viper) {
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai_base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("s3.access_key", "S3_ACCESS_KEY")
	_ = v.BindEnv("s3.secret_key", "S3_SECRET_KEY")
	_ = v.BindEnv("s3.region", "S3_REGION")
	_ = v.BindEnv("s3.insecure", "S3_INSECURE")
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
}

// Validate checks enumerations and numeric bounds. Page bounds are checked
// against the document later.
func (c *AppConfig) Validate() error {
	if c.DPI <= 0 {
		return &apperr.ConfigError{Field: "dpi", Msg: "must be a positive integer"}
	}
	switch c.Mode {
	case "raw", "corrected", "diff", "all":
	default:
		return &apperr.ConfigError{Field: "mode", Msg: "must be one of raw, corrected, diff, all"}
	}
	valid := false
	for _, e := range Engines {
		if c.OCREngine == e {
			valid = true
		}
	}
	if !valid {
		return &apperr.ConfigError{Field: "ocr_engine", Msg: "must be one of " + strings.Join(Engines, ", ")}
	}
	if c.MaxTokens <= 0 {
		return &apperr.ConfigError{Field: "max_tokens", Msg: "must be a positive integer"}
	}
	return nil
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Hard ceilings for scan budgets. Requests beyond these are silently
// clamped, never rejected.
const (
	MaxDepthCeiling = 10   // deepest directory level a scan may reach
	MaxFilesCeiling = 1000 // most entries one scan may process
	MaxDirEntries   = 100  // fan-out cap per directory
)

// Config represents the scanner configuration
type Config struct {
	// Scan settings
	MaxDepth    int           `mapstructure:"max_depth"`     // default depth ceiling
	MaxFiles    int           `mapstructure:"max_files"`     // default entry ceiling
	MaxScanTime time.Duration `mapstructure:"max_scan_time"` // wall-clock ceiling per scan
	Extensions  []string      `mapstructure:"extensions"`    // extensions eligible for duplicate hashing
	Exclude     []string      `mapstructure:"exclude"`       // path markers that skip a subtree

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // text, json, md
	OutputFile   string `mapstructure:"output_file"`   // output file path

	// Server settings
	ServerAddr string `mapstructure:"server_addr"` // listen address for serve mode

	// Profile settings
	ProfilePath string `mapstructure:"profile_path"` // optional YAML scan profile

	// AI settings
	AI AIConfig `mapstructure:"ai"` // deletion-advice configuration
}

// AIConfig holds deletion-advice configuration
type AIConfig struct {
	Enabled     bool   `mapstructure:"ai_enabled"`      // enable the advice pass
	Model       string `mapstructure:"ai_model"`        // model: haiku, sonnet, opus
	APIToken    string `mapstructure:"ai_token"`        // Anthropic API token
	MaxFindings int    `mapstructure:"ai_max_findings"` // cost control limit
	Timeout     int    `mapstructure:"ai_timeout"`      // seconds per request
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("max_depth", 5)
	v.SetDefault("max_files", 1000)
	v.SetDefault("max_scan_time", "30s")
	v.SetDefault("extensions", defaultExtensions())
	v.SetDefault("exclude", []string{"node_modules", ".git"})
	v.SetDefault("report_format", "")
	v.SetDefault("output_file", "")
	v.SetDefault("server_addr", ":8327")
	v.SetDefault("profile_path", "")

	// AI defaults
	v.SetDefault("ai.ai_enabled", false)
	v.SetDefault("ai.ai_model", "haiku")
	v.SetDefault("ai.ai_max_findings", 50)
	v.SetDefault("ai.ai_timeout", 30)

	// Read environment variables
	v.SetEnvPrefix("DEADWOOD")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ShouldHash determines if a file takes part in duplicate detection based
// on its extension. An empty allow-list means every file is eligible.
func (c *Config) ShouldHash(extension string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	for _, ext := range c.Extensions {
		if ext == extension {
			return true
		}
	}
	return false
}

// defaultExtensions is the common-extension allow-list used for duplicate
// detection when no custom list is configured
func defaultExtensions() []string {
	return []string{
		// Documents
		"txt", "md", "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "rtf", "csv",
		// Images
		"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "ico",
		// Audio and video
		"mp3", "wav", "ogg", "flac", "mp4", "avi", "mkv", "mov", "webm",
		// Archives
		"zip", "tar", "gz", "rar", "7z",
		// Markup and code
		"json", "xml", "yaml", "yml", "html", "htm", "css", "js", "ts",
	}
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

type Config struct {
	Whisper      WhisperConfig      `yaml:"whisper"`
	FFmpeg       FFmpegConfig       `yaml:"ffmpeg"`
	Paths        PathsConfig        `yaml:"paths"`
	Logging      LoggingConfig      `yaml:"logging"`
	Performance  PerformanceConfig  `yaml:"performance"`
	Segmentation SegmentationConfig `yaml:"segmentation"`
	Output       OutputConfig       `yaml:"output"`
	Gemini       GeminiConfig       `yaml:"gemini"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
	Status   string `yaml:"status"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// SegmentationConfig picks a grouping preset and optionally overrides
// its fields. Zero-valued pointers keep the preset value.
type SegmentationConfig struct {
	Mode                       string   `yaml:"mode"`
	MaxGapSeconds              *float64 `yaml:"max_gap_seconds"`
	MaxWordsPerCue             *int     `yaml:"max_words_per_cue"`
	SplitOnSentencePunctuation *bool    `yaml:"split_on_sentence_punctuation"`
	EndBufferSeconds           *float64 `yaml:"end_buffer_seconds"`
	ClampTiming                bool     `yaml:"clamp_timing"`
}

type OutputConfig struct {
	Formats  []string `yaml:"formats"`
	Language string   `yaml:"language"`
}

type GeminiConfig struct {
	Model             string   `yaml:"model"`
	APIKeys           []string `yaml:"-"`
	Summarize         bool     `yaml:"summarize"`
	NormalizeNumbers  bool     `yaml:"normalize_numbers"`
	BatchSize         int      `yaml:"batch_size"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	MaxRetries        int      `yaml:"max_retries"`
}

// Policy builds the caption grouping policy described by the config.
func (s SegmentationConfig) Policy() (caption.Policy, error) {
	p, err := caption.PolicyByName(s.Mode)
	if err != nil {
		return caption.Policy{}, err
	}
	if s.MaxGapSeconds != nil {
		p.MaxGapSeconds = *s.MaxGapSeconds
	}
	if s.MaxWordsPerCue != nil {
		p.MaxWordsPerCue = *s.MaxWordsPerCue
	}
	if s.SplitOnSentencePunctuation != nil {
		p.SplitOnSentencePunctuation = *s.SplitOnSentencePunctuation
	}
	if s.EndBufferSeconds != nil {
		p.EndBufferSeconds = *s.EndBufferSeconds
	}
	p.ClampTiming = s.ClampTiming
	return p, nil
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if _, err := c.Segmentation.Policy(); err != nil {
		return fmt.Errorf("segmentation.mode: %w", err)
	}
	if c.Segmentation.MaxGapSeconds != nil && *c.Segmentation.MaxGapSeconds < 0 {
		return fmt.Errorf("segmentation.max_gap_seconds must not be negative")
	}
	if c.Segmentation.MaxWordsPerCue != nil && *c.Segmentation.MaxWordsPerCue < 0 {
		return fmt.Errorf("segmentation.max_words_per_cue must not be negative")
	}
	for _, f := range c.Output.Formats {
		if f != "vtt" && f != "srt" {
			return fmt.Errorf("output.formats: unsupported format %q", f)
		}
	}
	if (c.Gemini.Summarize || c.Gemini.NormalizeNumbers) && len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini features enabled but %s is empty", APIKeysEnv)
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Status == "" {
		c.Paths.Status = "data/status"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Segmentation.Mode == "" {
		c.Segmentation.Mode = caption.ModePunctuation
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"vtt"}
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.BatchSize == 0 {
		c.Gemini.BatchSize = 20
	}
	if c.Gemini.RequestsPerMinute == 0 {
		c.Gemini.RequestsPerMinute = 30
	}
	if c.Gemini.MaxRetries == 0 {
		c.Gemini.MaxRetries = 3
	}

	return nil
}

// APIKeysEnv holds a comma separated list of Gemini API keys.
const APIKeysEnv = "GEMINI_API_KEYS"

func apiKeysFromEnv() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv(APIKeysEnv), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

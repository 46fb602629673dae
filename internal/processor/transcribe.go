package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lesson-captions/internal/recognizer"
)

// mediaExtensions lists the sources that go through ffmpeg and whisper.cpp.
// Anything ending in .json is read as a recognizer response instead.
var mediaExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true, ".m4v": true, ".flv": true,
	".wav": true, ".mp3": true, ".m4a": true, ".flac": true, ".ogg": true, ".aac": true,
}

// IsSupported reports whether path is a source the processor accepts.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".json" || mediaExtensions[ext]
}

// loadTranscript resolves a lesson source into a recognizer transcript.
func (p *implProcessor) loadTranscript(ctx context.Context, lessonID, sourcePath string) (*recognizer.Transcript, error) {
	if strings.EqualFold(filepath.Ext(sourcePath), ".json") {
		p.logger.Info(ctx, "Reading recognizer response: %s", sourcePath)
		return p.decodeFile(sourcePath)
	}

	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	workDir, err := os.MkdirTemp(p.cfg.Paths.Temp, lessonID+"-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer p.cleanupTempDir(ctx, workDir)

	audioPath, err := p.extractAudio(ctx, sourcePath, workDir)
	if err != nil {
		return nil, err
	}

	jsonPath, err := p.transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return p.decodeFile(jsonPath)
}

func (p *implProcessor) decodeFile(path string) (*recognizer.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	tr, err := recognizer.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return tr, nil
}

// transcribe runs whisper.cpp on a WAV file and returns the path of its
// JSON output.
func (p *implProcessor) transcribe(ctx context.Context, audioPath string) (string, error) {
	// whisper.cpp appends .json to the prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	language := p.cfg.Whisper.Language
	if language == "" {
		language = "auto"
	}

	p.logger.Info(ctx, "Starting transcription with %d threads: %s", p.cfg.Whisper.Threads, audioPath)

	// -oj: JSON output with segment offsets
	// -ml 0 / -mc 0: no segment length or context limit
	// -bo 5: best of five candidates
	args := []string{
		"-m", p.cfg.Whisper.ModelPath,
		"-f", audioPath,
		"-oj",
		"-l", language,
		"-t", strconv.Itoa(p.cfg.Whisper.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if p.cfg.Whisper.Prompt != "" {
		args = append(args, "--prompt", p.cfg.Whisper.Prompt)
	}

	if _, err := p.executor.Execute(ctx, p.cfg.Whisper.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	jsonPath := outputPrefix + ".json"
	if _, err := os.Stat(jsonPath); err != nil {
		return "", fmt.Errorf("whisper output missing: %w", err)
	}

	p.logger.Info(ctx, "Transcription completed: %s", jsonPath)
	return jsonPath, nil
}

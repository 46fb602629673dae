package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
)

// extractAudio converts a media file to mono 16-bit PCM WAV in workDir,
// the input whisper.cpp expects.
func (p *implProcessor) extractAudio(ctx context.Context, mediaPath, workDir string) (string, error) {
	audioPath := filepath.Join(workDir, "audio.wav")

	p.logger.Info(ctx, "Extracting audio: %s", mediaPath)

	// -vn drops video, -threads 0 lets ffmpeg use every core
	args := []string{
		"-i", mediaPath,
		"-vn",
		"-ar", strconv.Itoa(p.cfg.FFmpeg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	p.logger.Debug(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}

package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
	"github.com/nguyentantai21042004/lesson-captions/internal/jobstatus"
	"github.com/nguyentantai21042004/lesson-captions/internal/recognizer"
)

var (
	ErrUnsupportedSource = errors.New("unsupported lesson source")
	ErrSummariesDisabled = errors.New("summaries are disabled")
	ErrNotCompleted      = errors.New("lesson has not completed")
)

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LessonID derives the lesson id from a source file name.
func LessonID(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	id := strings.Trim(unsafeIDChars.ReplaceAllString(stem, "_"), "._")
	if id == "" {
		return "lesson"
	}
	return id
}

// Process orchestrates the pipeline of one lesson
func (p *implProcessor) Process(ctx context.Context, path string) error {
	startTime := time.Now()
	lessonID := LessonID(path)

	if !IsSupported(path) {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedSource)
	}

	p.logger.Info(ctx, "Starting lesson %s: %s", lessonID, path)

	if err := p.begin(ctx, lessonID, path); err != nil {
		return err
	}

	// Step 1: Resolve the recognizer output
	tr, err := p.loadTranscript(ctx, lessonID, path)
	if err != nil {
		return p.fail(ctx, lessonID, fmt.Errorf("transcript: %w", err))
	}
	if tr.Empty() {
		return p.fail(ctx, lessonID, recognizer.ErrNoResults)
	}

	// Step 2: Group into cues
	track, err := tr.Track(p.policy)
	if err != nil {
		return p.fail(ctx, lessonID, fmt.Errorf("segment: %w", err))
	}
	p.logger.Info(ctx, "Lesson %s: %d cues from %s", lessonID, len(track), tr.Format)

	language := p.cfg.Output.Language
	if language == "" {
		language = tr.Language
	}
	language = recognizer.NormalizeLanguage(language)

	// Step 3: Spell out numbers (optional)
	if p.normalizer != nil {
		normalized, err := p.normalizer.Normalize(ctx, track, language)
		if err != nil {
			p.logger.Warn(ctx, "Number normalization failed for %s, keeping recognizer text: %v", lessonID, err)
		} else {
			track = normalized
		}
	}

	// Step 4: Store subtitle documents
	paths, err := p.saveSubtitles(ctx, lessonID, language, tr.Model, track)
	if err != nil {
		return p.fail(ctx, lessonID, err)
	}

	// Step 5: Summaries (optional)
	if p.summarizer != nil {
		if err := p.saveSummary(ctx, lessonID, language, track); err != nil {
			p.logger.Warn(ctx, "Summary failed for %s: %v", lessonID, err)
		}
	}

	if _, err := p.tracker.Update(ctx, lessonID, jobstatus.StatusCompleted, func(r *jobstatus.Record) {
		r.Language = language
		r.DetectedLanguages = tr.DetectedLanguages
		r.Model = tr.Model
		r.SubtitlePaths = paths
		r.CueCount = len(track)
	}); err != nil {
		return fmt.Errorf("record completion: %w", err)
	}

	// Step 6: Move source to archived folder
	if _, err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move source to archived folder: %v", err)
	}

	p.logger.Info(ctx, "Lesson %s completed in %s: %s", lessonID, time.Since(startTime).Round(time.Millisecond), strings.Join(paths, ", "))
	return nil
}

// ProcessAll processes paths concurrently, bounded by
// performance.max_concurrent.
func (p *implProcessor) ProcessAll(ctx context.Context, paths []string) error {
	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, path := range paths {
		if err := sem.acquire(ctx); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.release()

			if err := p.Process(ctx, path); err != nil {
				p.logger.Error(ctx, "Failed to process %s: %v", path, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				mu.Unlock()
			}
		}(path)
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Summarize rebuilds the summaries of a completed lesson.
func (p *implProcessor) Summarize(ctx context.Context, lessonID string) error {
	if p.summarizer == nil {
		return ErrSummariesDisabled
	}

	rec, err := p.tracker.Get(ctx, lessonID)
	if err != nil {
		return err
	}
	if rec.Status != jobstatus.StatusCompleted {
		return fmt.Errorf("%s is %s: %w", lessonID, rec.Status, ErrNotCompleted)
	}

	vttPath := ""
	for _, sp := range rec.SubtitlePaths {
		if strings.HasSuffix(sp, ".vtt") {
			vttPath = sp
			break
		}
	}
	if vttPath == "" {
		return fmt.Errorf("%s has no stored WebVTT track", lessonID)
	}

	data, err := p.sink.Load(ctx, vttPath)
	if err != nil {
		return err
	}
	track, err := caption.ParseVTT(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", vttPath, err)
	}

	return p.saveSummary(ctx, lessonID, rec.Language, track)
}

// begin records the lesson as pending then processing. A record left in
// processing by an interrupted run is marked failed first.
func (p *implProcessor) begin(ctx context.Context, lessonID, source string) error {
	setSource := func(r *jobstatus.Record) { r.Source = filepath.Base(source) }

	_, err := p.tracker.Update(ctx, lessonID, jobstatus.StatusPending, setSource)
	if errors.Is(err, jobstatus.ErrInvalidTransition) {
		p.logger.Warn(ctx, "Lesson %s was left in progress, restarting", lessonID)
		if _, err := p.tracker.Update(ctx, lessonID, jobstatus.StatusFailed, func(r *jobstatus.Record) {
			r.Error = "interrupted"
		}); err != nil {
			return fmt.Errorf("reset status: %w", err)
		}
		_, err = p.tracker.Update(ctx, lessonID, jobstatus.StatusPending, setSource)
	}
	if err != nil {
		return fmt.Errorf("record pending: %w", err)
	}

	if _, err := p.tracker.Update(ctx, lessonID, jobstatus.StatusProcessing, nil); err != nil {
		return fmt.Errorf("record processing: %w", err)
	}
	return nil
}

// fail records err on the lesson and returns it.
func (p *implProcessor) fail(ctx context.Context, lessonID string, err error) error {
	p.logger.Error(ctx, "Lesson %s failed: %v", lessonID, err)
	if _, uerr := p.tracker.Update(ctx, lessonID, jobstatus.StatusFailed, func(r *jobstatus.Record) {
		r.Error = err.Error()
	}); uerr != nil {
		p.logger.Error(ctx, "Failed to record failure of %s: %v", lessonID, uerr)
	}
	return err
}

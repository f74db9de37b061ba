package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
	"poachwatch/internal/service/ai"
	"poachwatch/internal/service/imagefile"
)

// FolderNotFoundError is returned when the folder to scan is missing or is not a directory.
type FolderNotFoundError struct {
	Path string
}

func (e *FolderNotFoundError) Error() string {
	return fmt.Sprintf("folder path does not exist: %s", e.Path)
}

// Decoder turns a file on disk into a frame the detector can score.
type Decoder interface {
	Decode(path string) (ai.Frame, error)
}

// VerdictFunc observes verdicts as soon as they are produced.
type VerdictFunc func(index int, verdict dto.Verdict)

// Scanner scores every supported image of a folder with one detector.
type Scanner struct {
	decoder Decoder
	workers int
	logger  *logger.Logger
}

func NewScanner(decoder Decoder, workers int, logger *logger.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		decoder: decoder,
		workers: workers,
		logger:  logger,
	}
}

// CheckFolder fails fast when the folder cannot be scanned.
func (s *Scanner) CheckFolder(folder string) error {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return &FolderNotFoundError{Path: folder}
	}
	return nil
}

// ScoreBatch scores the folder's images in listing order. On cancellation it
// returns the verdicts produced so far together with ctx.Err().
func (s *Scanner) ScoreBatch(ctx context.Context, folder string, detector ai.Detector, onVerdict VerdictFunc) ([]dto.Verdict, dto.RunCounters, error) {
	if err := s.CheckFolder(folder); err != nil {
		return nil, dto.RunCounters{}, err
	}

	paths, err := s.listImages(folder)
	if err != nil {
		return nil, dto.RunCounters{}, err
	}

	s.logger.Info("📂 Scanning %d image(s) in %s with %d worker(s)", len(paths), folder, s.workers)

	var verdicts []dto.Verdict
	if s.workers == 1 {
		verdicts, err = s.scoreSequential(ctx, paths, detector, onVerdict)
	} else {
		verdicts, err = s.scoreParallel(ctx, paths, detector, onVerdict)
	}

	counters := dto.CountVerdicts(verdicts)
	s.logger.Info("Scan finished: %d scored, %d with people, %d failed to decode, %d failed to score",
		counters.Scored, counters.Detected, counters.DecodeFailed, counters.ScoreFailed)

	return verdicts, counters, err
}

// listImages returns the supported files of the folder, non-recursively.
func (s *Scanner) listImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &FolderNotFoundError{Path: folder}
		}
		return nil, fmt.Errorf("failed to read folder %s: %w", folder, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imagefile.IsSupported(entry.Name()) {
			s.logger.Debug("Skipping unsupported file %s", entry.Name())
			continue
		}
		paths = append(paths, filepath.Join(folder, entry.Name()))
	}
	return paths, nil
}

func (s *Scanner) scoreSequential(ctx context.Context, paths []string, detector ai.Detector, onVerdict VerdictFunc) ([]dto.Verdict, error) {
	verdicts := make([]dto.Verdict, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return verdicts, err
		}

		verdict := s.scoreOne(path, detector)
		verdicts = append(verdicts, verdict)
		if onVerdict != nil {
			onVerdict(i, verdict)
		}
	}
	return verdicts, nil
}

// scoreParallel fans images out to a bounded pool. Each worker writes only
// its own slot, counters are reduced afterwards.
func (s *Scanner) scoreParallel(ctx context.Context, paths []string, detector ai.Detector, onVerdict VerdictFunc) ([]dto.Verdict, error) {
	slots := make([]dto.Verdict, len(paths))
	done := make([]bool, len(paths))
	var notifyMu sync.Mutex

	group := new(errgroup.Group)
	group.SetLimit(s.workers)

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			verdict := s.scoreOne(path, detector)
			slots[i] = verdict
			done[i] = true

			if onVerdict != nil {
				notifyMu.Lock()
				onVerdict(i, verdict)
				notifyMu.Unlock()
			}
			return nil
		})
	}
	group.Wait()

	verdicts := make([]dto.Verdict, 0, len(paths))
	for i, verdict := range slots {
		if done[i] {
			verdicts = append(verdicts, verdict)
		}
	}
	return verdicts, ctx.Err()
}

func (s *Scanner) scoreOne(path string, detector ai.Detector) dto.Verdict {
	name := filepath.Base(path)
	verdict := dto.Verdict{ImagePath: path}

	frame, err := s.decoder.Decode(path)
	if err != nil {
		s.logger.Warning("Error loading image: %s: %v", name, err)
		verdict.DecodeFailed = true
		return verdict
	}
	defer frame.Close()

	detected, err := safeScore(detector, frame)
	if err != nil {
		s.logger.Error("Detector failed on %s: %v", name, err)
		verdict.ScoreFailed = true
		return verdict
	}

	verdict.Detected = detected
	if detected {
		s.logger.Info("🚨 Poacher is present warning: %s", name)
	} else {
		s.logger.Info("No poacher is present: %s", name)
	}
	return verdict
}

// safeScore turns a detector panic into an error for this image only.
func safeScore(detector ai.Detector, frame ai.Frame) (detected bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detector panicked: %v", r)
		}
	}()
	return detector.Score(frame)
}

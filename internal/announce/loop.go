package announce

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessro/emcee/internal/audio"
	"github.com/tessro/emcee/internal/brain"
	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/errors"
	"github.com/tessro/emcee/internal/history"
	"github.com/tessro/emcee/internal/metrics"
)

// Composer writes the announcement text for one cycle.
type Composer interface {
	Compose(ctx context.Context, req brain.Request) (string, error)
}

// Voice turns announcement text into an audio stream.
type Voice interface {
	Format() string
	Stream(ctx context.Context, text string, w io.Writer) (int64, error)
}

// Pipeline normalizes and pads the voice stream into a clip file.
type Pipeline interface {
	Process(ctx context.Context, format string, padding time.Duration, outPath string, fn func(w io.Writer) error) error
}

// ArtFetcher collects cover art for a track. An empty result means no
// art, never an error.
type ArtFetcher interface {
	Fetch(uri string) []core.Attachment
}

// Events delivers daemon idle notifications.
type Events interface {
	Events() <-chan string
	Errors() <-chan error
}

// Config holds the loop's station settings.
type Config struct {
	ClipsDir string // relative to the music directory
	MusicDir string // absolute library root
	Always   bool   // announce even without artwork
}

// Deps wires the loop's collaborators.
type Deps struct {
	Daemon   core.Daemon
	Events   Events
	Art      ArtFetcher
	Composer Composer
	Voice    Voice
	Pipeline Pipeline
	Injector *Injector
	Journal  *history.Journal
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Loop is the moderator: it watches playback, and when the queue gives
// it room, produces an announcement clip and slips it in before the
// next song. Single goroutine; every collaborator is owned by it.
type Loop struct {
	cfg      Config
	daemon   core.Daemon
	events   Events
	art      ArtFetcher
	composer Composer
	voice    Voice
	pipeline Pipeline
	injector *Injector
	journal  *history.Journal
	metrics  *metrics.Metrics
	log      *zap.Logger

	now func() time.Time
}

func NewLoop(cfg Config, deps Deps) *Loop {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		cfg:      cfg,
		daemon:   deps.Daemon,
		events:   deps.Events,
		art:      deps.Art,
		composer: deps.Composer,
		voice:    deps.Voice,
		pipeline: deps.Pipeline,
		injector: deps.Injector,
		journal:  deps.Journal,
		metrics:  deps.Metrics,
		log:      log,
		now:      time.Now,
	}
}

// Run drives the moderator until ctx ends or the daemon conversation
// breaks. It evaluates the queue once at startup, then once per idle
// event. A non-nil return other than ctx.Err() means the connection is
// gone and the caller should redial.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("moderator on air",
		zap.String("clips_dir", l.cfg.ClipsDir),
		zap.Bool("always", l.cfg.Always))

	if err := l.cycle(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-l.events.Errors():
			return fmt.Errorf("idle watcher: %w", err)
		case subsystem, ok := <-l.events.Events():
			if !ok {
				return stderrors.New("idle watcher closed")
			}
			l.log.Debug("daemon event", zap.String("subsystem", subsystem))
			if err := l.cycle(ctx); err != nil {
				return err
			}
		}
	}
}

// cycle evaluates the queue once and produces an announcement when
// every gate passes. A returned error means the daemon conversation
// itself broke; production failures are absorbed, counted, and left
// for the next event to supersede.
func (l *Loop) cycle(ctx context.Context) error {
	log := l.log.With(zap.String("cycle", uuid.NewString()))
	l.metrics.Cycle()

	st, err := l.daemon.Status()
	if err != nil {
		l.metrics.Error(metrics.StageStatus)
		return fmt.Errorf("query status: %w", err)
	}

	remaining, reason, ok := LeadGate(st)
	if !ok {
		l.metrics.Skip(reason)
		log.Debug("cycle skipped",
			zap.String("reason", reason),
			zap.Duration("remaining", remaining))
		return nil
	}

	current, err := l.daemon.CurrentSong()
	if err != nil {
		l.metrics.Error(metrics.StageStatus)
		return fmt.Errorf("query current song: %w", err)
	}
	next, err := l.daemon.SongByQueueID(st.NextSongID)
	if err != nil {
		l.metrics.Error(metrics.StageStatus)
		return fmt.Errorf("query upcoming song: %w", err)
	}

	if reason, ok := OwnClipGate(l.cfg.ClipsDir, current, next); !ok {
		l.metrics.Skip(reason)
		log.Debug("cycle skipped", zap.String("reason", reason))
		return nil
	}

	attachments := l.art.Fetch(next.File)
	if len(attachments) == 0 && !l.cfg.Always {
		l.metrics.Skip(metrics.SkipNoArt)
		log.Debug("cycle skipped",
			zap.String("reason", metrics.SkipNoArt),
			zap.String("file", next.File))
		return nil
	}

	log.Info("announcing",
		zap.String("current", current.Display()),
		zap.String("next", next.Display()),
		zap.Duration("remaining", remaining),
		zap.Int("attachments", len(attachments)))

	text, err := l.composer.Compose(ctx, brain.Request{
		Date:        l.now().Add(remaining),
		Prev:        current,
		Next:        next,
		Attachments: attachments,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.metrics.Error(metrics.StageChat)
		log.Warn("announcement composition failed", zap.Error(err))
		return nil
	}

	clip := core.NewClip(l.cfg.ClipsDir, l.now(), l.voice.Format())
	if err := l.produce(ctx, text, st.Crossfade, clip); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stage := metrics.StageSpeech
		if stderrors.Is(err, errors.ErrPipelineFailed) {
			stage = metrics.StagePipeline
		}
		l.metrics.Error(stage)
		log.Warn("clip production failed", zap.String("clip", clip.Rel()), zap.Error(err))
		return nil
	}

	clipID, inserted, err := l.injector.Inject(ctx, clip, st.NextSongID)
	if err != nil {
		if stderrors.Is(err, errors.ErrRescanTimeout) {
			l.metrics.Error(metrics.StageRescan)
			log.Warn("rescan never finished, clip left on disk",
				zap.String("clip", clip.Rel()), zap.Error(err))
			return nil
		}
		l.metrics.Error(metrics.StageInject)
		return fmt.Errorf("inject clip: %w", err)
	}

	if inserted {
		l.metrics.Announced()
		log.Info("announcement on air",
			zap.String("clip", clip.Rel()),
			zap.Int("id", clipID),
			zap.String("next", next.Display()))
	} else {
		l.metrics.Skip(metrics.SkipPointer)
	}

	l.record(history.Entry{
		Time:         l.now(),
		File:         next.File,
		Artist:       next.Artist,
		Title:        next.Title,
		Announcement: text,
		Clip:         clip.Rel(),
		Inserted:     inserted,
	})
	return nil
}

// produce streams synthesis into the pipeline and writes the clip.
func (l *Loop) produce(ctx context.Context, text string, crossfade time.Duration, clip core.Clip) error {
	start := time.Now()
	err := l.pipeline.Process(ctx, l.voice.Format(), audio.Padding(crossfade), clip.AbsIn(l.cfg.MusicDir), func(w io.Writer) error {
		n, serr := l.voice.Stream(ctx, text, w)
		l.metrics.AddSpeechBytes(n)
		return serr
	})
	l.metrics.ObservePipeline(time.Since(start))
	return err
}

func (l *Loop) record(e history.Entry) {
	if l.journal == nil {
		return
	}
	if err := l.journal.Append(e); err != nil {
		l.log.Warn("history append failed", zap.Error(err))
	}
}

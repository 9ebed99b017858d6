package announce

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/errors"
	"github.com/tessro/emcee/internal/metrics"
)

// MaxPriority is MPD's queue priority ceiling.
const MaxPriority = 255

// Injector makes a finished clip playable: it asks the daemon to
// rescan the clip's path, waits for that job to drain, and inserts the
// clip ahead of the upcoming song via queue priority.
type Injector struct {
	daemon  core.Daemon
	metrics *metrics.Metrics
	log     *zap.Logger

	pollInterval time.Duration
	waitLimit    time.Duration
}

func NewInjector(daemon core.Daemon, m *metrics.Metrics, log *zap.Logger) *Injector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Injector{
		daemon:       daemon,
		metrics:      m,
		log:          log,
		pollInterval: time.Second,
		waitLimit:    2 * time.Minute,
	}
}

// Inject rescans the clip and queues it just ahead of the song that
// held queue id nextID when the cycle began. If the upcoming song has
// changed by the time the rescan finishes, the clip is left unqueued
// and ok is false: the moment has passed, and playing the clip before
// some other song would make no sense.
func (in *Injector) Inject(ctx context.Context, clip core.Clip, nextID int) (clipID int, ok bool, err error) {
	job, err := in.daemon.Update(clip.Rel())
	if err != nil {
		return 0, false, fmt.Errorf("trigger rescan: %w", err)
	}

	start := time.Now()
	st, err := in.waitForRescan(ctx, job)
	if err != nil {
		return 0, false, err
	}
	in.metrics.ObserveRescan(time.Since(start))

	if st.NextSongID != nextID {
		in.log.Info("upcoming song changed during rescan, leaving clip unqueued",
			zap.String("clip", clip.Rel()),
			zap.Int("was", nextID),
			zap.Int("now", st.NextSongID))
		return 0, false, nil
	}

	clipID, err = in.daemon.AddToQueue(clip.Rel())
	if err != nil {
		return 0, false, fmt.Errorf("queue clip: %w", err)
	}

	next, err := in.daemon.SongByQueueID(nextID)
	if err != nil {
		return 0, false, fmt.Errorf("look up upcoming song: %w", err)
	}
	prio := next.Prio + 1
	if prio > MaxPriority {
		prio = MaxPriority
	}
	if err := in.daemon.SetPriorityByID(prio, clipID); err != nil {
		return 0, false, fmt.Errorf("set clip priority: %w", err)
	}

	in.log.Debug("clip queued",
		zap.String("clip", clip.Rel()),
		zap.Int("id", clipID),
		zap.Int("prio", prio))
	return clipID, true, nil
}

// waitForRescan polls status until the daemon reports a different
// update job (or none). MPD finishes directory-scoped rescans in
// seconds; a job still running after the wait limit means something is
// wrong with the library, and waiting forever would wedge the loop.
func (in *Injector) waitForRescan(ctx context.Context, job int) (core.PlaybackStatus, error) {
	deadline := time.Now().Add(in.waitLimit)
	ticker := time.NewTicker(in.pollInterval)
	defer ticker.Stop()

	for {
		st, err := in.daemon.Status()
		if err != nil {
			return core.PlaybackStatus{}, fmt.Errorf("poll rescan: %w", err)
		}
		if st.UpdatingJob != job {
			return st, nil
		}
		if time.Now().After(deadline) {
			return core.PlaybackStatus{}, fmt.Errorf("%w: job %d still running after %s",
				errors.ErrRescanTimeout, job, in.waitLimit)
		}

		select {
		case <-ctx.Done():
			return core.PlaybackStatus{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

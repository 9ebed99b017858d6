package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/emcee/internal/announce"
	"github.com/tessro/emcee/internal/artwork"
	"github.com/tessro/emcee/internal/audio"
	"github.com/tessro/emcee/internal/brain"
	"github.com/tessro/emcee/internal/config"
	"github.com/tessro/emcee/internal/errors"
	"github.com/tessro/emcee/internal/history"
	"github.com/tessro/emcee/internal/logging"
	"github.com/tessro/emcee/internal/metrics"
	"github.com/tessro/emcee/internal/mpd"
	"github.com/tessro/emcee/internal/speech"
)

var (
	runTemplate    string
	runParams      []string
	runTools       []string
	runModel       string
	runTTSModel    string
	runTTSVoice    string
	runTTSKey      string
	runAudioFormat string
	runSocket      string
	runClipsDir    string
	runAlways      bool
	runMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the station moderator",
	Long: `Starts the moderator loop: watch the daemon, and whenever the queue
leaves enough room before the next song, write an announcement, speak
it, and slip the clip into the queue.

The loop runs until interrupted. Lost daemon connections are redialed
with backoff; failed announcement attempts are logged and skipped.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runTemplate, "template", "t", "", "announcement template (module:name)")
	runCmd.Flags().StringArrayVarP(&runParams, "param", "p", nil, "template parameter as key=value (repeatable)")
	runCmd.Flags().StringArrayVarP(&runTools, "tool", "T", nil, "model tool to enable (repeatable)")
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "chat model")
	runCmd.Flags().StringVar(&runTTSModel, "tts-model", "", "text-to-speech model")
	runCmd.Flags().StringVar(&runTTSVoice, "tts-voice", "", "text-to-speech voice")
	runCmd.Flags().StringVar(&runTTSKey, "tts-api-key", "", "text-to-speech API key")
	runCmd.Flags().StringVar(&runAudioFormat, "audio-format", "", "clip audio format")
	runCmd.Flags().StringVar(&runSocket, "mpd-socket", "", "daemon socket path or host:port")
	runCmd.Flags().StringVar(&runClipsDir, "clips-directory", "", "clip directory, relative to the music directory")
	runCmd.Flags().BoolVarP(&runAlways, "always", "a", false, "announce even without cover art")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "prometheus listen address")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	applyRunFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	if cfg.Station.ClipsDir == "" {
		return fmt.Errorf("%w: no clips directory configured (set station.clips_dir or pass --clips-directory)", errors.ErrInvalidConfig)
	}
	if cfg.Chat.APIKey == "" {
		return fmt.Errorf("chat: %w", errors.ErrNoAPIKey)
	}
	if cfg.Speech.APIKey == "" {
		return fmt.Errorf("speech: %w", errors.ErrNoAPIKey)
	}

	log := logging.L()

	params, err := mergeParams(cfg.Station.Params, runParams)
	if err != nil {
		return err
	}

	journal := history.NewJournal(cfg.History.File)

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.NewMetrics("emcee")
	}

	tpl, err := brain.ResolveTemplate(cfg.Station.Template, config.Dir())
	if err != nil {
		return err
	}
	tools, err := brain.Tools(cfg.Station.Tools, journal)
	if err != nil {
		return err
	}

	b := brain.New(brain.Config{
		APIKey:  cfg.Chat.APIKey,
		BaseURL: cfg.Chat.BaseURL,
		Model:   cfg.Chat.Model,
		Vision:  cfg.Chat.Vision,
		Params:  params,
		Tools:   tools,
		Metrics: m,
	}, tpl, log)

	synth := speech.NewSynthesizer(speech.Config{
		APIKey: cfg.Speech.APIKey,
		Model:  cfg.Speech.Model,
		Voice:  cfg.Speech.Voice,
		Format: cfg.Speech.Format,
	}, log)

	pipeline := audio.NewPipeline(cfg.Audio.FFmpeg, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cancel()
	}()

	if m != nil {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Warn("metrics server failed", zap.Error(err))
			}
		}()
	}

	log.Info("starting moderator",
		zap.String("template", cfg.Station.Template),
		zap.String("model", cfg.Chat.Model),
		zap.String("voice", cfg.Speech.Voice),
		zap.String("format", cfg.Speech.Format))

	// The first connection doubles as the startup check: a failure here
	// is fatal rather than redialed.
	loop, cleanup, err := connectStation(b, synth, pipeline, journal, m, log)
	if err != nil {
		return err
	}

	backoff := time.Second
	for {
		started := time.Now()
		err := loop.Run(ctx)
		cleanup()
		if ctx.Err() != nil {
			return nil
		}
		log.Warn("daemon connection lost", zap.Error(err))

		if time.Since(started) > time.Minute {
			backoff = time.Second
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			loop, cleanup, err = connectStation(b, synth, pipeline, journal, m, log)
			if err == nil {
				break
			}
			log.Warn("redial failed", zap.Error(err), zap.Duration("backoff", backoff))
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
		}
		log.Info("daemon connection restored")
	}
}

// connectStation dials the daemon, runs the startup checks, and
// assembles a ready moderator loop. The returned cleanup closes both
// daemon connections.
func connectStation(b *brain.Brain, synth *speech.Synthesizer, pipeline *audio.Pipeline, journal *history.Journal, m *metrics.Metrics, log *zap.Logger) (*announce.Loop, func(), error) {
	client, err := dialDaemon()
	if err != nil {
		return nil, nil, err
	}

	if err := b.VerifyVision(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	musicDir, err := client.MusicDirectory()
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	clipsPath := filepath.Join(musicDir, cfg.Station.ClipsDir)
	if info, err := os.Stat(clipsPath); err != nil || !info.IsDir() {
		_ = client.Close()
		return nil, nil, fmt.Errorf("%w: %s", errors.ErrClipsDirMissing, clipsPath)
	}

	idle, err := mpd.Watch(cfg.MPD.Socket, cfg.MPD.Password, "player")
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("%w: %v", errors.ErrDaemonUnreachable, err)
	}

	loop := announce.NewLoop(
		announce.Config{
			ClipsDir: cfg.Station.ClipsDir,
			MusicDir: musicDir,
			Always:   cfg.Station.Always,
		},
		announce.Deps{
			Daemon:   client,
			Events:   idle,
			Art:      artwork.NewFetcher(client, log),
			Composer: b,
			Voice:    synth,
			Pipeline: pipeline,
			Injector: announce.NewInjector(client, m, log),
			Journal:  journal,
			Metrics:  m,
			Log:      log,
		},
	)

	cleanup := func() {
		_ = idle.Close()
		_ = client.Close()
	}
	return loop, cleanup, nil
}

// applyRunFlags overlays run flags onto the loaded config.
func applyRunFlags(cmd *cobra.Command) {
	if runTemplate != "" {
		cfg.Station.Template = runTemplate
	}
	if len(runTools) > 0 {
		cfg.Station.Tools = runTools
	}
	if runModel != "" {
		cfg.Chat.Model = runModel
	}
	if runTTSModel != "" {
		cfg.Speech.Model = runTTSModel
	}
	if runTTSVoice != "" {
		cfg.Speech.Voice = runTTSVoice
	}
	if runTTSKey != "" {
		cfg.Speech.APIKey = runTTSKey
	}
	if runAudioFormat != "" {
		cfg.Speech.Format = runAudioFormat
	}
	if runSocket != "" {
		cfg.MPD.Socket = runSocket
	}
	if runClipsDir != "" {
		cfg.Station.ClipsDir = runClipsDir
	}
	if cmd.Flags().Changed("always") {
		cfg.Station.Always = runAlways
	}
	if runMetricsAddr != "" {
		cfg.Metrics.Addr = runMetricsAddr
	}
}

// mergeParams overlays -p key=value flags onto the configured params.
func mergeParams(base map[string]string, overrides []string) (map[string]string, error) {
	params := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		params[k] = v
	}
	for _, kv := range overrides {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q (want key=value)", kv)
		}
		params[k] = v
	}
	return params, nil
}

package mediaoptimizer

import (
	"log/slog"
	"time"

	"contentflow/contexts/content-studio/media-optimizer/application/commands"
	"contentflow/contexts/content-studio/media-optimizer/application/workers"
	"contentflow/contexts/content-studio/media-optimizer/ports"
)

type Module struct {
	Optimize commands.OptimizeContentUseCase
	Runner   workers.JobRunner
}

type Dependencies struct {
	Objects    ports.ObjectStore
	Transcoder ports.Transcoder
	Recorder   ports.DerivativeRecorder
	ScratchDir string
	JobTimeout time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	optimize := commands.OptimizeContentUseCase{
		Objects:    deps.Objects,
		Transcoder: deps.Transcoder,
		Recorder:   deps.Recorder,
		ScratchDir: deps.ScratchDir,
		Timeout:    deps.JobTimeout,
		Logger:     deps.Logger,
	}
	return Module{
		Optimize: optimize,
		Runner: workers.JobRunner{
			Optimize: optimize,
			Logger:   deps.Logger,
		},
	}
}

// Package studio assembles the content-studio services and the bridges between them.
package studio

import (
	"log/slog"
	"time"

	approvalservice "contentflow/contexts/content-studio/approval-service"
	approvalports "contentflow/contexts/content-studio/approval-service/ports"
	mediaoptimizer "contentflow/contexts/content-studio/media-optimizer"
	optimizerports "contentflow/contexts/content-studio/media-optimizer/ports"
	uploadservice "contentflow/contexts/content-studio/upload-service"
	storageadapter "contentflow/contexts/content-studio/upload-service/adapters/storage"
	uploadports "contentflow/contexts/content-studio/upload-service/ports"
	"contentflow/internal/platform/objectstore"
)

type Studio struct {
	Uploads   uploadservice.Module
	Approval  approvalservice.Module
	Optimizer mediaoptimizer.Module
}

// Dependencies leaves store fields nil to get in-memory stores.
type Dependencies struct {
	Sessions     uploadports.SessionRepository
	UploadClock  uploadports.Clock
	UploadIDGen  uploadports.IDGenerator
	Contents     approvalports.ContentRepository
	Directory    approvalports.MembershipDirectory
	ContentClock approvalports.Clock
	ContentIDGen approvalports.IDGenerator

	Objects    objectstore.Store
	Publisher  approvalports.EventPublisher
	Transcoder optimizerports.Transcoder

	// Dispatch builds the job dispatcher once the optimizer exists. Nil means
	// uploads never dispatch optimization from this process.
	Dispatch func(optimizer mediaoptimizer.Module) JobDispatcher

	PartURLTTL    time.Duration
	SessionMaxAge time.Duration
	JobTimeout    time.Duration
	ScratchDir    string
	Logger        *slog.Logger
}

func Build(deps Dependencies) Studio {
	var approval approvalservice.Module
	if deps.Contents == nil {
		approval = approvalservice.NewInMemoryModule(deps.Publisher, deps.Logger)
	} else {
		approval = approvalservice.NewModule(approvalservice.Dependencies{
			Contents:  deps.Contents,
			Directory: deps.Directory,
			Publisher: deps.Publisher,
			Clock:     deps.ContentClock,
			IDGen:     deps.ContentIDGen,
			Logger:    deps.Logger,
		})
	}

	optimizer := mediaoptimizer.NewModule(mediaoptimizer.Dependencies{
		Objects:    deps.Objects,
		Transcoder: deps.Transcoder,
		Recorder:   derivativeRecorder{derivatives: approval.Derivatives},
		ScratchDir: deps.ScratchDir,
		JobTimeout: deps.JobTimeout,
		Logger:     deps.Logger,
	})

	var dispatcher uploadports.OptimizationDispatcher = discardDispatcher{}
	if deps.Dispatch != nil {
		dispatcher = optimizationDispatcher{dispatcher: deps.Dispatch(optimizer)}
	}

	uploadDeps := uploadservice.Dependencies{
		Sessions:      deps.Sessions,
		Storage:       storageadapter.New(deps.Objects),
		Teams:         teamAccess{scopes: approval.Handler.Scopes},
		Registry:      contentRegistry{register: approval.Register},
		Dispatcher:    dispatcher,
		Publisher:     deps.Publisher,
		Clock:         deps.UploadClock,
		IDGen:         deps.UploadIDGen,
		PartURLTTL:    deps.PartURLTTL,
		SessionMaxAge: deps.SessionMaxAge,
		Logger:        deps.Logger,
	}
	var uploads uploadservice.Module
	if deps.Sessions == nil {
		uploads = uploadservice.NewInMemoryModule(uploadDeps)
	} else {
		uploads = uploadservice.NewModule(uploadDeps)
	}

	return Studio{
		Uploads:   uploads,
		Approval:  approval,
		Optimizer: optimizer,
	}
}

package uploadservice

import (
	"log/slog"
	"time"

	httpadapter "contentflow/contexts/content-studio/upload-service/adapters/http"
	"contentflow/contexts/content-studio/upload-service/adapters/memory"
	"contentflow/contexts/content-studio/upload-service/application/commands"
	"contentflow/contexts/content-studio/upload-service/application/queries"
	"contentflow/contexts/content-studio/upload-service/application/workers"
	"contentflow/contexts/content-studio/upload-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Sessions queries.ListSessionsUseCase
	Reaper   workers.SessionReaper
	Store    *memory.Store
}

type Dependencies struct {
	Sessions      ports.SessionRepository
	Storage       ports.ObjectStorage
	Teams         ports.TeamAccess
	Registry      ports.ContentRegistry
	Dispatcher    ports.OptimizationDispatcher
	Publisher     ports.EventPublisher
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	PartURLTTL    time.Duration
	SessionMaxAge time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			InitUpload: commands.InitUploadUseCase{
				Sessions: deps.Sessions,
				Storage:  deps.Storage,
				Teams:    deps.Teams,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			SignPart: commands.SignPartUseCase{
				Sessions: deps.Sessions,
				Storage:  deps.Storage,
				Clock:    deps.Clock,
				TTL:      deps.PartURLTTL,
				Logger:   deps.Logger,
			},
			CompleteUpload: commands.CompleteUploadUseCase{
				Sessions:   deps.Sessions,
				Storage:    deps.Storage,
				Registry:   deps.Registry,
				Dispatcher: deps.Dispatcher,
				Publisher:  deps.Publisher,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			AbortUpload: commands.AbortUploadUseCase{
				Sessions: deps.Sessions,
				Storage:  deps.Storage,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			GetSession: queries.GetSessionUseCase{
				Sessions: deps.Sessions,
			},
			Logger: deps.Logger,
		},
		Sessions: queries.ListSessionsUseCase{
			Sessions: deps.Sessions,
		},
		Reaper: workers.SessionReaper{
			Sessions: deps.Sessions,
			Storage:  deps.Storage,
			Clock:    deps.Clock,
			MaxAge:   deps.SessionMaxAge,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule backs sessions, locks and ids with process memory.
// Storage and the cross-service ports still come from deps.
func NewInMemoryModule(deps Dependencies) Module {
	store := memory.NewStore()
	deps.Sessions = store
	if deps.Clock == nil {
		deps.Clock = store
	}
	if deps.IDGen == nil {
		deps.IDGen = store
	}
	module := NewModule(deps)
	module.Store = store
	return module
}

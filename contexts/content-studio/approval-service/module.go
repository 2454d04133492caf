package approvalservice

import (
	"log/slog"

	httpadapter "contentflow/contexts/content-studio/approval-service/adapters/http"
	"contentflow/contexts/content-studio/approval-service/adapters/memory"
	"contentflow/contexts/content-studio/approval-service/application/commands"
	"contentflow/contexts/content-studio/approval-service/application/queries"
	"contentflow/contexts/content-studio/approval-service/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	Register    commands.RegisterContentUseCase
	Derivatives commands.RecordDerivativeUseCase
	Store       *memory.Store
}

type Dependencies struct {
	Contents  ports.ContentRepository
	Directory ports.MembershipDirectory
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Transitions: commands.TransitionStatusUseCase{
				Contents:  deps.Contents,
				Directory: deps.Directory,
				Publisher: deps.Publisher,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Logger:    deps.Logger,
			},
			GetContent: queries.GetContentUseCase{
				Contents:  deps.Contents,
				Directory: deps.Directory,
			},
			ListContent: queries.ListContentUseCase{
				Contents:  deps.Contents,
				Directory: deps.Directory,
			},
			Scopes: queries.AuthorizeScopeUseCase{
				Directory: deps.Directory,
			},
			Logger: deps.Logger,
		},
		Register: commands.RegisterContentUseCase{
			Contents: deps.Contents,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
		Derivatives: commands.RecordDerivativeUseCase{
			Contents: deps.Contents,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Contents:  store,
		Directory: store,
		Publisher: publisher,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}

package bookservice

import (
	"log/slog"

	httpadapter "bookshelf/contexts/catalog/book-service/adapters/http"
	"bookshelf/contexts/catalog/book-service/adapters/memory"
	"bookshelf/contexts/catalog/book-service/application/commands"
	"bookshelf/contexts/catalog/book-service/application/queries"
	"bookshelf/contexts/catalog/book-service/domain/entities"
	"bookshelf/contexts/catalog/book-service/ports"
)

// Module is the composition surface of the book catalog.
// Runtime wiring consumes Handler; Store is exposed for tests.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Books  ports.BookRepository
	Events ports.EventPublisher
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		CreateBook: commands.CreateBookUseCase{
			Books:  deps.Books,
			Events: deps.Events,
			Logger: deps.Logger,
		},
		ListBooks: queries.ListBooksUseCase{
			Books:  deps.Books,
			Logger: deps.Logger,
		},
		GetBook: queries.GetBookUseCase{
			Books:  deps.Books,
			Events: deps.Events,
			Logger: deps.Logger,
		},
		ReplaceBook: commands.ReplaceBookUseCase{
			Books:  deps.Books,
			Events: deps.Events,
			Logger: deps.Logger,
		},
		PatchBook: commands.PatchBookUseCase{
			Books:  deps.Books,
			Events: deps.Events,
			Logger: deps.Logger,
		},
		DeleteBook: commands.DeleteBookUseCase{
			Books:  deps.Books,
			Events: deps.Events,
			Logger: deps.Logger,
		},
		Logger: deps.Logger,
	}
	return Module{Handler: handler}
}

// NewInMemoryModule wires the catalog against the in-memory store.
func NewInMemoryModule(seed []entities.Book, events ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	module := NewModule(Dependencies{
		Books:  store,
		Events: events,
		Logger: logger,
	})
	module.Store = store
	return module
}

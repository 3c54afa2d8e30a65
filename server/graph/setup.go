package graph

import (
	"time"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-chi/chi/v5"
	"github.com/vektah/gqlparser/v2/ast"
)

const (
	QueryPath      = "/graphql/query"
	PlaygroundPath = "/graphql"
)

// Setup sets up the GraphQL server on the given router
func Setup(resolver *Resolver, r chi.Router) {
	srv := handler.New(NewExecutableSchema(resolver))

	srv.AddTransport(transport.Websocket{
		KeepAlivePingInterval: 10 * time.Second,
	})
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))
	srv.Use(extension.AutomaticPersistedQuery{
		Cache: lru.New[string](100),
	})

	r.Handle(QueryPath, srv)
	r.Handle(PlaygroundPath, playground.Handler("fxconvert: GraphQL playground", QueryPath))
}

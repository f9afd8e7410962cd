package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

type Middleware func(next HandlerFunc) HandlerFunc

type WSRouter struct {
	routes      map[string]HandlerFunc
	middlewares []Middleware
	notFound    func(ctx context.Context, messageType string)
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// NotFound registers a hook invoked for message types with no handler. The
// message itself is dropped either way.
func (r *WSRouter) NotFound(handler func(ctx context.Context, messageType string)) {
	r.notFound = handler
}

// ServeConn reads frames off the connection and dispatches them until the
// read side fails. Handler errors do not terminate the loop; the middlewares
// are expected to observe them.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	routes := r.composedRoutes()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := routes[msg.Type]
		if !exists {
			if r.notFound != nil {
				r.notFound(ctx, msg.Type)
			}
			continue
		}

		//nolint:errcheck // errors are handled by the middleware chain
		handler(context.WithValue(ctx, messageTypeKey, msg.Type), conn, msg.Payload)
	}
}

// composedRoutes wraps every handler in the middleware chain up front, so
// the dispatch loop does no per-frame composition.
func (r *WSRouter) composedRoutes() map[string]HandlerFunc {
	routes := make(map[string]HandlerFunc, len(r.routes))
	for messageType, handler := range r.routes {
		for i := len(r.middlewares) - 1; i >= 0; i-- {
			handler = r.middlewares[i](handler)
		}
		routes[messageType] = handler
	}

	return routes
}

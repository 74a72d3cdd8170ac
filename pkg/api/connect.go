package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// unaryHandler builds a Connect handler that speaks the JSON codec.
func unaryHandler[Req, Res any](
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) *connect.Handler {
	options := append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewUnaryHandler(procedure, fn, options...)
}

// unaryClient builds a Connect client for one procedure that speaks the JSON
// codec.
func unaryClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	options := append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, options...)
}

// serviceHandler mounts each procedure handler under its own path.
func serviceHandler(handlers map[string]*connect.Handler) http.Handler {
	mux := http.NewServeMux()
	for procedure, h := range handlers {
		mux.Handle(procedure, h)
	}
	return mux
}

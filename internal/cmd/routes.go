package cmd

import (
	"fmt"

	"github.com/niels/httplite/pkg/config"
	"github.com/niels/httplite/pkg/httplite"
	"github.com/niels/httplite/pkg/logging"
)

func registerBuiltinRoutes(srv *httplite.Server) {
	srv.HandleFunc("/ping", func(w *httplite.ResponseWriter, r *httplite.Request) {
		reply(w.PrintText("pong"))
	})

	srv.HandleFunc("/echo", func(w *httplite.ResponseWriter, r *httplite.Request) {
		reply(w.PrintText(r.Method() + " " + r.URL()))
	})

	srv.HandleFunc("/routes", func(w *httplite.ResponseWriter, r *httplite.Request) {
		reply(w.PrintJSON(map[string]interface{}{"routes": srv.Routes()}))
	})
}

// textHandler answers every request with a fixed text body
type textHandler struct {
	text string
}

func (h textHandler) Handle(w *httplite.ResponseWriter, r *httplite.Request) {
	reply(w.PrintText(h.text))
}

// jsonHandler answers every request with a fixed JSON body
type jsonHandler struct {
	body map[string]interface{}
}

func (h jsonHandler) Handle(w *httplite.ResponseWriter, r *httplite.Request) {
	reply(w.PrintJSON(h.body))
}

func staticHandler(rc config.RouteConfig) (httplite.Handler, error) {
	if rc.JSON == nil {
		return textHandler{text: rc.Text}, nil
	}

	// render once up front so unsupported values fail at startup
	if _, err := httplite.ToJSON(rc.JSON); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	return jsonHandler{body: rc.JSON}, nil
}

// reply logs a failed response write. Handlers have no way to report it.
func reply(err error) {
	if err != nil {
		logging.ErrorWith("Failed to write response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Command agentweb is a minimal demo wiring for the request/response
// engine: it accepts plain-TCP connections and serves a configured web
// root, using the in-memory example collaborators for the routes that
// need a real host resolver, access gate, or API handler in production.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"

	"github.com/yourusername/agentweb/internal/webengine/accesslog"
	"github.com/yourusername/agentweb/internal/webengine/config"
	"github.com/yourusername/agentweb/internal/webengine/conn"
	"github.com/yourusername/agentweb/internal/webengine/router"
	"github.com/yourusername/agentweb/internal/webengine/router/examplecollab"
	"github.com/yourusername/agentweb/internal/webengine/transport"
)

func main() {
	addr := flag.String("addr", ":19999", "listen address")
	webRoot := flag.String("webroot", "./web", "static file root")
	flag.Parse()

	cfg := config.Default()
	cfg.WebRoot = *webRoot

	rt := router.New(*webRoot, examplecollab.NewStaticHostResolver(nil), examplecollab.AllowAllGate{}, examplecollab.EchoAPIHandler{}, examplecollab.NoopIngestSpawner{})
	logger := accesslog.NewJSONSink(os.Stdout)

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen on %s: %v", *addr, err)
	}
	defer ln.Close()

	log.Printf("agentweb listening on %s, serving %s", *addr, *webRoot)
	if err := serve(ln, cfg, rt, logger); err != nil {
		log.Fatal(err)
	}
}

func serve(ln net.Listener, cfg config.Config, rt *router.Router, logger conn.AccessLogger) error {
	for {
		raw, err := ln.Accept()
		if err != nil {
			return err
		}
		go func() {
			slot := conn.NewSlot(transport.NewPlain(raw), cfg, rt, logger)
			if err := slot.Serve(context.Background()); err != nil {
				log.Printf("connection from %s ended: %v", raw.RemoteAddr(), err)
			}
		}()
	}
}

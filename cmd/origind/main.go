// origind runs the origin HTTP/1.1 core behind either of the two listener
// adapters httpcore ships: the default stdio listener (one process per
// accepted connection, as a socket-activation supervisor would invoke it)
// or, with -listen, a development TCP listener that drives one core
// instance per accepted connection on its own goroutine.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/originhttp/core/examples/echo"
	"github.com/originhttp/core/examples/static"
	"github.com/originhttp/core/internal/httpcore"
)

const usage = `
origind
================================================================================

  origind [OPTIONS]

OPTIONS
-------

  -listen <addr>   # run a development TCP listener instead of stdio mode
  -debug  <level>  # log level: 0=FATAL .. 5=TRACE (default: 3, INFO)

  With no -listen, origind serves exactly one request from stdin/stdout and
  exits, the socket-activation model spec.md describes.

`

func main() {
	listen := flag.String("listen", "", "address for the development TCP listener")
	debug := flag.Int("debug", int(httpcore.LevelINFO), "log level")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	router := buildRouter()
	cfg := httpcore.DefaultConfig()
	level := httpcore.Level(*debug)

	if *listen == "" {
		conn := httpcore.StdioListener()
		logger := httpcore.NewLogger(os.Stderr, conn.Label, level)
		httpcore.NewDriver(conn.Input, conn.Output, router, cfg, logger, nil).Serve()
		return
	}

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "origind: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "origind: listening on %s\n", *listen)
	if err := httpcore.NewTCPListener(ln, router, cfg, level).Serve(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "origind: %v\n", err)
		os.Exit(1)
	}
}

func buildRouter() *httpcore.Router {
	router := httpcore.NewRouter()
	router.AddRoute("GET", `^/$`, func(r *httpcore.Request) *httpcore.Response {
		resp := httpcore.NewResponse(200, "ok")
		resp.Body = []byte("origind is up\n")
		return resp
	})
	router.AddRoute("GET", `^/echo$`, echo.Handler)
	router.AddRoute("GET", `^/static/(.+)$`, static.Handler)
	return router
}

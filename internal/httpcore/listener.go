package httpcore

import (
	"context"
	"net"
	"os"

	"golang.org/x/sync/errgroup"
)

// Conn is the (input, output, label) triple spec.md §6's "Accept boundary"
// describes: whatever the supervisor delivers for one connection.
type Conn struct {
	Input  Input
	Output Output
	Label  string
}

// StdioListener yields exactly one Conn wired to (stdin, stdout,
// "(stdio)"), the default listener spec.md §6 mandates for the
// socket-activation model: one process per accepted connection, with the
// supervisor already having done the accept() and handed the process its
// streams positionally.
func StdioListener() *Conn {
	return &Conn{Input: NewInput(os.Stdin), Output: NewOutput(os.Stdout), Label: "(stdio)"}
}

// TCPListener is the development/test listener spec.md §1 leaves to the
// caller: it accepts any number of connections on a net.Listener and drives
// one Driver per connection on its own goroutine, the way gorox's
// leader/worker model gives each connection its own process — expressed
// here as goroutines since there is no supervisor forking processes in a
// local dev loop. Shutdown is coordinated with errgroup; each accepted
// connection gets its own goroutine, with no limit on how many run at once.
type TCPListener struct {
	ln       net.Listener
	router   *Router
	cfg      Config
	logLevel Level
}

// NewTCPListener wraps an already-bound net.Listener.
func NewTCPListener(ln net.Listener, router *Router, cfg Config, logLevel Level) *TCPListener {
	return &TCPListener{ln: ln, router: router, cfg: cfg, logLevel: logLevel}
}

// Serve accepts connections until ctx is canceled or Accept fails, driving
// each one to completion on its own goroutine. It returns the first error
// (other than the shutdown-triggered Accept error) any goroutine reports.
func (l *TCPListener) Serve(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-ctx.Done()
		return l.ln.Close()
	})

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return group.Wait()
			default:
				return err
			}
		}
		group.Go(func() error {
			defer conn.Close()
			label := conn.RemoteAddr().String()
			logger := NewLogger(os.Stderr, label, l.logLevel)
			driver := NewDriver(NewInput(conn), NewOutput(conn), l.router, l.cfg, logger, conn)
			driver.Serve()
			return nil
		})
	}
}

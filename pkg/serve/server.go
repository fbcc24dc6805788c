// Package serve runs the line-oriented request loop spoken by
// structure-aware merge shells: two path lines per request, one token
// line per response.
package serve

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	slogctx "github.com/veqryn/slog-context"

	"github.com/calque-dev/calque"
)

// Server processes outline requests read from a line stream. Each
// request is an input file path line followed by an output file path
// line; the response is a single success or failure token. A request
// line equal to the terminator ends the loop with no response.
type Server struct {
	outliner *calque.Outliner
	config   Config
	in       *bufio.Scanner
	out      io.Writer
	seq      int
}

// NewServer creates a server reading requests from in and writing
// response tokens to out.
func NewServer(o *calque.Outliner, cfg Config, in io.Reader, out io.Writer) *Server {
	cfg.fillDefaults()
	return &Server{
		outliner: o,
		config:   cfg,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run starts the server main loop. Requests are processed strictly one
// at a time; no state crosses from one request to the next. The loop
// ends on the terminator line, on end of stream, or on context
// cancellation between requests. End of stream on the first line of a
// request ends the loop silently; end of stream on the second line is
// answered with the failure token first.
func (s *Server) Run(ctx context.Context) error {
	if err := s.touchReady(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, ok := s.readLine()
		if !ok {
			return s.in.Err()
		}
		if input == s.config.Terminator {
			return nil
		}
		output, ok := s.readLine()
		if !ok {
			s.respond(false)
			return s.in.Err()
		}
		s.seq++
		reqCtx := slogctx.With(ctx, "request", s.seq, "input", input)
		s.respond(s.process(reqCtx, input, output))
	}
}

// process handles a single request and reports whether it succeeded.
// The report is rendered in memory first and the output file written
// last, so a failed request never leaves a fresh report behind.
func (s *Server) process(ctx context.Context, inputPath, outputPath string) bool {
	res, err := s.outliner.OutlineFile(inputPath)
	if err != nil {
		slogctx.Warn(ctx, "request failed", "error", err)
		return false
	}

	var buf bytes.Buffer
	if err := res.WriteReport(&buf); err != nil {
		slogctx.Warn(ctx, "rendering report failed", "error", err)
		return false
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		slogctx.Warn(ctx, "writing report failed", "output", outputPath, "error", err)
		return false
	}

	slogctx.Debug(ctx, "request served", "output", outputPath, "diagnostics", len(res.Diagnostics))
	return true
}

// readLine returns the next request line, reporting false at end of
// stream or on a read error.
func (s *Server) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// respond writes the single-line response token for one request.
func (s *Server) respond(ok bool) {
	token := s.config.FailureToken
	if ok {
		token = s.config.SuccessToken
	}
	fmt.Fprintln(s.out, token)
}

func (s *Server) touchReady() error {
	if s.config.ReadyFile == "" {
		return nil
	}
	if err := os.WriteFile(s.config.ReadyFile, []byte("READY\n"), 0o644); err != nil {
		return fmt.Errorf("writing ready file: %w", err)
	}
	return nil
}

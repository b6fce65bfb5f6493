// Command nlsp is a Language Server Protocol server for N.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/n-lang/ncore/internal/lsp"
)

var (
	rootFlag  = flag.String("root", ".", "project root to resolve modules from")
	entryFlag = flag.String("entry", "main", "entry module name")
	debugFlag = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := zapcore.InfoLevel
	if *debugFlag {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	logger.Info("starting nlsp", zap.String("root", *rootFlag), zap.String("entry", *entryFlag))

	if err := run(context.Background(), logger, os.Stdin, os.Stdout, *rootFlag, *entryFlag); err != nil {
		if errors.Is(err, io.EOF) || err.Error() == "closed" {
			logger.Info("client disconnected")
			return
		}
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer, root, entry string) error {
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)
	client := protocol.ClientDispatcher(conn, logger)

	server := lsp.NewServer(client, logger, root, entry)

	conn.Go(ctx, protocol.ServerHandler(server, nil))
	<-conn.Done()
	return conn.Err()
}

type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kazakovdmitriy/go-cert-signer/internal/app"
	"github.com/kazakovdmitriy/go-cert-signer/internal/config"
	"github.com/kazakovdmitriy/go-cert-signer/internal/logger"
	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
	"go.uber.org/zap"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitError   = 2
)

const usage = `usage: certsign <command> [flags]

commands:
  keygen       load or create the signing key and print its public key
  pubkey       print the public key of the stored signing key
  sign         sign --in payload and write the signed blob to --out
  sign-batch   sign every file of the --in directory into the --out directory
  verify       verify the signed blob from --in, exit code 1 if it is not authentic
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...keyservice.Option) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return exitError
		}
		return exitOK
	}

	command, rest := args[0], args[1:]
	cmd, ok := commands[command]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usage)
		return exitError
	}

	cfg, err := config.ParseCertConfig("certsign "+command, rest)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	log, err := logger.Initialize(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer log.Sync()

	a, err := app.NewApp(ctx, cfg, log, opts...)
	if err != nil {
		log.Error("failed to initialize", zap.Error(err))
		return exitError
	}
	defer a.Close()

	code, err := cmd(ctx, a, cfg, streams{stdin: stdin, stdout: stdout, stderr: stderr})
	if err != nil {
		log.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return code
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kazakovdmitriy/go-cert-signer/internal/app"
	"github.com/kazakovdmitriy/go-cert-signer/internal/batch"
	"github.com/kazakovdmitriy/go-cert-signer/internal/config"
)

type command func(ctx context.Context, a *app.App, cfg *config.CertFlags, s streams) (int, error)

var commands = map[string]command{
	"keygen":     keygenCommand,
	"pubkey":     pubkeyCommand,
	"sign":       signCommand,
	"sign-batch": signBatchCommand,
	"verify":     verifyCommand,
}

func keygenCommand(ctx context.Context, a *app.App, cfg *config.CertFlags, s streams) (int, error) {
	if a.Keys.UsingDebugPassword() {
		fmt.Fprintln(s.stderr, "WARNING: key password is not set, the debug default is unsafe outside development")
	}
	return pubkeyCommand(ctx, a, cfg, s)
}

func pubkeyCommand(ctx context.Context, a *app.App, _ *config.CertFlags, s streams) (int, error) {
	kp, err := a.Keys.GetOrCreateKey(ctx)
	if err != nil {
		return exitError, err
	}

	pemKey, err := kp.PublicKeyPEM()
	if err != nil {
		return exitError, err
	}

	if _, err := s.stdout.Write(pemKey); err != nil {
		return exitError, fmt.Errorf("failed to write public key: %w", err)
	}
	return exitOK, nil
}

func signCommand(ctx context.Context, a *app.App, cfg *config.CertFlags, s streams) (int, error) {
	payload, err := readInput(cfg.Input, s.stdin)
	if err != nil {
		return exitError, err
	}

	blob, err := a.Sign(ctx, payload)
	if err != nil {
		return exitError, err
	}

	if err := writeOutput(cfg.Output, s.stdout, blob); err != nil {
		return exitError, err
	}
	return exitOK, nil
}

func signBatchCommand(ctx context.Context, a *app.App, cfg *config.CertFlags, s streams) (int, error) {
	if cfg.Input == "" || cfg.Output == "" {
		return exitError, fmt.Errorf("sign-batch requires --in and --out directories")
	}

	tasks, err := batch.DirTasks(cfg.Input, cfg.Output)
	if err != nil {
		return exitError, err
	}

	results := batch.NewWorkerPool(a, cfg.Workers, a.Logger()).Run(ctx, tasks)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(s.stderr, "%s: %v\n", r.Task.Input, r.Err)
			continue
		}
		fmt.Fprintln(s.stdout, r.Task.Output)
	}

	if failed > 0 {
		return exitError, fmt.Errorf("%d of %d files failed to sign", failed, len(results))
	}
	return exitOK, nil
}

func verifyCommand(ctx context.Context, a *app.App, cfg *config.CertFlags, s streams) (int, error) {
	blob, err := readInput(cfg.Input, s.stdin)
	if err != nil {
		return exitError, err
	}

	if !a.Verify(ctx, blob) {
		fmt.Fprintln(s.stdout, "invalid")
		return exitInvalid, nil
	}

	fmt.Fprintln(s.stdout, "valid")
	return exitOK, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		if _, err := io.Copy(stdout, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

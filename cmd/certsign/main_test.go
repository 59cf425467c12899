package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t       *testing.T
	keyFile string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	for _, key := range []string{"KEY_STORE", "KEY_FILE", "CERT_KEY_PASSWORD", "REQUIRE_EXISTING_KEY", "LOGLEVEL", "AUDIT_FILE", "WORKERS"} {
		t.Setenv(key, "")
	}
	return &cli{t: t, keyFile: filepath.Join(t.TempDir(), "key.pem")}
}

func (c *cli) run(stdin []byte, args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append(args, "-s", "file", "-f", c.keyFile, "-p", "pw", "-g", "error")
	code := run(context.Background(), full, bytes.NewReader(stdin), &stdout, &stderr, keyservice.WithKeyBits(1024))
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer

	assert.Equal(t, exitError, run(context.Background(), nil, nil, &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "usage: certsign")

	assert.Equal(t, exitOK, run(context.Background(), []string{"help"}, nil, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Equal(t, exitError, run(context.Background(), []string{"frobnicate"}, nil, &bytes.Buffer{}, &bytes.Buffer{}))
}

func TestRun_SignAndVerify(t *testing.T) {
	c := newCLI(t)
	payload := []byte("hello-certificate")

	code, blob, _ := c.run(payload, "sign")
	require.Equal(t, exitOK, code)
	assert.Len(t, blob, len(payload)+128+4)

	code, out, _ := c.run([]byte(blob), "verify")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "valid\n", out)

	tampered := []byte(blob)
	tampered[0] ^= 0xFF
	code, out, _ = c.run(tampered, "verify")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, "invalid\n", out)

	code, out, _ = c.run([]byte{1, 2}, "verify")
	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, "invalid\n", out)
}

func TestRun_FilesAndPublicKey(t *testing.T) {
	c := newCLI(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "cert.png")
	out := filepath.Join(dir, "cert.signed.png")
	pub := filepath.Join(dir, "pub.pem")
	require.NoError(t, os.WriteFile(in, []byte("rendered certificate"), 0o600))

	code, pemKey, stderr := c.run(nil, "keygen")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(pemKey, "-----BEGIN PUBLIC KEY-----"))
	assert.NotContains(t, stderr, "WARNING")
	require.NoError(t, os.WriteFile(pub, []byte(pemKey), 0o600))

	code, again, _ := c.run(nil, "pubkey")
	require.Equal(t, exitOK, code)
	assert.Equal(t, pemKey, again)

	code, _, _ = c.run(nil, "sign", "-i", in, "-o", out)
	require.Equal(t, exitOK, code)

	code, verdict, _ := c.run(nil, "verify", "-i", out, "--public-key", pub)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "valid\n", verdict)
}

func TestRun_RequireKeyFailsClosed(t *testing.T) {
	c := newCLI(t)

	code, _, stderr := c.run([]byte("payload"), "sign", "-r")

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "not configured")
	_, err := os.Stat(c.keyFile)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_BadFlags(t *testing.T) {
	c := newCLI(t)

	code, _, _ := c.run(nil, "sign", "--unknown")

	assert.Equal(t, exitError, code)
}

func TestRun_SignBatch(t *testing.T) {
	c := newCLI(t)
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "signed")
	audit := filepath.Join(t.TempDir(), "audit.log")
	for _, name := range []string{"alice.png", "bob.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte("certificate for "+name), 0o600))
	}

	code, listing, _ := c.run(nil, "sign-batch", "-i", in, "-o", out, "-w", "2", "-a", audit)
	require.Equal(t, exitOK, code)
	assert.Equal(t, filepath.Join(out, "alice.png")+"\n"+filepath.Join(out, "bob.png")+"\n", listing)

	blob, err := os.ReadFile(filepath.Join(out, "bob.png"))
	require.NoError(t, err)
	code, verdict, _ := c.run(blob, "verify")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "valid\n", verdict)

	events, err := os.ReadFile(audit)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(events), `"action":"sign"`))

	code, _, stderr := c.run(nil, "sign-batch", "-i", in)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "requires --in and --out")
}

func TestRun_VerifyWithoutKeyLeavesStoreEmpty(t *testing.T) {
	c := newCLI(t)
	blob := make([]byte, 300)
	blob[len(blob)-4] = 0x00
	blob[len(blob)-3] = 0x01

	code, out, _ := c.run(blob, "verify")

	assert.Equal(t, exitInvalid, code)
	assert.Equal(t, "invalid\n", out)
	_, err := os.Stat(c.keyFile)
	assert.True(t, os.IsNotExist(err))
}

package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

// LoadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent. A file that exists but
// does not parse is an error.
func LoadOrCreateHostKey(path string, logger *slog.Logger) (gossh.Signer, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		signer, err := xssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("host key %s: %w", path, err)
		}
		logger.Info("ssh: loaded host key", "path", path)
		return signer, nil
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("host key %s: %w", path, err)
	}

	logger.Info("ssh: generating ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	block, err := xssh.MarshalPrivateKey(key, "chronorogue server")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	// Persist for next run (non-fatal if it fails).
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		logger.Warn("ssh: cannot persist host key", "path", path, "error", err)
	}
	return signer, nil
}

// NewServer builds the SSH listener for h.
func NewServer(addr string, signer gossh.Signer, h *Handler) *gossh.Server {
	return &gossh.Server{
		Addr:    addr,
		Handler: h.Handle,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication; the SSH user only names the avatar.
		HostSigners: []gossh.Signer{signer},
	}
}

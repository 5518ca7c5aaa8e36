// Package tunnel exposes local ports through a public tunnel provider
// (cloudflared, falling back to ngrok) and remembers the port to URL
// association for the lifetime of the process.
package tunnel

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	osexec "os/exec"
)

var (
	cloudflaredURLPattern = regexp.MustCompile(`https://[a-z0-9-]+\.trycloudflare\.com`)
	ngrokURLPattern       = regexp.MustCompile(`https://[a-z0-9]+\.ngrok\.io`)
)

const startTimeout = 15 * time.Second

// Runner executes an external tunnel binary and returns its combined output.
// Injected so tests never spawn real processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner runs commands with os/exec.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return osexec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Registry is an explicit keyed store mapping local ports to their public
// tunnel URLs. Safe for concurrent use; state lives only as long as the
// process.
type Registry struct {
	mu      sync.Mutex
	tunnels map[int]string
	runner  Runner
}

func NewRegistry(runner Runner) *Registry {
	if runner == nil {
		runner = OSRunner{}
	}

	return &Registry{
		tunnels: make(map[int]string),
		runner:  runner,
	}
}

// Lookup returns the remembered URL for a port.
func (r *Registry) Lookup(port int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.tunnels[port]

	return url, ok
}

// Open returns the existing tunnel URL for the port or starts a new tunnel.
// Cloudflared is preferred (no account needed); ngrok is the fallback.
func (r *Registry) Open(ctx context.Context, port int) (string, error) {
	if url, ok := r.Lookup(port); ok {
		return url, nil
	}

	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	url := r.tryCloudflared(ctx, port)
	if url == "" {
		url = r.tryNgrok(ctx, port)
	}

	if url == "" {
		return "", errors.New("failed to create tunnel: install cloudflared or ngrok")
	}

	r.mu.Lock()
	r.tunnels[port] = url
	r.mu.Unlock()

	return url, nil
}

func (r *Registry) tryCloudflared(ctx context.Context, port int) string {
	out, err := r.runner.Run(ctx, "cloudflared",
		"tunnel", "--url", fmt.Sprintf("http://localhost:%d", port), "--no-autoupdate")
	if err != nil && len(out) == 0 {
		return ""
	}

	return cloudflaredURLPattern.FindString(string(out))
}

func (r *Registry) tryNgrok(ctx context.Context, port int) string {
	out, err := r.runner.Run(ctx, "ngrok", "http", fmt.Sprint(port), "--log", "stdout")
	if err != nil && len(out) == 0 {
		return ""
	}

	return ngrokURLPattern.FindString(string(out))
}

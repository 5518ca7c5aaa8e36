package tunnel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner returns canned output per binary name and records calls.
type scriptedRunner struct {
	outputs map[string][]byte
	errs    map[string]error
	calls   []string
}

func (r *scriptedRunner) Run(_ context.Context, name string, _ ...string) ([]byte, error) {
	r.calls = append(r.calls, name)

	return r.outputs[name], r.errs[name]
}

func TestRegistry_OpenCloudflared(t *testing.T) {
	runner := &scriptedRunner{
		outputs: map[string][]byte{
			"cloudflared": []byte("INF +  https://witty-narwhal-demo.trycloudflare.com  +\n"),
		},
	}
	registry := NewRegistry(runner)

	url, err := registry.Open(context.Background(), 3000)
	require.NoError(t, err)
	assert.Equal(t, "https://witty-narwhal-demo.trycloudflare.com", url)
	assert.Equal(t, []string{"cloudflared"}, runner.calls, "ngrok is not tried when cloudflared works")
}

func TestRegistry_FallsBackToNgrok(t *testing.T) {
	runner := &scriptedRunner{
		outputs: map[string][]byte{
			"ngrok": []byte(`lvl=info msg="started tunnel" url=https://ab12cd34.ngrok.io`),
		},
		errs: map[string]error{
			"cloudflared": errors.New("executable file not found in $PATH"),
		},
	}
	registry := NewRegistry(runner)

	url, err := registry.Open(context.Background(), 8080)
	require.NoError(t, err)
	assert.Equal(t, "https://ab12cd34.ngrok.io", url)
	assert.Equal(t, []string{"cloudflared", "ngrok"}, runner.calls)
}

func TestRegistry_BothUnavailable(t *testing.T) {
	runner := &scriptedRunner{
		errs: map[string]error{
			"cloudflared": errors.New("executable file not found in $PATH"),
			"ngrok":       errors.New("executable file not found in $PATH"),
		},
	}
	registry := NewRegistry(runner)

	_, err := registry.Open(context.Background(), 8080)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install cloudflared or ngrok")
}

func TestRegistry_ReusesExistingTunnel(t *testing.T) {
	runner := &scriptedRunner{
		outputs: map[string][]byte{
			"cloudflared": []byte("https://witty-narwhal-demo.trycloudflare.com"),
		},
	}
	registry := NewRegistry(runner)

	first, err := registry.Open(context.Background(), 3000)
	require.NoError(t, err)

	second, err := registry.Open(context.Background(), 3000)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, runner.calls, 1, "the second request must hit the registry, not spawn a process")
}

func TestRegistry_SeparateTunnelsPerPort(t *testing.T) {
	runner := &scriptedRunner{
		outputs: map[string][]byte{
			"cloudflared": []byte("https://witty-narwhal-demo.trycloudflare.com"),
		},
	}
	registry := NewRegistry(runner)

	_, err := registry.Open(context.Background(), 3000)
	require.NoError(t, err)

	_, err = registry.Open(context.Background(), 4000)
	require.NoError(t, err)

	assert.Len(t, runner.calls, 2)

	_, ok := registry.Lookup(3000)
	assert.True(t, ok)
	_, ok = registry.Lookup(5000)
	assert.False(t, ok)
}

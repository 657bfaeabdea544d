package providers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petal-labs/chatgate/core"
)

// mockProvider implements core.Provider for testing.
type mockProvider struct {
	id        string
	available bool
	panics    bool
	cfg       core.ProviderConfig
}

func (m *mockProvider) ID() string           { return m.id }
func (m *mockProvider) DefaultModel() string { return m.id + "-model" }
func (m *mockProvider) Chat(context.Context, *core.ChatRequest) (*core.ChatResponse, error) {
	return &core.ChatResponse{Output: "ok"}, nil
}
func (m *mockProvider) StreamChat(context.Context, *core.ChatRequest) (*core.ChatStream, error) {
	return nil, errors.New("not implemented")
}
func (m *mockProvider) IsAvailable(context.Context) bool {
	if m.panics {
		panic("probe exploded")
	}
	return m.available
}

func mockCtor(id string, available bool) Constructor {
	return func(cfg core.ProviderConfig) (core.Provider, error) {
		return &mockProvider{id: id, available: available, cfg: cfg}, nil
	}
}

func TestGlobalRegister(t *testing.T) {
	Register("Test-Global", mockCtor("test-global", true))

	assert.True(t, IsRegistered("test-global"))
	assert.True(t, IsRegistered("TEST-GLOBAL"))
	assert.False(t, IsRegistered("nonexistent"))
	assert.Contains(t, List(), "test-global")

	r := NewRegistry(nil)
	p, err := r.Get("test-global")
	require.NoError(t, err)
	assert.Equal(t, "test-global", p.ID())
}

func TestRegistryGetReturnsSameInstance(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("alpha", mockCtor("alpha", true))

	first, err := r.Get("alpha")
	require.NoError(t, err)
	second, err := r.Get("ALPHA")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRegistryPassesConfig(t *testing.T) {
	r := NewRegistry(map[string]core.ProviderConfig{
		"Alpha": {DefaultModel: "configured", Timeout: time.Second},
	})
	r.Register("alpha", mockCtor("alpha", true))

	p, err := r.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "configured", p.(*mockProvider).cfg.DefaultModel)
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry(nil)
	r.ctors = map[string]Constructor{}
	r.Register("ollama", mockCtor("ollama", true))
	r.Register("anthropic", mockCtor("anthropic", true))

	_, err := r.Get("doesnotexist")
	require.ErrorIs(t, err, core.ErrUnknownProvider)

	var unknown *core.UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "doesnotexist", unknown.Name)
	assert.Equal(t, []string{"anthropic", "ollama"}, unknown.Available)
	assert.Contains(t, err.Error(), "anthropic, ollama")
}

func TestRegistryConstructionFailureNotCached(t *testing.T) {
	var calls atomic.Int32
	r := NewRegistry(nil)
	r.Register("flaky", func(core.ProviderConfig) (core.Provider, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("missing key")
		}
		return &mockProvider{id: "flaky"}, nil
	})

	_, err := r.Get("flaky")
	require.ErrorIs(t, err, core.ErrConfiguration)
	assert.Contains(t, err.Error(), "Failed to initialize provider 'flaky'")

	p, err := r.Get("flaky")
	require.NoError(t, err)
	assert.Equal(t, "flaky", p.ID())
	assert.EqualValues(t, 2, calls.Load())
}

func TestRegistryKeepsConfigError(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("keyless", func(core.ProviderConfig) (core.Provider, error) {
		return nil, core.MissingCredential("keyless", "KEYLESS_API_KEY")
	})

	_, err := r.Get("keyless")
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "KEYLESS_API_KEY")
	assert.Nil(t, cfgErr.Err)
}

func TestRegistryConcurrentGetConstructsOnce(t *testing.T) {
	var calls atomic.Int32
	r := NewRegistry(nil)
	r.Register("shared", func(core.ProviderConfig) (core.Provider, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return &mockProvider{id: "shared"}, nil
	})

	const n = 100
	got := make([]core.Provider, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := r.Get("shared")
			assert.NoError(t, err)
			got[i] = p
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, p := range got {
		assert.Same(t, got[0], p)
	}
}

func TestRegistryCheckHealth(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("up", mockCtor("up", true))
	r.Register("down", mockCtor("down", false))
	r.Register("broken", func(core.ProviderConfig) (core.Provider, error) {
		return nil, errors.New("no key")
	})
	r.Register("panicky", func(core.ProviderConfig) (core.Provider, error) {
		return &mockProvider{id: "panicky", panics: true}, nil
	})

	ctx := context.Background()
	assert.True(t, r.CheckHealth(ctx, "up"))
	assert.False(t, r.CheckHealth(ctx, "down"))
	assert.False(t, r.CheckHealth(ctx, "broken"))
	assert.False(t, r.CheckHealth(ctx, "panicky"))
	assert.False(t, r.CheckHealth(ctx, "missing"))
}

func TestRegistryHealthAll(t *testing.T) {
	r := NewRegistry(nil)
	r.ctors = map[string]Constructor{}
	r.Register("up", mockCtor("up", true))
	r.Register("down", mockCtor("down", false))
	r.Register("panicky", func(core.ProviderConfig) (core.Provider, error) {
		return &mockProvider{id: "panicky", panics: true}, nil
	})

	got := r.HealthAll(context.Background())
	assert.Equal(t, map[string]bool{"up": true, "down": false, "panicky": false}, got)
}

func TestRegistryReRegisterDiscardsInstance(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("alpha", mockCtor("alpha-v1", true))
	first, err := r.Get("alpha")
	require.NoError(t, err)

	r.Register("alpha", mockCtor("alpha-v2", true))
	second, err := r.Get("alpha")
	require.NoError(t, err)

	assert.Equal(t, "alpha-v1", first.ID())
	assert.Equal(t, "alpha-v2", second.ID())
}

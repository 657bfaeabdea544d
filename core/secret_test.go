package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretRedaction(t *testing.T) {
	secret := NewSecret("sk-abc123xyz")

	assert.Equal(t, "[REDACTED]", secret.String())
	assert.Equal(t, "core.Secret{[REDACTED]}", secret.GoString())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", secret))
	assert.NotContains(t, fmt.Sprintf("%+v %#v", secret, secret), "sk-abc123xyz")

	text, err := secret.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", string(text))
}

func TestSecretInStructJSON(t *testing.T) {
	cfg := struct {
		Name string `json:"name"`
		Key  Secret `json:"key"`
	}{Name: "openai", Key: NewSecret("sk-abc123xyz")}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"openai","key":"[REDACTED]"}`, string(data))
}

func TestSecretExpose(t *testing.T) {
	assert.Equal(t, "sk-abc123xyz", NewSecret("sk-abc123xyz").Expose())
	assert.True(t, NewSecret("").IsEmpty())
	assert.False(t, NewSecret("x").IsEmpty())

	var zero Secret
	assert.True(t, zero.IsEmpty())
}

func TestSecretInLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("provider configured", "api_key", NewSecret("sk-abc123xyz"))

	assert.Contains(t, buf.String(), "api_key=[REDACTED]")
	assert.NotContains(t, buf.String(), "sk-abc123xyz")
}

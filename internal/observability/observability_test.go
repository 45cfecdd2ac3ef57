package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := GlobalLogger
	SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer func() { GlobalLogger = prev }()

	l := NewRepoLogger("posts")
	l.LogCreate(context.Background(), map[string]any{"post_id": 7})
	l.LogError(context.Background(), errors.New("boom"), "delete")

	out := buf.String()
	assert.Contains(t, out, `"table":"posts"`)
	assert.Contains(t, out, `"post_id":7`)
	assert.Contains(t, out, `"error":"boom"`)

	buf.Reset()
	Config.EnableRepoLogging = false
	defer func() { Config.EnableRepoLogging = true }()
	l.LogUpdate(context.Background(), nil)
	assert.Empty(t, buf.String())
}

func TestTrackQuery(t *testing.T) {
	done := TrackQuery("select", "test_table_metrics")
	assert.NotPanics(t, done)
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "scribe-test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "svc", "op")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("ignored"))
}

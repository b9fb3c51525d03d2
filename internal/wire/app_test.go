package wire

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/zenith/internal/clock"
)

func TestBuildApp(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	v.Set("locale", "fr")
	v.Set("log.level", "info")

	var logs bytes.Buffer
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	app, err := BuildApp(context.Background(), v, Options{Clock: clock.Fixed(now), LogOutput: &logs})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, log.InfoLevel, app.Log.GetLevel())
	assert.Equal(t, "en", app.I18n.Locale())
	assert.Contains(t, logs.String(), "falling back")
	assert.Equal(t, now, app.Clock.Now())
	require.NotNil(t, app.Store.Notes)
}

func TestBuildAppMemStore(t *testing.T) {
	v := viper.New()
	app, err := BuildApp(context.Background(), v, Options{DSN: "mem://", LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, app.Log.GetLevel())
	assert.NoError(t, app.Close())
}

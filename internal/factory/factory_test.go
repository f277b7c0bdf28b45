package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appconfig "github.com/zetpar/zetpar/internal/config"
	"github.com/zetpar/zetpar/internal/steam/loopback"
	"github.com/zetpar/zetpar/internal/testutil"
)

func testAppConfig(t *testing.T) *appconfig.Config {
	return &appconfig.Config{
		DataDir:     t.TempDir(),
		StorageType: appconfig.StorageTypeFile,
	}
}

func TestNewWiresFileBackedApp(t *testing.T) {
	app, err := New(Config{
		AppConfig: testAppConfig(t),
		Transport: loopback.New(loopback.Config{}),
		Logger:    testutil.NopLogger(),
	})
	require.NoError(t, err)

	require.NotNil(t, app.Profiles)
	require.NotNil(t, app.Registry)
	require.NotNil(t, app.Auth)
	require.NotNil(t, app.Resolver)
	require.NotNil(t, app.Console)

	// The profile store is usable immediately
	ctx := context.Background()
	require.True(t, app.Profiles.Save(ctx, "alice", "p@ss"))
	password, ok := app.Profiles.Load(ctx, "alice")
	require.True(t, ok)
	require.Equal(t, "p@ss", password)
}

func TestNewRequiresAppConfig(t *testing.T) {
	_, err := New(Config{Transport: loopback.New(loopback.Config{})})
	require.Error(t, err)
}

func TestNewRequiresTransport(t *testing.T) {
	_, err := New(Config{AppConfig: testAppConfig(t)})
	require.Error(t, err)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.StorageType = "carrier-pigeon"

	_, err := New(Config{
		AppConfig: cfg,
		Transport: loopback.New(loopback.Config{}),
	})
	require.Error(t, err)
}

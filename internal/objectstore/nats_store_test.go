// Package objectstore_test tests the NATS-backed narration audio store.
package objectstore_test

import (
	"context"
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/soni0021/manim-narrator/internal/objectstore"
)

// startTestServer starts an in-memory NATS server with JetStream enabled.
func startTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, natsConnection
}

func TestNatsAudioStore_UploadDownload(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, "narration-audio-test")
	require.NoError(t, err)

	ctx := context.Background()
	key := "4f7c9a3e-line-001.wav"
	audio := []byte("RIFF....WAVEfmt narration")

	require.NoError(t, store.Upload(ctx, key, audio))

	fetched, err := store.Download(ctx, key)
	require.NoError(t, err)
	require.Equal(t, audio, fetched)
}

func TestNatsAudioStore_BindToExistingBucket(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	first, err := objectstore.New(jetstreamContext, "narration-audio-shared")
	require.NoError(t, err)

	require.NoError(t, first.Upload(context.Background(), "shared.wav", []byte("audio")))

	// A second store over the same bucket sees the first store's objects.
	second, err := objectstore.New(jetstreamContext, "narration-audio-shared")
	require.NoError(t, err)

	data, err := second.Download(context.Background(), "shared.wav")
	require.NoError(t, err)
	require.Equal(t, []byte("audio"), data)
}

func TestNatsAudioStore_DownloadMissingKey(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, "narration-audio-empty")
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "never-uploaded.wav")
	require.Error(t, err)
}

// Package objectstore provides the NATS JetStream blob store that finished
// narration audio is published into for the render pipeline to collect.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsAudioStore implements core.ObjectStore on a NATS JetStream object
// store bucket. Keys are the worker-assigned audio artifact names.
type NatsAudioStore struct {
	jetstreamContext nats.JetStreamContext
	bucket           string
	store            nats.ObjectStore
}

// New binds to the named bucket, creating it when it does not exist yet.
func New(jetstreamContext nats.JetStreamContext, bucketName string) (*NatsAudioStore, error) {
	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Narration audio artifacts (%s).", bucketName),
		TTL:         0,
		MaxBytes:    0,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Placement:   nil,
		Metadata:    nil,
		Compression: false,
	})
	if err != nil {
		// Another worker may have created the bucket first; bind to it.
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, fmt.Errorf("failed to create audio bucket '%s': %w", bucketName, err)
		}

		store, err = jetstreamContext.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to existing audio bucket '%s': %w", bucketName, err)
		}
	}

	return &NatsAudioStore{
		jetstreamContext: jetstreamContext,
		bucket:           bucketName,
		store:            store,
	}, nil
}

// Download retrieves a narration audio artifact by key.
func (n *NatsAudioStore) Download(_ context.Context, key string) ([]byte, error) {
	obj, err := n.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio '%s' from bucket '%s': %w", key, n.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read audio '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return data, fmt.Errorf("failed to close audio '%s': %w", key, closeErr)
	}

	return data, nil
}

// Upload stores a narration audio artifact under key. An existing artifact
// with the same key is replaced; workers use unique keys per job so this
// only matters for redeliveries.
func (n *NatsAudioStore) Upload(_ context.Context, key string, data []byte) error {
	reader := bytes.NewReader(data)

	_, err := n.store.Put(&nats.ObjectMeta{
		Name:        key,
		Description: "narration audio",
		Headers:     nil,
		Metadata:    map[string]string{"content-type": "audio/wav"},
		Opts:        nil,
	}, reader)
	if err != nil {
		return fmt.Errorf("failed to put audio '%s' to bucket '%s': %w", key, n.bucket, err)
	}

	return nil
}

package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for a Firestore client. An empty
// CredentialsFile falls back to application default credentials.
type Config struct {
	ProjectID       string
	CredentialsFile string
	Timeout         time.Duration
}

// Connect initialises the Firebase app and returns its Firestore client.
// A default timeout bounds client construction.
func Connect(ctx context.Context, cfg Config) (*firestore.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(connectCtx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	// The client outlives connectCtx, so it is built on the parent context.
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

package firebaseapp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

type Params struct {
	ProjectID string
	// CredentialsBase64 is a base64 encoded service account JSON.
	CredentialsBase64 string
	CredentialsFile   string
}

// ClientOptions picks credentials from the base64 env value first, then the
// local file. With neither set the application default credentials are used.
func ClientOptions(p Params) ([]option.ClientOption, error) {
	if p.CredentialsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(p.CredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		log.Debugln("Firebase: using credentials from environment")
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}, nil
	}
	if p.CredentialsFile != "" {
		if _, err := os.Stat(p.CredentialsFile); err != nil {
			return nil, fmt.Errorf("firebase credentials file %s: %w", p.CredentialsFile, err)
		}
		log.Debugf("Firebase: using credentials file %s", p.CredentialsFile)
		return []option.ClientOption{option.WithCredentialsFile(p.CredentialsFile)}, nil
	}
	log.Debugln("Firebase: using application default credentials")
	return nil, nil
}

func New(ctx context.Context, p Params) (*firebase.App, error) {
	opts, err := ClientOptions(p)
	if err != nil {
		return nil, err
	}

	var conf *firebase.Config
	if p.ProjectID != "" {
		conf = &firebase.Config{ProjectID: p.ProjectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

package catalog

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ftxrc/gpymusic/config"
)

// oauthScope is the mobile catalog service's OAuth scope.
const oauthScope = "https://www.googleapis.com/auth/skyjam"

// newTokenSource builds a self-refreshing token source from the long-lived
// refresh token in the environment. The access tokens it mints back every
// API and stream request.
func newTokenSource(ctx context.Context, cfg config.CatalogConfig) (oauth2.TokenSource, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("OAUTH_CLIENT_ID, OAUTH_CLIENT_SECRET and OAUTH_REFRESH_TOKEN must be set")
	}

	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{oauthScope},
	}
	return oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}), nil
}

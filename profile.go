package session

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fetchProfile pulls the three profile fields in parallel. Any failure
// cancels the siblings and wins; partial profiles are never merged.
func fetchProfile(ctx context.Context, backend Backend, token string) (ProfileUpdate, error) {
	var username, email, icon string

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := backend.FetchUsername(ctx, token)
		if err == nil {
			username = v
		}
		return err
	})

	g.Go(func() error {
		v, err := backend.FetchEmail(ctx, token)
		if err == nil {
			email = v
		}
		return err
	})

	g.Go(func() error {
		v, err := backend.FetchProfileIcon(ctx, token)
		if err == nil {
			icon = v
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return ProfileUpdate{}, err
	}

	return ProfileUpdate{
		Username:       &username,
		Email:          &email,
		ProfileIconURL: &icon,
	}, nil
}

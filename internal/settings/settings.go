package settings

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/storage"
)

var ErrInvalidTheme = errors.New("theme must be light, dark or auto")

func ParseTheme(raw string) (schema.Theme, error) {
	switch theme := schema.Theme(raw); theme {
	case schema.ThemeLight, schema.ThemeDark, schema.ThemeAuto:
		return theme, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
}

// ResolveTheme turns auto into the theme the device prefers.
func ResolveTheme(theme schema.Theme, prefersDark bool) schema.Theme {
	if theme != schema.ThemeAuto {
		return theme
	}
	if prefersDark {
		return schema.ThemeDark
	}
	return schema.ThemeLight
}

func Load(ctx context.Context, repository *storage.Repository) (schema.Settings, error) {
	theme, err := repository.Theme(ctx)
	if err != nil {
		return schema.Settings{}, err
	}

	enabled, err := repository.NotificationsEnabled(ctx)
	if err != nil {
		return schema.Settings{}, err
	}

	return schema.Settings{Theme: theme, NotificationsEnabled: enabled}, nil
}

// Update stores the fields that are set and returns the resulting settings.
func Update(ctx context.Context, repository *storage.Repository, theme *string, notificationsEnabled *bool) (schema.Settings, error) {
	if theme != nil {
		parsed, err := ParseTheme(*theme)
		if err != nil {
			return schema.Settings{}, err
		}
		if err := repository.SaveTheme(ctx, parsed); err != nil {
			return schema.Settings{}, err
		}
	}

	if notificationsEnabled != nil {
		if err := repository.SaveNotificationsEnabled(ctx, *notificationsEnabled); err != nil {
			return schema.Settings{}, err
		}
	}

	return Load(ctx, repository)
}

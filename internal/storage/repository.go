package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"github.com/rs/zerolog"
)

const (
	cartKey                 = "sportshop_cart"
	favoritesKey            = "sportshop_favorites"
	sessionKey              = "sportshop_current_user"
	usersKey                = "sportshop_users"
	rememberKey             = "sportshop_remember"
	themeKey                = "sportshop_theme"
	notificationsKey        = "sportshop_notifications"
	notificationsEnabledKey = "sportshop_notifications_enabled"

	DefaultInstallmentCount = 12
)

// Repository stores the records of one client. Users are shared by every client.
// Each save overwrites the whole snapshot, last write wins.
type Repository struct {
	engine   Engine
	clientID string
	log      *zerolog.Logger
}

func NewRepository(engine Engine, clientID string, log *zerolog.Logger) *Repository {
	return &Repository{
		engine:   engine,
		clientID: clientID,
		log:      log,
	}
}

func (r *Repository) ClientID() string {
	return r.clientID
}

func (r *Repository) key(name string) string {
	return fmt.Sprintf("client:%s:%s", r.clientID, name)
}

// load decodes key into destination. Missing or malformed snapshots leave
// destination untouched and report found false.
func (r *Repository) load(ctx context.Context, key string, destination any) (bool, error) {
	raw, found, err := r.engine.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}

	if !found {
		return false, nil
	}

	if err := json.Unmarshal(raw, destination); err != nil {
		r.log.Warn().
			Err(err).
			Str("label", "storage").
			Str("key", key).
			Msg("Malformed snapshot, using empty default")
		return false, nil
	}

	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := r.engine.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

func (r *Repository) remove(ctx context.Context, key string) error {
	if err := r.engine.Delete(ctx, key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Session returns nil when nobody is logged in.
func (r *Repository) Session(ctx context.Context) (*schema.Session, error) {
	var session schema.Session
	found, err := r.load(ctx, r.key(sessionKey), &session)
	if err != nil || !found || session.UserID == "" {
		return nil, err
	}
	return &session, nil
}

func (r *Repository) SaveSession(ctx context.Context, session schema.Session) error {
	return r.save(ctx, r.key(sessionKey), session)
}

func (r *Repository) ClearSession(ctx context.Context) error {
	return r.remove(ctx, r.key(sessionKey))
}

func (r *Repository) Users(ctx context.Context) ([]schema.User, error) {
	users := []schema.User{}
	found, err := r.load(ctx, usersKey, &users)
	if err != nil {
		return nil, err
	}
	if !found || users == nil {
		return []schema.User{}, nil
	}
	return users, nil
}

func (r *Repository) SaveUsers(ctx context.Context, users []schema.User) error {
	return r.save(ctx, usersKey, users)
}

func (r *Repository) Cart(ctx context.Context) (schema.Cart, error) {
	cart := schema.Cart{}
	found, err := r.load(ctx, r.key(cartKey), &cart)
	if err != nil {
		return schema.Cart{}, err
	}

	if !found {
		cart = schema.Cart{}
	}
	if cart.Lines == nil {
		cart.Lines = []schema.CartLine{}
	}
	if cart.InstallmentCount == 0 {
		cart.InstallmentCount = DefaultInstallmentCount
	}

	return cart, nil
}

func (r *Repository) SaveCart(ctx context.Context, cart schema.Cart) error {
	return r.save(ctx, r.key(cartKey), cart)
}

func (r *Repository) Favorites(ctx context.Context) ([]int, error) {
	favorites := []int{}
	found, err := r.load(ctx, r.key(favoritesKey), &favorites)
	if err != nil {
		return nil, err
	}
	if !found || favorites == nil {
		favorites = []int{}
	}
	return favorites, nil
}

func (r *Repository) SaveFavorites(ctx context.Context, favorites []int) error {
	return r.save(ctx, r.key(favoritesKey), favorites)
}

// Notifications reports stored false when the feed was never written.
func (r *Repository) Notifications(ctx context.Context) ([]schema.Notification, bool, error) {
	notifications := []schema.Notification{}
	found, err := r.load(ctx, r.key(notificationsKey), &notifications)
	if err != nil {
		return nil, false, err
	}
	if !found || notifications == nil {
		return []schema.Notification{}, false, nil
	}
	return notifications, true, nil
}

func (r *Repository) SaveNotifications(ctx context.Context, notifications []schema.Notification) error {
	return r.save(ctx, r.key(notificationsKey), notifications)
}

func (r *Repository) Theme(ctx context.Context) (schema.Theme, error) {
	theme := schema.ThemeAuto
	found, err := r.load(ctx, r.key(themeKey), &theme)
	if err != nil {
		return "", err
	}

	switch theme {
	case schema.ThemeLight, schema.ThemeDark, schema.ThemeAuto:
	default:
		found = false
	}

	if !found {
		return schema.ThemeAuto, nil
	}
	return theme, nil
}

func (r *Repository) SaveTheme(ctx context.Context, theme schema.Theme) error {
	return r.save(ctx, r.key(themeKey), theme)
}

// NotificationsEnabled defaults to true.
func (r *Repository) NotificationsEnabled(ctx context.Context) (bool, error) {
	enabled := true
	found, err := r.load(ctx, r.key(notificationsEnabledKey), &enabled)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return enabled, nil
}

func (r *Repository) SaveNotificationsEnabled(ctx context.Context, enabled bool) error {
	return r.save(ctx, r.key(notificationsEnabledKey), enabled)
}

func (r *Repository) Remember(ctx context.Context) (bool, error) {
	var remember bool
	found, err := r.load(ctx, r.key(rememberKey), &remember)
	if err != nil || !found {
		return false, err
	}
	return remember, nil
}

func (r *Repository) SaveRemember(ctx context.Context) error {
	return r.save(ctx, r.key(rememberKey), true)
}

func (r *Repository) ClearRemember(ctx context.Context) error {
	return r.remove(ctx, r.key(rememberKey))
}

package notifications

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"bitbucket.org/sportshop/storefront/internal/schema"
)

const (
	badgeLimit = 99
	justNow    = "Agora"
)

var ErrNotFound = errors.New("notification not found")

// Defaults is the feed a client sees before anything was stored.
func Defaults() []schema.Notification {
	return []schema.Notification{
		{
			ID:      1,
			Type:    "promo",
			Icon:    "fa-tag",
			Title:   "Promoção Relâmpago! ⚡",
			Message: "Tênis Nike Air Max com 40% OFF. Válido por 24h!",
			Time:    "Há 2 horas",
			Action:  &schema.NotificationAction{Type: "category", Category: "tenis"},
		},
		{
			ID:      2,
			Type:    "price-alert",
			Icon:    "fa-arrow-down",
			Title:   "Preço Baixou!",
			Message: "Chuteira Nike Mercurial que você favoritou está R$ 150 mais barata.",
			Time:    "Há 5 horas",
			Action:  &schema.NotificationAction{Type: "category", Category: "chuteiras"},
		},
		{
			ID:      3,
			Type:    "order",
			Icon:    "fa-truck",
			Title:   "Pedido em Trânsito",
			Message: "Seu pedido #230497 saiu para entrega. Previsão: hoje até 18h.",
			Time:    "Há 8 horas",
			Action:  &schema.NotificationAction{Type: "page", Page: "meusPedidos"},
		},
		{
			ID:      4,
			Type:    "favorite",
			Icon:    "fa-heart",
			Title:   "Produto de Volta ao Estoque!",
			Message: "Camisa do Flamengo 2025 que você favoritou voltou ao estoque.",
			Time:    "Ontem",
			Read:    true,
			Action:  &schema.NotificationAction{Type: "category", Category: "camisas"},
		},
		{
			ID:      5,
			Type:    "promo",
			Icon:    "fa-gift",
			Title:   "Cupom Especial para Você",
			Message: "Use o cupom SPORT20 e ganhe 20% de desconto na próxima compra.",
			Time:    "2 dias atrás",
			Read:    true,
			Action:  &schema.NotificationAction{Type: "category", Category: "all"},
		},
	}
}

// Feed is the notification list of one client, newest first.
type Feed struct {
	items []schema.Notification
	Now   func() time.Time
}

// NewFeed wraps the stored list, seeding the defaults when nothing was stored.
func NewFeed(stored []schema.Notification, found bool) *Feed {
	items := slices.Clone(stored)
	if !found {
		items = Defaults()
	}
	if items == nil {
		items = []schema.Notification{}
	}

	return &Feed{items: items, Now: time.Now}
}

func (f *Feed) Items() []schema.Notification {
	return slices.Clone(f.items)
}

// MarkRead reports whether the notification changed.
func (f *Feed) MarkRead(id int64) (bool, error) {
	i := slices.IndexFunc(f.items, func(n schema.Notification) bool { return n.ID == id })
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	if f.items[i].Read {
		return false, nil
	}

	f.items[i].Read = true
	return true, nil
}

func (f *Feed) MarkAllRead() bool {
	changed := false
	for i := range f.items {
		if !f.items[i].Read {
			f.items[i].Read = true
			changed = true
		}
	}
	return changed
}

// Add prepends an unread notification identified by the clock in milliseconds.
func (f *Feed) Add(kind, icon, title, message string, action *schema.NotificationAction) schema.Notification {
	id := f.Now().UnixMilli()
	for slices.ContainsFunc(f.items, func(n schema.Notification) bool { return n.ID == id }) {
		id++
	}

	notification := schema.Notification{
		ID:      id,
		Type:    kind,
		Icon:    icon,
		Title:   title,
		Message: message,
		Time:    justNow,
		Action:  action,
	}

	f.items = slices.Insert(f.items, 0, notification)
	return notification
}

func (f *Feed) UnreadCount() int {
	count := 0
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// Badge is the counter shown on the bell, empty when everything was read.
func (f *Feed) Badge() string {
	count := f.UnreadCount()
	switch {
	case count == 0:
		return ""
	case count > badgeLimit:
		return strconv.Itoa(badgeLimit) + "+"
	}
	return strconv.Itoa(count)
}

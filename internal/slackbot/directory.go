package slackbot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"unibot/internal/logger"
)

// directory caches the workspace user list so alias lookups during a
// broadcast cost one users.list call per TTL window instead of one per
// employee. Aliases match the profile display name or the account name,
// case-insensitively.
type directory struct {
	api *slack.Client
	ttl time.Duration

	mu      sync.Mutex
	byAlias map[string]string // lowercased alias -> user id
	fetched time.Time
}

func newDirectory(api *slack.Client, ttl time.Duration) *directory {
	return &directory{api: api, ttl: ttl, byAlias: map[string]string{}}
}

// Lookup returns the platform user id for an alias, or "" when no user
// matches. A stale cache is refreshed at most once per call.
func (d *directory) Lookup(ctx context.Context, alias string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if time.Since(d.fetched) > d.ttl {
		if err := d.refresh(ctx); err != nil {
			return "", err
		}
	}
	return d.byAlias[strings.ToLower(alias)], nil
}

func (d *directory) refresh(ctx context.Context) error {
	users, err := d.api.GetUsersContext(ctx)
	if err != nil {
		return fmt.Errorf("fetch user directory: %w", err)
	}

	byAlias := make(map[string]string, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot {
			continue
		}
		if name := strings.ToLower(u.Profile.DisplayName); name != "" {
			byAlias[name] = u.ID
		}
		if name := strings.ToLower(u.Name); name != "" {
			if _, taken := byAlias[name]; !taken {
				byAlias[name] = u.ID
			}
		}
	}

	d.byAlias = byAlias
	d.fetched = time.Now()
	logger.Debug("directory refreshed", "users", len(byAlias))
	return nil
}

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-prospector-go/internal/config"
	"social-prospector-go/internal/notify"
	"social-prospector-go/internal/profile"
)

func collectorNames(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	p, err := profile.Lookup("remodeling_colorado")
	require.NoError(t, err)

	built, err := collectorRegistry(context.Background(), cfg, p).Build(cfg.Scanner.Collectors)
	require.NoError(t, err)
	names := make([]string, 0, len(built))
	for _, c := range built {
		names = append(names, c.Name())
	}
	return names
}

func TestCollectorRegistrySkipsUnconfigured(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scanner.Collectors = []string{"reddit", "competitors", "youtube", "websearch", "mailbox"}

	assert.Equal(t, []string{"reddit", "competitors"}, collectorNames(t, cfg))
}

func TestCollectorRegistryWithCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scanner.Collectors = []string{"websearch", "mailbox", "youtube"}
	cfg.Brave.APIKey = "brave-key"
	cfg.YouTube.APIKey = "yt-key"
	cfg.Mailbox = config.MailboxConfig{Enabled: true, Host: "imap.example.com", Port: 993, User: "u", Password: "p"}

	assert.Equal(t, []string{"websearch", "mailbox", "youtube"}, collectorNames(t, cfg))
}

func TestBuildNotifier(t *testing.T) {
	cfg := &config.Config{}
	n, err := buildNotifier(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, notify.Nop{}, n)

	cfg.Webhook.URL = "https://hooks.slack.com/services/T/B/X"
	n, err = buildNotifier(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, notify.Multi{}, n)
	assert.Len(t, n.(notify.Multi), 1)
}

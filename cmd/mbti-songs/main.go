// Command mbti-songs runs the MBTI song recommender and the pi memory game.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/justestif/go-mbti-song-recommender/internal/config"
	"github.com/justestif/go-mbti-song-recommender/internal/insights"
	"github.com/justestif/go-mbti-song-recommender/internal/logging"
	"github.com/justestif/go-mbti-song-recommender/internal/spotify"
	"github.com/justestif/go-mbti-song-recommender/internal/web"
	webfs "github.com/justestif/go-mbti-song-recommender/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	serverCfg := web.ServerConfig{
		Addr:           cfg.Server.Addr,
		TemplatesFS:    templates,
		StaticFS:       static,
		SessionTTL:     cfg.Server.SessionTTL,
		UploadMaxBytes: cfg.Server.UploadMaxBytes,
		ShufflePool:    cfg.Recommend.ShufflePool,
		Insights: insights.Config{
			Groups:       cfg.Insights.Groups,
			MinGroupSize: cfg.Insights.MinGroupSize,
		},
	}

	if cfg.Spotify.Enabled {
		serverCfg.Enricher = spotify.NewWithCredentials(context.Background(),
			cfg.Spotify.ClientID, cfg.Spotify.ClientSecret,
			spotify.WithMarket(cfg.Spotify.Market),
			spotify.WithMaxLookups(cfg.Spotify.MaxLookups),
		)
		logging.Info().Str("market", cfg.Spotify.Market).Msg("Spotify preview lookups enabled")
	}

	server, err := web.NewServer(serverCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

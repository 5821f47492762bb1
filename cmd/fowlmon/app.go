package main

import (
	"github.com/fowltyphoid/fowlmon/consult"
	"github.com/fowltyphoid/fowlmon/credstore"
	"github.com/fowltyphoid/fowlmon/diseases"
	"github.com/fowltyphoid/fowlmon/internal/config"
	"github.com/fowltyphoid/fowlmon/messaging"
	"github.com/fowltyphoid/fowlmon/profiles"
	"github.com/fowltyphoid/fowlmon/reminders"
	"github.com/fowltyphoid/fowlmon/reports"
	"github.com/fowltyphoid/fowlmon/session"
	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// app holds the wired service graph for one CLI invocation.
type app struct {
	cfg       config.Config
	store     *credstore.FileStore
	sessions  *session.Manager
	profiles  *profiles.Service
	reports   *reports.Service
	consults  *consult.Service
	reminders *reminders.Service
	diseases  *diseases.Service
	messages  *messaging.Store
}

func newApp() (*app, error) {
	cfg := config.New()

	if level, err := zerolog.ParseLevel(cfg.GetLogLevel()); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	store, err := credstore.NewFileStore(cfg.GetDataFolder())
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] credstore.NewFileStore")
	}

	authClient := supabase.NewAuthClient(cfg)
	sessions, err := session.NewManager(store, authClient,
		session.WithDialPrefix(cfg.GetDialPrefix()))
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] session.NewManager")
	}

	// The REST client authenticates through the session manager, which in
	// turn resolves roles through the profile service built on that client.
	rest := supabase.NewRESTClient(cfg, sessions)
	profileSvc := profiles.NewService(rest)
	sessions.SetProfileDirectory(profileSvc)

	messages, err := messaging.NewStore(cfg.GetDataFolder())
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] messaging.NewStore")
	}

	return &app{
		cfg:       cfg,
		store:     store,
		sessions:  sessions,
		profiles:  profileSvc,
		reports:   reports.NewService(rest),
		consults:  consult.NewService(rest),
		reminders: reminders.NewService(rest),
		diseases:  diseases.NewService(rest),
		messages:  messages,
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

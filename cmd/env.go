package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pitchforge/pitchforge/internal/store"
	"github.com/pitchforge/pitchforge/pkg/llm"
)

// appEnv holds the shared dependencies a command needs.
type appEnv struct {
	Client llm.Client
	Store  store.Store
}

// newEnv validates the configuration for the given mode and wires the
// completion client and the store. The store is opened for every mode;
// the client only when the mode calls the completion API.
func newEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	env := &appEnv{}
	if mode != "history" {
		env.Client = newLLMClient()
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	env.Store = st
	return env, nil
}

func (e *appEnv) Close() {
	if e.Store != nil {
		e.Store.Close()
	}
}

func newLLMClient() llm.Client {
	opts := []llm.Option{llm.WithBaseURL(cfg.LLM.BaseURL)}
	if cfg.LLM.Model != "" {
		opts = append(opts, llm.WithModel(cfg.LLM.Model))
	}
	opts = append(opts, llm.WithTimeouts(
		time.Duration(cfg.LLM.TimeoutSecs)*time.Second,
		time.Duration(cfg.LLM.StreamTimeoutSecs)*time.Second,
	))

	inner := llm.NewClient(cfg.LLM.Key, opts...)
	return llm.NewRetryingClient(inner, cfg.LLM.MaxAttempts,
		time.Duration(cfg.LLM.RetryBaseDelayMS)*time.Millisecond)
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

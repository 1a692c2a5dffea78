package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/careercoach/internal/assessment"
	"github.com/abhisek/careercoach/internal/auth"
	"github.com/abhisek/careercoach/internal/coach"
	"github.com/abhisek/careercoach/internal/llm"
	"github.com/abhisek/careercoach/internal/profile"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/store"
)

// deps is everything a command needs to run session actions.
type deps struct {
	store    *store.Store
	profiles profile.Store
	provider llm.Provider
	session  *session.Service
}

// errNoLLM stands in for the provider in commands that never call it.
var errNoLLM = errors.New("LLM not used by this command")

// openDeps opens the stores and builds the session service from cfg.
// A missing LLM configuration is not fatal: coaching actions then fail
// with a clear message while sign-in and progress keep working.
func openDeps(ctx context.Context, withLLM bool) (*deps, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}

	profiles, err := profile.Open(ctx, cfg.Users)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open user store: %w", err)
	}

	d := &deps{store: st, profiles: profiles}
	events := st.EventRepo()

	llmCfg, err := cfg.LLM, errNoLLM
	if withLLM {
		llmCfg, err = llm.ResolveConfig(cfg.LLM)
		if err == nil {
			d.provider, err = llm.NewProvider(ctx, llmCfg, events)
		}
	}
	switch {
	case errors.Is(err, errNoLLM):
		d.provider = llm.Unavailable(err)
	case err != nil:
		slog.Warn("LLM provider not configured", slog.Any("error", err))
		d.provider = llm.Unavailable(err)
	}

	genCfg := assessment.DefaultConfig()
	genCfg.Count = cfg.Questions
	genCfg.UseSchema = cfg.StructuredQuestions
	if llmCfg.MaxTokens > 0 {
		genCfg.MaxTokens = max(genCfg.MaxTokens, llmCfg.MaxTokens)
	}

	d.session = session.NewService(session.Deps{
		Auth:         auth.NewService(profiles),
		Profiles:     profiles,
		Coach:        coach.New(llm.NewCompleter(d.provider, llmCfg.MaxTokens)),
		Questions:    assessment.NewGenerator(d.provider, genCfg),
		Events:       events,
		Snapshots:    st.SnapshotRepo(),
		Policy:       cfg.Policy(),
		SnapshotKeep: cfg.SnapshotKeep,
	})
	return d, nil
}

func (d *deps) Close() error {
	return errors.Join(d.profiles.Close(), d.store.Close())
}

// Package pipeline orchestrates one crawl pass: list discovery, entity
// page rendering, extraction, and reconciliation into the stores.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/backoff"
	"github.com/vkozyrev/teamscout/internal/extract"
	"github.com/vkozyrev/teamscout/internal/metrics"
	"github.com/vkozyrev/teamscout/internal/paginate"
	"github.com/vkozyrev/teamscout/internal/politeness"
	"github.com/vkozyrev/teamscout/internal/render"
	"github.com/vkozyrev/teamscout/internal/store"
)

// Stores bundles the persistence interfaces a pass writes through.
type Stores struct {
	Teams   store.TeamStore
	Rosters store.RosterStore
	Players store.PlayerStore
	Matches store.MatchStore
}

// Archiver saves raw page snapshots. Optional.
type Archiver interface {
	Save(pageURL string, body []byte) (string, error)
}

// Config holds the static knobs of a pass.
type Config struct {
	// BaseURL is the site root, without a trailing slash.
	BaseURL string
	// MaxTeams caps how many teams one pass crawls in depth. Zero means
	// no cap.
	MaxTeams int
}

// Params collects the collaborators a Pipeline needs. NavExec paces page
// navigations; Exec retries everything else, store writes included.
type Params struct {
	Config      Config
	Factory     render.SessionFactory
	Walker      *paginate.Walker
	NavExec     *backoff.Executor
	NavTries    int
	Exec        *backoff.Executor
	MaxAttempts int
	PageGov     *politeness.Governor
	EntityGov   *politeness.Governor
	Stores      Stores
	Archive     Archiver
	Logger      *zap.Logger
}

// Pipeline runs crawl passes. A pass opens one render session, walks the
// team list, then visits every discovered team and its roster players.
// Store failures abort the pass; extraction and navigation failures skip
// the entity and move on.
type Pipeline struct {
	cfg         Config
	factory     render.SessionFactory
	walker      *paginate.Walker
	navExec     *backoff.Executor
	navTries    int
	exec        *backoff.Executor
	maxAttempts int
	pageGov     *politeness.Governor
	entityGov   *politeness.Governor
	stores      Stores
	archive     Archiver
	logger      *zap.Logger
}

// New builds a Pipeline from its collaborators.
func New(p Params) *Pipeline {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.NavTries <= 0 {
		p.NavTries = 3
	}
	if p.Exec == nil {
		p.Exec = p.NavExec
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	return &Pipeline{
		cfg:         p.Config,
		factory:     p.Factory,
		walker:      p.Walker,
		navExec:     p.NavExec,
		navTries:    p.NavTries,
		exec:        p.Exec,
		maxAttempts: p.MaxAttempts,
		pageGov:     p.PageGov,
		entityGov:   p.EntityGov,
		stores:      p.Stores,
		archive:     p.Archive,
		logger:      p.Logger,
	}
}

// fatalError marks a failure that invalidates the rest of the pass, such
// as a store write going down mid-crawl.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

func isFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

// persist retries a store write under the generic backoff policy and
// promotes exhausted retries to a pass-aborting failure.
func (p *Pipeline) persist(ctx context.Context, name string, op func(context.Context) error) error {
	if err := p.exec.Do(ctx, name, p.maxAttempts, op); err != nil {
		return fatal(err)
	}
	return nil
}

// RunPass executes one full crawl pass.
func (p *Pipeline) RunPass(ctx context.Context) error {
	logger := p.logger.With(zap.String("pass_id", uuid.NewString()))
	logger.Info("crawl pass starting")

	err := p.runPass(ctx, logger)
	if err != nil {
		metrics.PassesFailed.Inc()
		logger.Error("crawl pass aborted", zap.Error(err))
		return err
	}
	metrics.PassesCompleted.Inc()
	logger.Info("crawl pass completed")
	return nil
}

func (p *Pipeline) runPass(ctx context.Context, logger *zap.Logger) error {
	session, err := p.factory.NewSession(ctx, p.pageGov.Identity())
	if err != nil {
		return fmt.Errorf("open render session: %w", err)
	}
	defer session.Close()

	teams, err := paginate.Walk(ctx, p.walker, p.cfg.BaseURL+"/teams/?page=%d",
		func(ctx context.Context, url string) ([]byte, error) {
			html, navErr := session.Navigate(ctx, url, extract.TeamListAnchor)
			if navErr != nil {
				return nil, navErr
			}
			metrics.PagesRendered.Inc()
			p.archiveSnapshot(url, html, logger)
			return html, nil
		},
		extract.TeamList,
	)
	if err != nil {
		return fmt.Errorf("team list walk: %w", err)
	}

	if p.cfg.MaxTeams > 0 && len(teams) > p.cfg.MaxTeams {
		logger.Info("capping pass", zap.Int("discovered", len(teams)), zap.Int("cap", p.cfg.MaxTeams))
		teams = teams[:p.cfg.MaxTeams]
	}

	for _, team := range teams {
		if err := p.persist(ctx, "upsert team listing "+team.TeamID, func(ctx context.Context) error {
			return p.stores.Teams.UpsertTeamListing(ctx, team)
		}); err != nil {
			return err
		}
		metrics.EntitiesUpserted.WithLabelValues("team").Inc()

		if err := p.entityGov.Wait(ctx); err != nil {
			return err
		}
		if err := p.crawlTeam(ctx, session, team.TeamID, logger); err != nil {
			if isFatal(err) || ctx.Err() != nil {
				return err
			}
			metrics.EntitiesSkipped.WithLabelValues("team").Inc()
			logger.Warn("team skipped", zap.String("team_id", team.TeamID), zap.Error(err))
		}
	}
	return nil
}

// crawlTeam visits the team's profile and match archive, reconciles the
// detail, roster, and tournaments, then crawls every rostered player.
func (p *Pipeline) crawlTeam(ctx context.Context, session render.Navigator, teamID string, logger *zap.Logger) error {
	logger = logger.With(zap.String("team_id", teamID))

	html, err := p.navigate(ctx, session, fmt.Sprintf("%s/teams/%s", p.cfg.BaseURL, teamID), extract.AboutAnchor, logger)
	if err != nil {
		return fmt.Errorf("team page: %w", err)
	}

	team, err := extract.TeamDetail(html, teamID)
	if err != nil {
		return fmt.Errorf("team detail: %w", err)
	}
	if err := p.persist(ctx, "upsert team detail "+teamID, func(ctx context.Context) error {
		return p.stores.Teams.UpsertTeamDetail(ctx, team)
	}); err != nil {
		return err
	}
	metrics.EntitiesUpserted.WithLabelValues("team_detail").Inc()

	// Roster and about panel share the team page snapshot.
	roster, err := extract.Roster(html, teamID)
	if err != nil {
		metrics.EntitiesSkipped.WithLabelValues("roster").Inc()
		logger.Warn("roster unavailable", zap.Error(err))
	} else {
		if err := p.persist(ctx, "activate roster of "+teamID, func(ctx context.Context) error {
			_, rosterErr := p.stores.Rosters.ActivateRoster(ctx, roster)
			return rosterErr
		}); err != nil {
			return err
		}
		metrics.EntitiesUpserted.WithLabelValues("roster").Inc()
	}

	if err := p.crawlMatches(ctx, session, teamID, logger); err != nil {
		return err
	}

	for _, member := range roster.Players {
		if member.PlayerID == "" {
			continue
		}
		if err := p.entityGov.Wait(ctx); err != nil {
			return err
		}
		if err := p.crawlPlayer(ctx, session, member.PlayerID, logger); err != nil {
			if isFatal(err) || ctx.Err() != nil {
				return err
			}
			metrics.EntitiesSkipped.WithLabelValues("player").Inc()
			logger.Warn("player skipped", zap.String("player_id", member.PlayerID), zap.Error(err))
		}
	}
	return nil
}

// crawlMatches reconciles the team's tournament archive. An unreachable
// or malformed archive page skips the stage; a store failure aborts the
// pass like every other write.
func (p *Pipeline) crawlMatches(ctx context.Context, session render.Navigator, teamID string, logger *zap.Logger) error {
	html, err := p.navigate(ctx, session, fmt.Sprintf("%s/teams/%s/matches", p.cfg.BaseURL, teamID), extract.ArchiveAnchor, logger)
	if err != nil {
		metrics.EntitiesSkipped.WithLabelValues("tournament").Inc()
		logger.Warn("match archive unavailable", zap.Error(err))
		return nil
	}
	tournaments, err := extract.Tournaments(html, teamID)
	if err != nil {
		metrics.EntitiesSkipped.WithLabelValues("tournament").Inc()
		logger.Warn("match archive extraction failed", zap.Error(err))
		return nil
	}
	if err := p.persist(ctx, "upsert tournaments of "+teamID, func(ctx context.Context) error {
		return p.stores.Matches.UpsertTournaments(ctx, teamID, tournaments)
	}); err != nil {
		return err
	}
	metrics.EntitiesUpserted.WithLabelValues("tournament").Add(float64(len(tournaments)))
	return nil
}

// crawlPlayer visits one player page and reconciles the profile, hero
// pool, and aggregate stats found on it.
func (p *Pipeline) crawlPlayer(ctx context.Context, session render.Navigator, playerID string, logger *zap.Logger) error {
	html, err := p.navigate(ctx, session, fmt.Sprintf("%s/players/%s", p.cfg.BaseURL, playerID), extract.AboutAnchor, logger)
	if err != nil {
		return fmt.Errorf("player page: %w", err)
	}

	player, err := extract.Player(html, playerID)
	if err != nil {
		return fmt.Errorf("player profile: %w", err)
	}
	if err := p.persist(ctx, "upsert player "+playerID, func(ctx context.Context) error {
		return p.stores.Players.UpsertPlayer(ctx, player)
	}); err != nil {
		return err
	}
	metrics.EntitiesUpserted.WithLabelValues("player").Inc()

	if heroes, err := extract.Heroes(html, playerID); err != nil {
		metrics.EntitiesSkipped.WithLabelValues("hero").Inc()
		logger.Warn("hero panel unavailable", zap.String("player_id", playerID), zap.Error(err))
	} else if len(heroes) > 0 {
		if err := p.persist(ctx, "replace heroes of "+playerID, func(ctx context.Context) error {
			return p.stores.Players.ReplaceHeroes(ctx, playerID, heroes)
		}); err != nil {
			return err
		}
		metrics.EntitiesUpserted.WithLabelValues("hero").Add(float64(len(heroes)))
	}

	if playerStats, err := extract.PlayerStats(html, playerID); err != nil {
		metrics.EntitiesSkipped.WithLabelValues("player_stats").Inc()
		logger.Warn("stats panel unavailable", zap.String("player_id", playerID), zap.Error(err))
	} else {
		if err := p.persist(ctx, "upsert player stats "+playerID, func(ctx context.Context) error {
			return p.stores.Players.UpsertPlayerStats(ctx, playerStats)
		}); err != nil {
			return err
		}
		metrics.EntitiesUpserted.WithLabelValues("player_stats").Inc()
	}
	return nil
}

// navigate paces, renders, and archives one entity page, retrying under
// the navigation backoff policy.
func (p *Pipeline) navigate(ctx context.Context, session render.Navigator, url, anchor string, logger *zap.Logger) ([]byte, error) {
	if err := p.pageGov.Wait(ctx); err != nil {
		return nil, err
	}
	html, err := backoff.Get(ctx, p.navExec, "navigate "+url, p.navTries, func(ctx context.Context) ([]byte, error) {
		return session.Navigate(ctx, url, anchor)
	})
	if err != nil {
		metrics.RenderFailures.Inc()
		return nil, err
	}
	metrics.PagesRendered.Inc()
	p.archiveSnapshot(url, html, logger)
	return html, nil
}

func (p *Pipeline) archiveSnapshot(url string, html []byte, logger *zap.Logger) {
	if p.archive == nil {
		return
	}
	if _, err := p.archive.Save(url, html); err != nil {
		logger.Warn("snapshot archive failed", zap.String("url", url), zap.Error(err))
	}
}

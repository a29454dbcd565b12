package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/abhisek/trapz/internal/llm"
	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/statsapi"
	"github.com/abhisek/trapz/internal/store"
	"github.com/abhisek/trapz/internal/trapgen"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// env is the set of collaborators shared by the commands.
type env struct {
	store       *store.Store
	redis       *redis.Client
	kv          store.KV
	events      store.EventRepo
	progression *progression.Service
	api         statsapi.API
	client      statsapi.API
	apiConfig   statsapi.Config
	logger      *log.Logger
}

// openEnv opens the SQLite store and, when --redis or TRAPZ_REDIS_URL is
// set, keeps progression state in Redis instead. logOut receives warnings.
func openEnv(cmd *cobra.Command, logOut io.Writer) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := log.New(logOut, "", log.LstdFlags)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{store: st, kv: st.KV(), events: st.EventRepo(), logger: logger}

	redisURL, _ := cmd.Flags().GetString("redis")
	if redisURL == "" {
		redisURL = os.Getenv("TRAPZ_REDIS_URL")
	}
	if redisURL != "" {
		client, err := store.OpenRedis(ctx, redisURL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		e.redis = client
		e.kv = store.NewRedisKV(client, store.DefaultRedisPrefix)
	}

	e.progression = progression.NewService(ctx, e.kv,
		progression.WithEventRepo(e.events),
		progression.WithLogger(logger))

	e.apiConfig = statsapi.ConfigFromEnv()
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		e.apiConfig.BaseURL = u
	}
	if off, _ := cmd.Flags().GetBool("offline"); off {
		e.apiConfig.Offline = true
	}
	if e.apiConfig.Offline {
		e.api = statsapi.WithFallback(nil, logger)
	} else {
		e.client = statsapi.NewClient(e.apiConfig, nil)
		e.api = statsapi.WithFallback(e.client, logger)
	}
	return e, nil
}

// Close releases the store and Redis connection.
func (e *env) Close() error {
	if e.redis != nil {
		e.redis.Close()
	}
	return e.store.Close()
}

// submitter returns an answer sink posting to the stats service, or nil
// when offline.
func (e *env) submitter(ctx context.Context) *statsapi.Submitter {
	if e.apiConfig.Offline {
		return nil
	}
	userID, err := statsapi.UserID(ctx, e.kv)
	if err != nil {
		e.logger.Printf("user id: %v", err)
		return nil
	}
	return statsapi.NewSubmitter(e.api, userID, e.apiConfig.Timeout, e.logger)
}

// provider builds the LLM provider from TRAPZ_* variables or, failing
// that, the standard *_API_KEY variables. It returns nil when none is set.
func (e *env) provider(ctx context.Context) llm.Provider {
	cfg := llm.ConfigFromEnv()
	if !cfg.Configured() {
		d, ok := llm.DiscoverConfig()
		if !ok {
			return nil
		}
		cfg = d
	}
	p, err := llm.NewProvider(ctx, cfg, e.events, e.logger)
	if err != nil {
		e.logger.Printf("LLM provider not configured: %v", err)
		return nil
	}
	return p
}

// generator builds the question source named by source: "local" uses the
// concept templates, "llm" and "remote" fall back to the templates on
// failure. "bank" and "" return nil.
func (e *env) generator(ctx context.Context, source string) (trapgen.Generator, error) {
	local := trapgen.NewTemplateGenerator(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	switch source {
	case "", "bank":
		return nil, nil
	case "local":
		return local, nil
	case "llm":
		p := e.provider(ctx)
		if p == nil {
			return nil, fmt.Errorf("no LLM provider configured; set TRAPZ_LLM_PROVIDER or an *_API_KEY variable")
		}
		return trapgen.NewChain(e.logger, trapgen.NewLLMGenerator(p, trapgen.DefaultLLMConfig()), local), nil
	case "remote":
		if e.client == nil {
			return local, nil
		}
		return trapgen.NewChain(e.logger, trapgen.NewRemoteGenerator(e.client), local), nil
	default:
		return nil, fmt.Errorf("unknown question source %q: want bank, local, llm or remote", source)
	}
}

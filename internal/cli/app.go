package cli

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vikas872/nyay-sathi-clean/internal/agent"
	"github.com/vikas872/nyay-sathi-clean/internal/answer"
	"github.com/vikas872/nyay-sathi-clean/internal/evidence"
	"github.com/vikas872/nyay-sathi-clean/internal/index"
	"github.com/vikas872/nyay-sathi-clean/internal/llm"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
	"github.com/vikas872/nyay-sathi-clean/internal/websearch"
)

// loadConfig resolves the effective configuration: defaults, then the
// config file, then environment overrides for secrets and the port.
func loadConfig() model.Config {
	cfg := model.DefaultConfig()

	if file := viper.ConfigFileUsed(); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("config file unreadable, using defaults: %v", err)
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Printf("config file invalid, using defaults: %v", err)
		}
	}

	for _, env := range []string{"NYAY_LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			cfg.LLM.APIKey = key
			break
		}
	}
	if keys := os.Getenv("NYAY_SERVER_API_KEYS"); keys != "" {
		cfg.Server.APIKeys = strings.Split(keys, ",")
	}
	// Hosting platforms inject the listen port
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	return cfg
}

// buildStack assembles the full query path from configuration. A
// missing model or index degrades the matching tool instead of
// failing startup: the service must come up and answer with reduced
// confidence.
func buildStack(cfg model.Config) (*agent.Orchestrator, *index.Service, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, nil, fmt.Errorf("configure model provider: %w", err)
	}

	indexSvc := index.NewService(cfg.Index)
	if err := indexSvc.Load(); err != nil {
		log.Printf("vector index not loaded, local search degraded: %v", err)
	} else {
		log.Printf("vector index ready: %d chunks", indexSvc.Count())
	}

	var local agent.Searcher
	if provider != nil {
		local = index.NewRetriever(provider, indexSvc, cfg.Index.TopK)
	} else {
		log.Printf("no model provider configured, local search disabled")
	}

	var web agent.Searcher
	if cfg.Web.Enabled {
		web = websearch.NewDuckDuckGo(cfg.Web, cfg.Cache)
	}

	rule := agent.NewRulePolicy(cfg.Agent, cfg.Web)
	var policy agent.Policy = rule
	if cfg.LLM.PlanWithLLM && provider != nil {
		policy = agent.NewLLMPolicy(provider, rule)
	}

	orch := agent.New(
		local, web, policy,
		evidence.NewAggregator(cfg.Evidence),
		evidence.NewScorer(cfg.Confidence),
		answer.NewSynthesizer(provider, cfg.Synthesis),
		cfg.Agent,
	)
	return orch, indexSvc, nil
}

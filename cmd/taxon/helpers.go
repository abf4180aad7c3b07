package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plumline/taxon/internal/candidate"
	"github.com/plumline/taxon/internal/common"
	"github.com/plumline/taxon/internal/confidence"
	"github.com/plumline/taxon/internal/embedding"
	"github.com/plumline/taxon/internal/engine"
	"github.com/plumline/taxon/internal/index"
	"github.com/plumline/taxon/internal/llm"
	"github.com/plumline/taxon/internal/model"
	"github.com/spf13/viper"
)

// expandPath expands ~ and environment variables in a file path.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// openStore opens the category index configured under index.path.
func openStore() (*index.Store, error) {
	path := viper.GetString("index.path")
	if path == "" {
		path = "$HOME/.local/share/taxon/index.db"
	}
	return index.NewStore(expandPath(path))
}

// newEmbedder builds the embedding client from configuration.
func newEmbedder() (embedding.Client, error) {
	return embedding.NewOpenAIClient(embedding.Config{
		APIKey: viper.GetString("openai.api_key"),
		Model:  viper.GetString("openai.embedding_model"),
	})
}

// newDecisionClient builds the decision-service client from configuration.
func newDecisionClient() (llm.Client, error) {
	return llm.NewAnthropicClient(llm.Config{
		APIKey:    viper.GetString("anthropic.api_key"),
		Model:     viper.GetString("anthropic.model"),
		MaxTokens: viper.GetInt("anthropic.max_tokens"),
		RateLimit: viper.GetInt("anthropic.rate_limit"),
	})
}

// engineConfig assembles the engine configuration from viper, falling
// back to defaults for unset keys.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if v := viper.GetFloat64("classification.review_threshold"); v > 0 {
		cfg.ReviewThreshold = v
	}
	if v := viper.GetInt("classification.max_candidates"); v > 0 {
		cfg.MaxCandidates = v
	}
	if v := viper.GetFloat64("classification.similarity_threshold"); v > 0 {
		cfg.SimilarityThreshold = v
	}
	if viper.IsSet("classification.extract_attributes") {
		cfg.ExtractAttributes = viper.GetBool("classification.extract_attributes")
	}
	cfg.RootPrefix = viper.GetString("classification.root_prefix")

	if viper.IsSet("classification.weights.decision") {
		cfg.Weights = confidence.Weights{
			Decision:   viper.GetFloat64("classification.weights.decision"),
			Similarity: viper.GetFloat64("classification.weights.similarity"),
			Bundle:     viper.GetFloat64("classification.weights.bundle"),
		}
	}
	return cfg
}

// buildEngine wires the full pipeline. The returned cleanup closes the
// store and the decision client.
func buildEngine(offline bool) (*engine.Engine, func(), error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, common.NewUserError("cannot open the category index (run 'taxon index' first or set index.path)", err)
	}

	embedder, err := newEmbedder()
	if err != nil {
		_ = store.Close()
		return nil, nil, common.NewUserError("embedding client not configured (set openai.api_key)", err)
	}

	var decisions llm.Client
	var closeDecisions func()
	if !offline {
		client, clientErr := newDecisionClient()
		if clientErr != nil {
			_ = store.Close()
			return nil, nil, common.NewUserError("decision client not configured (set anthropic.api_key)", clientErr)
		}
		decisions = client
		if closer, ok := client.(interface{ Close() error }); ok {
			closeDecisions = func() { _ = closer.Close() }
		}
	}

	generator := candidate.NewGenerator(embedder, store, store)
	eng := engine.New(generator, store, decisions, engineConfig())

	cleanup := func() {
		if closeDecisions != nil {
			closeDecisions()
		}
		_ = store.Close()
	}
	return eng, cleanup, nil
}

// readInputs decodes a product JSON file holding either a single object
// or an array of objects.
func readInputs(path string) ([]model.ClassificationInput, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot read input file %q", path), err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var inputs []model.ClassificationInput
		if err := json.Unmarshal(data, &inputs); err != nil {
			return nil, common.NewUserError(fmt.Sprintf("input file %q is not valid product JSON", path), err)
		}
		return inputs, nil
	}

	var input model.ClassificationInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, common.NewUserError(fmt.Sprintf("input file %q is not valid product JSON", path), err)
	}
	return []model.ClassificationInput{input}, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadRequiresUMLSAPIKey(t *testing.T) {
	clearEnv(t, "UMLS_API_KEY", "NEO4J_URI")
	os.Setenv("NEO4J_URI", "bolt://localhost:7687")
	if _, err := Load(""); err == nil {
		t.Fatalf("want error when UMLS_API_KEY is unset")
	}
}

func TestLoadRequiresNeo4jURI(t *testing.T) {
	clearEnv(t, "UMLS_API_KEY", "NEO4J_URI")
	os.Setenv("UMLS_API_KEY", "key123")
	if _, err := Load(""); err == nil {
		t.Fatalf("want error when NEO4J_URI is unset")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t, "UMLS_API_KEY", "NEO4J_URI", "NEO4J_USER", "APOC_BATCH_SIZE", "SUPPRESSION_HANDLING")
	os.Setenv("UMLS_API_KEY", "key123")
	os.Setenv("NEO4J_URI", "bolt://localhost:7687")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Neo4jUser != "neo4j" {
		t.Fatalf("want default Neo4jUser=neo4j, got %q", cfg.Neo4jUser)
	}
	if cfg.APOCBatchSize != 1000 {
		t.Fatalf("want default APOCBatchSize=1000, got %d", cfg.APOCBatchSize)
	}
	if cfg.SuppressionHandling != "default" {
		t.Fatalf("want default SuppressionHandling=default, got %q", cfg.SuppressionHandling)
	}
}

func TestLoadRejectsUnknownSuppressionHandling(t *testing.T) {
	clearEnv(t, "UMLS_API_KEY", "NEO4J_URI", "SUPPRESSION_HANDLING")
	os.Setenv("UMLS_API_KEY", "key123")
	os.Setenv("NEO4J_URI", "bolt://localhost:7687")
	os.Setenv("SUPPRESSION_HANDLING", "bogus")

	if _, err := Load(""); err == nil {
		t.Fatalf("want error for unrecognized SUPPRESSION_HANDLING")
	}
}

func TestSuppressionSetModes(t *testing.T) {
	cases := []struct {
		mode string
		want int
	}{
		{"default", 2},
		{"none", 0},
		{"strict", 3},
		{"unknown", 2},
	}
	for _, c := range cases {
		cfg := Config{SuppressionHandling: c.mode}
		if got := len(cfg.SuppressionSet()); got != c.want {
			t.Fatalf("mode=%s: want %d suppress codes, got %d", c.mode, c.want, got)
		}
	}
}

func TestLoadDotenvDoesNotOverrideExistingEnv(t *testing.T) {
	clearEnv(t, "UMLS_API_KEY", "NEO4J_URI", "NEO4J_USER")
	os.Setenv("UMLS_API_KEY", "from-env")
	os.Setenv("NEO4J_URI", "bolt://localhost:7687")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("UMLS_API_KEY=from-dotenv\nNEO4J_USER=\"dotenv-user\"\n# a comment\n\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UMLSAPIKey != "from-env" {
		t.Fatalf("want env var to win over .env entry, got %q", cfg.UMLSAPIKey)
	}
	if cfg.Neo4jUser != "dotenv-user" {
		t.Fatalf("want .env entry applied for unset var, got %q", cfg.Neo4jUser)
	}
}

func TestLoadDotenvMissingFileIsNotAnError(t *testing.T) {
	clearEnv(t, "UMLS_API_KEY", "NEO4J_URI")
	os.Setenv("UMLS_API_KEY", "key123")
	os.Setenv("NEO4J_URI", "bolt://localhost:7687")

	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

// Package config loads the typed configuration record this program reads
// at startup: Neo4j connection details, UMLS source-vocabulary filtering,
// and the handful of tuning knobs (batch size, parallelism) that control
// how hard a sync leans on the graph database.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/envutil"
)

// Config is the full set of options a sync run needs. Every field has a
// documented default; an empty value for a field with no sane default
// (UMLS_API_KEY, NEO4J_URI) is a configuration error the CLI surfaces
// immediately rather than failing deep inside a parse or graph call.
type Config struct {
	UMLSAPIKey string

	Neo4jURI       string
	Neo4jUser      string
	Neo4jPassword  string
	Neo4jDatabase  string
	Neo4jImportDir string

	// SABFilter restricts ingestion to these source vocabularies. Empty
	// means "all" (no filtering).
	SABFilter []string

	// SABPriority ranks source vocabularies for the Preferred-Name Rule;
	// earlier entries win ties. A SAB absent from this list sorts last.
	SABPriority []string

	// SuppressionHandling selects which MRCONSO.SUPPRESS values are
	// dropped during parsing: "default" drops {O,Y}, "none" keeps
	// everything, "strict" additionally drops {E}.
	SuppressionHandling string

	MaxParallelProcesses int
	APOCBatchSize        int
}

// suppressionSets mirrors SuppressionHandling's three recognized modes.
var suppressionSets = map[string][]string{
	"default": {"O", "Y"},
	"none":    {},
	"strict":  {"O", "Y", "E"},
}

// SuppressionSet resolves SuppressionHandling to the set of MRCONSO.SUPPRESS
// values to drop, falling back to the "default" set for an unrecognized
// mode.
func (c Config) SuppressionSet() []string {
	if set, ok := suppressionSets[c.SuppressionHandling]; ok {
		return set
	}
	return suppressionSets["default"]
}

// Load reads the configuration from the process environment, first
// applying any KEY=VALUE pairs found in an optional .env file at envPath
// (a no-op if the file doesn't exist — this is a convenience for local
// runs, not a templated config system). Environment variables already set
// take precedence over .env file entries.
func Load(envPath string) (Config, error) {
	if envPath != "" {
		if err := loadDotenv(envPath); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", envPath, err)
		}
	}

	cfg := Config{
		UMLSAPIKey: envutil.String("UMLS_API_KEY", ""),

		Neo4jURI:       envutil.String("NEO4J_URI", ""),
		Neo4jUser:      envutil.String("NEO4J_USER", "neo4j"),
		Neo4jPassword:  envutil.String("NEO4J_PASSWORD", ""),
		Neo4jDatabase:  envutil.String("NEO4J_DATABASE", "neo4j"),
		Neo4jImportDir: envutil.String("NEO4J_IMPORT_DIR", "/var/lib/neo4j/import"),

		SABFilter:   envutil.StringSlice("SAB_FILTER"),
		SABPriority: envutil.StringSlice("SAB_PRIORITY"),

		SuppressionHandling: envutil.String("SUPPRESSION_HANDLING", "default"),

		MaxParallelProcesses: envutil.Int("MAX_PARALLEL_PROCESSES", 0),
		APOCBatchSize:        envutil.Int("APOC_BATCH_SIZE", 1000),
	}

	if cfg.UMLSAPIKey == "" {
		return Config{}, fmt.Errorf("config: UMLS_API_KEY is required")
	}
	if cfg.Neo4jURI == "" {
		return Config{}, fmt.Errorf("config: NEO4J_URI is required")
	}
	if _, ok := suppressionSets[cfg.SuppressionHandling]; !ok {
		return Config{}, fmt.Errorf("config: SUPPRESSION_HANDLING %q must be one of default, none, strict", cfg.SuppressionHandling)
	}

	return cfg, nil
}

// loadDotenv applies KEY=VALUE lines from path to the process environment,
// skipping blank lines and lines starting with '#', and never overwriting
// a variable already set in the environment. No variable expansion, no
// quoting rules beyond a single optional pair of surrounding quotes.
func loadDotenv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"' || value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
		if _, present := os.LookupEnv(key); present {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// yailc - App Inventor component blocks to YAIL
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/yailc/pkg/apispec"
	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/bindgen"
	"github.com/chazu/yailc/pkg/codegen"
	"github.com/chazu/yailc/pkg/config"
	"github.com/chazu/yailc/pkg/logger"
	"github.com/chazu/yailc/pkg/schema"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

var (
	configPath = flag.String("config", "", "YAML config file")
	dbPath     = flag.String("db", "", "sqlite descriptor database")
	save       = flag.Bool("save", false, "store loaded descriptors in the database")
	strict     = flag.Bool("strict", true, "fail on empty sockets and skipped blocks")
	mode       = flag.String("mode", "yail", "output mode: yail or bindings (Go source registering the loaded types)")
	pkg        = flag.String("pkg", "components", "package name for -mode bindings")
	dryRun     = flag.Bool("dry-run", false, "show what would be generated without outputting")
	version    = flag.Bool("version", false, "print version and exit")

	registryFiles stringList
	openAPIFiles  stringList
)

const versionStr = "0.1.0"

func main() {
	flag.Var(&registryFiles, "registry", "component descriptor file, JSON or YAML (repeatable)")
	flag.Var(&openAPIFiles, "openapi", "OpenAPI document imported as an API component (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "yailc - App Inventor component blocks to YAIL\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  yailc [options] < workspace.json > Screen1.yail\n")
		fmt.Fprintf(os.Stderr, "  yailc -mode bindings -registry components.json > components.go\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("yailc version %s\n", versionStr)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	base, err := logger.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer base.Sync()
	log := base.With(logger.String("run", uuid.NewString()))

	reg, err := buildRegistry(cfg, log)
	if err != nil {
		log.Error("loading registry failed", logger.Err(err))
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		os.Exit(1)
	}

	var code string
	switch *mode {
	case "yail":
		code, err = emitWorkspace(cfg, reg, log)
	case "bindings":
		code, err = bindgen.Generate(*pkg, reg.Types())
	default:
		err = errors.Errorf("unknown mode %q (use 'yail' or 'bindings')", *mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Fprintf(os.Stderr, "Dry run - would generate %d bytes\n", len(code))
		os.Exit(0)
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, []byte(code), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		log.Info("output written", logger.String("path", cfg.Output), logger.Int("bytes", len(code)))
		return
	}
	fmt.Print(code)
}

// loadConfig reads the config file and applies the flags given explicitly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			cfg.Strict = *strict
		case "db":
			cfg.Registry.Database = *dbPath
		}
	})
	cfg.Registry.Descriptors = append(cfg.Registry.Descriptors, registryFiles...)
	for _, p := range openAPIFiles {
		cfg.Registry.OpenAPI = append(cfg.Registry.OpenAPI, config.OpenAPISource{Path: p})
	}
	return cfg, cfg.Validate()
}

// buildRegistry loads descriptor files and OpenAPI documents, then fills in
// any types only the database knows about.
func buildRegistry(cfg *config.Config, log logger.Log) (*schema.MemoryRegistry, error) {
	reg := schema.NewMemoryRegistry()

	for _, path := range cfg.Registry.Descriptors {
		types, err := schema.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterAll(types); err != nil {
			return nil, errors.Wrap(err, path)
		}
		log.Debug("descriptors loaded", logger.String("path", path), logger.Int("types", len(types)))
	}

	for _, src := range cfg.Registry.OpenAPI {
		ct, err := importOpenAPI(src)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(*ct); err != nil {
			return nil, errors.Wrap(err, src.Path)
		}
		log.Debug("openapi imported",
			logger.String("path", src.Path),
			logger.String("type", ct.Name),
			logger.Int("methods", len(ct.Methods)))
	}

	if cfg.Registry.Database == "" {
		if *save {
			return nil, errors.New("-save needs a database (-db or registry.database)")
		}
		return reg, nil
	}

	store, err := schema.OpenStore(&schema.StoreConfig{DBPath: cfg.Registry.Database})
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if *save {
		for _, ct := range reg.Types() {
			if err := store.Put(*ct); err != nil {
				return nil, err
			}
		}
		log.Info("descriptors saved", logger.String("db", cfg.Registry.Database), logger.Int("types", reg.Len()))
	}

	stored := schema.NewMemoryRegistry()
	if err := store.LoadInto(stored); err != nil {
		return nil, err
	}
	added, err := reg.Merge(stored)
	if err != nil {
		return nil, err
	}
	log.Debug("database loaded", logger.String("db", cfg.Registry.Database), logger.Int("added", added))
	return reg, nil
}

func importOpenAPI(src config.OpenAPISource) (*schema.ComponentType, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open OpenAPI document")
	}
	defer f.Close()
	ct, err := apispec.Import(f, apispec.ImportOptions{Name: src.Name, ServerURL: src.ServerURL})
	return ct, errors.Wrap(err, src.Path)
}

func emitWorkspace(cfg *config.Config, reg schema.Registry, log logger.Log) (string, error) {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "reading input")
	}
	if len(input) == 0 {
		return "", errors.New("no input provided\nUsage: yailc < workspace.json")
	}

	ws, err := ast.ParseBytes(input)
	if err != nil {
		return "", err
	}

	e := codegen.New(reg, codegen.WithLogger(log), codegen.WithStrict(cfg.Strict))
	result, err := codegen.Generate(context.Background(), e, ws, cfg.Concurrency)
	if err != nil {
		return "", err
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "yailc: workspace\n")
		for _, f := range result.Forms {
			fmt.Fprintf(os.Stderr, "  ✓ %s - emitted\n", f.BlockID)
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(os.Stderr, "  ⚠ %s - skipped: %s\n", s.BlockID, s.Reason)
		}
		fmt.Fprintf(os.Stderr, "\nEmitted %d/%d handlers.\n\n",
			len(result.Forms), len(result.Forms)+len(result.Skipped))

		if cfg.Strict {
			return "", errors.New("strict mode enabled, refusing to generate with skipped blocks")
		}
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return result.Code, nil
}

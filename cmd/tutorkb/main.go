// Command tutorkb is the Rust tutoring knowledge base.
//
// Usage:
//
//	tutorkb -config tutorkb.yaml                 # run with config file
//	tutorkb -db kb.db -knowledge ./knowledge -load   # load knowledge and exit
//	tutorkb -db kb.db -search "ownership"        # combined search and exit
//	tutorkb -db kb.db -stats                     # show stats and exit
//	tutorkb -db kb.db -addr :8080                # serve the HTTP API
//	tutorkb -db kb.db -mcp                       # serve MCP tools on stdio
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/tutorkb"
	"github.com/hazyhaar/tutorkb/internal/store"
)

var mcpImpl = &mcp.Implementation{Name: "tutorkb", Version: "0.1.0"}

func main() {
	configPath := flag.String("config", "", "path to tutorkb.yaml config file")
	dbPath := flag.String("db", "", "path to SQLite database")
	knowledgeDir := flag.String("knowledge", "", "path to knowledge JSON directory")
	doLoad := flag.Bool("load", false, "load knowledge files and exit")
	searchQuery := flag.String("search", "", "combined search query (exit after results)")
	showStats := flag.Bool("stats", false, "show stats and exit")
	addr := flag.String("addr", "", "HTTP listen address (e.g. :8080)")
	mcpStdio := flag.Bool("mcp", false, "serve MCP tools on stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := runOptions{
		configPath:   *configPath,
		dbPath:       *dbPath,
		knowledgeDir: *knowledgeDir,
		doLoad:       *doLoad,
		searchQuery:  *searchQuery,
		showStats:    *showStats,
		addr:         *addr,
		mcpStdio:     *mcpStdio,
	}
	if err := run(ctx, logger, opts); err != nil {
		logger.Error("tutorkb: fatal", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath   string
	dbPath       string
	knowledgeDir string
	doLoad       bool
	searchQuery  string
	showStats    bool
	addr         string
	mcpStdio     bool
}

func run(ctx context.Context, logger *slog.Logger, opts runOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	kb, err := tutorkb.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer kb.Close()

	// One-shot: load knowledge files.
	if opts.doLoad {
		stats, err := kb.Load(ctx)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		fmt.Println(stats)
		return nil
	}

	// One-shot: combined search.
	if opts.searchQuery != "" {
		res, err := kb.SearchAll(ctx, opts.searchQuery)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		fmt.Print(res.Format())
		return nil
	}

	// One-shot: stats.
	if opts.showStats {
		stats, err := kb.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	// MCP stdio mode.
	if opts.mcpStdio {
		srv := mcp.NewServer(mcpImpl, nil)
		kb.RegisterMCP(srv)
		logger.Info("tutorkb: MCP server ready", "transport", "stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	// HTTP API mode.
	if opts.addr == "" {
		fmt.Fprintln(os.Stderr, "usage: tutorkb -config <file> | -db <path> [-load] [-search <query>] [-stats] [-addr <addr>] [-mcp]")
		os.Exit(1)
	}

	srv := &http.Server{Addr: opts.addr, Handler: router(kb)}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Info("tutorkb: serving HTTP", "addr", opts.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	logger.Info("tutorkb: shutting down")
	return nil
}

func resolveConfig(opts runOptions) (*tutorkb.Config, error) {
	if opts.configPath != "" {
		return tutorkb.LoadConfigFile(opts.configPath)
	}

	cfg := &tutorkb.Config{}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.knowledgeDir != "" {
		cfg.KnowledgeDir = opts.knowledgeDir
	}
	if cfg.DBPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tutorkb -config <file> | -db <path> [-load] [-search <query>] [-stats] [-addr <addr>] [-mcp]")
		os.Exit(1)
	}
	return cfg, nil
}

func router(kb *tutorkb.KB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Get("/api/search", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			writeError(w, 400, fmt.Errorf("missing q parameter"))
			return
		}
		res, err := kb.SearchAll(req.Context(), q)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, 200, map[string]any{
			"results":    res,
			"confidence": res.Confidence(),
		})
	})

	r.Get("/api/concepts/{id}", func(w http.ResponseWriter, req *http.Request) {
		c, err := kb.GetConcept(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, 500, err)
			return
		}
		if c == nil {
			writeError(w, 404, fmt.Errorf("concept not found"))
			return
		}
		writeJSON(w, 200, c)
	})

	r.Get("/api/topics/{topic}", func(w http.ResponseWriter, req *http.Request) {
		list, err := kb.ConceptsByTopic(req.Context(), chi.URLParam(req, "topic"))
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, list)
	})

	r.Get("/api/patterns", func(w http.ResponseWriter, req *http.Request) {
		useCase := req.URL.Query().Get("use_case")
		if useCase == "" {
			writeError(w, 400, fmt.Errorf("missing use_case parameter"))
			return
		}
		list, err := kb.FindPatterns(req.Context(), useCase, queryInt(req, "limit", 0))
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, 200, list)
	})

	r.Get("/api/errors/{code}", func(w http.ResponseWriter, req *http.Request) {
		e, err := kb.ExplainError(req.Context(), chi.URLParam(req, "code"))
		if err != nil {
			writeError(w, 500, err)
			return
		}
		if e == nil {
			writeError(w, 404, fmt.Errorf("unknown error code"))
			return
		}
		writeJSON(w, 200, e)
	})

	r.Get("/api/commands", func(w http.ResponseWriter, req *http.Request) {
		tool := req.URL.Query().Get("tool")
		if tool == "" {
			writeError(w, 400, fmt.Errorf("missing tool parameter"))
			return
		}
		keyword := req.URL.Query().Get("keyword")
		var (
			list []store.Command
			err  error
		)
		if keyword == "" {
			list, err = kb.ToolCommands(req.Context(), tool)
		} else {
			list, err = kb.SearchCommands(req.Context(), tool, keyword)
		}
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, list)
	})

	r.Get("/api/stats", func(w http.ResponseWriter, req *http.Request) {
		st, err := kb.Stats(req.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, st)
	})

	r.Get("/api/searchlog", func(w http.ResponseWriter, req *http.Request) {
		list, err := kb.RecentSearches(req.Context(), queryInt(req, "limit", 20))
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, list)
	})

	return r
}

func statusFor(err error) int {
	if errors.Is(err, tutorkb.ErrInvalidInput) {
		return 400
	}
	return 500
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

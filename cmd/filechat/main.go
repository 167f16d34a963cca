package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"filechat/internal/chunker"
	"filechat/internal/composer"
	"filechat/internal/config"
	"filechat/internal/extractor"
	"filechat/internal/loader"
	"filechat/internal/logging"
	"filechat/internal/retriever"
	"filechat/internal/service"
	"filechat/internal/summarizer"
	"filechat/internal/tui"
	"filechat/internal/watcher"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, watchDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/filechat/config.yaml if not provided)")
	flag.StringVar(&watchDir, "watch", "", "Directory to index and re-index whenever its files change")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: filechat [--config=config.yaml] [--watch=dir] [file ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		log.Fatalf("invalid environment: %v", err)
	}
	if watchDir != "" {
		cfg.Watch.Dir = watchDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer closer.Close()

	// Assemble components
	ex := extractor.New(
		extractor.ResolvePDF(cfg.Extractor.PDF),
		extractor.ResolveDOCX(cfg.Extractor.DOCX),
		logger,
	)
	extensions := cfg.Watch.Extensions
	if len(extensions) == 0 {
		extensions = watcher.DefaultExtensions
	}
	svc := service.NewRAGService(
		ex,
		chunker.NewParagraphChunker(cfg.Chunker.MaxChars),
		retriever.NewKeywordRetriever(),
		composer.New(cfg.Composer.SnippetMaxChars, cfg.Composer.Marker),
		summarizer.NewFrequencySummarizer(),
		service.Settings{
			TopK:                cfg.Retriever.TopK,
			SummaryMaxSentences: cfg.Summarizer.MaxSentences,
			Extensions:          extensions,
		},
		logger,
	)
	st := service.NewSessionState()
	logger.Info("session started", "session", st.ID, "pdf", ex.Capabilities().PDF, "docx", ex.Capabilities().DOCX)

	inputs := flag.Args()
	if cfg.Watch.Dir != "" {
		inputs = append(inputs, cfg.Watch.Dir)
	}
	if len(inputs) > 0 {
		_, err := svc.UploadPaths(st, inputs)
		// An empty watched directory is fine; files may arrive later.
		if err != nil && !(errors.Is(err, loader.ErrNoFiles) && cfg.Watch.Dir != "") {
			log.Fatalf("upload failed: %v", err)
		}
	}

	p := tea.NewProgram(tui.New(svc, st, cfg.Composer.Marker), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Watch.Dir != "" {
		w, err := watcher.New(extensions, logger)
		if err != nil {
			log.Fatalf("failed to start watcher: %v", err)
		}
		defer w.Stop()
		events, err := w.Watch(ctx, cfg.Watch.Dir)
		if err != nil {
			log.Fatalf("failed to watch %s: %v", cfg.Watch.Dir, err)
		}
		go reloadOnChange(watcher.Coalesce(events, watcher.DefaultQuietPeriod), p, svc, st, cfg.Watch.Dir, logger)
	}

	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// reloadOnChange uploads the whole watched directory as a new batch after
// every burst of changes and tells the UI about it.
func reloadOnChange(bursts <-chan []watcher.Event, p *tea.Program, svc *service.RAGServiceImpl, st *service.SessionState, dir string, logger *slog.Logger) {
	for burst := range bursts {
		for _, ev := range burst {
			logger.Info("watched file changed", "path", ev.Path, "op", ev.Operation.String())
		}
		previews, err := svc.UploadPaths(st, []string{dir})
		if errors.Is(err, loader.ErrNoFiles) {
			previews, err = svc.Upload(st, nil), nil
		}
		p.Send(tui.CorpusReloadedMsg{Previews: previews, Err: err})
	}
}

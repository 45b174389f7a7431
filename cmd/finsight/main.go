// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	finsight "github.com/poiesic/finsight"
	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/core"
)

func main() {
	app := &cli.App{
		Name:  "finsight",
		Usage: "Financial knowledge pipeline: ingest reports and news, ask questions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest one or more PDFs or news URLs for a company",
				ArgsUsage: "CONTENT [CONTENT...]",
				Action:    ingestCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:     "entity",
						Aliases:  []string{"e"},
						Usage:    "Company name the content belongs to",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Content type: pdf or news",
						Value:   "pdf",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent ingestions when multiple contents are given",
						Value: max(1, runtime.NumCPU()/2),
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about a company",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:     "entity",
						Aliases:  []string{"e"},
						Usage:    "Company name to ask about",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "sources",
						Usage: "Print retrieved source previews with the answer",
					},
				),
			},
			{
				Name:   "info",
				Usage:  "Show the indexed collection for a company",
				Action: infoCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:     "entity",
						Aliases:  []string{"e"},
						Usage:    "Company name",
						Required: true,
					},
				),
			},
			{
				Name:   "drop",
				Usage:  "Delete everything indexed for a company",
				Action: dropCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:     "entity",
						Aliases:  []string{"e"},
						Usage:    "Company name",
						Required: true,
					},
				),
			},
			{
				Name:   "history",
				Usage:  "Show recent pipeline activity",
				Action: historyCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:  "kind",
						Usage: "History kind: ingests or queries",
						Value: "ingests",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to show",
						Value: 20,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// systemFlags are the connection flags shared by every command.
func systemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the local history database directory",
			Value:   "finsight.db",
		},
		&cli.StringFlag{
			Name:  "qdrant-host",
			Usage: "Qdrant host",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "qdrant-port",
			Usage: "Qdrant REST port",
			Value: 6333,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
		&cli.StringFlag{
			Name:  "generator-host",
			Usage: "Ollama host for answer generation",
			Value: "http://localhost:11434",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Generation model name; empty disables generation",
			Value: "phi3",
		},
	}
}

// buildSystem wires a System from the command's connection flags.
func buildSystem(c *cli.Context) (*finsight.System, error) {
	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorHost(c.String("generator-host")),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	return finsight.NewSystem(c.String("db"),
		finsight.WithAIConfig(config),
		finsight.WithQdrant(c.String("qdrant-host"), c.Int("qdrant-port")),
	)
}

func ingestCommand(c *cli.Context) error {
	contents := c.Args().Slice()
	if len(contents) == 0 {
		return fmt.Errorf("at least one content argument is required")
	}

	contentType := c.String("type")
	entity := c.String("entity")

	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer system.Close()

	pool, err := ants.NewPool(c.Int("workers"))
	if err != nil {
		return err
	}
	defer pool.Release()

	ctx := context.Background()
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, content := range contents {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			result, err := system.Ingest(ctx, content, contentType, entity)
			if err != nil {
				slog.Error("ingestion failed", "content", content, "error", err)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			fmt.Printf("%s: %d chunks, %d tables -> %s\n",
				content, result.ChunksWritten, result.TablesExtracted, result.CollectionID)
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	if failures > 0 {
		return fmt.Errorf("%d of %d ingestions failed", failures, len(contents))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question argument is required")
	}

	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer system.Close()

	result, err := system.Ask(context.Background(), question, c.String("entity"))
	if err != nil {
		return err
	}

	fmt.Printf("[%s] %s\n\n%s\n", result.Outcome, result.Entity, result.Answer)

	if c.Bool("sources") && len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, source := range result.Sources {
			fmt.Printf("%2d. (%s) %s\n", i+1, source.Kind, sourceLine(source))
		}
	}
	return nil
}

// sourceLine renders the one-line description of a retrieved source.
func sourceLine(source core.SourceSummary) string {
	switch source.Kind {
	case core.SourceNews:
		if source.Title != "" {
			return fmt.Sprintf("%s - %s", source.Title, source.URL)
		}
		return source.URL
	case core.SourceFinancialTable:
		return fmt.Sprintf("%s page %d table %d", source.Origin, source.Page, source.TableIndex)
	default:
		if source.Page > 0 {
			return fmt.Sprintf("%s page %d", source.Origin, source.Page)
		}
		return source.Origin
	}
}

func infoCommand(c *cli.Context) error {
	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer system.Close()

	entity := c.String("entity")
	info, err := system.DescribeCollection(context.Background(), entity)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Printf("no collection for %q\n", entity)
		return nil
	}
	fmt.Printf("collection: %s\npoints: %d\nstatus: %s\n",
		info.CollectionID, info.PointCount, info.Status)
	return nil
}

func dropCommand(c *cli.Context) error {
	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer system.Close()

	entity := c.String("entity")
	existed, err := system.DropCollection(context.Background(), entity)
	if err != nil {
		return err
	}
	if existed {
		fmt.Printf("dropped collection for %q\n", entity)
	} else {
		fmt.Printf("nothing indexed for %q\n", entity)
	}
	return nil
}

func historyCommand(c *cli.Context) error {
	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer system.Close()

	ctx := context.Background()
	limit := c.Int("limit")

	switch c.String("kind") {
	case "ingests":
		records, err := system.History().RecentIngests(ctx, limit)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Printf("%s  %-8s %-30s %s (%d chunks, %d tables)\n",
				r.IngestedAt.Format("2006-01-02 15:04:05"),
				r.ContentType, r.EntityName, r.Content,
				r.ChunksWritten, r.TablesExtracted)
		}
	case "queries":
		records, err := system.History().RecentQueries(ctx, limit)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Printf("%s  %-30s [%s] %s\n",
				r.AskedAt.Format("2006-01-02 15:04:05"),
				r.EntityName, r.Outcome, r.Question)
		}
	default:
		return fmt.Errorf("invalid history kind %q: must be ingests or queries", c.String("kind"))
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

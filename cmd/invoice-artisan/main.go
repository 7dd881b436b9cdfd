package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/invoiceartisan/invoice-artisan/internal/config"
	"github.com/invoiceartisan/invoice-artisan/internal/extract"
	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
	"github.com/invoiceartisan/invoice-artisan/internal/pdfio"
	"github.com/invoiceartisan/invoice-artisan/internal/render"
	"github.com/invoiceartisan/invoice-artisan/internal/server"
	"github.com/invoiceartisan/invoice-artisan/internal/template"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	app := &cli.App{
		Name:    "invoice-artisan",
		Usage:   "generate invoice PDFs from YAML documents and recover YAML from invoice PDFs",
		Version: fmt.Sprintf("%s (build %s, commit %s)", version, buildTime, gitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "templates",
				Usage: "user template `FILE` layered over the built-in templates",
			},
			&cli.StringFlag{
				Name:  "loglevel",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			extractCommand(),
			templatesCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("invoice-artisan: %v", err)
	}
}

// loadConfig builds the runtime configuration and applies global flag
// overrides on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := c.String("templates"); v != "" {
		cfg.TemplatesPath = v
	}
	if v := c.String("loglevel"); v != "" {
		cfg.LogLevel = v
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	return cfg, nil
}

// loadRegistry returns the built-in templates layered with the user template
// file when one is configured.
func loadRegistry(cfg *config.Config) (*template.Registry, error) {
	if cfg.TemplatesPath == "" {
		return template.NewRegistry(), nil
	}
	return template.Load(cfg.TemplatesPath)
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "render a YAML invoice document to PDF",
		ArgsUsage: "SOURCE.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "template `ID` to render with",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output `FILE` (default: <output dir>/<invoice number>.pdf)",
			},
			&cli.StringSliceFlag{
				Name:  "logo",
				Usage: "logo image `FILE` candidates, first existing wins",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one source document, got %d", c.NArg())
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("read source document: %w", err)
			}
			raw, err := invoice.DecodeSource(source)
			if err != nil {
				return err
			}
			rec, err := invoice.Validate(raw)
			if err != nil {
				return err
			}

			templateID := c.String("template")
			if templateID == "" {
				templateID = cfg.DefaultTemplate
			}
			if logos := c.StringSlice("logo"); len(logos) > 0 {
				cfg.LogoPaths = logos
			}

			out := c.String("output")
			if out == "" {
				out = filepath.Join(cfg.OutputDir, rec.Invoice.Number+".pdf")
			}

			renderer := render.NewRenderer(registry, cfg.LogoCandidates())
			if err := renderer.RenderToFile(rec, templateID, out); err != nil {
				return err
			}

			log.Printf("Wrote %s (invoice %s, total %.2f)", out, rec.Invoice.Number, rec.Total())
			return nil
		},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "recover a YAML invoice document from a PDF (best effort)",
		ArgsUsage: "INVOICE.pdf",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output `FILE` (default: stdout)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one PDF file, got %d", c.NArg())
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			text, err := pdfio.NewReader(cfg.MaxFileSize).ReadText(c.Args().First())
			if err != nil {
				return err
			}

			res := extract.New().Extract(text)
			out, err := invoice.EncodeSource(res.Record)
			if err != nil {
				return err
			}

			// Warnings go to stderr so piped stdout stays a clean document.
			for _, warning := range res.Warnings {
				fmt.Fprintf(os.Stderr, "manual review: %s\n", warning)
			}

			if path := c.String("output"); path != "" {
				if err := pdfio.WriteFileAtomic(path, out); err != nil {
					return err
				}
				log.Printf("Wrote %s (%d warnings)", path, len(res.Warnings))
				return nil
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "inspect the template registry",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list all registered templates",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					registry, err := loadRegistry(cfg)
					if err != nil {
						return err
					}
					for _, tpl := range registry.List() {
						marker := " "
						if tpl.ID == cfg.DefaultTemplate {
							marker = "*"
						}
						fmt.Printf("%s %-16s %-24s %s\n", marker, tpl.ID, tpl.Name, tpl.Description)
					}
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "check every registered template for completeness",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					registry, err := loadRegistry(cfg)
					if err != nil {
						return err
					}
					var bad int
					for _, tpl := range registry.List() {
						if registry.Validate(tpl.ID) {
							fmt.Printf("ok   %s\n", tpl.ID)
						} else {
							fmt.Printf("FAIL %s\n", tpl.ID)
							bad++
						}
					}
					if bad > 0 {
						return fmt.Errorf("%d template(s) failed validation", bad)
					}
					return nil
				},
			},
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "listen `HOST`",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "listen `PORT`",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if v := c.String("host"); v != "" {
				cfg.Host = v
			}
			if v := c.Int("port"); v != 0 {
				cfg.Port = v
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			srv, err := server.NewServer(cfg, registry)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			log.Printf("Starting invoice-artisan %s on %s", version, cfg.Address())
			if err := srv.Run(ctx); err != nil {
				return err
			}
			log.Println("Server stopped successfully")
			return nil
		},
	}
}

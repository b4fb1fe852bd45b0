package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/striveplanner/strive"
	"github.com/striveplanner/strive/content"
	"github.com/striveplanner/strive/markdown"
)

// version is set at build time via ldflags.
var version = "dev"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to a YAML config file; environment variables are used when empty",
	Sources: cli.EnvVars("STRIVE_CONFIG_FILE"),
}

// loadConfig reads the YAML file named by --config on top of the
// environment configuration.
func loadConfig(cmd *cli.Command) (strive.SiteConfig, error) {
	cfg := strive.ConfigFromEnv()
	if path := cmd.String("config"); path != "" {
		if err := strive.LoadConfig(path, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.Addr = addr
	}

	app := strive.New(cfg, strive.DefaultViews(), strive.WithStaticDir(cmd.String("static")))
	defer app.Close()

	if err := app.Init(ctx); err != nil {
		return err
	}
	return app.Start(ctx)
}

func runPosts(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.PostsDir
	if dir == "" {
		dir = "posts"
	}
	resolver, err := content.LoadDir(os.DirFS(dir), markdown.NewRenderer())
	if err != nil {
		return err
	}
	for _, p := range resolver.ListPosts() {
		fmt.Printf("%s  %-50s  %s\n", p.Date(), p.Slug, p.FileName)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "strive",
		Usage: "Strive Planner website: blog, contact form and newsletter signup",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "addr", Usage: "Listen address, overrides ADDR"},
					&cli.StringFlag{Name: "static", Usage: "Static asset directory", Value: "public"},
				},
			},
			{
				Name:   "posts",
				Usage:  "Validate the posts directory and list posts newest first",
				Action: runPosts,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:      "new-post",
				Usage:     "Create a markdown post with front matter",
				ArgsUsage: "<title>",
				Action:    runNewPost,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Post tag, repeatable"},
					&cli.StringFlag{Name: "excerpt", Usage: "One-line summary"},
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("strive %s\n", version)
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("application error")
		stop()
		os.Exit(1)
	}
}

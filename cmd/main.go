package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"go-chat-client/internal/infrastructure/config"
)

const appName = "chat-client"

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  appName,
		Usage: "Terminal chat client with a local HTTP/SSE state API",
		Commands: []*cli.Command{
			runCmd(),
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Connect to the chat server and start the local bindings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config_file",
				Usage: "Path to the configuration file",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Chat server websocket URL (overrides server.url)",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Name to register right after connecting",
			},
			&cli.StringFlag{
				Name:  "http_addr",
				Usage: "Listen address of the local API (overrides http.addr)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config_file"))
			if err != nil {
				return err
			}
			if url := c.String("url"); url != "" {
				cfg.Server.URL = url
			}
			if name := c.String("name"); name != "" {
				cfg.User.Name = name
			}
			if addr := c.String("http_addr"); addr != "" {
				cfg.HTTP.Addr = addr
			}

			ctx, cancel := WithSignal(c.Context)
			defer cancel()

			return newApplication(cfg, os.Stdin, os.Stdout).Run(ctx)
		},
	}
}

func WithSignal(pctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(pctx, syscall.SIGINT, syscall.SIGTERM)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iwpnd/cellr"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "cellr",
		Short:         "hierarchical spherical cell index service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCommand(log))
	root.AddCommand(resolveCommand())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func serveCommand(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve cell lookups over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cache, err := cellr.NewRistrettoCache(
				cellr.WithMaxCost(viper.GetInt64("cache-max-cost")),
			)
			if err != nil {
				return err
			}

			resolver := cellr.NewResolver(cellr.WithCache(cache))
			defer resolver.Close()

			options := []cellr.ServerOption{cellr.WithLogger(log)}

			if uri := viper.GetString("registry-uri"); uri != "" {
				parsed, err := cellr.ParseURI(uri)
				if err != nil {
					return err
				}
				fetcher, err := cellr.NewFetcher(ctx, parsed)
				if err != nil {
					return err
				}
				registry, err := cellr.NewRegistry(ctx, fetcher)
				if err != nil {
					return err
				}
				log.Info().
					Str("uri", uri).
					Str("etag", registry.Etag()).
					Int("cells", len(registry.Names())).
					Msg("registry loaded")
				options = append(options, cellr.WithRegistry(registry))
			}

			server := cellr.NewServer(resolver, options...)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-stop
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("shutdown failed")
				}
			}()

			return server.Listen(viper.GetString("addr"))
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("registry-uri", "", "file:// or s3:// URI of a named cell registry")
	cmd.Flags().Int64("cache-max-cost", cellr.DefaultRistrettoMaxCost, "cell cache cost budget")

	viper.SetEnvPrefix("CELLR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, flag := range []string{"addr", "registry-uri", "cache-max-cost"} {
		if err := viper.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	return cmd
}

func resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <token>",
		Short: "print the record of a cell token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := cellr.NewResolver()
			rec, err := resolver.Resolve(args[0])
			if err != nil {
				return err
			}
			cmd.Println(rec.String())
			return nil
		},
	}
}

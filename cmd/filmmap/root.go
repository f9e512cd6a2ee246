package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filmmap/internal/config"
	"filmmap/internal/dataset"
	"filmmap/internal/geocoder"
	"filmmap/internal/logging"
	"filmmap/internal/render"
	"filmmap/internal/repository"
	"filmmap/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type options struct {
	configDir string
	dataset   string
	output    string
	year      string
	location  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "filmmap",
		Short: "Map the movies filmed near you in a given year",
		Long: `filmmap asks for a year and a coordinate, picks the movies of that year whose
filming locations read most like the address at that coordinate, and writes
them as markers on an interactive HTML map.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(opts.configDir)
			if err != nil {
				return err
			}
			if opts.dataset != "" {
				cfg.DatasetPath = opts.dataset
			}
			if opts.output != "" {
				cfg.OutputPath = opts.output
			}
			logging.Setup(cfg.LogLevel, true)

			source, closeSource, err := openSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			limiter := geocoder.WithLimiter(geocoder.NewLimiter(cfg.ProviderMinDelay()))
			svc := service.NewMapService(
				source,
				service.NewAddressResolver(geocoder.NewClient(cfg.ReverseGeocoder(), limiter)),
				service.NewCoordinateResolver(geocoder.NewClient(cfg.ForwardGeocoder(), limiter)),
				cfg.MapZoom,
			)

			return runLookup(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, svc, cfg.OutputPath, newProgress)
		},
	}

	cmd.Flags().StringVar(&opts.configDir, "config", "configs", "directory containing app.env")
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "filming locations file (overrides DATASET_PATH)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "map file to write (overrides OUTPUT_PATH)")
	cmd.Flags().StringVar(&opts.year, "year", "", "year of the movies; prompted for when empty")
	cmd.Flags().StringVar(&opts.location, "location", "", `coordinate as "lat, long"; prompted for when empty`)

	return cmd
}

func openSource(ctx context.Context, cfg config.Config) (service.MovieSource, func(), error) {
	if cfg.DBSource == "" {
		return dataset.NewCSVSource(cfg.DatasetPath, cfg.Delimiter()), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	return repository.NewRepository(pool), pool.Close, nil
}

func runLookup(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	opts *options,
	svc *service.MapService,
	outputPath string,
	progress func(total int) service.Progress,
) error {
	reader := bufio.NewReader(in)

	yearStr := opts.year
	if yearStr == "" {
		var err error
		if yearStr, err = prompt(reader, out, "Enter a year of movies, please: "); err != nil {
			return err
		}
	}

	location := opts.location
	if location == "" {
		var err error
		if location, err = prompt(reader, out, "Please enter your location (format: lat, long): "); err != nil {
			return err
		}
	}

	year, err := service.ParseYear(yearStr)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "loading...")
	sel, err := svc.Select(ctx, year, location)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "And a little bit more...")
	m, err := svc.Plot(ctx, sel, progress(len(sel.Candidates)))
	if err != nil {
		return err
	}

	if err := render.WriteFile(outputPath, m); err != nil {
		return err
	}

	fmt.Fprintf(out, "To watch the map, open %q\n", outputPath)
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newProgress(total int) service.Progress {
	if total == 0 || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Geocoding locations"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

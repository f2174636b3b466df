package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cuplog/internal/bootstrap"
	tastingdto "cuplog/internal/modules/tasting/dto"
	"cuplog/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	home string
	user string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "cuplog",
		Short:         "Coffee tasting journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.home, "home", "", "data directory (default $CUPLOG_HOME or .)")
	root.PersistentFlags().StringVar(&flags.user, "user", "", "user id (default $CUPLOG_USER or local)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newStepCmd(flags))
	root.AddCommand(newRecordsCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newFlavorsCmd(flags))
	root.AddCommand(newReindexCmd(flags))
	root.AddCommand(newExtractCmd(flags))
	root.AddCommand(newExtractorsCmd(flags))
	return root
}

func withApp(flags *globalFlags, fn func(app *bootstrap.App) error) error {
	cfg, err := config.Load(flags.home, flags.user)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(flags, bootstrap.RunTUI)
		},
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API ($CUPLOG_ADDR, default :8787)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(flags, func(app *bootstrap.App) error {
				return bootstrap.Serve(ctx, app)
			})
		},
	}
}

func newSessionCmd(flags *globalFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Tasting session lifecycle"}

	session.AddCommand(&cobra.Command{
		Use:   "start <cafe|homecafe|pro>",
		Short: "Start a new tasting, replacing any draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.Start(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s tasting: %s\n", out.Mode, strings.Join(out.Path, " > "))
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active tasting as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.Show(context.Background())
				if err != nil {
					return err
				}
				return printJSON(cmd, out)
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "next <from-step>",
		Short: "Validate a step and print the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.Next(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", out.Step, out.Kind)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "back <from-step>",
		Short: "Print the previous step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.Back(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", out.Step, out.Kind)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "discard",
		Short: "Drop the active tasting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				if err := app.TastingCLI.Discard(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "discarded")
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Score and persist the active tasting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.Save(context.Background(), app.Config.UserID)
				if err != nil {
					return err
				}
				score := out.Record.MatchScore
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s score=%d flavor=%d sensory=%d bonus=%d\n",
					out.Record.ID, score.Total, score.FlavorMatch, score.SensoryMatch, score.RoasterBonus)
				if out.JournalPath != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journal=%s\n", out.JournalPath)
				}
				return nil
			})
		},
	})
	return session
}

func newStepCmd(flags *globalFlags) *cobra.Command {
	step := &cobra.Command{Use: "step", Short: "Fill in step data for the active tasting"}
	step.AddCommand(
		newCoffeeStepCmd(flags),
		newBrewStepCmd(flags),
		newExperimentStepCmd(flags),
		newQCStepCmd(flags),
		newFlavorsStepCmd(flags),
		newSensoryStepCmd(flags),
		newSlidersStepCmd(flags),
		newCommentStepCmd(flags),
		newRoasterNotesStepCmd(flags),
	)
	return step
}

func newCoffeeStepCmd(flags *globalFlags) *cobra.Command {
	var in tastingdto.CoffeeInfo
	cmd := &cobra.Command{
		Use:   "coffee",
		Short: "Set coffee details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetCoffeeInfo(context.Background(), in))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.CoffeeName, "name", "", "coffee name")
	f.StringVar(&in.CafeName, "cafe", "", "cafe name")
	f.StringVar(&in.Roastery, "roastery", "", "roastery")
	f.StringVar(&in.Location, "location", "", "location")
	f.StringVar(&in.BrewingMethod, "method", "", "brewing method")
	f.StringVar(&in.Origin, "origin", "", "origin")
	f.StringVar(&in.Variety, "variety", "", "variety")
	f.StringVar(&in.Altitude, "altitude", "", "altitude")
	f.StringVar(&in.Process, "process", "", "process")
	f.StringVar(&in.RoastLevel, "roast", "", "roast level")
	return cmd
}

func newBrewStepCmd(flags *globalFlags) *cobra.Command {
	var in tastingdto.BrewSettings
	var laps []int
	cmd := &cobra.Command{
		Use:   "brew",
		Short: "Set dripper and recipe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			in.Recipe.CoffeeAmount = floatFlag(cmd, "coffee-g")
			in.Recipe.WaterAmount = floatFlag(cmd, "water-g")
			in.Recipe.Ratio = floatFlag(cmd, "ratio")
			in.Recipe.WaterTemp = floatFlag(cmd, "temp")
			in.Recipe.BrewTime = intFlag(cmd, "brew-time")
			if f.Changed("lap") {
				in.Recipe.LapTimes = laps
			}
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetBrewSettings(context.Background(), in))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Dripper, "dripper", "", "dripper")
	f.StringVar(&in.QuickNotes, "notes", "", "quick notes")
	f.Float64("coffee-g", 0, "coffee dose in grams")
	f.Float64("water-g", 0, "water in grams")
	f.Float64("ratio", 0, "water per gram of coffee (derived from doses when omitted)")
	f.Float64("temp", 0, "water temperature")
	f.Int("brew-time", 0, "total brew time in seconds")
	f.IntSliceVar(&laps, "lap", nil, "lap times in seconds")
	return cmd
}

func newExperimentStepCmd(flags *globalFlags) *cobra.Command {
	var in tastingdto.ExperimentalData
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Set lab extraction data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.TDS = floatFlag(cmd, "tds")
			in.ExtractionYield = floatFlag(cmd, "yield")
			in.WaterTDS = floatFlag(cmd, "water-tds")
			in.WaterPH = floatFlag(cmd, "water-ph")
			in.BloomTime = intFlag(cmd, "bloom")
			in.TotalTime = intFlag(cmd, "total-time")
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetExperimentalData(context.Background(), in))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.ExtractionMethod, "method", "", "extraction method")
	f.StringVar(&in.GrindSize, "grind", "", "grind size")
	f.StringVar(&in.Notes, "notes", "", "notes")
	f.Float64("tds", 0, "TDS %")
	f.Float64("yield", 0, "extraction yield %")
	f.Float64("water-tds", 0, "water TDS ppm")
	f.Float64("water-ph", 0, "water pH")
	f.Int("bloom", 0, "bloom time in seconds")
	f.Int("total-time", 0, "total time in seconds")
	return cmd
}

func newQCStepCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Record a refractometer measurement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := tastingdto.QCMeasurement{
				TDS:             floatFlag(cmd, "tds"),
				ExtractionYield: floatFlag(cmd, "yield"),
				WaterTDS:        floatFlag(cmd, "water-tds"),
				WaterPH:         floatFlag(cmd, "water-ph"),
			}
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.RecordQC(context.Background(), in))
			})
		},
	}
	f := cmd.Flags()
	f.Float64("tds", 0, "TDS %")
	f.Float64("yield", 0, "extraction yield %")
	f.Float64("water-tds", 0, "water TDS ppm")
	f.Float64("water-ph", 0, "water pH")
	return cmd
}

func newFlavorsStepCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "flavors <id=text>...",
		Short: "Replace the selected flavors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetFlavors(context.Background(), args))
			})
		},
	}
}

func newSensoryStepCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sensory <category:id=text>...",
		Short: "Replace the sensory expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetSensory(context.Background(), args))
			})
		},
	}
}

func newSlidersStepCmd(flags *globalFlags) *cobra.Command {
	var ratings map[string]string
	var notes string
	cmd := &cobra.Command{
		Use:   "sliders --rating body=4 --rating acidity=3",
		Short: "Set mouthfeel ratings (1..5)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed := make(map[string]float64, len(ratings))
			for axis, raw := range ratings {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("rating %s: %w", axis, err)
				}
				parsed[axis] = v
			}
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetSliders(context.Background(), parsed, notes))
			})
		},
	}
	cmd.Flags().StringToStringVar(&ratings, "rating", nil, "axis=value")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newCommentStepCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <text>",
		Short: "Set the personal comment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetComment(context.Background(), strings.Join(args, " ")))
			})
		},
	}
}

func newRoasterNotesStepCmd(flags *globalFlags) *cobra.Command {
	var text, file string
	var level int
	cmd := &cobra.Command{
		Use:   "roaster-notes",
		Short: "Set the roaster's tasting notes, inline or from a spec sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				return printSession(cmd)(app.TastingCLI.SetRoasterNotes(context.Background(), text, file, level))
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "notes text")
	cmd.Flags().StringVar(&file, "file", "", "pdf, text or image file to extract notes from")
	cmd.Flags().IntVar(&level, "level", 0, "1 absent, 2 present (derived when 0)")
	return cmd
}

func newRecordsCmd(flags *globalFlags) *cobra.Command {
	records := &cobra.Command{Use: "records", Short: "Saved tastings"}
	records.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the user's tastings, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.ListRecords(context.Background(), app.Config.UserID)
				if err != nil {
					return err
				}
				if len(out) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no records")
					return nil
				}
				for _, r := range out {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%d\n",
						r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Mode, r.CoffeeInfo.CoffeeName, r.MatchScore.Total)
				}
				return nil
			})
		},
	})
	return records
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var coffee string
	cmd := &cobra.Command{
		Use:   "stats --coffee <name>",
		Short: "Score statistics for a coffee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(coffee) == "" {
				return fmt.Errorf("--coffee is required")
			}
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.Statistics(context.Background(), coffee)
				if err != nil {
					return err
				}
				if out == nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no records")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "coffee=%s records=%d average=%d best=%d latest=%d\n",
					out.CoffeeName, out.TotalRecords, out.AverageScore, out.BestScore, out.LatestScore)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&coffee, "coffee", "", "coffee name")
	return cmd
}

func newFlavorsCmd(flags *globalFlags) *cobra.Command {
	flavors := &cobra.Command{Use: "flavors", Short: "Flavor index queries"}
	var limit int
	top := &cobra.Command{
		Use:   "top",
		Short: "Most selected flavors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.TopFlavors(context.Background(), limit)
				if err != nil {
					return err
				}
				for _, f := range out {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", f.Count, f.FlavorID, f.Text)
				}
				return nil
			})
		},
	}
	top.Flags().IntVar(&limit, "limit", 10, "number of flavors")
	flavors.AddCommand(top)
	return flavors
}

func newReindexCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the flavor index from saved tastings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TastingCLI.Reindex(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d records\n", out.Records)
				return nil
			})
		},
	}
}

func newExtractCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text from a roaster spec sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.ExtractCLI.Extract(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "kind=%s extractor=%s\n", out.Kind, out.Extractor)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
				return nil
			})
		},
	}
}

func newExtractorsCmd(flags *globalFlags) *cobra.Command {
	extractors := &cobra.Command{Use: "extractors", Short: "Extractor plugins"}
	extractors.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured extractor plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				items, err := app.ExtractCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no extractors")
					return nil
				}
				for _, it := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\t%s\t%s\n",
						it.Name, it.Version, it.Enabled, strings.Join(it.Formats, ","), it.Binary)
				}
				return nil
			})
		},
	})
	extractors.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check extractor checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				results, err := app.ExtractCLI.Doctor(context.Background())
				if err != nil {
					return err
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tchecksum=%t\tbinary=%t\tlifecycle=%t\t%s\n",
						r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK, r.Error)
				}
				return nil
			})
		},
	})
	return extractors
}

func printSession(cmd *cobra.Command) func(tastingdto.SessionOutput, error) error {
	return func(out tastingdto.SessionOutput, err error) error {
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func floatFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

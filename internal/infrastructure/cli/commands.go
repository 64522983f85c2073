package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/agrovoice/agrovoice-go/internal/app"
	"github.com/agrovoice/agrovoice-go/internal/domain"
)

func newAskCommand(container *app.Container) *cobra.Command {
	var (
		locale      string
		withWeather bool
		speak       bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a farming question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			loc := domain.NormalizeLocale(locale)
			if locale == "" {
				loc = domain.NormalizeLocale(container.Config.Preferences.DefaultLocale)
			}

			req := domain.AdvisoryRequest{
				Context: ctx,
				Query:   strings.Join(args, " "),
				Locale:  loc,
			}
			if withWeather && !container.Connectivity.Offline(ctx) {
				w, err := container.Weather.CurrentConditions(ctx,
					container.Config.Location.Latitude, container.Config.Location.Longitude)
				if err == nil {
					req.Weather = &w
				} else {
					container.Logger.Warn("weather unavailable", map[string]interface{}{"error": err.Error()})
				}
			}

			advisory := container.AdvisorService.Resolve(req)
			printAdvisory(cmd, advisory)

			if speak || container.Config.Preferences.SpeakAnswers {
				if audio, ok := container.AdvisorService.SpeakAnswer(ctx, advisory, loc); ok {
					if err := saveAudio(audio); err == nil {
						cmd.Println("Audio saved to answer.mp3")
					}
				}
			}

			// Opportunistic prefetch for later offline sessions; failures
			// never affect the answer above.
			if container.Config.Sync.OnStart {
				container.SyncService.Run(ctx)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "answer locale (en, hi)")
	cmd.Flags().BoolVarP(&withWeather, "weather", "w", false, "include live weather context")
	cmd.Flags().BoolVarP(&speak, "speak", "s", false, "synthesize the answer to answer.mp3")
	return cmd
}

func newDiagnoseCommand(container *app.Container) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "diagnose [image file]",
		Short: "Diagnose a plant photo via the vision classifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			labels, err := container.Vision.Classify(ctx, base64.StdEncoding.EncodeToString(data))
			if err != nil {
				return fmt.Errorf("classify image: %w", err)
			}
			loc := domain.NormalizeLocale(locale)
			advisory := container.AdvisorService.ResolveLabels(labels, loc)
			for _, l := range labels {
				cmd.Printf("  detected: %s (%.0f%%)\n", l.Name, l.Score*100)
			}
			printAdvisory(cmd, advisory)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "answer locale (en, hi)")
	return cmd
}

func newSyncCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Prefetch market, chat and library data for offline use",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := container.SyncService.Run(cmd.Context())
			switch report.Outcome {
			case domain.SyncSkippedOffline:
				cmd.Println("Offline: sync skipped.")
			case domain.SyncSkippedBusy:
				cmd.Println("A sync cycle is already running.")
			case domain.SyncCompleted:
				cmd.Printf("Sync complete: %d records updated.\n", report.Upserted)
			case domain.SyncPartiallyFailed:
				cmd.Printf("Sync partially failed: %d records updated.\n", report.Upserted)
				for task, err := range report.TaskErrors {
					cmd.Printf("  %s: %v\n", task, err)
				}
			}
			return nil
		},
	}
}

func newCacheCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response/audio cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := container.CacheService.Stats(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Entries: %d\nSize:    %s\n", stats.Count, humanize.Bytes(uint64(stats.TotalSize)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses and audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.CacheService.Clear(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Cache cleared.")
			return nil
		},
	})

	return cmd
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, store and collaborator health",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			for _, check := range report.Checks {
				cmd.Printf("[%s] %s: %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
			}
			return err
		},
	}
}

func printAdvisory(cmd *cobra.Command, adv domain.Advisory) {
	cmd.Printf("Condition:  %s\n", adv.Condition)
	cmd.Printf("Confidence: %s\n", adv.Confidence)
	if adv.FromCache {
		cmd.Println("(served from offline cache)")
	}
	cmd.Printf("\n%s\n", adv.Recommendation)
}

func saveAudio(audioBase64 string) error {
	data, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return err
	}
	return os.WriteFile("answer.mp3", data, 0o644)
}

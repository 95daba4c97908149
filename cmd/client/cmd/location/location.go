package location

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/domain/location"
)

const pollInterval = 2 * time.Second

// LocationCmd - родительская команда для местоположения
var LocationCmd = &cobra.Command{
	Use:   "location",
	Short: "Местоположение и история перемещений",
}

var CurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Показать текущее местоположение",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ov, err := app.Location.Current(cmd.Context())
		if err != nil {
			return err
		}
		if ov.Current == nil {
			fmt.Println("Местоположение еще не определено")
			return nil
		}
		printSample(ov.Current)
		return nil
	},
}

var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Показать историю перемещений",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		history, err := app.Location.History(cmd.Context())
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Println("История пуста")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "АДРЕС\tПЕРИОД\tИСТОЧНИК")
		for _, h := range history {
			var end *time.Time
			if h.EndDate != nil {
				end = &h.EndDate.Time
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", h.Address, location.FormatDateRange(h.StartDate.Time, end), h.Source)
		}
		return w.Flush()
	},
}

var SetCmd = &cobra.Command{
	Use:   "set <lat> <lon>",
	Short: "Указать местоположение вручную",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		s, err := app.Tracker.SetManual(cmd.Context(), args[0], args[1])
		if errors.Is(err, location.ErrInvalidCoordinates) {
			return errors.New("введите корректные координаты, например: vera location set 55.7558 37.6173")
		}
		if err != nil {
			return err
		}
		types.Success("Местоположение обновлено")
		printSample(s)
		return nil
	},
}

var TrackCmd = &cobra.Command{
	Use:   "track",
	Short: "Отслеживать местоположение до Ctrl+C",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app.Tracker.OnPermissionDenied = func() {
			types.Warn("Нет доступа к определению местоположения.")
			fmt.Println("Укажите координаты вручную: vera location set <lat> <lon>")
		}
		app.StartTracking(ctx)
		types.Info("Отслеживание запущено, Ctrl+C для остановки")

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		var last time.Time
		for {
			select {
			case <-ctx.Done():
				fmt.Println()
				types.Info("Отслеживание остановлено")
				return nil
			case <-ticker.C:
				if s := app.Tracker.Current(); s != nil && !s.Timestamp.Time.Equal(last) {
					last = s.Timestamp.Time
					printSample(s)
				}
			}
		}
	},
}

func printSample(s *location.Sample) {
	fmt.Printf("Адрес:      %s\n", s.Address)
	fmt.Printf("Координаты: %s\n", location.FormatCoordinates(location.Point{Latitude: s.Latitude, Longitude: s.Longitude}))
	if s.City != "" || s.Country != "" {
		fmt.Printf("Город:      %s %s\n", s.City, s.Country)
	}
	fmt.Printf("Время:      %s (%s)\n", s.Timestamp.Local().Format("2006-01-02 15:04"), s.Source)
}

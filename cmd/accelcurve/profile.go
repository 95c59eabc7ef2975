package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/chart"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/profile"
)

const defaultHistoryLimit = 20

var (
	historyLimit int
	showFormat   string
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name>",
		Short: "Store the resolved settings under a name",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileSaveCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfileListCmd,
	})
	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileShowCmd,
	}
	show.Flags().StringVar(&showFormat, "format", "toml", "output format (toml, yaml)")
	cmd.AddCommand(show)
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileDeleteCmd,
	})
	history := &cobra.Command{
		Use:   "history",
		Short: "Show applied settings",
		Args:  cobra.NoArgs,
		RunE:  runProfileHistoryCmd,
	}
	history.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of entries (0 for all)")
	cmd.AddCommand(history)
	return cmd
}

func runProfileSaveCmd(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := accel.Validate(settings); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	rec := model.ProfileRecord{
		Name: name,
		Mode: settings.Mode.String(),
		Body: profile.FromSettings(name, settings).String(),
	}
	if err := st.SaveProfile(commandContext(cmd), rec); err != nil {
		return err
	}
	logger.Info("profile saved", "name", name, "mode", rec.Mode)
	return nil
}

func runProfileListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.ListProfiles(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(records) == 0 {
		logErrf("No stored profiles. Save one with: accelcurve profile save <name>\n")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Name, rec.Mode, rec.UpdatedAt.Local().Format(time.DateTime)})
	}
	return printTable(cmd, []string{"NAME", "MODE", "UPDATED"}, rows, nil)
}

func runProfileShowCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	rec, err := st.LoadProfile(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	file, err := profile.DecodeString(rec.Body)
	if err != nil {
		return err
	}
	return writeProfile(cmd.OutOrStdout(), file, showFormat)
}

func runProfileDeleteCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.DeleteProfile(commandContext(cmd), args[0]); err != nil {
		return err
	}
	logger.Info("profile deleted", "name", args[0])
	return nil
}

func runProfileHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.ListApplied(commandContext(cmd), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", rec.ID),
			rec.AppliedAt.Local().Format(time.DateTime),
			rec.Profile,
			rec.Target,
		})
	}
	return printTable(cmd, []string{"ID", "APPLIED", "PROFILE", "TARGET"}, rows, map[int]bool{0: true})
}

func printTable(cmd *cobra.Command, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range chart.FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

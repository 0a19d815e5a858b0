package cmd

import (
	"fmt"
	"io"
	"strconv"

	"mealprep-backend/planner"
	"mealprep-backend/store"

	"github.com/spf13/cobra"
)

var autobuildCmd = &cobra.Command{
	Use:   "autobuild WEEK_ID",
	Short: "Fill a week's slots with recipes that were not cooked recently",
	Args:  cobra.ExactArgs(1),
	RunE:  runAutobuild,
}

func runAutobuild(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid week id %q", args[0])
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	s := store.New(e.db)
	result, err := autobuild(cmd, s, uint(id), planner.WithRecencyDays(e.cfg.RecencyDays), planner.WithLogger(e.logger))
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func autobuild(cmd *cobra.Command, s *store.Store, weekID uint, opts ...planner.Option) (*planner.Result, error) {
	ctx := cmd.Context()
	week, err := s.GetWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("week %d: %w", weekID, err)
	}

	var result *planner.Result
	err = s.Transaction(ctx, func(tx *store.Store) error {
		var err error
		result, err = planner.NewBuilder(tx, opts...).Build(ctx, week)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("autobuild week %d: %w", weekID, err)
	}
	return result, nil
}

func printResult(w io.Writer, result *planner.Result) {
	if result.Skipped {
		fmt.Fprintln(w, "week is skipped, nothing planned")
		return
	}
	fmt.Fprintf(w, "reference date %s\n", result.ReferenceDate.Format("2006-01-02"))
	for _, meal := range result.Meals {
		fmt.Fprintf(w, "  %-18s %s\n", meal.SlotName, meal.Recipe.Name)
	}
	for _, slot := range result.Unfilled {
		fmt.Fprintf(w, "  %-18s (no matching recipe)\n", slot)
	}
}

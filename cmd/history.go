package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/internal/store"
)

var (
	historyType   string
	historyLimit  int
	historyOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved generation results",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := newEnv(ctx, "history")
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := env.Store.List(ctx, store.ListFilter{
			Type:   model.SavedItemType(historyType),
			Limit:  historyLimit,
			Offset: historyOffset,
		})
		if err != nil {
			return eris.Wrap(err, "list history")
		}

		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "暂无记录")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-13s  %s  %s\n",
				item.ID, item.Type, item.CreatedAt.Format("2006-01-02 15:04"), item.Title)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one saved item as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := newEnv(ctx, "history")
		if err != nil {
			return err
		}
		defer env.Close()

		item, err := env.Store.Get(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "get history item")
		}

		out, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal item")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := newEnv(ctx, "history")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.Delete(ctx, args[0]); err != nil {
			return eris.Wrap(err, "delete history item")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已删除：%s\n", args[0])
		return nil
	},
}

func init() {
	historyListCmd.Flags().StringVar(&historyType, "type", "", "filter by type (business-plan or questionnaire)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum items to list (default 100)")
	historyListCmd.Flags().IntVar(&historyOffset, "offset", 0, "items to skip")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

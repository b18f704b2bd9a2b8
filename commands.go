package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"royal-dine/config"
	"royal-dine/models"
	"royal-dine/services"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)
			fmt.Printf("✅ Migrations applied (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}

func bookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect stored bookings",
	}
	cmd.AddCommand(bookingsListCmd())
	cmd.AddCommand(bookingsShowCmd())
	return cmd
}

func openBookingStore() (*services.BookingStore, func(), error) {
	_, db, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}
	store := services.NewBookingStore(db, services.NewSequenceAllocator(db, services.BookingSequenceName))
	return store, func() { _ = config.CloseDatabase(db) }, nil
}

func bookingsListCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings in the order they were made",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openBookingStore()
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := context.Background()
			var list []models.Booking
			if email != "" {
				list, err = store.ListByEmail(ctx, email)
			} else {
				list, err = store.List(ctx)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tDATE\tTIME\tPEOPLE\tSTATUS")
			for _, b := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					b.BookingID, b.Name, b.Email, b.Date, b.Time, b.PartySize, b.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "only bookings made with this email")
	return cmd
}

func bookingsShowCmd() *cobra.Command {
	var withEvents bool
	cmd := &cobra.Command{
		Use:   "show [booking-id]",
		Short: "Print one booking as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openBookingStore()
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := context.Background()
			b, err := store.Find(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := map[string]interface{}{"booking": b}
			if withEvents {
				evs, err := store.Events(ctx, b.BookingID)
				if err != nil {
					return err
				}
				out["events"] = evs
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&withEvents, "events", false, "include the booking's event history")
	return cmd
}

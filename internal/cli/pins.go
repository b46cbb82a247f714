package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/skate-pins/internal/config"
	"github.com/iliyamo/skate-pins/internal/model"
	"github.com/iliyamo/skate-pins/internal/pinstore"
)

var errNoStore = errors.New("pin store not configured: set PINS_API_URL and PINS_API_KEY")

func newPinsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pins",
		Short: "Manage stored pins without the map",
	}
	cmd.AddCommand(newPinsListCmd(), newPinsAddCmd(), newPinsDeleteCmd(root))
	return cmd
}

func storeClient() (*pinstore.Client, error) {
	cfg := config.LoadBoardConfig()
	if !cfg.StoreConfigured() {
		return nil, errNoStore
	}
	return pinstore.New(cfg.StoreURL, cfg.StoreKey, cfg.StoreTimeout)
}

func newPinsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored pins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := storeClient()
			if err != nil {
				return err
			}
			pins, err := c.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tLAT\tLNG\tTITLE")
			for _, p := range pins {
				fmt.Fprintf(w, "%s\t%s\t%.5f\t%.5f\t%s\n", p.ID, p.Type, p.Lat, p.Lng, p.DisplayTitle())
			}
			return w.Flush()
		},
	}
}

func newPinsAddCmd() *cobra.Command {
	var (
		lat, lng           float64
		typ, title, detail string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a pin at --lat/--lng",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := model.ParsePinType(typ)
			if !ok {
				return fmt.Errorf("unknown pin type %q", typ)
			}
			if !model.ValidLatLng(lat, lng) {
				return fmt.Errorf("coordinates %.5f,%.5f out of range", lat, lng)
			}
			c, err := storeClient()
			if err != nil {
				return err
			}
			p := &model.Pin{Lat: lat, Lng: lng, Type: t, Title: title, Description: detail}
			if p.Title == "" {
				p.Title = t.Label()
			}
			if err := c.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().StringVar(&typ, "type", string(model.TypeSkatingNow), "pin type")
	cmd.Flags().StringVar(&title, "title", "", "title, defaults to the type label")
	cmd.Flags().StringVar(&detail, "description", "", "description")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func newPinsDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete stored pins by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := storeClient()
			if err != nil {
				return err
			}
			var errs []error
			for _, id := range args {
				if err := c.DeleteByID(cmd.Context(), id); err != nil {
					root.logger.Error("error deleting pin", zap.String("id", id), zap.Error(err))
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

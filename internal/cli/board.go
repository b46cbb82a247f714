package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/skate-pins/internal/board"
	"github.com/iliyamo/skate-pins/internal/config"
	"github.com/iliyamo/skate-pins/internal/pinstore"
	"github.com/iliyamo/skate-pins/internal/tui"
)

const boardLogFile = "logs/pinboard.log"

func newBoardCmd(root *rootOptions) *cobra.Command {
	var placement, clickMode, defaultType string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive map",
		// the map owns the terminal, so logs go to a file
		Annotations: map[string]string{defaultLogFileAnnotation: boardLogFile},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadBoardConfig()
			if cmd.Flags().Changed("placement") {
				cfg.Placement = strings.ToLower(placement)
			}
			if cmd.Flags().Changed("click-mode") {
				cfg.ClickMode = strings.ToLower(clickMode)
			}
			if cmd.Flags().Changed("type") {
				cfg.DefaultType = defaultType
			}
			mapCfg, err := config.LoadMapConfig(cfg.MapFile)
			if err != nil {
				return err
			}
			opts, err := board.OptionsFromConfig(cfg, mapCfg)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			root.logger.Info("starting board",
				zap.Bool("store", store != nil),
				zap.String("placement", string(opts.Placement)))
			return tui.Run(cmd.Context(), store, opts, root.logger)
		},
	}
	cmd.Flags().StringVar(&placement, "placement", "", "deferred (form first) or immediate (save on click)")
	cmd.Flags().StringVar(&clickMode, "click-mode", "", "direct (every click drops) or toggle (press d first)")
	cmd.Flags().StringVar(&defaultType, "type", "", "pin type selected by default")
	return cmd
}

// openStore returns nil, not an error, when the store is not configured.
func openStore(cfg config.BoardConfig) (board.Store, error) {
	if !cfg.StoreConfigured() {
		return nil, nil
	}
	c, err := pinstore.New(cfg.StoreURL, cfg.StoreKey, cfg.StoreTimeout)
	if err != nil {
		return nil, err
	}
	return c, nil
}

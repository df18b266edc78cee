package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tldrx/cmdref/internal/screenshot"
)

type screenshotOptions struct {
	url      string
	dir      string
	selector string
	bin      string
	settle   time.Duration
	headful  bool
}

func newScreenshotCmd(a *app) *cobra.Command {
	opts := &screenshotOptions{}

	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture the web application in a headless browser",
		Long: `Load the web application in a headless Chromium and save a full-page
PNG as <dir>/app-<timestamp>.png. When an element matches the selector it is
also saved as <dir>/command-card-<timestamp>.png.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Screenshot
			settle := cfg.Settle
			if cmd.Flags().Changed("settle") {
				settle = opts.settle
			}

			_, err := screenshot.Capture(cmd.Context(), screenshot.Options{
				URL:      firstNonEmpty(opts.url, cfg.URL),
				Dir:      firstNonEmpty(opts.dir, cfg.Dir),
				Width:    cfg.Width,
				Height:   cfg.Height,
				Settle:   settle,
				Selector: firstNonEmpty(opts.selector, cfg.Selector),
				Headless: cfg.Headless && !opts.headful,
				Bin:      opts.bin,
			}, a.logger)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "application URL (default from config)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.selector, "selector", "", "CSS selector of the element capture (default from config)")
	cmd.Flags().StringVar(&opts.bin, "browser", "", "browser binary (default: detect or download Chromium)")
	cmd.Flags().DurationVar(&opts.settle, "settle", 0, "delay after the page is idle (default from config)")
	cmd.Flags().BoolVar(&opts.headful, "headful", false, "show the browser window")

	return cmd
}

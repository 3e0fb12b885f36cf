// Package main provides the sitemeta command, which prints the metadata
// of a web page as JSON and can save its best icon.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BumpyClock/go-sitemeta"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	saveDir    string
	logLevel   string
	render     bool
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "sitemeta <url>",
		Short: "Print title, description, icons and well-known files of a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, args[0], cmd.Flags().Changed("render"), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&f.saveDir, "save", "", "Download the best icon into this directory")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&f.render, "render", false, "Render the page in headless Chrome when the raw markup has no title or icons")

	return cmd
}

// report is the printed form of a Metadata. Auxiliary bodies are shown as
// text rather than base64.
type report struct {
	*sitemeta.Metadata
	Robots   string         `json:"robots,omitempty"`
	Sitemap  string         `json:"sitemap,omitempty"`
	Humans   string         `json:"humans,omitempty"`
	BestIcon *sitemeta.Icon `json:"bestIcon,omitempty"`
	SavedTo  string         `json:"savedTo,omitempty"`
}

func run(ctx context.Context, f flags, target string, renderSet bool, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := logrus.ParseLevel(strings.ToLower(f.logLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", f.logLevel, err)
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)

	opts, err := sitemeta.LoadOptions(f.configPath)
	if err != nil {
		return err
	}
	opts.ApplyEnv()
	if renderSet {
		opts.Render = f.render
	}
	if opts.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	client := sitemeta.New(opts)
	md, err := client.GetMetadata(ctx, target)
	if md == nil {
		return err
	}
	if err != nil {
		logrus.Warnf("Partial result: %v", err)
	}

	out := report{
		Metadata: md,
		Robots:   string(md.Robots),
		Sitemap:  string(md.Sitemap),
		Humans:   string(md.Humans),
	}
	if icon, ok := md.BestIcon(); ok {
		out.BestIcon = &icon
		if f.saveDir != "" {
			if dest, saved := client.SaveIcon(ctx, icon, f.saveDir); saved {
				out.SavedTo = dest
			}
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(out); encErr != nil {
		return fmt.Errorf("encode result: %w", encErr)
	}
	return err
}

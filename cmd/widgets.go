package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"reschool-widgets/export"
	"reschool-widgets/widget"
	"reschool-widgets/writer"
)

var readCmd = &cobra.Command{
	Use:   "read <schedule|homework|grades>",
	Short: "Read a widget's data the way the widget does",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := widget.ParseKind(args[0])
		if err != nil {
			return err
		}
		familyFlag, _ := cmd.Flags().GetString("family")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return printWidget(cmd.Context(), cmd.OutOrStdout(), a, kind, widget.ParseFamily(familyFlag))
	},
}

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Store a snapshot document under a widget key",
	Long: `Store a JSON document exactly as given under --key, then ask the
matching widget to reload. The document comes from --data or --file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		file, _ := cmd.Flags().GetString("file")
		noReload, _ := cmd.Flags().GetBool("no-reload")

		req := writer.SaveRequest{}
		if key != "" {
			req.Key = &key
		}
		switch {
		case cmd.Flags().Changed("data"):
			data, _ := cmd.Flags().GetString("data")
			req.Data = &data
		case file != "":
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("could not read %s: %w", file, err)
			}
			data := string(raw)
			req.Data = &data
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		w := a.newWriter()
		if err := w.Save(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Saved %s\n", key)

		if noReload {
			return nil
		}
		if kind, ok := widget.KindForKey(key); ok {
			return w.Notifier.Reload(cmd.Context(), kind)
		}
		return w.ReloadAll(cmd.Context())
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload [kind]",
	Short: "Ask one widget, or all of them, to refresh",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		w := a.newWriter()
		if len(args) == 0 {
			return w.ReloadAll(cmd.Context())
		}
		return w.Reload(cmd.Context(), writer.ReloadRequest{Kind: &args[0]})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <schedule|homework|grades>",
	Short: "Re-read a widget every time the app signals a reload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := widget.ParseKind(args[0])
		if err != nil {
			return err
		}
		familyFlag, _ := cmd.Flags().GetString("family")
		family := widget.ParseFamily(familyFlag)

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		notifier, ok := a.notifier.(*writer.RedisNotifier)
		if !ok {
			return errors.New("watch needs the shared Redis store")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		if err := printWidget(ctx, out, a, kind, family); err != nil {
			return err
		}
		return notifier.Listen(ctx, func(s writer.Signal) {
			if !s.Matches(kind) {
				return
			}
			if err := printWidget(ctx, out, a, kind, family); err != nil {
				fmt.Fprintf(os.Stderr, "could not print %s: %v\n", kind, err)
			}
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all widget data to an .xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		chain := a.chain()
		ctx := cmd.Context()

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", output, err)
		}
		defer f.Close()

		if err := export.WriteWorkbook(f, chain.LoadSchedule(ctx).Value, chain.LoadHomework(ctx).Value, chain.LoadGrades(ctx).Value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported widget data to %s\n", output)
		return nil
	},
}

// printWidget reads one widget through the chain and prints the timeline
// entry with its laid-out view.
func printWidget(ctx context.Context, out io.Writer, a *app, kind widget.Kind, family widget.Family) error {
	chain := a.chain()
	var payload any

	switch kind {
	case widget.Schedule:
		tl := widget.NewScheduleProvider(chain, a.cfg.RefreshInterval).Timeline(ctx)
		payload = widgetOutput(tl.Entries[0], tl.NextUpdate, widget.NewScheduleView(tl.Entries[0].Data, family))
	case widget.Homework:
		tl := widget.NewHomeworkProvider(chain, a.cfg.RefreshInterval).Timeline(ctx)
		payload = widgetOutput(tl.Entries[0], tl.NextUpdate, widget.NewHomeworkView(tl.Entries[0].Data, family))
	case widget.Grades:
		tl := widget.NewGradesProvider(chain, a.cfg.RefreshInterval).Timeline(ctx)
		payload = widgetOutput(tl.Entries[0], tl.NextUpdate, widget.NewGradesView(tl.Entries[0].Data, family))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func widgetOutput[T any](entry widget.Entry[T], next time.Time, view any) map[string]any {
	return map[string]any{
		"source":     entry.Source,
		"date":       entry.Date,
		"nextUpdate": next,
		"data":       entry.Data,
		"view":       view,
	}
}

func init() {
	rootCmd.AddCommand(readCmd, writeCmd, reloadCmd, watchCmd, exportCmd)

	for _, c := range []*cobra.Command{readCmd, watchCmd} {
		c.Flags().StringP("family", "f", string(widget.Medium), "Widget size: small, medium or large")
	}

	writeCmd.Flags().StringP("key", "k", "", "Storage key, e.g. "+keyList())
	writeCmd.Flags().StringP("data", "d", "", "JSON document to store")
	writeCmd.Flags().String("file", "", "Read the JSON document from a file")
	writeCmd.Flags().Bool("no-reload", false, "Do not signal the widgets after saving")

	exportCmd.Flags().StringP("output", "o", "widgets.xlsx", "Workbook to write")
}

func keyList() string {
	keys := make([]string, 0, len(widget.Kinds))
	for _, k := range widget.Kinds {
		keys = append(keys, k.Key())
	}
	return strings.Join(keys, ", ")
}

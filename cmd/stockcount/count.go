package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stockcount/pkg/count"
	"stockcount/pkg/scan"
)

func newCountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Manage the EAN/QTD counting list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add EAN QTD",
		Short: "Set the quantity of an EAN (replaces any previous quantity)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.counts(cmd.Context()).Set(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s QTD: %d\n", it.EAN, it.Qty)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm EAN",
		Short: "Remove an EAN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.counts(cmd.Context()).Remove(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List counted items ordered by EAN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printItems(cmd.OutOrStdout(), a.counts(cmd.Context()).Items())
			return nil
		},
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(cmd, "Limpar todos os itens?") {
				return nil
			}
			return a.counts(cmd.Context()).Clear(cmd.Context())
		},
	}
	clearCmd.Flags().Bool("yes", false, "Do not ask for confirmation.")
	cmd.AddCommand(clearCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the list as EAN;QTD; CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.export(cmd, count.FilePrefix, a.counts(cmd.Context()).ExportRows())
		},
	}
	addExportFlags(exportCmd)
	cmd.AddCommand(exportCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Read barcodes from the scanner and ask for each quantity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.scanLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})
	return cmd
}

func printItems(w io.Writer, items []count.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nenhum item adicionado ainda.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EAN\tQTD")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%d\n", it.EAN, it.Qty)
	}
	tw.Flush()
}

// scanLoop runs one scan session per item: the decoded EAN is followed by a
// quantity line typed on the same stream. It ends when the input closes or
// ctx is cancelled.
func (a *app) scanLoop(ctx context.Context, in io.Reader, out io.Writer) error {
	svc := a.counts(ctx)
	det := scan.NewLineDetector(in)
	sess := scan.NewSession(det, svc.Normalize,
		scan.WithInterval(a.cfg.Scan.Interval),
		scan.WithLogger(a.log),
	)
	for {
		results := make(chan string, 1)
		fmt.Fprint(out, "EAN: ")
		if err := sess.Start(ctx, func(ean string) { results <- ean }); err != nil {
			return err
		}
		<-sess.Done()

		var ean string
		select {
		case ean = <-results:
		default:
			fmt.Fprintln(out)
			return nil
		}

		fmt.Fprintf(out, "%s QTD: ", ean)
		qty, err := det.ReadLine(ctx)
		if err != nil {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		it, err := svc.Set(ctx, ean, qty)
		if err != nil {
			var verr *count.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(out, "  %v\n", verr.Err)
				continue
			}
			return err
		}
		fmt.Fprintf(out, "  ok %s = %d\n", it.EAN, it.Qty)
	}
}

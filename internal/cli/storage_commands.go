package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/syndic/internal/localstore"
)

func ExportCmd(open RuntimeOpener) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a full backup of the namespace as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := open()
			if err != nil {
				return err
			}
			defer runtime.Close()

			document, err := runtime.Reconciler.ExportAll()
			if err != nil {
				return fmt.Errorf("export storage: %w", err)
			}
			serialized, err := localstore.EncodeExportDocument(document)
			if err != nil {
				return fmt.Errorf("encode backup: %w", err)
			}

			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(serialized)
				return err
			}
			if err := os.WriteFile(outPath, serialized, 0o600); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d keys to %s\n", len(document.Storage), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "backup file to write (default stdout)")
	return cmd
}

func ImportCmd(open RuntimeOpener) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the namespace with a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if inPath == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(inPath)
			}
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			document, err := localstore.ParseExportDocument(data)
			if err != nil {
				return err
			}

			runtime, err := open()
			if err != nil {
				return err
			}
			defer runtime.Close()

			if err := runtime.Reconciler.ImportAll(document); err != nil {
				if errors.Is(err, localstore.ErrQuotaExceeded) {
					return fmt.Errorf("backup does not fit in %d bytes, storage left unchanged: %w", runtime.Config.QuotaBytes, err)
				}
				return fmt.Errorf("import backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d keys\n", len(document.Storage))
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "backup file to read, - for stdin")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func WipeCmd(open RuntimeOpener) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every key of the namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to wipe without --yes")
			}
			runtime, err := open()
			if err != nil {
				return err
			}
			defer runtime.Close()

			removed, err := runtime.Reconciler.Wipe()
			if err != nil {
				return fmt.Errorf("wipe storage: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d keys from %s\n", removed, runtime.Config.Namespace)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the wipe")
	return cmd
}

func EntriesCmd(open RuntimeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "List stored keys with their sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := open()
			if err != nil {
				return err
			}
			defer runtime.Close()

			entries, err := runtime.Reconciler.ListEntries()
			if err != nil {
				return fmt.Errorf("list entries: %w", err)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "KEY\tBYTES\tUPDATED")
			var total int64
			for _, entry := range entries {
				total += entry.SizeBytes
				fmt.Fprintf(writer, "%s\t%d\t%s\n", entry.Key, entry.SizeBytes, entry.UpdatedAt.UTC().Format(time.RFC3339))
			}
			if runtime.Config.QuotaBytes > 0 {
				fmt.Fprintf(writer, "TOTAL\t%d\tof %d\n", total, runtime.Config.QuotaBytes)
			} else {
				fmt.Fprintf(writer, "TOTAL\t%d\tunlimited\n", total)
			}
			return writer.Flush()
		},
	}
}

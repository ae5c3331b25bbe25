package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/arxml"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/graph/export"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/interpreter"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

// output writes b to path, or to the command's stdout when path is empty.
func output(cmd *cobra.Command, path string, b []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// readValid loads a snapshot and rejects it when it breaks a model invariant.
func readValid(path string) (domain.ProjectSnapshot, error) {
	snap, err := export.ReadSnapshot(path)
	if err != nil {
		return domain.ProjectSnapshot{}, err
	}
	if err := store.CheckInvariants(snap); err != nil {
		return domain.ProjectSnapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func newExportCmd() *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "export <snapshot>",
		Short: "Write a snapshot as ARXML, YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readValid(args[0])
			if err != nil {
				return err
			}
			var b []byte
			switch strings.ToLower(format) {
			case "arxml":
				b, err = arxml.NewExporter().Export(snap)
			case "yaml":
				b, err = export.EncodeYAML(snap)
			case "json":
				b, err = export.EncodeJSON(snap)
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
			if err != nil {
				return err
			}
			return output(cmd, out, b)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "arxml", "arxml, yaml or json")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <snapshot>...",
		Short: "Check snapshots against the model invariants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if _, err := readValid(path); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d snapshots are invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newDotCmd() *cobra.Command {
	var out, comp string
	cmd := &cobra.Command{
		Use:   "dot <snapshot>",
		Short: "Render an ECU composition as a Graphviz graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readValid(args[0])
			if err != nil {
				return err
			}
			id, err := compositionID(snap, comp)
			if err != nil {
				return err
			}
			dot, err := export.ToDOT(snap, id)
			if err != nil {
				return err
			}
			return output(cmd, out, []byte(dot))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&comp, "composition", "c", "", "composition id or name (default: the only one)")
	return cmd
}

// compositionID resolves ref as an id or a case-insensitive name. An empty ref picks the only
// composition of the project.
func compositionID(snap domain.ProjectSnapshot, ref string) (string, error) {
	if ref == "" {
		if len(snap.Compositions) != 1 {
			return "", fmt.Errorf("project has %d compositions, pick one with --composition", len(snap.Compositions))
		}
		return snap.Compositions[0].ID, nil
	}
	for _, c := range snap.Compositions {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}
	return "", domain.NewNotFoundError(domain.KindECUComposition, ref)
}

func newInterpretCmd() *cobra.Command {
	var base, out, name string
	cmd := &cobra.Command{
		Use:   "interpret <requirements.txt>",
		Short: "Extract proposals from requirement text, accept them all and replay them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			st, err := baseStore(base, name)
			if err != nil {
				return err
			}
			batch := interpreter.Extract(string(text))
			batch.AcceptAll()
			report := interpreter.Replay(st, batch)
			printReport(cmd.ErrOrStderr(), report)

			b, err := export.EncodeYAML(st.Snapshot())
			if err != nil {
				return err
			}
			if err := output(cmd, out, b); err != nil {
				return err
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d proposals failed", len(report.Failed))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&base, "snapshot", "s", "", "snapshot to extend (default: a new project)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output YAML snapshot (default stdout)")
	cmd.Flags().StringVar(&name, "name", "Requirements", "project name when no snapshot is given")
	return cmd
}

func baseStore(path, name string) (*store.Store, error) {
	if path == "" {
		id, err := utils.NewTextID(utils.PrefixProject)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		return store.New(domain.Project{
			ID:             id,
			Name:           name,
			AutosarVersion: domain.DefaultAutosarVersion,
			IsDraft:        true,
			CreatedAt:      now,
			LastModified:   now,
		}), nil
	}
	snap, err := export.ReadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return store.NewFromSnapshot(snap)
}

func printReport(w io.Writer, r interpreter.ReplayReport) {
	fmt.Fprintf(w, "applied %d, failed %d, skipped %d\n", len(r.Applied), len(r.Failed), r.Skipped)
	for _, o := range r.Failed {
		fmt.Fprintf(w, "  %s %s: %s\n", o.Kind, o.ProposalID, o.Error)
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/evanschultz/prio/internal/app"
	"github.com/evanschultz/prio/internal/domain"
	"github.com/evanschultz/prio/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// markdownWidth is the wrap width for ls --markdown.
const markdownWidth = 80

func newAddCmd(c *cli) *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add an item to the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context(), "add", false)
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.list.Draft().Priority
			if cmd.Flags().Changed("priority") {
				if p, err = domain.ParsePriority(priority); err != nil {
					return err
				}
			}
			item, added, err := s.list.AddItem(cmd.Context(), strings.Join(args, " "), p)
			if err != nil {
				return err
			}
			if !added {
				return domain.ErrEmptyText
			}
			fmt.Fprintf(c.stdout, "added %d [%s] %s\n", item.ID, item.Priority.Label(), item.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "urgent, medium or low (default from config)")
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	var (
		filter   string
		markdown bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print items for a filter",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open(cmd.Context(), "ls", false)
			if err != nil {
				return err
			}
			defer s.Close()

			f := domain.FilterAll
			if cmd.Flags().Changed("filter") {
				if f, err = domain.ParseFilter(filter); err != nil {
					return err
				}
			}
			if err := s.list.SetFilter(f); err != nil {
				return err
			}
			items := s.list.FilteredItems()
			counts := s.list.Counts()
			if markdown {
				fmt.Fprint(c.stdout, tui.RenderMarkdown(itemsMarkdown(f, items, counts), markdownWidth))
				return nil
			}
			if err := writeItemsTable(c.stdout, items, counts); err != nil {
				return err
			}
			at, ok, err := s.lastSaved(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(c.stdout, "last saved %s\n", at.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(domain.FilterAll), "all, urgent, medium or low")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the list as styled markdown")
	return cmd
}

func writeItemsTable(w io.Writer, items []domain.Item, counts domain.Counts) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRIORITY\tTEXT")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", it.ID, it.Priority.Label(), it.Text)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, countsLine(counts))
	return err
}

func itemsMarkdown(f domain.Filter, items []domain.Item, counts domain.Counts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%d)\n\n", f.Label(), len(items))
	if len(items) == 0 {
		b.WriteString("_No items for this filter._\n")
	}
	for _, it := range items {
		fmt.Fprintf(&b, "- **%s** %s `#%d`\n", it.Priority.Label(), it.Text, it.ID)
	}
	fmt.Fprintf(&b, "\n%s\n", countsLine(counts))
	return b.String()
}

func countsLine(c domain.Counts) string {
	return fmt.Sprintf("total %d • urgent %d • medium %d • low %d", c.Total, c.Urgent, c.Medium, c.Low)
}

func newEditCmd(c *cli) *cobra.Command {
	var text, priority string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the text or priority of one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("text") && !cmd.Flags().Changed("priority") {
				return errors.New("nothing to edit: pass --text and/or --priority")
			}
			s, err := c.open(cmd.Context(), "edit", false)
			if err != nil {
				return err
			}
			defer s.Close()

			item, ok := s.list.ItemByID(ids[0])
			if !ok {
				return fmt.Errorf("item %d: %w", ids[0], app.ErrNotFound)
			}
			newText, newPriority := item.Text, item.Priority
			if cmd.Flags().Changed("text") {
				newText = text
			}
			if cmd.Flags().Changed("priority") {
				if newPriority, err = domain.ParsePriority(priority); err != nil {
					return err
				}
			}
			if _, err := s.list.EditItem(cmd.Context(), item.ID, newText, newPriority); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "edited %d [%s] %s\n", item.ID, newPriority.Label(), newText)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "replacement text (may be empty)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "urgent, medium or low")
	return cmd
}

func newRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id...>",
		Aliases: []string{"delete"},
		Short:   "Delete items by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			s, err := c.open(cmd.Context(), "rm", false)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range ids {
				if _, ok := s.list.ItemByID(id); !ok {
					return fmt.Errorf("item %d: %w", id, app.ErrNotFound)
				}
			}
			s.list.ClearSelection()
			for _, id := range ids {
				if !s.list.IsSelected(id) {
					s.list.ToggleSelect(id)
				}
			}
			removed, err := s.list.DeleteSelected(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "deleted %d item%s\n", removed, plural(removed))
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open(cmd.Context(), "export", false)
			if err != nil {
				return err
			}
			defer s.Close()

			snap := s.list.ExportSnapshot(time.Now(), uuid.NewString)
			encoded, err := encodeSnapshot(snap, format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = c.stdout.Write(encoded)
				return err
			}
			if err := os.WriteFile(out, encoded, 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			s.logger.Info("snapshot exported", "path", out, "count", len(snap.Items))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file path, or - for stdout")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	var format, in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace every item with a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(in) == "" {
				return errors.New("--in is required")
			}
			content, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			snap, err := decodeSnapshot(content, snapshotFormat(format, in))
			if err != nil {
				return err
			}
			s, err := c.open(cmd.Context(), "import", false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.list.ImportSnapshot(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "imported %d item%s\n", len(snap.Items), plural(len(snap.Items)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "snapshot file to read")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the file extension)")
	return cmd
}

func newPathsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := c.paths()
			if err != nil {
				return err
			}
			configPath := paths.ConfigPath
			if strings.TrimSpace(c.configPath) != "" {
				configPath = c.configPath
			}
			dbPath := paths.DBPath
			if strings.TrimSpace(c.dbPath) != "" {
				dbPath = c.dbPath
			}
			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "config\t%s\n", configPath)
			fmt.Fprintf(tw, "data\t%s\n", paths.DataDir)
			fmt.Fprintf(tw, "db\t%s\n", dbPath)
			fmt.Fprintf(tw, "json\t%s\n", paths.JSONPath)
			return tw.Flush()
		},
	}
}

func encodeSnapshot(snap app.Snapshot, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		encoded, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		return append(encoded, '\n'), nil
	case "yaml", "yml":
		encoded, err := yaml.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		return encoded, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func decodeSnapshot(content []byte, format string) (app.Snapshot, error) {
	var snap app.Snapshot
	switch format {
	case "json":
		if err := json.Unmarshal(content, &snap); err != nil {
			return app.Snapshot{}, fmt.Errorf("decode snapshot json: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(content, &snap); err != nil {
			return app.Snapshot{}, fmt.Errorf("decode snapshot yaml: %w", err)
		}
	default:
		return app.Snapshot{}, fmt.Errorf("unsupported import format %q", format)
	}
	return snap, nil
}

// snapshotFormat prefers the explicit flag, then the file extension.
func snapshotFormat(flag, path string) string {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "yaml", "yml":
		return "yaml"
	case "json":
		return "json"
	case "":
	default:
		return flag
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return "yaml"
	}
	return "json"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

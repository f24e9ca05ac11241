package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/client"
)

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "Work with tracked symptoms",
}

var symptomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked symptoms, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := client.New(serverURL, token).ListSymptoms(cmd.Context())
		if err != nil {
			return err
		}
		return printSymptoms(cmd.OutOrStdout(), recs)
	},
}

// insightsCmd fetches the user's records and sends them for analysis in a
// single request.
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate AI insights from your tracked symptoms",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL, token)
		recs, err := c.ListSymptoms(cmd.Context())
		if err != nil {
			return err
		}
		text, err := client.NewInvoker(c).Generate(cmd.Context(), recs)
		if err != nil {
			return fmt.Errorf("insights: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	},
}

func printSymptoms(out io.Writer, recs []internal.SymptomRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tNAME\tSEVERITY\tCATEGORY\tFIELDS")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%d (%s)\t%s\t%s\n", r.Date, r.Name, r.Severity, internal.BucketFor(r.Severity), r.Category, formatFields(r.CustomFields))
	}
	return w.Flush()
}

func formatFields(fields internal.CustomFields) string {
	if len(fields) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + fields[k].String()
	}
	return strings.Join(parts, " ")
}

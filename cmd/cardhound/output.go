package main

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatPrice renders a dollar amount with grouped thousands, or a dash
// when no value is available.
func formatPrice(value *float64) string {
	if value == nil {
		return "-"
	}
	return pricePrinter.Sprintf("$%.2f", *value)
}

func formatCount(value int64) string {
	return pricePrinter.Sprintf("%d", value)
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

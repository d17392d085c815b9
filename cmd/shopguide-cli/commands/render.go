package commands

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"shopguide-backend/lib/scrapers/guidecom"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderProducts(products []guidecom.Product) {
	t := newTable()
	t.AppendHeader(table.Row{"Name", "Price", "Specifications"})
	for _, p := range products {
		t.AppendRow(table.Row{p.Name, p.Price, p.Specifications})
	}
	t.Render()
}

// writeCsv exports the result table with a UTF-8 BOM so spreadsheet
// applications pick up the Hangul columns correctly.
func writeCsv(path string, products []guidecom.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "price", "specifications"}); err != nil {
		return err
	}
	for _, p := range products {
		if err := w.Write([]string{p.Name, p.Price, p.Specifications}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func maybeWriteCsv(products []guidecom.Product) {
	if *csvPath == "" {
		return
	}
	if err := writeCsv(*csvPath, products); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write csv:", err)
		os.Exit(1)
	}
}

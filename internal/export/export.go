// Package export writes the ordinance and resolution registers to an XLSX
// workbook for clerks who review reconciliation output in a spreadsheet.
package export

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/store"
)

// Result summarizes one register export.
type Result struct {
	Ordinances  int
	Resolutions int
}

var ordinanceHeader = []string{"Number", "Title", "Status", "Introduced", "Adopted", "Municode URL", "Summary"}

var resolutionHeader = []string{"Number", "Title", "Status", "Introduced", "Adopted", "Verified"}

// WriteRegister writes all ordinances and resolutions to an XLSX file with
// one sheet per record type.
func WriteRegister(ctx context.Context, st store.Store, path string) (*Result, error) {
	ordinances, err := st.ListOrdinances(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "export: list ordinances")
	}
	resolutions, err := st.ListResolutions(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "export: list resolutions")
	}

	f := xlsx.NewFile()

	ordSheet, err := f.AddSheet("Ordinances")
	if err != nil {
		return nil, eris.Wrap(err, "export: add ordinances sheet")
	}
	writeRow(ordSheet, ordinanceHeader)
	for _, o := range ordinances {
		writeRow(ordSheet, []string{
			o.Number,
			o.Title,
			string(o.Status),
			formatDate(o.IntroducedDate),
			formatDate(o.AdoptedDate),
			o.MunicodeURL,
			o.Summary,
		})
	}

	resSheet, err := f.AddSheet("Resolutions")
	if err != nil {
		return nil, eris.Wrap(err, "export: add resolutions sheet")
	}
	writeRow(resSheet, resolutionHeader)
	for _, r := range resolutions {
		writeRow(resSheet, []string{
			r.Number,
			r.Title,
			string(r.Status),
			formatDate(r.IntroducedDate),
			formatDate(r.AdoptedDate),
			formatBool(r.OutcomeVerified),
		})
	}

	if err := f.Save(path); err != nil {
		return nil, eris.Wrapf(err, "export: save %s", path)
	}

	zap.L().With(zap.String("component", "export")).Info("register written",
		zap.String("path", path),
		zap.Int("ordinances", len(ordinances)),
		zap.Int("resolutions", len(resolutions)))

	return &Result{Ordinances: len(ordinances), Resolutions: len(resolutions)}, nil
}

func writeRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

const maxSheetNameLen = 31

// WriteXLSX writes a table to an XLSX workbook at path. The sheet name is
// derived from the table title, truncated to the spreadsheet limit.
func WriteXLSX(table *model.Table, path string) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(sheetName(table.Title))
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range table.Columns {
		header.AddCell().SetString(col)
	}

	for _, row := range table.Rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func sheetName(title string) string {
	if title == "" {
		return "Leads"
	}
	// Sheet names cannot contain these characters.
	cleaned := make([]rune, 0, len(title))
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			cleaned = append(cleaned, ' ')
		default:
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) > maxSheetNameLen {
		cleaned = cleaned[:maxSheetNameLen]
	}
	return string(cleaned)
}

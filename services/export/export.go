package export

import (
	"io"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/pkg/errors"
)

// SheetName is the single worksheet of an export
const SheetName = "Лоты"

const timestampLayout = "2006-01-02 15:04:05"

// Columns is the fixed header row
var Columns = []string{
	"Номер лота",
	"Название",
	"Вид торгов",
	"Начальная цена",
	"Текущая цена",
	"Валюта",
	"Регион",
	"Адрес",
	"Дата окончания подачи заявок",
	"Статус",
	"Организатор",
	"Ссылка на лот",
	"Дата создания",
	"Дата обновления",
}

// FileName returns the export file name for the given moment
func FileName(now time.Time) string {
	return "auctions_export_" + now.Format("20060102_150405") + ".xlsx"
}

// Write renders lots as an xlsx workbook to w
func Write(w io.Writer, lots []model.Lot) error {
	f, err := build(lots)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return errors.NewExport("export", "failed to write workbook", err)
	}
	return nil
}

// SaveFile writes lots to dir under FileName(now) and returns the file path
func SaveFile(dir string, now time.Time, lots []model.Lot) (string, error) {
	f, err := build(lots)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(dir, FileName(now))
	if err := f.SaveAs(path); err != nil {
		return "", errors.NewExport("export", "failed to save workbook", err)
	}
	return path, nil
}

func build(lots []model.Lot) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, errors.NewExport("export", "failed to name sheet", err)
	}

	if err := writeRows(f, lots); err != nil {
		_ = f.Close()
		return nil, errors.NewExport("export", "failed to fill sheet", err)
	}
	return f, nil
}

func writeRows(f *excelize.File, lots []model.Lot) error {
	if err := setRow(f, 1, lo.ToAnySlice(Columns)); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, lot := range lots {
		if err := setRow(f, i+2, row(lot)); err != nil {
			return err
		}
	}

	return f.SetColWidth(SheetName, "A", "N", 22)
}

func row(lot model.Lot) []interface{} {
	return []interface{}{
		lot.LotNumber,
		lot.Title,
		lot.LotType,
		price(lot.InitialPrice),
		price(lot.CurrentPrice),
		lot.Currency,
		lot.Region,
		lot.Address,
		lot.ApplicationDeadline,
		lot.Status,
		lot.Organizer,
		lot.LotURL,
		timestamp(lot.CreatedAt),
		timestamp(lot.UpdatedAt),
	}
}

// setRow writes values from column A; nil values leave the cell empty
func setRow(f *excelize.File, rowNum int, values []interface{}) error {
	for col, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func price(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

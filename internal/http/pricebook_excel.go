package httpapi

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shaed-rp/Endera/internal/repository"
)

// PriceBookChassisHeader 价格手册底盘工作表表头
var PriceBookChassisHeader = []string{
	"Series Code",
	"Model Description",
	"Drivetrain",
	"Wheelbase (in)",
	"GVWR (lbs)",
	"Dealer Invoice",
	"Suggested Retail",
	"Destination Charge",
}

// PriceBookOptionsHeader 价格手册选装件工作表表头
var PriceBookOptionsHeader = []string{
	"Option Code",
	"Option Name",
	"Description",
	"Dealer Invoice",
	"Suggested Retail",
	"Credit",
	"No Charge",
}

// BuildPriceBookWorkbook 从目录生成价格手册：底盘、选装件各一张工作表，
// 价格列取 is_current 记录，缺价条目仍列出（价格列留空）
func BuildPriceBookWorkbook(ctx context.Context, catalog repository.CatalogRepository) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := buildChassisSheet(ctx, f, catalog, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := buildOptionsSheet(ctx, f, catalog, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	return f, nil
}

func buildChassisSheet(ctx context.Context, f *excelize.File, catalog repository.CatalogRepository, headerStyle int) error {
	const sheetName = "Chassis"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := writeSheetHeader(f, sheetName, PriceBookChassisHeader, headerStyle); err != nil {
		return err
	}

	chassisList, err := catalog.ListChassis(ctx)
	if err != nil {
		return fmt.Errorf("failed to list chassis: %w", err)
	}

	for i, chassis := range chassisList {
		row := i + 2
		values := []any{
			chassis.SeriesCode,
			chassis.ModelDescription,
			chassis.DrivetrainType,
			chassis.WheelbaseInches,
			chassis.GVWRPounds,
			nil, nil, nil,
		}
		pricing, err := catalog.GetChassisPricing(ctx, chassis.ID)
		if err != nil {
			return fmt.Errorf("failed to get chassis pricing: %w", err)
		}
		if pricing != nil {
			values[5] = pricing.DealerInvoicePrice
			values[6] = pricing.SuggestedRetailPrice
			values[7] = pricing.DestinationDeliveryCharge
		}
		if err := writeSheetRow(f, sheetName, row, values); err != nil {
			return err
		}
	}
	return nil
}

func buildOptionsSheet(ctx context.Context, f *excelize.File, catalog repository.CatalogRepository, headerStyle int) error {
	const sheetName = "Options"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeSheetHeader(f, sheetName, PriceBookOptionsHeader, headerStyle); err != nil {
		return err
	}

	options, err := catalog.ListOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list options: %w", err)
	}

	for i, option := range options {
		row := i + 2
		values := []any{
			option.OptionCode,
			option.OptionName,
			option.Description,
			nil, nil, nil, nil,
		}
		pricing, err := catalog.GetOptionPricing(ctx, option.ID)
		if err != nil {
			return fmt.Errorf("failed to get option pricing: %w", err)
		}
		if pricing != nil {
			values[3] = pricing.DealerInvoicePrice
			values[4] = pricing.SuggestedRetailPrice
			values[5] = pricing.IsCredit
			values[6] = pricing.IsNoCharge
		}
		if err := writeSheetRow(f, sheetName, row, values); err != nil {
			return err
		}
	}
	return nil
}

func writeSheetHeader(f *excelize.File, sheetName string, headers []string, headerStyle int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// 统一列宽，价格手册字段长度差异不大
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 22); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheetName string, row int, values []any) error {
	for col, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

package models

import (
	"context"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

type ExcelExporter interface {
	GetCellValues() []interface{}
}

var policyExportHeadings = []string{
	"PolicyId", "PolicyNumber", "PolicyType", "CustomerId",
	"PremiumAmount", "CoverageAmount", "StartDate", "EndDate", "Status",
}

func (p Policy) GetCellValues() []interface{} {
	return []interface{}{
		p.ID, p.PolicyNumber, p.PolicyType, p.CustomerId,
		p.PremiumAmount.InexactFloat64(), p.CoverageAmount.InexactFloat64(),
		p.StartDate.String(), p.EndDate.String(), string(p.Status),
	}
}

var productExportHeadings = []string{
	"ProductId", "Name", "ProductType", "BasePremium",
	"CoverageAmount", "Deductible", "Status",
}

func (p Product) GetCellValues() []interface{} {
	return []interface{}{
		p.ID, p.Name, string(p.ProductType), p.BasePremium.InexactFloat64(),
		p.CoverageAmount.InexactFloat64(), p.Deductible.InexactFloat64(), string(p.Status),
	}
}

// ExportPolicies builds a workbook of every policy matching filter.
func ExportPolicies(ctx context.Context, filter PolicyFilter) (*excelize.File, error) {
	var rows []ExcelExporter
	for policy, err := range IteratePolicies(ctx, filter, allRows) {
		if err != nil {
			return nil, err
		}
		rows = append(rows, policy)
	}
	return buildWorkbook(rows, policyExportHeadings...)
}

func ExportProducts(ctx context.Context, filter ProductFilter) (*excelize.File, error) {
	products, err := ListProducts(ctx, filter, allRows)
	if err != nil {
		return nil, err
	}
	rows := make([]ExcelExporter, 0, len(products))
	for _, p := range products {
		rows = append(rows, p)
	}
	return buildWorkbook(rows, productExportHeadings...)
}

func buildWorkbook(data []ExcelExporter, headings ...string) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, d := range data {
		for c, value := range d.GetCellValues() {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

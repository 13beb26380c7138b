// Package export renders generated artifacts to downloadable files.
package export

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/pitchforge/pitchforge/internal/model"
)

// Workbook renders a financial model as a four-sheet XLSX workbook.
// Amounts keep the model convention of ten-thousand CNY (万元).
func Workbook(fm *model.FinancialModel) (*xlsx.File, error) {
	if fm == nil {
		return nil, eris.New("xlsx: financial model required")
	}

	f := xlsx.NewFile()

	if err := addRevenueSheet(f, fm.RevenueStreams); err != nil {
		return nil, err
	}
	if err := addCostSheet(f, fm.CostStructure); err != nil {
		return nil, err
	}
	if err := addProjectionSheet(f, fm.Projections); err != nil {
		return nil, err
	}
	if err := addSummarySheet(f, fm); err != nil {
		return nil, err
	}
	return f, nil
}

// Write renders fm and writes the workbook to w.
func Write(w io.Writer, fm *model.FinancialModel) error {
	f, err := Workbook(fm)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}

// WriteFile renders fm and saves the workbook at path.
func WriteFile(path string, fm *model.FinancialModel) error {
	f, err := Workbook(fm)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

func addRevenueSheet(f *xlsx.File, streams []model.RevenueStream) error {
	sheet, err := f.AddSheet("收入结构")
	if err != nil {
		return eris.Wrap(err, "xlsx: add revenue sheet")
	}
	addHeader(sheet, "名称", "说明", "模式", "定价（万元）", "单位")
	for _, s := range streams {
		row := sheet.AddRow()
		row.AddCell().Value = s.Name
		row.AddCell().Value = s.Description
		row.AddCell().Value = string(s.Model)
		row.AddCell().SetFloat(s.Pricing)
		row.AddCell().Value = s.Unit
	}
	return nil
}

func addCostSheet(f *xlsx.File, costs []model.CostItem) error {
	sheet, err := f.AddSheet("成本结构")
	if err != nil {
		return eris.Wrap(err, "xlsx: add cost sheet")
	}
	addHeader(sheet, "类别", "名称", "说明", "金额（万元）", "频率")
	for _, c := range costs {
		row := sheet.AddRow()
		row.AddCell().Value = string(c.Category)
		row.AddCell().Value = c.Name
		row.AddCell().Value = c.Description
		row.AddCell().SetFloat(c.Amount)
		row.AddCell().Value = string(c.Frequency)
	}
	return nil
}

func addProjectionSheet(f *xlsx.File, projections []model.Projection) error {
	sheet, err := f.AddSheet("财务预测")
	if err != nil {
		return eris.Wrap(err, "xlsx: add projection sheet")
	}
	addHeader(sheet, "年份", "收入（万元）", "成本（万元）", "利润（万元）", "用户数", "是否盈亏平衡")
	for _, p := range projections {
		row := sheet.AddRow()
		row.AddCell().SetInt(p.Year)
		row.AddCell().SetFloat(p.Revenue)
		row.AddCell().SetFloat(p.Costs)
		row.AddCell().SetFloat(p.Profit)
		row.AddCell().SetInt64(p.Users)
		if p.Breakeven {
			row.AddCell().Value = "是"
		} else {
			row.AddCell().Value = "否"
		}
	}
	return nil
}

func addSummarySheet(f *xlsx.File, fm *model.FinancialModel) error {
	sheet, err := f.AddSheet("关键指标")
	if err != nil {
		return eris.Wrap(err, "xlsx: add summary sheet")
	}

	addHeader(sheet, "指标", "数值")
	addMetric(sheet, "LTV（元）", fm.Metrics.LTV)
	addMetric(sheet, "CAC（元）", fm.Metrics.CAC)
	addMetric(sheet, "LTV/CAC", fm.Metrics.LTVCACRatio)
	addMetric(sheet, "月燃烧率（万元）", fm.Metrics.BurnRate)
	addMetric(sheet, "资金跑道（月）", fm.Metrics.Runway)
	addMetric(sheet, "融资需求（万元）", fm.FundingNeeds.Amount)

	sheet.AddRow()
	addHeader(sheet, "资金用途")
	for _, u := range fm.FundingNeeds.Usage {
		sheet.AddRow().AddCell().Value = u
	}

	sheet.AddRow()
	addHeader(sheet, "里程碑")
	for i, m := range fm.FundingNeeds.Milestone {
		sheet.AddRow().AddCell().Value = strconv.Itoa(i+1) + ". " + m
	}

	sheet.AddRow()
	addHeader(sheet, "关键假设")
	for _, a := range fm.Assumptions {
		sheet.AddRow().AddCell().Value = a
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, title := range titles {
		row.AddCell().Value = title
	}
}

func addMetric(sheet *xlsx.Sheet, name string, value float64) {
	row := sheet.AddRow()
	row.AddCell().Value = name
	row.AddCell().SetFloat(value)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/FurnBooks/furniture_books_app/internal/apperrors"
	"github.com/FurnBooks/furniture_books_app/internal/core/domain"
	portsrepo "github.com/FurnBooks/furniture_books_app/internal/core/ports/repositories"
	portssvc "github.com/FurnBooks/furniture_books_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	billRepo      portsrepo.BillRepositoryFacade
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingCompanyAuthorizer sets the company authorizer for the reporting service.
func WithReportingCompanyAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.CompanyAuthorizer = authorizer
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(reportingRepo portsrepo.ReportingRepository, billRepo portsrepo.BillRepositoryFacade, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: reportingRepo,
		billRepo:      billRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		s.LogError(ctx, err, "User not authorized to view trial balance report",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return nil, err
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, companyID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("company_id", companyID),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}

	s.LogInfo(ctx, "Trial balance report generated",
		slog.String("company_id", companyID),
		slog.Int("row_count", len(rows)))
	return &domain.TrialBalance{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// summarizeByRate folds bills into per-rate buckets, ordered by rate.
func summarizeByRate(bills []domain.Bill) []domain.GSTRateSummary {
	buckets := make(map[string]*domain.GSTRateSummary)
	for _, b := range bills {
		key := b.TotalGSTRate.String()
		row, ok := buckets[key]
		if !ok {
			row = &domain.GSTRateSummary{Rate: b.TotalGSTRate}
			buckets[key] = row
		}
		row.TaxableValue = row.TaxableValue.Add(b.SubTotal)
		row.SGST = row.SGST.Add(b.SGSTAmount)
		row.CGST = row.CGST.Add(b.CGSTAmount)
		row.TotalTax = row.TotalTax.Add(b.TotalGST)
		row.BillCount++
	}

	rows := make([]domain.GSTRateSummary, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Rate.LessThan(rows[j].Rate)
	})
	return rows
}

// GSTSummary generates a period summary of GST on sales and purchases.
// Net payable is the tax collected on outward supplies less the tax paid on
// inward supplies.
func (s *reportingService) GSTSummary(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.GSTSummary, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		s.LogError(ctx, err, "User not authorized to view GST summary",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return nil, err
	}

	sales, err := s.billRepo.FindBillsByPeriod(ctx, companyID, domain.BillSales, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve sales bills for GST summary",
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve sales bills: %w", err)
	}
	purchases, err := s.billRepo.FindBillsByPeriod(ctx, companyID, domain.BillPurchase, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve purchase bills for GST summary",
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve purchase bills: %w", err)
	}

	outward := summarizeByRate(sales)
	inward := summarizeByRate(purchases)

	collected := decimal.Zero
	for _, row := range outward {
		collected = collected.Add(row.TotalTax)
	}
	paid := decimal.Zero
	for _, row := range inward {
		paid = paid.Add(row.TotalTax)
	}

	s.LogInfo(ctx, "GST summary generated",
		slog.String("company_id", companyID),
		slog.Int("sales_bills", len(sales)),
		slog.Int("purchase_bills", len(purchases)))
	return &domain.GSTSummary{
		CompanyID:  companyID,
		From:       from,
		To:         to,
		Outward:    outward,
		Inward:     inward,
		NetPayable: collected.Sub(paid),
	}, nil
}

// GSTSummaryXLSX renders the GST summary as an Excel workbook.
func (s *reportingService) GSTSummaryXLSX(ctx context.Context, companyID string, from, to time.Time, userID string) ([]byte, error) {
	summary, err := s.GSTSummary(ctx, companyID, from, to, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "GST Summary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", apperrors.ErrInternal)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("GST Summary %s to %s",
		summary.From.Format("02-01-2006"), summary.To.Format("02-01-2006")))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	headers := []string{"Rate %", "Taxable Value", "SGST", "CGST", "Total Tax", "Bills"}
	writeSection := func(title string, rows []domain.GSTRateSummary, startRow int) int {
		row := startRow
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), title)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
		row++
		for i, h := range headers {
			cell := fmt.Sprintf("%c%d", 'A'+i, row)
			f.SetCellValue(sheetName, cell, h)
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
		row++
		for _, r := range rows {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Rate.String())
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.TaxableValue.StringFixed(2))
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.SGST.StringFixed(2))
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.CGST.StringFixed(2))
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.TotalTax.StringFixed(2))
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.BillCount)
			row++
		}
		return row + 1
	}

	next := writeSection("Outward Supplies (Sales)", summary.Outward, 3)
	next = writeSection("Inward Supplies (Purchases)", summary.Inward, next)

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", next), "Net GST Payable")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", next), fmt.Sprintf("A%d", next), headerStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", next), summary.NetPayable.StringFixed(2))

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "F", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.LogError(ctx, err, "Failed to render GST summary workbook",
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to render workbook: %w", apperrors.ErrInternal)
	}
	return buf.Bytes(), nil
}

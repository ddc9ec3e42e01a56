package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
	"rentalshop-backend/internal/utils"
)

type reportService struct {
	rentalRepo   repository.RentalRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

func NewReportService(
	rentalRepo repository.RentalRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) ReportService {
	return &reportService{
		rentalRepo:   rentalRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

// Revenue groups invoice totals by the period of their return date. Custom
// reports need both bounds and are bucketed per day.
func (s *reportService) Revenue(ctx context.Context, timeframe domain.RevenueTimeframe, from, to *time.Time) (*domain.RevenueReport, error) {
	logger.EnterMethod("reportService.Revenue", "timeframe", timeframe)

	var period func(time.Time) string
	switch timeframe {
	case domain.RevenueDaily, domain.RevenueCustom:
		period = utils.FormatDate
	case domain.RevenueWeekly:
		period = func(t time.Time) string { return utils.FormatDate(utils.StartOfWeek(t)) }
	case domain.RevenueMonthly:
		period = func(t time.Time) string { return utils.StartOfMonth(t).Format("2006-01") }
	default:
		return nil, fmt.Errorf("%w: unknown timeframe %q", domain.ErrInvalidInput, timeframe)
	}
	if timeframe == domain.RevenueCustom && (from == nil || to == nil) {
		return nil, fmt.Errorf("%w: custom range needs from and to", domain.ErrInvalidInput)
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: range ends before it starts", domain.ErrInvalidInput)
	}

	invoices, err := allInvoices(ctx, s.rentalRepo, "")
	if err != nil {
		logger.ExitMethodWithError("reportService.Revenue", err)
		return nil, err
	}

	buckets := map[string]*domain.RevenueBucket{}
	report := &domain.RevenueReport{
		Timeframe:         timeframe,
		Buckets:           []domain.RevenueBucket{},
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, inv := range invoices {
		if !inRange(inv, from, to) {
			continue
		}
		key := period(inv.Date)
		b, ok := buckets[key]
		if !ok {
			b = &domain.RevenueBucket{Period: key, Revenue: decimal.Zero}
			buckets[key] = b
		}
		b.Revenue = b.Revenue.Add(inv.TotalAmount)
		b.Orders++
		report.TotalRevenue = report.TotalRevenue.Add(inv.TotalAmount)
		report.TotalOrders++
	}

	for _, b := range buckets {
		report.Buckets = append(report.Buckets, *b)
	}
	sort.Slice(report.Buckets, func(i, j int) bool { return report.Buckets[i].Period < report.Buckets[j].Period })
	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue.Div(decimal.NewFromInt(int64(report.TotalOrders))).Round(2)
	}

	logger.ExitMethod("reportService.Revenue", "buckets", len(report.Buckets), "total", report.TotalRevenue.String())
	return report, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	logger.EnterMethod("reportService.Dashboard")

	rentals, err := s.rentalRepo.List(ctx, domain.RentalFilter{})
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		TotalRevenue:    decimal.Zero,
		TotalReceivable: decimal.Zero,
		CustomerCount:   len(customers),
		ByCustomer:      []domain.CustomerRentalSummary{},
	}

	byCustomer := map[string]int{}
	for _, r := range rentals {
		for _, inv := range r.Invoices {
			summary.TotalRevenue = summary.TotalRevenue.Add(inv.TotalAmount)
		}
		if !r.Status.IsOpen() {
			continue
		}
		summary.OpenRentals++

		i, ok := byCustomer[r.CustomerID]
		if !ok {
			i = len(summary.ByCustomer)
			byCustomer[r.CustomerID] = i
			summary.ByCustomer = append(summary.ByCustomer, domain.CustomerRentalSummary{
				CustomerID:   r.CustomerID,
				CustomerName: r.CustomerName,
				Advance:      decimal.Zero,
			})
		}
		entry := &summary.ByCustomer[i]
		entry.ItemsOut += r.OutstandingQuantity()
		entry.RentalIDs = append(entry.RentalIDs, r.ID)
		entry.Advance = entry.Advance.Add(r.AdvancePayment)
	}

	for _, c := range customers {
		summary.TotalReceivable = summary.TotalReceivable.Add(c.TotalDebt)
	}

	for _, p := range products {
		summary.UnitsTotal += p.TotalQuantity
		summary.UnitsAvailable += p.AvailableQuantity
		summary.UnitsRented += p.RentedQuantity()
		if p.IsLowStock() {
			summary.LowStockCount++
		}
	}

	logger.ExitMethod("reportService.Dashboard", "openRentals", summary.OpenRentals)
	return summary, nil
}

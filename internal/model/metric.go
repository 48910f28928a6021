package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricResult is the uniform row shape for grouped metrics. The denominator
// behind Percentage is always the one the producing query declared; there is
// no implicit global total.
type MetricResult struct {
	Key        string   `json:"key"`
	GroupedBy  string   `json:"grouped_by,omitempty"`
	Count      int64    `json:"count"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage_of_denominator,omitempty"`
}

type GroupCount struct {
	Key   string
	Count int64
}

type RevenueSummary struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
}

type AdmissionCounts struct {
	Admitted   int64
	Discharged int64
}

type ClaimCounts struct {
	Total int64
	Paid  int64
}

type OutstandingInvoices struct {
	Count   int64
	Balance decimal.Decimal
}

type PatientDemographic struct {
	DateOfBirth *time.Time
	Gender      string
}

type InventoryItem struct {
	Name            string
	DepartmentClass string
	Quantity        int64
	ReorderLevel    int64
	UnitPrice       decimal.Decimal
	ExpiryDate      *time.Time
}

package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseHours        = 4
	DefaultOvertimeInterval = 10
)

var DefaultOvertimeRate = decimal.NewFromInt(50)

// SalaryConfig is the overtime policy applied to one calculation. Callers
// pass it explicitly so concurrent batches with different rates never share
// state.
type SalaryConfig struct {
	BaseHours        int             `json:"baseHours"`
	OvertimeInterval int             `json:"overtimeInterval"`
	OvertimeRate     decimal.Decimal `json:"overtimeRate"`
}

func DefaultSalaryConfig() SalaryConfig {
	return SalaryConfig{
		BaseHours:        DefaultBaseHours,
		OvertimeInterval: DefaultOvertimeInterval,
		OvertimeRate:     DefaultOvertimeRate,
	}
}

func (c SalaryConfig) Validate() error {
	if c.BaseHours < 0 {
		return errors.New("base hours must not be negative")
	}
	if c.OvertimeInterval <= 0 {
		return errors.New("overtime interval must be positive")
	}
	if c.OvertimeRate.IsNegative() {
		return errors.New("overtime rate must not be negative")
	}
	return nil
}

// WithOvertimeRate returns a copy of c using rate.
func (c SalaryConfig) WithOvertimeRate(rate decimal.Decimal) SalaryConfig {
	c.OvertimeRate = rate
	return c
}

func (c SalaryConfig) baseMinutes() int {
	return c.BaseHours * 60
}

// Shift is the input of one pay calculation. Times are canonical HH:mm.
type Shift struct {
	StartTime  string
	EndTime    string
	BaseSalary decimal.Decimal
	Allowance  decimal.Decimal
}

type Result struct {
	Minutes           int             `json:"minutes"`
	Hours             decimal.Decimal `json:"hours"`
	OvertimeMinutes   int             `json:"overtimeMinutes"`
	OvertimeIntervals int             `json:"overtimeIntervals"`
	BaseSalary        decimal.Decimal `json:"baseSalary"`
	OvertimePay       decimal.Decimal `json:"overtimePay"`
	Allowance         decimal.Decimal `json:"allowance"`
	TotalSalary       decimal.Decimal `json:"totalSalary"`
}

// WorkedMinutes returns the minutes between start and end. An end earlier
// than the start is read as the next day; only one wrap is modelled.
func WorkedMinutes(start, end string) (int, error) {
	s, err := minutesOfDay(start)
	if err != nil {
		return 0, err
	}
	e, err := minutesOfDay(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		e += minutesPerDay
	}
	return e - s, nil
}

// RoundHours converts minutes to hours rounded to the nearest tenth.
func RoundHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(6)).Round(0).Div(decimal.NewFromInt(10))
}

// Calculate prices one shift. The base salary is paid in full whatever the
// length of the shift; every whole overtime interval past the base hours
// earns the overtime rate.
func Calculate(cfg SalaryConfig, shift Shift) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	minutes, err := WorkedMinutes(shift.StartTime, shift.EndTime)
	if err != nil {
		return Result{}, fmt.Errorf("calculate shift: %w", err)
	}

	res := Result{
		Minutes:     minutes,
		Hours:       RoundHours(minutes),
		BaseSalary:  shift.BaseSalary,
		OvertimePay: decimal.Zero,
		Allowance:   shift.Allowance,
	}

	if minutes > cfg.baseMinutes() {
		res.OvertimeMinutes = minutes - cfg.baseMinutes()
		res.OvertimeIntervals = res.OvertimeMinutes / cfg.OvertimeInterval
		res.OvertimePay = cfg.OvertimeRate.Mul(decimal.NewFromInt(int64(res.OvertimeIntervals)))
	}

	res.TotalSalary = res.BaseSalary.Add(res.OvertimePay).Add(res.Allowance)
	return res, nil
}

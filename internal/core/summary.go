package core

import (
	"fmt"
	"sort"
)

const (
	WeeklyDays    = 7
	MonthlyMonths = 6
)

// Point is a dated value fed into the chart aggregations.
type Point struct {
	Date  Date
	Value int64
}

// Series is a zero-filled, chronologically ordered chart series.
type Series struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

// Total returns the sum of all buckets.
func (s Series) Total() int64 {
	var t int64
	for _, v := range s.Values {
		t += v
	}
	return t
}

// WeeklySeries sums points per day for today-6 .. today.
// Points outside that range (including future-dated ones) are ignored.
func WeeklySeries(points []Point, today Date) Series {
	first := today.AddDays(-(WeeklyDays - 1))
	byDay := make(map[Date]int64, WeeklyDays)
	for _, p := range points {
		d := DateOf(p.Date.Time)
		if d.Before(first.Time) || d.After(today.Time) {
			continue
		}
		byDay[d] += p.Value
	}
	s := Series{
		Labels: make([]string, 0, WeeklyDays),
		Values: make([]int64, 0, WeeklyDays),
	}
	for i := 0; i < WeeklyDays; i++ {
		d := first.AddDays(i)
		s.Labels = append(s.Labels, d.Format("Mon, 02/01"))
		s.Values = append(s.Values, byDay[d])
	}
	return s
}

// MonthlySeries sums points per calendar month for the last six months,
// ending with today's month.
func MonthlySeries(points []Point, today Date) Series {
	current := today.MonthStart()
	byMonth := make(map[Date]int64)
	for _, p := range points {
		if p.Date.IsZero() {
			continue
		}
		byMonth[DateOf(p.Date.Time).MonthStart()] += p.Value
	}
	s := Series{
		Labels: make([]string, 0, MonthlyMonths),
		Values: make([]int64, 0, MonthlyMonths),
	}
	for i := MonthlyMonths - 1; i >= 0; i-- {
		m := current.AddMonths(-i)
		s.Labels = append(s.Labels, fmt.Sprintf("%s %d", m.Month(), m.Year()))
		s.Values = append(s.Values, byMonth[m])
	}
	return s
}

func ExpensePoints(es []Expense) []Point {
	out := make([]Point, 0, len(es))
	for _, e := range es {
		out = append(out, Point{Date: e.Date, Value: e.Amount.Rupiah})
	}
	return out
}

func IncomeProfitPoints(is []Income) []Point {
	out := make([]Point, 0, len(is))
	for _, i := range is {
		out = append(out, Point{Date: i.Date, Value: i.Profit().Rupiah})
	}
	return out
}

func IncomeSalePoints(is []Income) []Point {
	out := make([]Point, 0, len(is))
	for _, i := range is {
		out = append(out, Point{Date: i.Date, Value: i.Sale.Rupiah})
	}
	return out
}

// SortExpenses orders expenses newest first; ties keep storage order.
func SortExpenses(es []Expense) {
	sort.SliceStable(es, func(a, b int) bool {
		return es[a].Date.After(es[b].Date.Time)
	})
}

func SortIncomes(is []Income) {
	sort.SliceStable(is, func(a, b int) bool {
		return is[a].Date.After(is[b].Date.Time)
	})
}

// Recent returns at most n leading elements of xs.
func Recent[T any](xs []T, n int) []T {
	if n < 0 || len(xs) <= n {
		return xs
	}
	return xs[:n]
}

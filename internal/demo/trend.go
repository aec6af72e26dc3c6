package demo

import (
	"fmt"
	"math"
)

// Trend is an ordinary least-squares fit of y against the day index 0..n-1.
type Trend struct {
	Days      int     `json:"days" yaml:"days"`
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
	R2        float64 `json:"r2" yaml:"r2"`
	Current   float64 `json:"current" yaml:"current"`
	NextDay   float64 `json:"next_day_forecast" yaml:"next_day_forecast"`
	Direction string  `json:"direction" yaml:"direction"` // up, down, flat
}

// Fit computes the least-squares line through ys. At least two points are required.
func Fit(ys []float64) (Trend, error) {
	n := len(ys)
	if n < 2 {
		return Trend{}, fmt.Errorf("trend needs at least 2 points, got %d", n)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	mean := sumY / fn
	var ssRes, ssTot float64
	for i, y := range ys {
		predicted := intercept + slope*float64(i)
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - mean) * (y - mean)
	}

	r2 := 1.0
	if ssTot != 0 {
		r2 = 1 - ssRes/ssTot
	} else if ssRes != 0 {
		r2 = 0
	}

	current := ys[n-1]
	next := intercept + slope*fn
	direction := "flat"
	switch {
	case next > current:
		direction = "up"
	case next < current:
		direction = "down"
	}

	return Trend{
		Days:      n,
		Slope:     slope,
		Intercept: intercept,
		R2:        math.Round(r2*1000) / 1000,
		Current:   current,
		NextDay:   next,
		Direction: direction,
	}, nil
}

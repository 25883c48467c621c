package spline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// approx compares floats to within 1e-9.
var approx = cmpopts.EquateApprox(0, 1e-9)

// redRender is the default red channel mapped onto a 500x300 canvas with
// scales 12 and 100.
var redRender = []Point{
	{42, 270}, {83, 240}, {125, 270}, {167, 180}, {208, 270}, {250, 0},
	{292, 270}, {333, 180}, {375, 270}, {417, 240}, {458, 180},
}

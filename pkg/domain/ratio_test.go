package domain_test

import (
	"strconv"
	"testing"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func items(states ...domain.ItemState) []domain.Item {
	out := make([]domain.Item, len(states))
	for i, s := range states {
		out[i] = domain.Item{ID: domain.ID("i" + strconv.Itoa(i)), State: s}
	}
	return out
}

func TestComputeRatio(t *testing.T) {
	s, f, n := domain.StateSuccess, domain.StateFailure, domain.StateNeutral

	tests := []struct {
		name  string
		items []domain.Item
		want  *domain.Ratio
	}{
		{name: "no items", items: nil, want: nil},
		{name: "one neutral blocks the ratio", items: items(s, s, f, n), want: nil},
		{name: "half and half", items: items(s, s, f, f), want: &domain.Ratio{SucceededPct: 50, FailedPct: 50}},
		{name: "all succeeded", items: items(s, s), want: &domain.Ratio{SucceededPct: 100, FailedPct: 0}},
		{name: "thirds round independently", items: items(s, f, f), want: &domain.Ratio{SucceededPct: 33, FailedPct: 67}},
		{name: "rounding can exceed 100", items: items(s, s, s, s, s, f, f, f), want: &domain.Ratio{SucceededPct: 63, FailedPct: 38}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ComputeRatio(tt.items))
		})
	}
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestEsValida(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	ayer := now.Add(-24 * time.Hour)
	manana := now.Add(24 * time.Hour)

	cases := []struct {
		name string
		inv  Invitation
		want bool
	}{
		{"activa sin limites", Invitation{Active: true}, true},
		{"inactiva", Invitation{Active: false}, false},
		{"expirada", Invitation{Active: true, ExpiresAt: &ayer}, false},
		{"vigente", Invitation{Active: true, ExpiresAt: &manana}, true},
		{"cupo disponible", Invitation{Active: true, MaxUses: intPtr(3), UsesCount: 2}, true},
		{"cupo agotado", Invitation{Active: true, MaxUses: intPtr(3), UsesCount: 3}, false},
		{"cupo excedido", Invitation{Active: true, MaxUses: intPtr(1), UsesCount: 5}, false},
		{"ilimitada con muchos usos", Invitation{Active: true, UsesCount: 999}, true},
		{"expirada y agotada", Invitation{Active: true, ExpiresAt: &ayer, MaxUses: intPtr(1), UsesCount: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.inv.EsValida(now))
		})
	}
}

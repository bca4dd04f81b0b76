package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assetverse/internal/model"
)

func TestRules(t *testing.T) {
	hr := Principal{Email: "hr@acme.io", Role: model.RoleHR}
	emp := Principal{Email: "emp@acme.io", Role: model.RoleEmployee}

	tests := []struct {
		name string
		p    Principal
		rule Rule
		want bool
	}{
		{"hr gate passes hr", hr, HasRole(model.RoleHR), true},
		{"hr gate blocks employee", emp, HasRole(model.RoleHR), false},
		{"self passes", emp, IsEmail("emp@acme.io"), true},
		{"other email blocked", emp, IsEmail("hr@acme.io"), false},
		{"empty owner never matches", Principal{}, IsEmail(""), false},
		{"requester or owning hr, requester", emp, AnyOf(IsEmail("emp@acme.io"), AllOf(HasRole(model.RoleHR), IsEmail("hr@acme.io"))), true},
		{"requester or owning hr, foreign hr", Principal{Email: "x@other.io", Role: model.RoleHR}, AnyOf(IsEmail("emp@acme.io"), AllOf(HasRole(model.RoleHR), IsEmail("hr@acme.io"))), false},
		{"all of nothing is false", hr, AllOf(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule(tt.p))
		})
	}
}

func TestPrincipal_Can(t *testing.T) {
	hr := Principal{Email: "hr@acme.io", Role: model.RoleHR}
	assert.True(t, hr.Can(HasRole(model.RoleHR), IsEmail("hr@acme.io")))
	assert.False(t, hr.Can(HasRole(model.RoleHR), IsEmail("other@acme.io")))
}

package role

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		roles []string
		want  string
	}{
		{roles: []string{Marketing, SuperAdmin}, want: "Super Admin"},
		{roles: []string{Marketing, Backoffice}, want: "Backoffice"},
		{roles: []string{BranchManager}, want: "Branch Manager"},
		{roles: []string{Marketing}, want: "Marketing"},
		{roles: []string{"AUDITOR", "X"}, want: "AUDITOR"},
		{roles: nil, want: ""},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.roles); got != tt.want {
			t.Fatalf("DisplayName(%v) = %q, want %q", tt.roles, got, tt.want)
		}
	}
}

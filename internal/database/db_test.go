package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pass string
		want []string
	}{
		{
			"with password", "s3cret",
			[]string{"heka:s3cret@tcp(db.internal:3306)/hekayaty", "parseTime=true", "charset=utf8mb4"},
		},
		{
			"passwordless local dev", "",
			[]string{"heka@tcp(db.internal:3306)/hekayaty", "parseTime=true", "charset=utf8mb4"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := dsn("heka", tt.pass, "db.internal", "3306", "hekayaty")
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Fatalf("dsn = %q, missing %q", got, want)
				}
			}
		})
	}
}

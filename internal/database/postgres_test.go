package database

import (
	"io/fs"
	"testing"

	"fishing-backend/internal/database/migrations"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"postgres://u:p@localhost:5432/fish?sslmode=disable", "pgx5://u:p@localhost:5432/fish?sslmode=disable", false},
		{"postgresql://localhost/fish", "pgx5://localhost/fish", false},
		{"pgx5://localhost/fish", "pgx5://localhost/fish", false},
		{"mysql://localhost/fish", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := migrateURL(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	for _, name := range []string{"1_init.up.sql", "1_init.down.sql"} {
		data, err := fs.ReadFile(migrations.Files, name)
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migrations found")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s in migrations", name)
		}
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestInitSchemaDeclaresUniqueKeys(t *testing.T) {
	body, err := fs.ReadFile(files, "sql/000001_init_schema.up.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	for _, want := range []string{"users_email_key UNIQUE (email)", "job_applications_job_student_key UNIQUE (job_id, student_id)"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("init migration missing %q", want)
		}
	}
}

func TestDriverURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@db:5432/skillkhoj?sslmode=disable", "pgx5://u:p@db:5432/skillkhoj?sslmode=disable"},
		{"postgresql://u@db/skillkhoj", "pgx5://u@db/skillkhoj"},
		{"pgx5://u@db/skillkhoj", "pgx5://u@db/skillkhoj"},
	}
	for _, tt := range tests {
		if got := driverURL(tt.in); got != tt.want {
			t.Errorf("driverURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package migrate

import "testing"

func TestValidateDirOnRepoMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Loyalty Tiers")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if path == "" {
		t.Fatal("expected non-empty path")
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration failed validation: %v", err)
	}

	if _, err := CreateSQLMigration(dir, ""); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := CreateSQLMigration("", "x"); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

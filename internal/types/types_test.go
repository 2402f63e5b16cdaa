package types

import "testing"

func TestArchitectureFlags(t *testing.T) {
	var empty Architecture
	if !empty.TypeScript() {
		t.Error("empty language should mean typescript")
	}
	if empty.UsesReactCompiler() {
		t.Error("unset ReactCompiler should be false")
	}
	if empty.SkipsInstall() {
		t.Error("unset SkipInstall should be false")
	}

	arch := Architecture{
		Language:      LanguageJavaScript,
		ReactCompiler: Bool(true),
		SkipInstall:   Bool(true),
	}
	if arch.TypeScript() {
		t.Error("javascript should not be typescript")
	}
	if !arch.UsesReactCompiler() {
		t.Error("ReactCompiler = true should be reported")
	}
	if !arch.SkipsInstall() {
		t.Error("SkipInstall = true should be reported")
	}
}

func TestHasDatabaseAndORM(t *testing.T) {
	tests := []struct {
		name    string
		arch    Architecture
		wantDB  bool
		wantORM bool
	}{
		{"empty", Architecture{}, false, false},
		{"explicit none", Architecture{Database: DatabaseNone, ORM: ORMNone}, false, false},
		{"postgres prisma", Architecture{Database: DatabasePostgres, ORM: ORMPrisma}, true, true},
		{"database without orm", Architecture{Database: DatabaseSQLite, ORM: ORMNone}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.arch.HasDatabase(); got != tt.wantDB {
				t.Errorf("HasDatabase() = %v, want %v", got, tt.wantDB)
			}
			if got := tt.arch.HasORM(); got != tt.wantORM {
				t.Errorf("HasORM() = %v, want %v", got, tt.wantORM)
			}
		})
	}
}

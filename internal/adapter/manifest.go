package adapter

import "github.com/tuannvm/stackforge/internal/types"

// Manifest holds the package.json entries derived from an architecture.
type Manifest struct {
	Dependencies    map[string]string
	DevDependencies map[string]string
	Scripts         map[string]string
}

// Pinned versions for generated projects
var versions = map[string]string{
	"@prisma/client":              "^6.16.0",
	"prisma":                      "^6.16.0",
	"drizzle-orm":                 "^0.44.5",
	"drizzle-kit":                 "^0.31.4",
	"pg":                          "^8.16.3",
	"@types/pg":                   "^8.15.5",
	"mysql2":                      "^3.15.0",
	"@libsql/client":              "^0.15.15",
	"mongoose":                    "^8.18.1",
	"mongodb":                     "^6.20.0",
	"dotenv":                      "^17.2.2",
	"better-auth":                 "^1.3.13",
	"class-variance-authority":    "^0.7.1",
	"clsx":                        "^2.1.1",
	"tailwind-merge":              "^3.3.1",
	"lucide-react":                "^0.544.0",
	"tw-animate-css":              "^1.3.8",
	"zustand":                     "^5.0.8",
	"@reduxjs/toolkit":            "^2.9.0",
	"react-redux":                 "^9.2.0",
	"jest":                        "^30.1.3",
	"jest-environment-jsdom":      "^30.1.2",
	"@types/jest":                 "^30.0.0",
	"@testing-library/react":      "^16.3.0",
	"@testing-library/dom":        "^10.4.1",
	"@testing-library/jest-dom":   "^6.8.0",
	"vitest":                      "^3.2.4",
	"@vitejs/plugin-react":        "^5.0.3",
	"jsdom":                       "^27.0.0",
	"vite-tsconfig-paths":         "^5.1.4",
	"@playwright/test":            "^1.55.1",
	"babel-plugin-react-compiler": "^19.1.0-rc.3",
}

// Version returns the pinned version range for pkg, or "latest".
func Version(pkg string) string {
	if v, ok := versions[pkg]; ok {
		return v
	}
	return "latest"
}

func (m *Manifest) dep(pkgs ...string) {
	for _, p := range pkgs {
		m.Dependencies[p] = Version(p)
	}
}

func (m *Manifest) dev(pkgs ...string) {
	for _, p := range pkgs {
		m.DevDependencies[p] = Version(p)
	}
}

// ManifestFor derives every dependency and script the architecture needs.
func ManifestFor(a types.Architecture) Manifest {
	m := Manifest{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		Scripts:         map[string]string{},
	}
	ts := a.TypeScript()

	if a.UsesReactCompiler() {
		m.dev("babel-plugin-react-compiler")
	}

	switch a.ORM {
	case types.ORMPrisma:
		m.dep("@prisma/client")
		m.dev("prisma")
		m.Scripts["db:generate"] = "prisma generate"
		m.Scripts["db:push"] = "prisma db push"
		m.Scripts["db:studio"] = "prisma studio"
	case types.ORMDrizzle:
		m.dep("drizzle-orm")
		m.dev("drizzle-kit", "dotenv")
		switch a.Database {
		case types.DatabaseMySQL:
			m.dep("mysql2")
		case types.DatabaseSQLite:
			m.dep("@libsql/client")
		default:
			m.dep("pg")
			if ts {
				m.dev("@types/pg")
			}
		}
		m.Scripts["db:generate"] = "drizzle-kit generate"
		m.Scripts["db:migrate"] = "drizzle-kit migrate"
		m.Scripts["db:studio"] = "drizzle-kit studio"
	case types.ORMMongoose:
		m.dep("mongoose")
	}

	if a.Auth == types.AuthBetterAuth {
		m.dep("better-auth")
		if a.ORM == types.ORMMongoose {
			m.dep("mongodb")
		}
	}

	if _, _, ok := DockerImage(a.Database); ok {
		m.Scripts["db:up"] = "docker compose up -d db"
		m.Scripts["db:down"] = "docker compose down"
	}

	if a.UILibrary == types.UILibraryShadcn {
		m.dep("class-variance-authority", "clsx", "tailwind-merge", "lucide-react")
		m.dev("tw-animate-css")
	}

	switch a.StateManagement {
	case types.StateZustand:
		m.dep("zustand")
	case types.StateRedux:
		m.dep("@reduxjs/toolkit", "react-redux")
	}

	switch a.Testing {
	case types.TestingJest:
		m.dev("jest", "jest-environment-jsdom", "@testing-library/react", "@testing-library/dom", "@testing-library/jest-dom")
		if ts {
			m.dev("@types/jest")
		}
		m.Scripts["test"] = "jest"
		m.Scripts["test:watch"] = "jest --watch"
	case types.TestingVitest:
		m.dev("vitest", "@vitejs/plugin-react", "jsdom", "vite-tsconfig-paths", "@testing-library/react", "@testing-library/dom")
		m.Scripts["test"] = "vitest run"
		m.Scripts["test:watch"] = "vitest"
	case types.TestingPlaywright:
		m.dev("@playwright/test")
		m.Scripts["test:e2e"] = "playwright test"
	}

	return m
}

// Count returns the total number of entries across the three maps.
func (m Manifest) Count() int {
	return len(m.Dependencies) + len(m.DevDependencies) + len(m.Scripts)
}

package orchestrator

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/mutate"
	"github.com/tuannvm/stackforge/internal/templates"
	"github.com/tuannvm/stackforge/internal/types"
)

const (
	authSecretKey         = "BETTER_AUTH_SECRET"
	authURLKey            = "BETTER_AUTH_URL"
	publicAppURLKey       = "NEXT_PUBLIC_APP_URL"
	devServerURL          = "http://localhost:3000"
	authSecretPlaceholder = "generate-with-openssl-rand-base64-32"
)

func setupAuth(ctx context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()

	if a.Auth == types.AuthNone {
		rep.Title("Authentication skipped: no auth configuration needed")
		return rep
	}
	if !a.HasDatabase() {
		rep.Fail("Authentication setup failed: Better Auth requires a database, but architecture.database is %q", a.Database)
		rep.Next("Choose a database and ORM, then run %s before %s", OpDatabase, OpAuth)
		return rep
	}
	if !a.HasORM() {
		rep.Fail("Authentication setup failed: Better Auth requires an ORM adapter for the %s database", a.Database)
		rep.Next("Choose an ORM, then run %s before %s", OpDatabase, OpAuth)
		return rep
	}
	if !r.exists(r.paths.DBClient) {
		rep.Fail("Authentication setup failed: database client %s not found", r.paths.DBClient)
		rep.Next("Run %s first", OpDatabase)
		return rep
	}

	rep.Fact("Provider", "better-auth")
	rep.Fact("Adapter", a.ORM)

	if err := writeAuthFiles(r); err != nil {
		return r.ioFailure("Authentication setup", err)
	}
	if err := writeAuthEnv(r); err != nil {
		return r.ioFailure("Authentication setup", err)
	}

	steps := []step{{Label: "Generate auth schema", Command: adapter.AuthSchemaCommand(a.ORM, a.PackageManager, a.TypeScript())}}
	if a.ORM != types.ORMMongoose {
		steps = append(steps, schemaSteps(r)...)
	}
	plan := r.runPlan(ctx, a.SkipsInstall(), steps...)
	plan.describe(rep, adapter.InstallCommand(a.PackageManager))

	switch plan.State {
	case planFailed:
		rep.Title("Authentication files written, but %s failed", plan.Failed.Label)
	case planSkipped:
		rep.Title("Authentication files written; auth schema commands still to run")
	default:
		rep.Title("Authentication setup complete with Better Auth")
	}
	rep.Next("Auth endpoints are served from /api/auth; start the dev server with %s", adapter.RunScriptCommand(a.PackageManager, "dev"))
	return rep
}

func writeAuthFiles(r *run) error {
	a := r.arch()
	err := r.writeTemplate("auth", r.paths.Auth, templates.Vars{
		"ADAPTER_IMPORTS": adapter.AuthAdapterImports(a.ORM, a.TypeScript()),
		"ADAPTER_EXPR":    adapter.AuthAdapterExpression(a.ORM, a.Database),
	}, true)
	if err != nil {
		return err
	}
	if err := r.writeTemplate("auth-client", r.paths.AuthClient, nil, true); err != nil {
		return err
	}
	return r.writeTemplate("auth-route", r.paths.AuthRoute, nil, true)
}

// writeAuthEnv sets the auth URLs everywhere and the secret once. A secret
// already present in .env is reused for .env.local; .env.example only gets
// a placeholder.
func writeAuthEnv(r *run) error {
	secret := r.readEnv(".env")[authSecretKey]
	if secret == "" {
		var err error
		if secret, err = newSecret(); err != nil {
			return err
		}
	}

	urls := []mutate.Mutation{
		mutate.SetEnv{Key: authURLKey, Value: devServerURL},
		mutate.SetEnv{Key: publicAppURLKey, Value: devServerURL},
	}
	for _, rel := range r.paths.EnvFiles {
		value := secret
		if rel == ".env.example" {
			value = authSecretPlaceholder
		}
		ms := append([]mutate.Mutation{mutate.EnsureEnv{Key: authSecretKey, Value: value}}, urls...)
		if _, err := r.apply(rel, true, ms...); err != nil {
			return err
		}
	}
	return nil
}

func newSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate auth secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

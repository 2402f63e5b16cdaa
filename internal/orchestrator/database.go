package orchestrator

import (
	"context"
	"strconv"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/mutate"
	"github.com/tuannvm/stackforge/internal/templates"
	"github.com/tuannvm/stackforge/internal/types"
)

func updateManifest(_ context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()
	m := adapter.ManifestFor(a)
	if m.Count() == 0 {
		rep.Title("No package.json changes needed")
		return rep
	}
	if !r.exists(r.paths.Manifest) {
		rep.Fail("package.json update failed: package.json not found in %s", r.root)
		rep.Next("Run %s first", OpScaffold)
		return rep
	}

	stats, err := r.mergeManifest(m)
	if err != nil {
		return r.ioFailure("package.json update", err)
	}

	if stats.Changed() {
		rep.Title("package.json updated")
	} else {
		rep.Title("package.json already up to date")
	}
	rep.Fact("Added", strconv.Itoa(stats.Added))
	rep.Fact("Updated", strconv.Itoa(stats.Updated))
	for _, section := range []string{"dependencies", "devDependencies", "scripts"} {
		rep.Fact(section, strconv.Itoa(stats.Entries[section]))
	}
	if stats.Changed() {
		rep.Next("Install dependencies: %s", adapter.InstallCommand(a.PackageManager))
	}
	return rep
}

// schemaSteps returns the generate and apply commands for the ORM.
func schemaSteps(r *run) []step {
	generate, apply := "Generate client", "Apply schema"
	if r.arch().ORM == types.ORMDrizzle {
		generate, apply = "Generate migrations", "Apply migrations"
	}
	return []step{
		{Label: generate, Command: r.desc.SchemaCommand},
		{Label: apply, Command: r.desc.MigrationCommand},
	}
}

func setupDatabase(ctx context.Context, r *run) *Report {
	rep := r.report
	a := r.arch()

	if !a.HasDatabase() && !a.HasORM() {
		rep.Title("Database setup skipped: no database configuration needed")
		return rep
	}

	rep.Fact("Database", a.Database)
	rep.Fact("ORM", a.ORM)

	if !a.HasORM() {
		if err := r.applyEnv(mutate.SetEnv{Key: "DATABASE_URL", Value: r.desc.ConnectionURL}); err != nil {
			return r.ioFailure("Database setup", err)
		}
		rep.Title("DATABASE_URL configured for %s", a.Database)
		rep.Fact("Connection URL", r.desc.ConnectionURL)
		rep.Note("no ORM selected, so no client or schema was generated")
		return rep
	}

	rep.Fact("Provider", r.desc.ProviderID)
	rep.Fact("Connection URL", r.desc.ConnectionURL)

	if _, err := r.mkdir(r.paths.DBDir); err != nil {
		return r.ioFailure("Database setup", err)
	}
	if err := writeDatabaseFiles(r); err != nil {
		return r.ioFailure("Database setup", err)
	}
	if err := r.applyEnv(mutate.SetEnv{Key: "DATABASE_URL", Value: r.desc.ConnectionURL}); err != nil {
		return r.ioFailure("Database setup", err)
	}

	if _, _, ok := adapter.DockerImage(a.Database); ok {
		rep.Note("%s must be running before the schema can be applied; %s adds a compose service for it", a.Database, OpDocker)
	}

	plan := r.runPlan(ctx, a.SkipsInstall(), schemaSteps(r)...)
	plan.describe(rep, adapter.InstallCommand(a.PackageManager))

	switch plan.State {
	case planFailed:
		rep.Title("Database files written with %s, but %s failed", a.ORM, plan.Failed.Label)
	case planSkipped:
		rep.Title("Database files written with %s; schema commands still to run", a.ORM)
	default:
		rep.Title("Database setup complete with %s and %s", a.ORM, a.Database)
	}
	return rep
}

func writeDatabaseFiles(r *run) error {
	a := r.arch()
	ts := a.TypeScript()

	err := r.writeTemplate("db-client", r.paths.DBClient, templates.Vars{
		"DRIVER_BLOCK": r.desc.DriverImportBlock,
	}, true)
	if err != nil {
		return err
	}

	switch a.ORM {
	case types.ORMPrisma:
		return r.writeTemplate("prisma-schema", r.paths.PrismaSchema, templates.Vars{
			"PROJECT_NAME": r.cfg.Name,
			"PROVIDER":     r.desc.ProviderID,
			"ID_FIELD":     adapter.PrismaIDField(a.Database),
		}, false)
	case types.ORMDrizzle:
		err := r.writeTemplate("drizzle-schema", r.paths.DrizzleSchema, templates.Vars{
			"SCHEMA_BLOCK": adapter.DrizzleSchemaBlock(a.Database),
		}, false)
		if err != nil {
			return err
		}
		nonNull := ""
		if ts {
			nonNull = "!"
		}
		return r.writeTemplate("drizzle-config", r.paths.DrizzleConfig, templates.Vars{
			"EXT":      adapter.Extension(ts),
			"DIALECT":  r.desc.ProviderID,
			"NON_NULL": nonNull,
		}, true)
	case types.ORMMongoose:
		return r.writeTemplate("mongoose-note", r.paths.MongooseModel, nil, false)
	}
	return nil
}

package orchestrator

// registerBuiltins registers every operation in natural pipeline order.
func (o *Orchestrator) registerBuiltins() {
	o.register(registered{
		Operation: Operation{
			Name:           OpScaffold,
			Title:          "Project scaffold",
			Description:    "Create a new Next.js app with create-next-app in targetPath/<name>.",
			ConfigRequired: true,
			RunsCommands:   true,
		},
		handler:  scaffoldProject,
		scaffold: true,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpDirectories,
			Title:          "Directory layout",
			Description:    "Create the source directories used by the selected architecture.",
			ConfigRequired: true,
		},
		handler: createDirectories,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpManifest,
			Title:          "package.json update",
			Description:    "Merge the dependencies and scripts the architecture needs into package.json.",
			ConfigRequired: true,
		},
		handler: updateManifest,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpDatabase,
			Title:          "Database setup",
			Description:    "Write the database client, schema and DATABASE_URL, then generate and apply the schema.",
			ConfigRequired: true,
			RunsCommands:   true,
		},
		handler: setupDatabase,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpAuth,
			Title:          "Authentication setup",
			Description:    "Configure Better Auth on top of the database adapter and generate its schema.",
			ConfigRequired: true,
			RunsCommands:   true,
		},
		handler: setupAuth,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpUILibrary,
			Title:          "UI library setup",
			Description:    "Configure shadcn/ui: components.json, cn helper, theme variables and a starter component.",
			ConfigRequired: true,
			RunsCommands:   true,
		},
		handler: setupUILibrary,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpStateManagement,
			Title:          "State management setup",
			Description:    "Add a Zustand store, or a Redux store with a provider wrapped around the root layout.",
			ConfigRequired: true,
		},
		handler: setupStateManagement,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpTesting,
			Title:          "Testing setup",
			Description:    "Add Jest, Vitest or Playwright configuration, a sample test and test scripts.",
			ConfigRequired: true,
			RunsCommands:   true,
		},
		handler: setupTesting,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpDocker,
			Title:          "Docker setup",
			Description:    "Generate a standalone-output Dockerfile, .dockerignore and docker-compose.yml.",
			ConfigRequired: true,
		},
		handler: generateDocker,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpCI,
			Title:          "CI workflow",
			Description:    "Generate a GitHub Actions workflow that installs, lints, builds and tests.",
			ConfigRequired: true,
		},
		handler: generateCIWorkflow,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpReadme,
			Title:          "README",
			Description:    "Generate README.md describing the stack, setup steps, scripts and environment.",
			ConfigRequired: true,
		},
		handler: generateReadme,
	})
	o.register(registered{
		Operation: Operation{
			Name:           OpInstall,
			Title:          "Dependency install",
			Description:    "Run the package manager install in the project directory.",
			ConfigRequired: true,
			RunsCommands:   true,
		},
		handler: installDependencies,
	})
	o.register(registered{
		Operation: Operation{
			Name:        OpValidate,
			Title:       "Project validation",
			Description: "Check the project structure and, with a configuration, the files each choice generates.",
			ReadOnly:    true,
		},
		handler: validateProject,
	})
}

package adapter

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/tuannvm/stackforge/internal/types"
)

// Lockfile returns the lockfile name written by pm.
func Lockfile(pm string) string {
	switch pm {
	case types.PackageManagerPNPM:
		return "pnpm-lock.yaml"
	case types.PackageManagerYarn:
		return "yarn.lock"
	case types.PackageManagerBun:
		return "bun.lock"
	default:
		return "package-lock.json"
	}
}

// FrozenInstallCommand returns the reproducible install used in CI and images.
func FrozenInstallCommand(pm string) string {
	switch pm {
	case types.PackageManagerPNPM, types.PackageManagerYarn, types.PackageManagerBun:
		return pm + " install --frozen-lockfile"
	default:
		return "npm ci"
	}
}

// ImageSetup returns the Dockerfile lines enabling pm in a node base image.
func ImageSetup(pm string) string {
	switch pm {
	case types.PackageManagerPNPM, types.PackageManagerYarn:
		return "RUN corepack enable " + pm + "\n"
	case types.PackageManagerBun:
		return "RUN npm install -g bun\n"
	default:
		return ""
	}
}

// ComposeService holds the docker-compose fragments for a database server.
type ComposeService struct {
	AppEnv  string // environment + depends_on lines for the app service
	Service string // the db service block
	Volumes string // top-level volumes block
}

// ComposeServiceFor returns the compose fragments for db. ok is false when
// the database needs no server container.
func ComposeServiceFor(db, projectName string) (ComposeService, bool) {
	image, port, ok := DockerImage(db)
	if !ok {
		return ComposeService{}, false
	}
	name := DatabaseName(projectName)

	var env, dataDir string
	switch db {
	case types.DatabasePostgres:
		env = fmt.Sprintf("POSTGRES_USER: postgres\nPOSTGRES_PASSWORD: postgres\nPOSTGRES_DB: %s", name)
		dataDir = "/var/lib/postgresql/data"
	case types.DatabaseMySQL:
		env = fmt.Sprintf("MYSQL_ROOT_PASSWORD: password\nMYSQL_DATABASE: %s", name)
		dataDir = "/var/lib/mysql"
	case types.DatabaseMongoDB:
		env = fmt.Sprintf("MONGO_INITDB_DATABASE: %s", name)
		dataDir = "/data/db"
	}

	internalURL := strings.Replace(ConnectionURL(db, projectName), "localhost", "db", 1)

	service := fmt.Sprintf(dedent.Dedent(`
		  db:
		    image: %s
		    restart: unless-stopped
		    environment:
		%s
		    ports:
		      - "%d:%d"
		    volumes:
		      - db-data:%s
	`), image, indent(env, "      "), port, port, dataDir)

	return ComposeService{
		AppEnv: fmt.Sprintf("    environment:\n      DATABASE_URL: %q\n    depends_on:\n      - db\n", internalURL),
		// the leading blank line separates the service from the app block
		Service: "\n" + strings.TrimLeft(service, "\n"),
		Volumes: "\nvolumes:\n  db-data:\n",
	}, true
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

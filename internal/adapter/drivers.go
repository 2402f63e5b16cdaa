package adapter

import (
	"strings"

	"github.com/lithammer/dedent"

	"github.com/tuannvm/stackforge/internal/types"
)

// block dedents a raw fragment and applies the language-mode placeholders:
// {{!}} is a non-null assertion and {{T:...:T}} a type-only annotation, both
// dropped for JavaScript output.
func block(raw string, ts bool) string {
	s := strings.TrimLeft(dedent.Dedent(raw), "\n")
	if ts {
		s = strings.ReplaceAll(s, "{{!}}", "!")
	} else {
		s = strings.ReplaceAll(s, "{{!}}", "")
	}
	for {
		start := strings.Index(s, "{{T:")
		if start < 0 {
			break
		}
		end := strings.Index(s[start:], ":T}}")
		if end < 0 {
			break
		}
		annotation := s[start+len("{{T:") : start+end]
		if !ts {
			annotation = ""
		}
		s = s[:start] + annotation + s[start+end+len(":T}}"):]
	}
	return s
}

// DriverImportBlock returns the database client module for the ORM and
// database pair. It is empty when no ORM is selected.
func DriverImportBlock(orm, db string, ts bool) string {
	switch orm {
	case types.ORMPrisma:
		return block(`
			import { PrismaClient } from "@prisma/client";

			const globalForPrisma = globalThis{{T: as unknown as { prisma?: PrismaClient }:T}};

			export const db = globalForPrisma.prisma ?? new PrismaClient();

			if (process.env.NODE_ENV !== "production") globalForPrisma.prisma = db;
		`, ts)
	case types.ORMDrizzle:
		switch db {
		case types.DatabaseMySQL:
			return block(`
				import { drizzle } from "drizzle-orm/mysql2";
				import mysql from "mysql2/promise";
				import * as schema from "./schema";

				const pool = mysql.createPool(process.env.DATABASE_URL{{!}});

				export const db = drizzle(pool, { schema, mode: "default" });
			`, ts)
		case types.DatabaseSQLite:
			return block(`
				import { drizzle } from "drizzle-orm/libsql";
				import { createClient } from "@libsql/client";
				import * as schema from "./schema";

				const client = createClient({ url: process.env.DATABASE_URL{{!}} });

				export const db = drizzle(client, { schema });
			`, ts)
		default:
			return block(`
				import { drizzle } from "drizzle-orm/node-postgres";
				import { Pool } from "pg";
				import * as schema from "./schema";

				const pool = new Pool({ connectionString: process.env.DATABASE_URL });

				export const db = drizzle(pool, { schema });
			`, ts)
		}
	case types.ORMMongoose:
		return block(`
			import mongoose from "mongoose";

			const globalForMongoose = globalThis{{T: as unknown as { mongooseConn?: Promise<typeof mongoose> }:T}};

			export async function connectDB() {
			  if (!globalForMongoose.mongooseConn) {
			    globalForMongoose.mongooseConn = mongoose.connect(process.env.DATABASE_URL{{!}});
			  }
			  return globalForMongoose.mongooseConn;
			}

			export const db = mongoose;
		`, ts)
	default:
		return ""
	}
}

// DrizzleSchemaBlock returns the starter drizzle table definitions for db.
func DrizzleSchemaBlock(db string) string {
	switch db {
	case types.DatabaseMySQL:
		return block(`
			import { mysqlTable, serial, text, timestamp, varchar } from "drizzle-orm/mysql-core";

			export const notes = mysqlTable("notes", {
			  id: serial("id").primaryKey(),
			  title: varchar("title", { length: 255 }).notNull(),
			  body: text("body"),
			  createdAt: timestamp("created_at").defaultNow().notNull(),
			});
		`, true)
	case types.DatabaseSQLite:
		return block(`
			import { sql } from "drizzle-orm";
			import { integer, sqliteTable, text } from "drizzle-orm/sqlite-core";

			export const notes = sqliteTable("notes", {
			  id: integer("id").primaryKey({ autoIncrement: true }),
			  title: text("title").notNull(),
			  body: text("body"),
			  createdAt: integer("created_at", { mode: "timestamp" }).default(sql`+"`(unixepoch())`"+`).notNull(),
			});
		`, true)
	default:
		return block(`
			import { pgTable, serial, text, timestamp } from "drizzle-orm/pg-core";

			export const notes = pgTable("notes", {
			  id: serial("id").primaryKey(),
			  title: text("title").notNull(),
			  body: text("body"),
			  createdAt: timestamp("created_at").defaultNow().notNull(),
			});
		`, true)
	}
}

// PrismaIDField returns the primary key declaration for the Prisma provider.
func PrismaIDField(db string) string {
	if db == types.DatabaseMongoDB {
		return `id        String   @id @default(auto()) @map("_id") @db.ObjectId`
	}
	return `id        String   @id @default(cuid())`
}

// AuthAdapterImports returns the import lines for the better-auth database adapter.
func AuthAdapterImports(orm string, ts bool) string {
	switch orm {
	case types.ORMPrisma:
		return block(`
			import { prismaAdapter } from "better-auth/adapters/prisma";
			import { db } from "@/lib/db";
		`, ts)
	case types.ORMDrizzle:
		return block(`
			import { drizzleAdapter } from "better-auth/adapters/drizzle";
			import { db } from "@/lib/db";
		`, ts)
	case types.ORMMongoose:
		return block(`
			import { MongoClient } from "mongodb";
			import { mongodbAdapter } from "better-auth/adapters/mongodb";

			const client = new MongoClient(process.env.DATABASE_URL{{!}});
		`, ts)
	default:
		return ""
	}
}

// AuthAdapterExpression returns the `database:` value passed to betterAuth.
func AuthAdapterExpression(orm, db string) string {
	switch orm {
	case types.ORMPrisma:
		return `prismaAdapter(db, { provider: "` + AuthProviderID(orm, db) + `" })`
	case types.ORMDrizzle:
		return `drizzleAdapter(db, { provider: "` + AuthProviderID(orm, db) + `" })`
	case types.ORMMongoose:
		return `mongodbAdapter(client.db())`
	default:
		return ""
	}
}

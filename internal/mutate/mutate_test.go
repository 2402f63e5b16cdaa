package mutate

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nextLayout = `import type { Metadata } from "next";
import { Geist, Geist_Mono } from "next/font/google";
import "./globals.css";

const geistSans = Geist({
  variable: "--font-geist-sans",
  subsets: ["latin"],
});

export default function RootLayout({
  children,
}: Readonly<{
  children: React.ReactNode;
}>) {
  return (
    <html lang="en">
      <body
        className={` + "`${geistSans.variable} antialiased`" + `}
      >
        {children}
      </body>
    </html>
  );
}
`

// applyTwice applies m twice and asserts the second pass is a no-op.
func applyTwice(t *testing.T, m Mutation, content string) string {
	t.Helper()
	once, changed, err := m.Apply(content)
	require.NoError(t, err)
	assert.True(t, changed, "first application should change content")

	twice, changed, err := m.Apply(once)
	require.NoError(t, err)
	assert.False(t, changed, "second application should be a no-op")
	assert.Equal(t, once, twice)
	return once
}

func TestSetEnv(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty file", "", `DATABASE_URL="file:./dev.db"` + "\n"},
		{"append keeps others", "FOO=bar", "FOO=bar\n" + `DATABASE_URL="file:./dev.db"` + "\n"},
		{"replace existing", "A=1\nDATABASE_URL=\"postgres://x\"\nB=2\n", "A=1\n" + `DATABASE_URL="file:./dev.db"` + "\nB=2\n"},
		{"replace exported", "export DATABASE_URL=old\n", `DATABASE_URL="file:./dev.db"` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyTwice(t, SetEnv{Key: "DATABASE_URL", Value: "file:./dev.db"}, tt.content)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, strings.Count(got, "DATABASE_URL="))
		})
	}
}

func TestSetEnvSameValueIsNoop(t *testing.T) {
	content := "DATABASE_URL='file:./dev.db'\n"
	got, changed, err := SetEnv{Key: "DATABASE_URL", Value: "file:./dev.db"}.Apply(content)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, content, got)
}

func TestSetEnvReplacesColonForm(t *testing.T) {
	got, changed, err := SetEnv{Key: "DATABASE_URL", Value: "file:./dev.db"}.Apply("A=1\nDATABASE_URL: postgres://old\n")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "A=1\n"+`DATABASE_URL="file:./dev.db"`+"\n", got)
	assert.NotContains(t, got, "postgres://old")

	env, err := ReadEnv(got)
	require.NoError(t, err)
	assert.Equal(t, "file:./dev.db", env["DATABASE_URL"])
}

func TestEnsureEnvKeepsExistingValue(t *testing.T) {
	content := "BETTER_AUTH_SECRET=\"keep-me\"\n"
	got, changed, err := EnsureEnv{Key: "BETTER_AUTH_SECRET", Value: "new"}.Apply(content)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, content, got)

	got = applyTwice(t, EnsureEnv{Key: "BETTER_AUTH_SECRET", Value: "new"}, "")
	env, err := ReadEnv(got)
	require.NoError(t, err)
	assert.Equal(t, "new", env["BETTER_AUTH_SECRET"])
}

func TestInsertImport(t *testing.T) {
	m := InsertImport{Specifier: "@/store/provider", Statement: `import StoreProvider from "@/store/provider";`}
	got := applyTwice(t, m, nextLayout)

	lines := strings.Split(got, "\n")
	assert.Equal(t, `import "./globals.css";`, lines[2])
	assert.Equal(t, `import StoreProvider from "@/store/provider";`, lines[3])
}

func TestInsertImportMultilineAndDirective(t *testing.T) {
	m := InsertImport{Specifier: "x", Statement: `import x from "x";`}

	multi := "import {\n  a,\n  b,\n} from \"y\";\n\nconst z = 1;\n"
	got := applyTwice(t, m, multi)
	assert.Equal(t, "import {\n  a,\n  b,\n} from \"y\";\nimport x from \"x\";\n\nconst z = 1;\n", got)

	directive := "\"use client\";\n\nexport const a = 1;\n"
	got = applyTwice(t, m, directive)
	assert.True(t, strings.HasPrefix(got, "\"use client\";\nimport x from \"x\";\n"))
}

func TestWrapBody(t *testing.T) {
	got := applyTwice(t, WrapBody{Component: "StoreProvider"}, nextLayout)

	assert.Equal(t, 1, strings.Count(got, "<StoreProvider>"))
	assert.Equal(t, 1, strings.Count(got, "</StoreProvider>"))
	assert.Contains(t, got, "        <StoreProvider>\n          {children}\n        </StoreProvider>\n      </body>")
}

func TestWrapBodyWithoutBody(t *testing.T) {
	_, _, err := WrapBody{Component: "P"}.Apply("export default function Page() { return null }")
	assert.True(t, errors.Is(err, ErrAnchorNotFound))
}

func TestAppendBlock(t *testing.T) {
	css := "@import \"tailwindcss\";\n"
	got := applyTwice(t, AppendBlock{Sentinel: "--radius", Block: ":root {\n  --radius: 0.5rem;\n}"}, css)
	assert.Equal(t, "@import \"tailwindcss\";\n:root {\n  --radius: 0.5rem;\n}\n", got)
}

func TestInsertAfter(t *testing.T) {
	m := InsertAfter{
		Anchor:   regexp.MustCompile(`const nextConfig(: NextConfig)? = \{`),
		Sentinel: `output: "standalone"`,
		Text:     "\n  output: \"standalone\",",
	}
	got := applyTwice(t, m, "const nextConfig: NextConfig = {\n  /* config options here */\n};\n")
	assert.Contains(t, got, "= {\n  output: \"standalone\",\n  /* config")

	_, _, err := m.Apply("module.exports = {}")
	assert.True(t, errors.Is(err, ErrAnchorNotFound))
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	res, err := ApplyFile(envPath, true, SetEnv{Key: "A", Value: "1"}, SetEnv{Key: "B", Value: "2"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Len(t, res.Applied, 2)

	first, err := os.ReadFile(envPath)
	require.NoError(t, err)

	res, err = ApplyFile(envPath, true, SetEnv{Key: "A", Value: "1"}, SetEnv{Key: "B", Value: "2"})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	second, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = ApplyFile(filepath.Join(dir, "layout.tsx"), false, WrapBody{Component: "X"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFile))
	assert.Contains(t, err.Error(), "layout.tsx")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file.ts")

	status, err := WriteFile(path, "a", false)
	require.NoError(t, err)
	assert.Equal(t, Created, status)

	status, err = WriteFile(path, "a", false)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, status)

	status, err = WriteFile(path, "b", false)
	require.NoError(t, err)
	assert.Equal(t, Kept, status)

	status, err = WriteFile(path, "b", true)
	require.NoError(t, err)
	assert.Equal(t, Updated, status)
	assert.True(t, status.Wrote())
}

func TestInsertImportIgnoresImportTextInBody(t *testing.T) {
	m := InsertImport{Specifier: "x", Statement: `import x from "x";`}
	content := "// header\nimport a from \"a\";\n\nconst snippet = `\nimport b from \"b\";\n`;\n"
	got := applyTwice(t, m, content)
	assert.Equal(t, "// header\nimport a from \"a\";\nimport x from \"x\";\n\nconst snippet = `\nimport b from \"b\";\n`;\n", got)
}

package filetype

import (
	"path/filepath"
	"testing"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.py":          ".py",
		"dir/a.tar.gz":  ".gz",
		"Makefile":      "",
		".bashrc":       "",
		"dir/.env.prod": ".prod",
		"x.":            ".",
	}
	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}

func TestMatchesSourceByLanguage(t *testing.T) {
	tests := []struct {
		language string
		match    []string
		nomatch  []string
	}{
		{LanguagePython, []string{"x.py", "pkg/mod.py"}, []string{"x.pyc", "x.pyw", "py", "x.PY", "x.txt"}},
		{LanguageJava, []string{"Main.java"}, []string{"Main.class", "Main.javax"}},
		{LanguageCPP, []string{"a.c", "a.h", "a.cpp", "a.hpp", "a.cxx", "a.c++"}, []string{"a.cs", "a.cc", "a.m"}},
		{LanguageC, []string{"a.c", "a.h"}, []string{"a.go"}},
		{LanguageShell, []string{"run.sh", "run.zsh", "run.ksh", "run.csh"}, []string{"run.bash", "run.fish"}},
		{LanguageTypeScript, []string{"app.ts", "app.js"}, []string{"app.tsx", "app.jsx", "app.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			policy, err := New(Options{Language: tt.language})
			require.NoError(t, err)
			for _, name := range tt.match {
				assert.True(t, policy.MatchesSource(name), "expected %s to match", name)
			}
			for _, name := range tt.nomatch {
				assert.False(t, policy.MatchesSource(name), "expected %s not to match", name)
			}
		})
	}
}

func TestLanguageDefaults(t *testing.T) {
	policy, err := New(Options{Language: "Python"})
	require.NoError(t, err)

	assert.Equal(t, "python", policy.DestinationLabel())
	assert.Equal(t, "#", policy.CommentPrefix())
	assert.Empty(t, policy.GeneratedExtension())
	assert.Equal(t, filepath.Join("/dst", "pkg", "a.py"), policy.DestinationPath("/dst", filepath.Join("pkg", "a.py")))

	java, err := New(Options{Language: "java", DestinationExtension: "unittests", DestinationLabel: "Java"})
	require.NoError(t, err)
	assert.Equal(t, "Java", java.DestinationLabel())
	assert.Equal(t, "//", java.CommentPrefix())
	assert.Equal(t, filepath.Join("/dst", "Main.java.unittests"), java.DestinationPath("/dst", "Main.java"))
}

func TestPlantUMLAggregatesLanguages(t *testing.T) {
	policy, err := New(Options{Language: LanguagePlantUML, DestinationExtension: "txt"})
	require.NoError(t, err)

	assert.Equal(t, "plantuml", policy.DestinationLabel())
	assert.Equal(t, "'", policy.CommentPrefix())
	assert.Equal(t, ".puml", policy.GeneratedExtension())
	assert.Equal(t, []string{`java$`, `[ch][xp\+]*$`, `py$`, `[tj]s$`}, policy.SourcePatterns())

	for _, name := range []string{"A.java", "a.cpp", "a.py", "a.ts"} {
		assert.True(t, policy.MatchesSource(name), name)
	}
	assert.False(t, policy.MatchesSource("a.sh"))
}

func TestAllLanguages(t *testing.T) {
	policy, err := New(Options{Language: LanguageAll})
	require.NoError(t, err)

	assert.Equal(t, []string{CatchAllPattern}, policy.SourcePatterns())
	assert.Equal(t, ".md", policy.GeneratedExtension())
	assert.Empty(t, policy.CommentPrefix())
	assert.True(t, policy.MatchesSource("anything.xyz"))
	assert.False(t, policy.MatchesSource("README"))

	forced, err := New(Options{Language: LanguageAll, DestinationExtension: ".txt"})
	require.NoError(t, err)
	assert.Equal(t, ".txt", forced.GeneratedExtension())
}

func TestOverridesTakePriority(t *testing.T) {
	policy, err := New(Options{
		Language:       LanguagePython,
		SourcePatterns: []string{`go$`, `mod$`},
	})
	require.NoError(t, err)

	assert.True(t, policy.MatchesSource("main.go"))
	assert.True(t, policy.MatchesSource("go.mod"))
	assert.False(t, policy.MatchesSource("main.py"))
	assert.Empty(t, policy.CommentPrefix())
	assert.Equal(t, ".md", policy.GeneratedExtension())
	assert.Equal(t, "python", policy.DestinationLabel())

	commentOnly, err := New(Options{Language: LanguageJava, CommentString: str("--")})
	require.NoError(t, err)
	assert.Equal(t, "--", commentOnly.CommentPrefix())
	assert.Equal(t, []string{CatchAllPattern}, commentOnly.SourcePatterns())

	noLanguage, err := New(Options{SourcePatterns: []string{`sql$`}})
	require.NoError(t, err)
	assert.Equal(t, LanguageAll, noLanguage.DestinationLabel())
}

func TestAlternationStaysInsideExtension(t *testing.T) {
	policy, err := New(Options{SourcePatterns: []string{`go$|rs$`}})
	require.NoError(t, err)

	assert.True(t, policy.MatchesSource("a.go"))
	assert.True(t, policy.MatchesSource("a.rs"))
	assert.False(t, policy.MatchesSource("a.xrs"))
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{Language: "cobol"})
	assert.Error(t, err)

	_, err = New(Options{SourcePatterns: []string{`[`}})
	assert.Error(t, err)
}

func TestWithRequestOverrides(t *testing.T) {
	policy, err := New(Options{Language: LanguagePython})
	require.NoError(t, err)

	req := request.Request{OutputExtension: str("md"), CommentString: str(">")}
	updated := policy.WithRequestOverrides(req)
	assert.Equal(t, ".md", updated.GeneratedExtension())
	assert.Equal(t, ">", updated.CommentPrefix())
	assert.Empty(t, policy.GeneratedExtension())

	forced, err := New(Options{Language: LanguagePython, DestinationExtension: "test.py"})
	require.NoError(t, err)
	assert.Equal(t, ".test.py", forced.WithRequestOverrides(req).GeneratedExtension())
	assert.Equal(t, ">", forced.WithRequestOverrides(req).CommentPrefix())
}

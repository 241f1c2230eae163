package filetype

const (
	LanguageC          = "c"
	LanguageCPP        = "c++"
	LanguageJava       = "java"
	LanguagePython     = "python"
	LanguageShell      = "shell"
	LanguageTypeScript = "typescript"
	LanguagePlantUML   = "plantuml"
	LanguageAll        = "all"
)

// CatchAllPattern matches any extension.
const CatchAllPattern = ".*"

const (
	plantUMLExtension = ".puml"
	allExtension      = ".md"
)

type language struct {
	patterns []string
	comment  string
}

// Extension patterns are regexes over the extension body, the text after the last dot.
var languages = map[string]language{
	LanguageC:          {patterns: []string{`[ch][xp\+]*$`}, comment: "//"},
	LanguageCPP:        {patterns: []string{`[ch][xp\+]*$`}, comment: "//"},
	LanguageJava:       {patterns: []string{`java$`}, comment: "//"},
	LanguagePython:     {patterns: []string{`py$`}, comment: "#"},
	LanguageShell:      {patterns: []string{`[ckz]{0,1}sh$`}, comment: "#"},
	LanguageTypeScript: {patterns: []string{`[tj]s$`}, comment: "//"},
}

// plantUMLSources are the languages a PlantUML pass reverse engineers.
var plantUMLSources = []string{LanguageJava, LanguageCPP, LanguagePython, LanguageTypeScript}

// Languages returns the names accepted by New, in help-text order.
func Languages() []string {
	return []string{
		LanguageJava, LanguagePython, LanguageCPP, LanguageC,
		LanguageTypeScript, LanguageShell, LanguagePlantUML, LanguageAll,
	}
}

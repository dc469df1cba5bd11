package langlist

// ProgrammingLang describes one language submissions may be judged in.
// Compile and execute commands are forwarded verbatim to the judge.
type ProgrammingLang struct {
	ID               string
	FullName         string
	CodeFilename     string
	CompileCmd       *string
	CompiledFilename *string
	ExecuteCmd       string
}

func strPtr(s string) *string {
	return &s
}

var supported = []ProgrammingLang{
	{
		ID:               "cpp17",
		FullName:         "C++17 (g++)",
		CodeFilename:     "main.cpp",
		CompileCmd:       strPtr("g++ -O2 -std=c++17 -o main main.cpp"),
		CompiledFilename: strPtr("main"),
		ExecuteCmd:       "./main",
	},
	{
		ID:               "java21",
		FullName:         "Java 21",
		CodeFilename:     "Main.java",
		CompileCmd:       strPtr("javac Main.java"),
		CompiledFilename: strPtr("Main.class"),
		ExecuteCmd:       "java Main",
	},
	{
		ID:           "python3.12",
		FullName:     "Python 3.12",
		CodeFilename: "main.py",
		ExecuteCmd:   "python3.12 main.py",
	},
}

// ListSupported returns the languages submissions are accepted in.
func ListSupported() []ProgrammingLang {
	langs := make([]ProgrammingLang, len(supported))
	copy(langs, supported)
	return langs
}

// GetById resolves a language tag supplied with a submission.
func GetById(id string) (*ProgrammingLang, error) {
	for _, lang := range supported {
		if lang.ID == id {
			l := lang
			return &l, nil
		}
	}
	return nil, ErrUnsupportedLanguage(id)
}

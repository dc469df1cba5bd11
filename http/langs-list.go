package http

import (
	"net/http"

	"github.com/programme-lv/arena/httpjson"
	"github.com/programme-lv/arena/langlist"
)

// ProgrammingLang is the wire form of one supported language.
type ProgrammingLang struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullName"`
	CodeFilename string  `json:"codeFilename"`
	CompileCmd   *string `json:"compileCmd"`
	ExecuteCmd   string  `json:"executeCmd"`
}

func (httpserver *HttpServer) listLanguages(w http.ResponseWriter, r *http.Request) {
	langs := langlist.ListSupported()

	response := make([]ProgrammingLang, len(langs))
	for i, lang := range langs {
		response[i] = ProgrammingLang{
			ID:           lang.ID,
			FullName:     lang.FullName,
			CodeFilename: lang.CodeFilename,
			CompileCmd:   lang.CompileCmd,
			ExecuteCmd:   lang.ExecuteCmd,
		}
	}

	httpjson.WriteSuccessJson(w, response)
}

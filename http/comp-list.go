package http

import (
	"net/http"

	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) listCompetitions(w http.ResponseWriter, r *http.Request) {
	if organizerClaims(w, r) == nil {
		return
	}

	comps := httpserver.contestSrvc.ListCompetitions(r.Context())
	httpjson.WriteSuccessJson(w, comps)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/programme-lv/arena/auth"
	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) authLogin(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	logger.Info("received login request", "username", request.Username)

	if request.Username != httpserver.organizer.Username ||
		bcrypt.CompareHashAndPassword(
			[]byte(httpserver.organizer.PasswordBcrypt),
			[]byte(request.Password)) != nil {
		httpjson.WriteErrorJson(w, "username or password is incorrect",
			http.StatusUnauthorized, "invalid_credentials")
		return
	}

	token, err := auth.GenerateOrganizerJWT(request.Username, httpserver.jwtKey)
	if err != nil {
		logger.Error("failed to generate JWT", "error", err)
		httpjson.WriteInternalErrorJson(w)
		return
	}

	httpjson.WriteSuccessJson(w, token)
}

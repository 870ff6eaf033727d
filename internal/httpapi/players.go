package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errs "territoryd/internal/errors"
	"territoryd/internal/lobby"
)

var validate = validator.New()

type newPlayerResponse struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// handleNewPlayer implements GET /players/new.
func (s *Server) handleNewPlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, err := s.allocateName(ctx, true)
	if err != nil {
		errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
		return
	}

	id := uuid.New().String()
	if err := s.Names.Create(ctx, id, name); err != nil {
		errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
		return
	}

	token, err := s.mintToken(id)
	if err != nil {
		errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
		return
	}

	writeJSON(ctx, w, newPlayerResponse{UUID: id, Name: name, Token: token})
}

type randomNameResponse struct {
	Name string `json:"name"`
}

// handleRandomName implements GET /players/name/random.
func (s *Server) handleRandomName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name, err := s.allocateName(ctx, true)
	if err != nil {
		errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
		return
	}
	writeJSON(ctx, w, randomNameResponse{Name: name})
}

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

type isValidResponse struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}

// handleIsValidName implements POST /players/name/is_valid.
func (s *Server) handleIsValidName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.Limit != nil && !s.Limit.Allow() {
		errs.WriteHTTPError(ctx, w, errs.RateLimitedError())
		return
	}

	req, err := decodeAndValidate[nameRequest](r)
	if err != nil {
		errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"name": err.Error()}))
		return
	}

	reason, ok := s.validateName(ctx, req.Name)
	writeJSON(ctx, w, isValidResponse{IsValid: ok, Reason: reason})
}

// validateName checks length bounds then store uniqueness.
func (s *Server) validateName(ctx context.Context, name string) (reason string, ok bool) {
	switch {
	case len(name) < s.MinNameLength:
		return "name too short", false
	case len(name) > s.MaxNameLength:
		return "name too long", false
	}
	exists, err := s.Names.NameExists(ctx, name)
	if err != nil {
		return "internal error", false
	}
	if exists {
		return "name already taken", false
	}
	return "", true
}

type renamePlayerResponse struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// handleRenamePlayer implements PUT /players/{uuid}: validate,
// persist, refresh the Player Registry if connected, re-mint the
// binding token. Forbidden while the player is in a StartingSoon or
// InGame lobby.
func (s *Server) handleRenamePlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("uuid")
	if id == "" {
		errs.WriteHTTPError(ctx, w, errs.MissingURLQueryError("uuid"))
		return
	}

	token := bearerToken(r)
	if token == "" {
		errs.WriteHTTPError(ctx, w, errs.UnauthorizedError("missing bearer token"))
		return
	}
	if err := s.checkToken(token, id); err != nil {
		errs.WriteHTTPError(ctx, w, errs.InvalidTokenError(err))
		return
	}

	if player, ok := s.Reg.Get(id); ok {
		if lobbyID, inLobby := player.LobbyID(); inLobby {
			if l, found := s.Table.Get(lobbyID); found && l.Status() != lobby.AwaitingPlayers {
				errs.WriteHTTPError(ctx, w, errs.PlayerInGameError())
				return
			}
		}
	}

	req, err := decodeAndValidate[nameRequest](r)
	if err != nil {
		errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"name": err.Error()}))
		return
	}
	if reason, ok := s.validateName(ctx, req.Name); !ok {
		if reason == "name already taken" {
			errs.WriteHTTPError(ctx, w, errs.NameTakenError(req.Name))
		} else {
			errs.WriteHTTPError(ctx, w, errs.ValidationError(map[string]string{"name": reason}))
		}
		return
	}

	if err := s.Names.Update(ctx, id, req.Name); err != nil {
		errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
		return
	}
	s.Reg.Rename(id, req.Name)

	newToken, err := s.mintToken(id)
	if err != nil {
		errs.WriteHTTPError(ctx, w, errs.HTTPInternalServerError(err))
		return
	}

	writeJSON(ctx, w, renamePlayerResponse{UUID: id, Name: req.Name, Token: newToken})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) {
		return auth[len(prefix):]
	}
	return auth
}

func decodeAndValidate[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if err := validate.Struct(v); err != nil {
		return v, err
	}
	return v, nil
}

// Package errors defines the typed error taxonomy shared by the HTTP and
// WebSocket surfaces: a generic ErrorData[T ErrorCode] together with its
// two sinks.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

// HTTPErrorCode enumerates the typed error codes the HTTP surface
// can return.
type HTTPErrorCode uint8

const (
	MissingURLQueryHTTPCode     HTTPErrorCode = 101
	InternalServerErrorHTTPCode HTTPErrorCode = 102
	InvalidTokenErrorHTTPCode   HTTPErrorCode = 103
	InvalidTokenClaimHTTPCode   HTTPErrorCode = 104
	UnauthorizedErrorHTTPCode   HTTPErrorCode = 105
	ValidationErrorHTTPCode     HTTPErrorCode = 106
	NameTakenHTTPCode           HTTPErrorCode = 107
	PlayerInGameHTTPCode        HTTPErrorCode = 108
	RateLimitedHTTPCode         HTTPErrorCode = 109
)

// WebsocketErrorCode enumerates the typed error codes the WebSocket
// surface can emit as a `/error` frame.
type WebsocketErrorCode uint8

const (
	InternalServerErrorCode WebsocketErrorCode = 201
	LobbyFullCode           WebsocketErrorCode = 202
	WrongLobbyStateCode     WebsocketErrorCode = 203
	AlreadyInLobbyCode      WebsocketErrorCode = 204
	QueueFullCode           WebsocketErrorCode = 205
	InvalidMoveCode         WebsocketErrorCode = 206
	PlayerNotConnectedCode  WebsocketErrorCode = 207
	TokenMismatchCode       WebsocketErrorCode = 208
)

// ErrorCode is the type-set constraint ErrorData is generic over.
type ErrorCode interface {
	HTTPErrorCode | WebsocketErrorCode
}

// ErrorData is the single error shape carried across both surfaces,
// generic over which code space applies.
type ErrorData[T ErrorCode] struct { //nolint: errname
	Code    T      `json:"code"`
	Message string `json:"message,omitempty"`
	Extra   any    `json:"extra,omitempty"`
	Err     error  `json:"-"`
}

func (e ErrorData[T]) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

func (e ErrorData[T]) Unwrap() error { return e.Err }

var errorCodeHTTPStatusCode = map[HTTPErrorCode]int{
	MissingURLQueryHTTPCode:     http.StatusBadRequest,
	InternalServerErrorHTTPCode: http.StatusInternalServerError,
	InvalidTokenErrorHTTPCode:   http.StatusForbidden,
	InvalidTokenClaimHTTPCode:   http.StatusForbidden,
	UnauthorizedErrorHTTPCode:   http.StatusUnauthorized,
	ValidationErrorHTTPCode:     http.StatusUnprocessableEntity,
	NameTakenHTTPCode:           http.StatusConflict,
	PlayerInGameHTTPCode:        http.StatusForbidden,
	RateLimitedHTTPCode:         http.StatusTooManyRequests,
}

// HTTPErrorData is the wire shape of an HTTP error response body.
type HTTPErrorData struct {
	Code    HTTPErrorCode `json:"code"`
	Message string        `json:"message,omitempty"`
	Extra   any           `json:"extra,omitempty"`
}

// WriteHTTPError maps err to a status code via errorCodeHTTPStatusCode and
// writes the HTTPErrorData envelope as the JSON response body.
func WriteHTTPError(ctx context.Context, w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	statusCode := http.StatusInternalServerError
	res := HTTPErrorData{Code: InternalServerErrorHTTPCode, Message: "unexpected error"}

	if err != nil {
		apiErr := &ErrorData[HTTPErrorCode]{}
		if errors.As(err, apiErr) {
			res.Code = apiErr.Code
			res.Message = apiErr.Message
			res.Extra = apiErr.Extra
			if code, ok := errorCodeHTTPStatusCode[apiErr.Code]; ok {
				statusCode = code
			}
		}
	}

	slog.ErrorContext(ctx, "http error",
		slog.Any("error", err),
		slog.Any("error_code", res.Code),
		slog.Int("status_code", statusCode))

	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(res); encErr != nil {
		slog.ErrorContext(ctx, "http error: failed to encode response", slog.Any("error", encErr))
	}
}

// WebsocketErrorData is the payload of a `/error` wire frame.
type WebsocketErrorData struct {
	Code    WebsocketErrorCode `json:"code"`
	Message string             `json:"message,omitempty"`
	Extra   any                `json:"extra,omitempty"`
}

// WriteWebsocketError writes a `/error <json>` frame over conn: a
// protocol-level error that does not by itself close the connection.
func WriteWebsocketError(ctx context.Context, conn *websocket.Conn, err error) {
	res := WebsocketErrorData{Code: InternalServerErrorCode, Message: "unexpected error"}

	if err != nil {
		apiErr := &ErrorData[WebsocketErrorCode]{}
		if errors.As(err, apiErr) {
			res.Code = apiErr.Code
			res.Message = apiErr.Message
			res.Extra = apiErr.Extra
		}
	}

	slog.ErrorContext(ctx, "ws error", slog.Any("error", err), slog.Any("error_code", res.Code))

	body, encErr := json.Marshal(res)
	if encErr != nil {
		slog.ErrorContext(ctx, "ws error: failed to encode response", slog.Any("error", encErr))
		return
	}
	frame := append([]byte("/error "), body...)
	if writeErr := conn.Write(ctx, websocket.MessageText, frame); writeErr != nil {
		slog.ErrorContext(ctx, "ws error: failed to write response", slog.Any("error", writeErr))
	}
}

// --- domain error constructors ---

func MissingURLQueryError(query string) ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{
		Code: MissingURLQueryHTTPCode, Message: "missing url query",
		Extra: struct {
			Query string `json:"query"`
		}{Query: query},
	}
}

func UnauthorizedError(cause string) ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{
		Code: UnauthorizedErrorHTTPCode, Message: "unauthorized",
		Extra: struct {
			Cause string `json:"cause"`
		}{Cause: cause},
	}
}

func InvalidTokenError(err error) ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{Code: InvalidTokenErrorHTTPCode, Message: "invalid token", Err: err}
}

func ValidationError(fields map[string]string) ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{Code: ValidationErrorHTTPCode, Message: "invalid input", Extra: fields}
}

func NameTakenError(name string) ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{
		Code: NameTakenHTTPCode, Message: "name already taken",
		Extra: struct {
			Name string `json:"name"`
		}{Name: name},
	}
}

func PlayerInGameError() ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{Code: PlayerInGameHTTPCode, Message: "cannot rename while in a game"}
}

func RateLimitedError() ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{Code: RateLimitedHTTPCode, Message: "too many requests"}
}

func HTTPInternalServerError(err error) ErrorData[HTTPErrorCode] {
	return ErrorData[HTTPErrorCode]{Code: InternalServerErrorHTTPCode, Message: "internal server error", Err: err}
}

func LobbyFullError(lobbyID int) ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{
		Code: LobbyFullCode, Message: "lobby full",
		Extra: struct {
			LobbyID int `json:"lobby_id"`
		}{LobbyID: lobbyID},
	}
}

func WrongLobbyStateError(lobbyID int) ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{
		Code: WrongLobbyStateCode, Message: "lobby not accepting joins",
		Extra: struct {
			LobbyID int `json:"lobby_id"`
		}{LobbyID: lobbyID},
	}
}

func AlreadyInLobbyError(lobbyID int) ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{
		Code: AlreadyInLobbyCode, Message: "already in this lobby",
		Extra: struct {
			LobbyID int `json:"lobby_id"`
		}{LobbyID: lobbyID},
	}
}

func QueueFullError() ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{Code: QueueFullCode, Message: "move queue full"}
}

func InvalidMoveError(cause string) ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{
		Code: InvalidMoveCode, Message: "invalid move",
		Extra: struct {
			Cause string `json:"cause"`
		}{Cause: cause},
	}
}

func PlayerNotConnectedError() ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{Code: PlayerNotConnectedCode, Message: "player not connected"}
}

func TokenMismatchError() ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{Code: TokenMismatchCode, Message: "token does not match uuid"}
}

func InternalServerError(err error) ErrorData[WebsocketErrorCode] {
	return ErrorData[WebsocketErrorCode]{Code: InternalServerErrorCode, Message: "internal server error", Err: err}
}

package middleware

import (
	"net/http"
	"strings"
)

// Subprotocols reads the tokens smuggled inside Sec-WebSocket-Protocol
// and assigns them to the headers they stand in for.
//
// Browser WebSocket clients cannot set an Authorization header directly
// during the handshake, so the bearer token travels as a subprotocol
// instead: see https://stackoverflow.com/questions/4361173.
func Subprotocols(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subprotocols := r.Header.Get("Sec-WebSocket-Protocol")

		for _, protocol := range strings.Split(subprotocols, ",") {
			protocol = strings.TrimSpace(protocol)
			if strings.HasPrefix(protocol, "Bearer ") {
				r.Header.Set("Authorization", protocol[len("Bearer "):])
			}
		}

		h.ServeHTTP(w, r)
	})
}

package httpapi

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"
)

// mintToken returns a JWT binding uuid, signed with s.JWTSecret. The
// token payload carries only the uuid: a rename does not strictly need
// a new token, but PUT /players/{uuid} re-mints anyway since the HTTP
// layer already has a fresh secret-holder in hand.
func (s *Server) mintToken(uuid string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uuid": uuid,
	})
	return token.SignedString(s.JWTSecret)
}

// checkToken validates tokenStr against s.JWTSecret and confirms its
// uuid claim matches uuid.
func (s *Server) checkToken(tokenStr, uuid string) error {
	parsed, err := jwt.Parse(tokenStr, s.jwtKeyFunc)
	if err != nil {
		return err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("httpapi: invalid jwt claims")
	}
	claimUUID, ok := claims["uuid"].(string)
	if !ok {
		return errors.New("httpapi: token has no uuid claim")
	}
	if claimUUID != uuid {
		return errors.New("httpapi: token does not match uuid")
	}
	return nil
}

func (s *Server) jwtKeyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.JWTSecret, nil
}

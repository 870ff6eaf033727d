package httpapi

// TestMintToken exposes mintToken to the external httpapi_test package.
func (s *Server) TestMintToken(uuid string) (string, error) {
	return s.mintToken(uuid)
}

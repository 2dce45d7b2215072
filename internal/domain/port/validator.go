package port

import (
	"context"
	"net/http"

	"custodian.io/internal/domain/entity"
)

// RequestAuthenticator verifies a signed request and returns the caller it was signed for
type RequestAuthenticator interface {
	Authenticate(ctx context.Context, r *http.Request, body []byte) (entity.Address, error)
}

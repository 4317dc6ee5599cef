package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/questguild/questboard-api/internal/api/handler/v1/response"
	"github.com/questguild/questboard-api/internal/pkg/jwthelper"
)

// ContextKeyModeratorID is where VerifyJWT stores the authenticated moderator's ID.
const ContextKeyModeratorID = "moderatorID"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token. The token must
// carry the same user agent it was minted with.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing authorization header")))
			return
		}

		segments := strings.SplitN(header, " ", 2)
		if len(segments) != 2 || segments[0] != "Bearer" {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("malformed authorization header")))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, segments[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("user agent mismatch")))
			return
		}

		ctx.Set(ContextKeyModeratorID, claims.ModeratorID)
		ctx.Next()
	}
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/middleware"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/internal/service"
	"github.com/abelkristv/magang-sub001/pkg/envelope"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func bindJSON(c *gin.Context, dest interface{}, message string) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
	}
	return nil
}

// encryptedBody is the request shape of routes protected by the envelope
// codec. EncryptedData holds the ciphertext string or one nested wrapper.
type encryptedBody struct {
	EncryptedData json.RawMessage `json:"encryptedData"`
}

// decodeEncrypted reads an encryptedBody and decrypts it into dest.
func decodeEncrypted(c *gin.Context, codec *envelope.Codec, metrics *service.MetricsService, dest interface{}) error {
	var body encryptedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.RecordEnvelopeError(appErrors.ErrInvalidFormat.Code)
		return appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "request body must be a JSON object with encryptedData")
	}
	if err := codec.Decode(body.EncryptedData, dest); err != nil {
		metrics.RecordEnvelopeError(appErrors.FromError(err).Code)
		return err
	}
	return nil
}

package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
)

// checkIntegrity verifies the HashSHA256 header against the HMAC of the
// request body. Requests without the header, and every request when the
// server has no hash key, pass through unchecked.
func (h *Handler) checkIntegrity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sum := r.Header.Get(utils.HashHeader)
		if h.hashKey == "" || sum == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBlobSize))
		if err != nil {
			log.Err(err).Str("func", "Handler.checkIntegrity").Msg("failed to read request body")
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !utils.VerifyHash(body, sum) {
			log.Warn().Str("func", "Handler.checkIntegrity").
				Str("hash_from_request", sum).
				Int("body_size", len(body)).
				Msg("hashes are not equal")
			http.Error(w, app.MsgIntegrityCheckFailed, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var user models.User
	if err := utils.ReadJSON(r, &user); err != nil {
		writeError(w, r, "Handler.register", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, user)
	if err != nil {
		writeError(w, r, "Handler.register", err)
		return
	}

	h.writeToken(w, r, "Handler.register", registeredUser)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := utils.ReadJSON(r, &user); err != nil {
		writeError(w, r, "Handler.login", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, user)
	if err != nil {
		writeError(w, r, "Handler.login", err)
		return
	}

	log.Debug().Str("func", "Handler.login").Int64("user_id", foundUser.UserID).Msg("user successfully logged in")

	h.writeToken(w, r, "Handler.login", foundUser)
}

// writeToken issues a token for user and returns it in the Authorization
// header of an empty 200 response.
func (h *Handler) writeToken(w http.ResponseWriter, r *http.Request, funcName string, user models.User) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeError(w, r, funcName, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

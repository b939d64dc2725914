package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/akarpovs/contacthub/internal/common"
	"github.com/akarpovs/contacthub/internal/server/models"
	"github.com/akarpovs/contacthub/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userJSON is the account shape returned by login and profile update.
type userJSON struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func toUserJSON(u *models.User, token string) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, Token: token}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.ErrorInvalidInput)
		return
	}

	if _, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{Code: http.StatusCreated, Remark: "user created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.ErrorInvalidInput)
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Code:   http.StatusOK,
		Remark: "success",
		Data:   toUserJSON(user, token),
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.ErrorInvalidInput)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userID, services.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.users.IssueToken(user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Code:   http.StatusOK,
		Remark: "success",
		Data:   toUserJSON(user, token),
	})
}

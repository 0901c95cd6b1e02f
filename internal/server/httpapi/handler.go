package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alexskv/prodviz/internal/common"
	"github.com/alexskv/prodviz/internal/server/models"
	"github.com/alexskv/prodviz/internal/server/services"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetRequest struct {
	OldUsername string `json:"oldUsername"`
	OldPassword string `json:"oldPassword"`
	NewUsername string `json:"newUsername"`
	NewPassword string `json:"newPassword"`
}

// quantity accepts a JSON number or a numeric string, since browser forms
// tend to submit either. Anything else fails validation.
type quantity float64

func (q *quantity) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*q = quantity(value)
		return nil
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		*q = quantity(parsed)
		return nil
	default:
		return errors.New("quantity must be a number")
	}
}

type createRecordRequest struct {
	Product  string       `json:"product"`
	Date     *models.Date `json:"date"`
	Quantity *quantity    `json:"quantity"`
}

type updateRecordRequest struct {
	Product  *string      `json:"product"`
	Date     *models.Date `json:"date"`
	Quantity *quantity    `json:"quantity"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	_, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			writeError(w, http.StatusBadRequest, "username and password required")
		case errors.Is(err, common.ErrDuplicateUser):
			writeError(w, http.StatusBadRequest, "user already exists")
		default:
			s.logger.Error(r.Context(), err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "user registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// unknown user and wrong password get the same reply
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := s.users.ResetCredentials(r.Context(), req.OldUsername, req.OldPassword, req.NewUsername, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "invalid credentials")
		case errors.Is(err, common.ErrValidation):
			writeError(w, http.StatusBadRequest, "username and password required")
		case errors.Is(err, common.ErrDuplicateUser):
			writeError(w, http.StatusBadRequest, "user already exists")
		default:
			s.logger.Error(r.Context(), err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "credentials updated successfully"})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	result, err := s.records.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if result == nil {
		result = []*models.Record{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Date == nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "product, date and quantity required")
		return
	}

	record, err := s.records.Create(r.Context(), req.Product, *req.Date, float64(*req.Quantity))
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			writeError(w, http.StatusBadRequest, "product, date and quantity required")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	upd := services.RecordUpdate{
		Product: req.Product,
		Date:    req.Date,
	}
	if req.Quantity != nil {
		q := float64(*req.Quantity)
		upd.Quantity = &q
	}

	record, err := s.records.Update(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, common.ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid record fields")
		default:
			s.logger.Error(r.Context(), err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.records.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/akarpovs/contacthub/internal/common"
	"github.com/akarpovs/contacthub/internal/server/models"
	"github.com/akarpovs/contacthub/internal/server/repositories/contacts"
	"github.com/akarpovs/contacthub/internal/server/services"
)

type contactRequest struct {
	Profile   string `json:"profile"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Number    string `json:"number"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
}

func (r contactRequest) input() services.ContactInput {
	return services.ContactInput{
		Profile:   r.Profile,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Number:    r.Number,
		Gender:    r.Gender,
		Address:   r.Address,
	}
}

type contactJSON struct {
	ID        string `json:"_id"`
	Profile   string `json:"profile"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Number    string `json:"number"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
	QRCode    string `json:"qrcode"`
	CreatedBy string `json:"createdBy"`
}

func toContactJSON(c *models.Contact) contactJSON {
	return contactJSON{
		ID:        c.ID,
		Profile:   c.Profile,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Number:    c.Number,
		Gender:    c.Gender,
		Address:   c.Address,
		QRCode:    c.QRCode,
		CreatedBy: c.CreatedBy,
	}
}

type contactListJSON struct {
	ContactList  []contactJSON `json:"contactList"`
	TotalRecords int           `json:"totalRecords"`
	TotalPages   int           `json:"totalPages"`
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.ErrorInvalidInput)
		return
	}

	creatorID := UserIDFromContext(r.Context())

	if _, err := s.contacts.Provision(r.Context(), req.input(), creatorID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{Code: http.StatusCreated, Remark: "contact created"})
}

// queryInt parses an integer query parameter, falling back to def for
// absent or malformed values.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	pageSize := queryInt(r, "pageSize", 10)
	pageNumber := queryInt(r, "pageNumber", 1)

	filter := contacts.Filter{
		Field:  r.URL.Query().Get("searchUsing"),
		Query:  r.URL.Query().Get("query"),
		Gender: r.URL.Query().Get("gender"),
	}

	res, err := s.contacts.List(r.Context(), filter, pageNumber, pageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}

	list := make([]contactJSON, 0, len(res.Items))
	for _, c := range res.Items {
		list = append(list, toContactJSON(c))
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Code:   http.StatusOK,
		Remark: "success",
		Data: contactListJSON{
			ContactList:  list,
			TotalRecords: res.TotalRecords,
			TotalPages:   res.TotalPages,
		},
	})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactId")

	contact, err := s.contacts.Get(r.Context(), contactID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Code:   http.StatusOK,
		Remark: "success",
		Data:   toContactJSON(contact),
	})
}

func (s *Server) handleEditContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactId")

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.ErrorInvalidInput)
		return
	}

	requesterID := UserIDFromContext(r.Context())

	if _, err := s.contacts.Edit(r.Context(), contactID, req.input(), requesterID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{Code: http.StatusCreated, Remark: "contact updated"})
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactId")
	requesterID := UserIDFromContext(r.Context())

	if err := s.contacts.Delete(r.Context(), contactID, requesterID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{Code: http.StatusOK, Remark: "contact deleted"})
}

func (s *Server) handleReprovision(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactId")
	requesterID := UserIDFromContext(r.Context())

	contact, err := s.contacts.Reprovision(r.Context(), contactID, requesterID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Code:   http.StatusOK,
		Remark: "qr code provisioned",
		Data:   toContactJSON(contact),
	})
}

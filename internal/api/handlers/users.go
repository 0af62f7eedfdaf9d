package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/eventhub/internal/api/inventory"
	"github.com/Togather-Foundation/eventhub/internal/domain/ids"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
	"github.com/Togather-Foundation/eventhub/internal/metrics"
)

var _ Resource = (*UsersHandler)(nil)

type UsersHandler struct {
	Service *users.Service
	Env     string
}

func NewUsersHandler(service *users.Service, env string) *UsersHandler {
	return &UsersHandler{Service: service, Env: env}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, h.Env, err, subject{})
		return
	}

	items := make([]inventory.Document, 0, len(list))
	for _, user := range list {
		item := inventory.Item()
		setUserFields(item, user)
		item.AddControlSelf(ids.UserPath(user.ID))
		item.AddControlProfile(inventory.UserProfile)
		items = append(items, item)
	}

	doc := inventory.NewDocument()
	doc.Set("items", items)
	doc.AddControlSelf(ids.UsersPath)
	doc.AddControlAllUsers()
	doc.AddControlAddUser()
	writeDocument(w, http.StatusOK, doc)
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r, h.Env) {
		return
	}
	var input users.Input
	if !decodeBody(w, r, h.Env, inventory.KindUser, &input) {
		return
	}

	user, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Env, err, subject{email: input.Email})
		return
	}
	metrics.RecordMutation("user", "create")
	writeCreated(w, ids.UserPath(user.ID))
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, users.ErrNotFound, subject{userID: raw})
		return
	}

	user, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Env, err, subject{userID: raw})
		return
	}

	doc := inventory.NewDocument()
	setUserFields(doc, *user)
	doc.AddControlSelf(ids.UserPath(user.ID))
	doc.AddControlProfile(inventory.UserProfile)
	doc.AddControlEditUser(user.ID)
	doc.AddControlDeleteUser(user.ID)
	doc.AddControlAllUsers()
	doc.AddControlFollowedEvents(user.ID)
	doc.AddControlUserOrgs(user.ID)
	writeDocument(w, http.StatusOK, doc)
}

func (h *UsersHandler) Replace(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r, h.Env) {
		return
	}
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, users.ErrNotFound, subject{userID: raw})
		return
	}
	if _, err := h.Service.Get(r.Context(), id); err != nil {
		writeError(w, r, h.Env, err, subject{userID: raw})
		return
	}

	var input users.Input
	if !decodeBody(w, r, h.Env, inventory.KindUser, &input) {
		return
	}
	if err := h.Service.Replace(r.Context(), id, input); err != nil {
		writeError(w, r, h.Env, err, subject{userID: raw, email: input.Email})
		return
	}
	metrics.RecordMutation("user", "replace")
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, users.ErrNotFound, subject{userID: raw})
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.Env, err, subject{userID: raw})
		return
	}
	metrics.RecordMutation("user", "delete")
	w.WriteHeader(http.StatusNoContent)
}

// setUserFields renders a user. The password hash is never included.
func setUserFields(doc inventory.Document, user users.User) {
	doc.Set("id", user.ID)
	doc.Set("name", user.Name)
	doc.Set("email", user.Email)
	doc.Set("location", user.Location)
	doc.Set("notifications", user.Notifications)
}

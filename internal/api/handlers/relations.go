package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/eventhub/internal/api/inventory"
	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/ids"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
	"github.com/Togather-Foundation/eventhub/internal/metrics"
)

// RelationsHandler serves the join table views and their mutations.
type RelationsHandler struct {
	Service *relations.Service
	Env     string
}

func NewRelationsHandler(service *relations.Service, env string) *RelationsHandler {
	return &RelationsHandler{Service: service, Env: env}
}

// UserEvents lists the events a user follows.
func (h *RelationsHandler) UserEvents(w http.ResponseWriter, r *http.Request) {
	userID, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, users.ErrNotFound, subject{userID: raw})
		return
	}

	user, followed, err := h.Service.FollowedEvents(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Env, err, subject{userID: raw})
		return
	}

	items := make([]inventory.Document, 0, len(followed))
	for _, event := range followed {
		item := inventory.Item()
		setEventFields(item, event)
		item.AddControlSelf(ids.EventPath(event.ID))
		item.AddControlProfile(inventory.EventProfile)
		item.AddControlEditEvent(event.ID)
		item.AddControlDeleteEvent(event.ID)
		item.AddControlUnfollow(user.ID, event.ID)
		items = append(items, item)
	}

	doc := inventory.NewDocument()
	doc.Set("user", map[string]any{"user_id": user.ID, "name": user.Name})
	doc.Set("items", items)
	doc.AddControlSelf(ids.UserEventsPath(user.ID))
	doc.AddControl("up", ids.UserPath(user.ID))
	doc.AddControlAllEvents()
	doc.AddControlUserOrgs(user.ID)
	writeDocument(w, http.StatusOK, doc)
}

// EventUsers lists the followers of an event.
func (h *RelationsHandler) EventUsers(w http.ResponseWriter, r *http.Request) {
	eventID, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, events.ErrNotFound, subject{eventID: raw})
		return
	}

	event, followers, err := h.Service.Followers(r.Context(), eventID)
	if err != nil {
		writeError(w, r, h.Env, err, subject{eventID: raw})
		return
	}

	doc := inventory.NewDocument()
	doc.Set("event", map[string]any{"event_id": event.ID, "name": event.Name})
	doc.Set("items", userItems(followers))
	doc.AddControlSelf(ids.EventUsersPath(event.ID))
	doc.AddControl("up", ids.EventPath(event.ID))
	doc.AddControlAllUsers()
	writeDocument(w, http.StatusOK, doc)
}

// UserOrgs lists the organizations a user belongs to.
func (h *RelationsHandler) UserOrgs(w http.ResponseWriter, r *http.Request) {
	userID, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, users.ErrNotFound, subject{userID: raw})
		return
	}

	user, orgs, err := h.Service.UserOrganizations(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Env, err, subject{userID: raw})
		return
	}

	items := make([]inventory.Document, 0, len(orgs))
	for _, org := range orgs {
		item := inventory.Item()
		setOrgFields(item, org)
		item.AddControlSelf(ids.OrgPath(org.ID))
		item.AddControlProfile(inventory.OrgProfile)
		item.AddControlEditOrg(org.ID)
		item.AddControlDeleteOrg(org.ID)
		item.AddControlLeave(user.ID, org.ID)
		items = append(items, item)
	}

	doc := inventory.NewDocument()
	doc.Set("user", map[string]any{"user_id": user.ID, "name": user.Name})
	doc.Set("items", items)
	doc.AddControlSelf(ids.UserOrgsPath(user.ID))
	doc.AddControl("up", ids.UserPath(user.ID))
	doc.AddControlAllOrgs()
	doc.AddControlFollowedEvents(user.ID)
	writeDocument(w, http.StatusOK, doc)
}

// OrgUsers lists the members of an organization.
func (h *RelationsHandler) OrgUsers(w http.ResponseWriter, r *http.Request) {
	orgID, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, organizations.ErrNotFound, subject{orgID: raw})
		return
	}

	org, members, err := h.Service.Members(r.Context(), orgID)
	if err != nil {
		writeError(w, r, h.Env, err, subject{orgID: raw})
		return
	}

	doc := inventory.NewDocument()
	doc.Set("organization", map[string]any{"org_id": org.ID, "name": org.Name})
	doc.Set("items", userItems(members))
	doc.AddControlSelf(ids.OrgUsersPath(org.ID))
	doc.AddControl("up", ids.OrgPath(org.ID))
	doc.AddControlAllUsers()
	writeDocument(w, http.StatusOK, doc)
}

func (h *RelationsHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, eventID, s, ok := h.followIDs(w, r)
	if !ok {
		return
	}
	if err := h.Service.Follow(r.Context(), userID, eventID); err != nil {
		writeError(w, r, h.Env, err, s)
		return
	}
	metrics.RecordMutation("follow", "create")
	w.WriteHeader(http.StatusNoContent)
}

func (h *RelationsHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, eventID, s, ok := h.followIDs(w, r)
	if !ok {
		return
	}
	if err := h.Service.Unfollow(r.Context(), userID, eventID); err != nil {
		writeError(w, r, h.Env, err, s)
		return
	}
	metrics.RecordMutation("follow", "delete")
	w.WriteHeader(http.StatusNoContent)
}

func (h *RelationsHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, orgID, s, ok := h.membershipIDs(w, r)
	if !ok {
		return
	}
	if err := h.Service.Join(r.Context(), userID, orgID); err != nil {
		writeError(w, r, h.Env, err, s)
		return
	}
	metrics.RecordMutation("membership", "create")
	w.WriteHeader(http.StatusNoContent)
}

func (h *RelationsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, orgID, s, ok := h.membershipIDs(w, r)
	if !ok {
		return
	}
	if err := h.Service.Leave(r.Context(), userID, orgID); err != nil {
		writeError(w, r, h.Env, err, s)
		return
	}
	metrics.RecordMutation("membership", "delete")
	w.WriteHeader(http.StatusNoContent)
}

func (h *RelationsHandler) followIDs(w http.ResponseWriter, r *http.Request) (int64, int64, subject, bool) {
	userID, rawUser, ok := pathID(r, "id")
	s := subject{userID: rawUser, eventID: pathParam(r, "event_id")}
	if !ok {
		writeError(w, r, h.Env, users.ErrNotFound, s)
		return 0, 0, s, false
	}
	eventID, _, ok := pathID(r, "event_id")
	if !ok {
		writeError(w, r, h.Env, events.ErrNotFound, s)
		return 0, 0, s, false
	}
	return userID, eventID, s, true
}

func (h *RelationsHandler) membershipIDs(w http.ResponseWriter, r *http.Request) (int64, int64, subject, bool) {
	userID, rawUser, ok := pathID(r, "id")
	s := subject{userID: rawUser, orgID: pathParam(r, "org_id")}
	if !ok {
		writeError(w, r, h.Env, users.ErrNotFound, s)
		return 0, 0, s, false
	}
	orgID, _, ok := pathID(r, "org_id")
	if !ok {
		writeError(w, r, h.Env, organizations.ErrNotFound, s)
		return 0, 0, s, false
	}
	return userID, orgID, s, true
}

func userItems(list []users.User) []inventory.Document {
	items := make([]inventory.Document, 0, len(list))
	for _, user := range list {
		item := inventory.Item()
		setUserFields(item, user)
		item.AddControlSelf(ids.UserPath(user.ID))
		item.AddControlProfile(inventory.UserProfile)
		item.AddControlEditUser(user.ID)
		item.AddControlDeleteUser(user.ID)
		items = append(items, item)
	}
	return items
}

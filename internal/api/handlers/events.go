package handlers

import (
	"net/http"
	"strconv"

	"github.com/Togather-Foundation/eventhub/internal/api/inventory"
	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/ids"
	"github.com/Togather-Foundation/eventhub/internal/metrics"
)

var _ Resource = (*EventsHandler)(nil)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, h.Env, err, subject{})
		return
	}

	items := make([]inventory.Document, 0, len(list))
	for _, event := range list {
		item := inventory.Item()
		setEventFields(item, event)
		item.AddControlSelf(ids.EventPath(event.ID))
		item.AddControlProfile(inventory.EventProfile)
		items = append(items, item)
	}

	doc := inventory.NewDocument()
	doc.Set("items", items)
	doc.AddControlSelf(ids.EventsPath)
	doc.AddControlAllEvents()
	doc.AddControlAddEvent()
	writeDocument(w, http.StatusOK, doc)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r, h.Env) {
		return
	}
	var input events.Input
	if !decodeBody(w, r, h.Env, inventory.KindEvent, &input) {
		return
	}

	event, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Env, err, subject{orgID: optionalID(input.Organization)})
		return
	}
	metrics.RecordMutation("event", "create")
	writeCreated(w, ids.EventPath(event.ID))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, events.ErrNotFound, subject{eventID: raw})
		return
	}

	event, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Env, err, subject{eventID: raw})
		return
	}

	doc := inventory.NewDocument()
	setEventFields(doc, *event)
	doc.AddControlSelf(ids.EventPath(event.ID))
	doc.AddControlProfile(inventory.EventProfile)
	doc.AddControlEditEvent(event.ID)
	doc.AddControlDeleteEvent(event.ID)
	doc.AddControlAllEvents()
	doc.AddControlFollowers(event.ID)
	if event.Organization != nil {
		doc.AddControl("eventhub:organization", ids.OrgPath(*event.Organization))
	}
	writeDocument(w, http.StatusOK, doc)
}

func (h *EventsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r, h.Env) {
		return
	}
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, events.ErrNotFound, subject{eventID: raw})
		return
	}
	if _, err := h.Service.Get(r.Context(), id); err != nil {
		writeError(w, r, h.Env, err, subject{eventID: raw})
		return
	}

	var input events.Input
	if !decodeBody(w, r, h.Env, inventory.KindEvent, &input) {
		return
	}
	if err := h.Service.Replace(r.Context(), id, input); err != nil {
		writeError(w, r, h.Env, err, subject{eventID: raw, orgID: optionalID(input.Organization)})
		return
	}
	metrics.RecordMutation("event", "replace")
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, events.ErrNotFound, subject{eventID: raw})
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.Env, err, subject{eventID: raw})
		return
	}
	metrics.RecordMutation("event", "delete")
	w.WriteHeader(http.StatusNoContent)
}

func setEventFields(doc inventory.Document, event events.Event) {
	doc.Set("id", event.ID)
	doc.Set("name", event.Name)
	doc.Set("time", event.Time)
	doc.Set("description", event.Description)
	doc.Set("location", event.Location)
	doc.Set("organization", event.Organization)
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

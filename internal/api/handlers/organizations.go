package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/eventhub/internal/api/inventory"
	"github.com/Togather-Foundation/eventhub/internal/domain/ids"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/metrics"
)

var _ Resource = (*OrganizationsHandler)(nil)

type OrganizationsHandler struct {
	Service *organizations.Service
	Env     string
}

func NewOrganizationsHandler(service *organizations.Service, env string) *OrganizationsHandler {
	return &OrganizationsHandler{Service: service, Env: env}
}

func (h *OrganizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, h.Env, err, subject{})
		return
	}

	items := make([]inventory.Document, 0, len(list))
	for _, org := range list {
		item := inventory.Item()
		setOrgFields(item, org)
		item.AddControlSelf(ids.OrgPath(org.ID))
		item.AddControlProfile(inventory.OrgProfile)
		items = append(items, item)
	}

	doc := inventory.NewDocument()
	doc.Set("items", items)
	doc.AddControlSelf(ids.OrgsPath)
	doc.AddControlAllOrgs()
	doc.AddControlAddOrg()
	writeDocument(w, http.StatusOK, doc)
}

func (h *OrganizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r, h.Env) {
		return
	}
	var input organizations.Input
	if !decodeBody(w, r, h.Env, inventory.KindOrg, &input) {
		return
	}

	org, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Env, err, subject{orgName: input.Name})
		return
	}
	metrics.RecordMutation("organization", "create")
	writeCreated(w, ids.OrgPath(org.ID))
}

func (h *OrganizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, organizations.ErrNotFound, subject{orgID: raw})
		return
	}

	org, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Env, err, subject{orgID: raw})
		return
	}

	doc := inventory.NewDocument()
	setOrgFields(doc, *org)
	doc.AddControlSelf(ids.OrgPath(org.ID))
	doc.AddControlProfile(inventory.OrgProfile)
	doc.AddControlEditOrg(org.ID)
	doc.AddControlDeleteOrg(org.ID)
	doc.AddControlAllOrgs()
	doc.AddControlMembers(org.ID)
	writeDocument(w, http.StatusOK, doc)
}

func (h *OrganizationsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r, h.Env) {
		return
	}
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, organizations.ErrNotFound, subject{orgID: raw})
		return
	}
	if _, err := h.Service.Get(r.Context(), id); err != nil {
		writeError(w, r, h.Env, err, subject{orgID: raw})
		return
	}

	var input organizations.Input
	if !decodeBody(w, r, h.Env, inventory.KindOrg, &input) {
		return
	}
	if err := h.Service.Replace(r.Context(), id, input); err != nil {
		writeError(w, r, h.Env, err, subject{orgID: raw, orgName: input.Name})
		return
	}
	metrics.RecordMutation("organization", "replace")
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrganizationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, h.Env, organizations.ErrNotFound, subject{orgID: raw})
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.Env, err, subject{orgID: raw})
		return
	}
	metrics.RecordMutation("organization", "delete")
	w.WriteHeader(http.StatusNoContent)
}

func setOrgFields(doc inventory.Document, org organizations.Organization) {
	doc.Set("id", org.ID)
	doc.Set("name", org.Name)
}

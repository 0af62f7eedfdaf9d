package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/Togather-Foundation/eventhub/internal/api/inventory"
	"github.com/Togather-Foundation/eventhub/internal/api/problem"
)

// EntryPoint serves GET /api/ with links to every collection.
func EntryPoint() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := inventory.NewDocument()
		doc.AddControlSelf(inventory.EntryPointPath)
		doc.AddControlAllEvents()
		doc.AddControlAllUsers()
		doc.AddControlAllOrgs()
		writeDocument(w, http.StatusOK, doc)
	})
}

type profile struct {
	description string
	kind        inventory.Kind
}

var profiles = map[string]profile{
	"event": {description: "An event hosted at a time and place, optionally by an organization.", kind: inventory.KindEvent},
	"user":  {description: "A person who can follow events and belong to organizations.", kind: inventory.KindUser},
	"org":   {description: "An organization that hosts events and has members.", kind: inventory.KindOrg},
	"error": {description: "An error document with a title in @message and details in @messages."},
}

var linkRelations = map[string]string{
	"events-all":      "Collection of all events.",
	"add-event":       "Create a new event.",
	"users-all":       "Collection of all users.",
	"add-user":        "Create a new user.",
	"orgs-all":        "Collection of all organizations.",
	"add-org":         "Create a new organization.",
	"delete":          "Delete the current resource.",
	"followed-events": "Events followed by a user.",
	"followers":       "Users following an event.",
	"user-orgs":       "Organizations a user belongs to.",
	"members":         "Members of an organization.",
	"organization":    "Organization hosting an event.",
	"follow":          "Start following an event.",
	"unfollow":        "Stop following an event.",
	"join":            "Join an organization.",
	"leave":           "Leave an organization.",
}

// Profiles serves GET /profiles/{resource}/.
func Profiles(env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := pathParam(r, "resource")
		p, ok := profiles[name]
		if !ok {
			problem.Write(w, r, http.StatusNotFound, "Profile not found", fmt.Sprintf("No profile named %q", name), nil, env)
			return
		}

		doc := inventory.NewDocument()
		doc.Set("name", name)
		doc.Set("description", p.description)
		if p.kind != "" {
			doc.Set("schema", inventory.SchemaFor(p.kind))
		}
		doc.AddControlSelf("/profiles/" + name + "/")
		doc.AddControl("eventhub:link-relations", inventory.LinkRelationsPath)
		writeDocument(w, http.StatusOK, doc)
	})
}

// LinkRelations serves GET /eventhub/link-relations/.
func LinkRelations() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		names := make([]string, 0, len(linkRelations))
		for name := range linkRelations {
			names = append(names, name)
		}
		sort.Strings(names)

		items := make([]map[string]string, 0, len(names))
		for _, name := range names {
			items = append(items, map[string]string{
				"name":        inventory.Namespace + ":" + name,
				"description": linkRelations[name],
			})
		}

		doc := inventory.NewDocument()
		doc.Set("items", items)
		doc.AddControlSelf(inventory.LinkRelationsPath)
		doc.AddControl("eventhub:entry-point", inventory.EntryPointPath)
		writeDocument(w, http.StatusOK, doc)
	})
}

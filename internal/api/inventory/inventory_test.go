package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestNewDocumentRegistersNamespace(t *testing.T) {
	body := decode(t, NewDocument())

	namespaces := body["@namespaces"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "/eventhub/link-relations/"}, namespaces["eventhub"])
}

func TestEventItemControls(t *testing.T) {
	doc := NewDocument()
	doc.AddControlSelf("/api/events/3/")
	doc.AddControlProfile(EventProfile)
	doc.AddControlEditEvent(3)
	doc.AddControlDeleteEvent(3)
	doc.AddControlAllEvents()
	doc.AddControlFollowers(3)

	controls := decode(t, doc)["@controls"].(map[string]any)

	edit := controls["edit"].(map[string]any)
	assert.Equal(t, "/api/events/3/", edit["href"])
	assert.Equal(t, "PUT", edit["method"])
	assert.Equal(t, "json", edit["encoding"])
	assert.NotNil(t, edit["schema"])

	del := controls["eventhub:delete"].(map[string]any)
	assert.Equal(t, "DELETE", del["method"])

	assert.Equal(t, "/api/events/", controls["eventhub:events-all"].(map[string]any)["href"])
	assert.Equal(t, "/api/events/3/users/", controls["eventhub:followers"].(map[string]any)["href"])
	assert.Equal(t, "/profiles/event/", controls["profile"].(map[string]any)["href"])
}

func TestCollectionControls(t *testing.T) {
	doc := NewDocument()
	doc.AddControlAddUser()
	doc.AddControlAddOrg()
	doc.AddControlAllUsers()
	doc.AddControlAllOrgs()

	controls := decode(t, doc)["@controls"].(map[string]any)
	addUser := controls["eventhub:add-user"].(map[string]any)
	assert.Equal(t, "POST", addUser["method"])
	schema := addUser["schema"].(map[string]any)
	assert.ElementsMatch(t, []any{"name", "email", "password", "notifications"}, schema["required"])

	assert.Equal(t, "/api/orgs/", controls["eventhub:add-org"].(map[string]any)["href"])
	assert.Equal(t, "/api/users/", controls["eventhub:users-all"].(map[string]any)["href"])
	assert.Equal(t, "/api/orgs/", controls["eventhub:orgs-all"].(map[string]any)["href"])
}

func TestRelationPaths(t *testing.T) {
	assert.Equal(t, "/api/users/2/events/5/", FollowPath(2, 5))
	assert.Equal(t, "/api/users/2/orgs/1/", MembershipPath(2, 1))

	doc := Item()
	doc.AddControlUnfollow(2, 5)
	doc.AddControlLeave(2, 1)
	controls := decode(t, doc)["@controls"].(map[string]any)
	assert.Equal(t, "DELETE", controls["eventhub:unfollow"].(map[string]any)["method"])
	assert.Equal(t, "/api/users/2/orgs/1/", controls["eventhub:leave"].(map[string]any)["href"])
}

func TestSchemasAreFreshCopies(t *testing.T) {
	first := EventSchema()
	first["required"] = []string{"tampered"}
	first["properties"].(map[string]any)["name"] = "tampered"

	second := EventSchema()
	assert.Equal(t, []string{"name", "time", "description", "organization"}, second["required"])
	assert.NotEqual(t, "tampered", second["properties"].(map[string]any)["name"])
}

func TestErrorDocument(t *testing.T) {
	body := decode(t, ErrorDocument("/api/events/9/", "Event not found", "Event ID 9 was not found"))

	assert.Equal(t, "/api/events/9/", body["resource_url"])
	errBody := body["@error"].(map[string]any)
	assert.Equal(t, "Event not found", errBody["@message"])
	assert.Equal(t, []any{"Event ID 9 was not found"}, errBody["@messages"])
	assert.Equal(t, "/profiles/error/", body["@controls"].(map[string]any)["profile"].(map[string]any)["href"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		body    string
		wantErr bool
	}{
		{name: "valid org", kind: KindOrg, body: `{"name":"OTiT"}`},
		{name: "org missing name", kind: KindOrg, body: `{}`, wantErr: true},
		{name: "org name wrong type", kind: KindOrg, body: `{"name":5}`, wantErr: true},
		{name: "valid event", kind: KindEvent, body: `{"name":"Karaoke","time":"9:23","description":"Something","location":"Routa, Oulu","organization":1}`},
		{name: "event null organization", kind: KindEvent, body: `{"name":"Karaoke","time":"9:23","description":"Something","organization":null}`},
		{name: "event missing organization", kind: KindEvent, body: `{"name":"Karaoke","time":"9:23","description":"Something"}`, wantErr: true},
		{name: "event organization string", kind: KindEvent, body: `{"name":"Karaoke","time":"9:23","description":"Something","organization":"1"}`, wantErr: true},
		{name: "valid user", kind: KindUser, body: `{"name":"Anna","email":"anna@example.com","password":"pw","notifications":1}`},
		{name: "user bad notifications", kind: KindUser, body: `{"name":"Anna","email":"anna@example.com","password":"pw","notifications":3}`, wantErr: true},
		{name: "user missing password", kind: KindUser, body: `{"name":"Anna","email":"anna@example.com","notifications":0}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			require.NoError(t, json.Unmarshal([]byte(tt.body), &body))

			err := Validate(tt.kind, body)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Messages)
		})
	}
}

func TestValidateUnknownKind(t *testing.T) {
	err := Validate(Kind("place"), map[string]any{})
	require.Error(t, err)
	var verr *ValidationError
	require.NotErrorAs(t, err, &verr)
}

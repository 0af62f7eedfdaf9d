// Package inventory knows the EventHub link relation vocabulary: which
// controls each resource offers, the schemas attached to them, and how
// request bodies are checked against those schemas.
package inventory

import (
	"net/http"
	"strconv"

	"github.com/Togather-Foundation/eventhub/internal/domain/ids"
	"github.com/Togather-Foundation/eventhub/internal/mason"
)

const (
	Namespace         = "eventhub"
	LinkRelationsPath = "/eventhub/link-relations/"

	UserProfile  = "/profiles/user/"
	EventProfile = "/profiles/event/"
	OrgProfile   = "/profiles/org/"
	ErrorProfile = "/profiles/error/"

	EntryPointPath = "/api/"
)

const encodingJSON = "json"

// Document is a Mason document that knows the EventHub controls.
type Document struct {
	*mason.Document
}

// NewDocument returns a document with the eventhub namespace registered.
func NewDocument() Document {
	doc := Document{mason.New()}
	doc.AddNamespace(Namespace, LinkRelationsPath)
	return doc
}

// Item returns a bare nested document for a collection or relation item.
func Item() Document {
	return Document{mason.New()}
}

func rel(name string) string {
	return Namespace + ":" + name
}

func (d Document) AddControlSelf(href string) {
	d.AddControl("self", href)
}

func (d Document) AddControlProfile(profile string) {
	d.AddControl("profile", profile)
}

func (d Document) AddControlAllEvents() {
	d.AddControl(rel("events-all"), ids.EventsPath,
		mason.WithMethod(http.MethodGet),
		mason.WithTitle("All events"),
	)
}

func (d Document) AddControlAddEvent() {
	d.AddControl(rel("add-event"), ids.EventsPath,
		mason.WithMethod(http.MethodPost),
		mason.WithEncoding(encodingJSON),
		mason.WithTitle("Add a new event"),
		mason.WithSchema(EventSchema()),
	)
}

func (d Document) AddControlEditEvent(id int64) {
	d.AddControl("edit", ids.EventPath(id),
		mason.WithMethod(http.MethodPut),
		mason.WithEncoding(encodingJSON),
		mason.WithTitle("Edit this event"),
		mason.WithSchema(EventSchema()),
	)
}

func (d Document) AddControlDeleteEvent(id int64) {
	d.AddControl(rel("delete"), ids.EventPath(id),
		mason.WithMethod(http.MethodDelete),
		mason.WithTitle("Delete this event"),
	)
}

func (d Document) AddControlAllUsers() {
	d.AddControl(rel("users-all"), ids.UsersPath,
		mason.WithMethod(http.MethodGet),
		mason.WithTitle("All users"),
	)
}

func (d Document) AddControlAddUser() {
	d.AddControl(rel("add-user"), ids.UsersPath,
		mason.WithMethod(http.MethodPost),
		mason.WithEncoding(encodingJSON),
		mason.WithTitle("Add a new user"),
		mason.WithSchema(UserSchema()),
	)
}

func (d Document) AddControlEditUser(id int64) {
	d.AddControl("edit", ids.UserPath(id),
		mason.WithMethod(http.MethodPut),
		mason.WithEncoding(encodingJSON),
		mason.WithTitle("Edit this user"),
		mason.WithSchema(UserSchema()),
	)
}

func (d Document) AddControlDeleteUser(id int64) {
	d.AddControl(rel("delete"), ids.UserPath(id),
		mason.WithMethod(http.MethodDelete),
		mason.WithTitle("Delete this user"),
	)
}

func (d Document) AddControlAllOrgs() {
	d.AddControl(rel("orgs-all"), ids.OrgsPath,
		mason.WithMethod(http.MethodGet),
		mason.WithTitle("All organizations"),
	)
}

func (d Document) AddControlAddOrg() {
	d.AddControl(rel("add-org"), ids.OrgsPath,
		mason.WithMethod(http.MethodPost),
		mason.WithEncoding(encodingJSON),
		mason.WithTitle("Add a new organization"),
		mason.WithSchema(OrgSchema()),
	)
}

func (d Document) AddControlEditOrg(id int64) {
	d.AddControl("edit", ids.OrgPath(id),
		mason.WithMethod(http.MethodPut),
		mason.WithEncoding(encodingJSON),
		mason.WithTitle("Edit this organization"),
		mason.WithSchema(OrgSchema()),
	)
}

func (d Document) AddControlDeleteOrg(id int64) {
	d.AddControl(rel("delete"), ids.OrgPath(id),
		mason.WithMethod(http.MethodDelete),
		mason.WithTitle("Delete this organization"),
	)
}

func (d Document) AddControlFollowedEvents(userID int64) {
	d.AddControl(rel("followed-events"), ids.UserEventsPath(userID),
		mason.WithMethod(http.MethodGet),
		mason.WithTitle("Events this user follows"),
	)
}

func (d Document) AddControlFollowers(eventID int64) {
	d.AddControl(rel("followers"), ids.EventUsersPath(eventID),
		mason.WithMethod(http.MethodGet),
		mason.WithTitle("Users following this event"),
	)
}

func (d Document) AddControlUserOrgs(userID int64) {
	d.AddControl(rel("user-orgs"), ids.UserOrgsPath(userID),
		mason.WithMethod(http.MethodGet),
		mason.WithTitle("Organizations this user belongs to"),
	)
}

func (d Document) AddControlMembers(orgID int64) {
	d.AddControl(rel("members"), ids.OrgUsersPath(orgID),
		mason.WithMethod(http.MethodGet),
		mason.WithTitle("Members of this organization"),
	)
}

func (d Document) AddControlFollow(userID, eventID int64) {
	d.AddControl(rel("follow"), FollowPath(userID, eventID),
		mason.WithMethod(http.MethodPut),
		mason.WithTitle("Follow this event"),
	)
}

func (d Document) AddControlUnfollow(userID, eventID int64) {
	d.AddControl(rel("unfollow"), FollowPath(userID, eventID),
		mason.WithMethod(http.MethodDelete),
		mason.WithTitle("Stop following this event"),
	)
}

func (d Document) AddControlJoin(userID, orgID int64) {
	d.AddControl(rel("join"), MembershipPath(userID, orgID),
		mason.WithMethod(http.MethodPut),
		mason.WithTitle("Join this organization"),
	)
}

func (d Document) AddControlLeave(userID, orgID int64) {
	d.AddControl(rel("leave"), MembershipPath(userID, orgID),
		mason.WithMethod(http.MethodDelete),
		mason.WithTitle("Leave this organization"),
	)
}

// FollowPath addresses the link between a user and a followed event.
func FollowPath(userID, eventID int64) string {
	return ids.UserEventsPath(userID) + itoa(eventID) + "/"
}

// MembershipPath addresses the link between a user and an organization.
func MembershipPath(userID, orgID int64) string {
	return ids.UserOrgsPath(userID) + itoa(orgID) + "/"
}

// ErrorDocument builds the body used for every error response.
func ErrorDocument(resourceURL, title, detail string) *mason.Document {
	doc := mason.New()
	doc.Set("resource_url", resourceURL)
	doc.AddError(title, detail)
	doc.AddControl("profile", ErrorProfile)
	return doc
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

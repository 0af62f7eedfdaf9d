// Package ids parses the integer identifiers used in resource URLs and
// builds the canonical paths of each resource.
package ids

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidID = errors.New("invalid id")

// Parse converts a path segment into a positive storage identifier.
func Parse(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

const (
	EventsPath = "/api/events/"
	UsersPath  = "/api/users/"
	OrgsPath   = "/api/orgs/"
)

func EventPath(id int64) string { return itemPath(EventsPath, id) }
func UserPath(id int64) string  { return itemPath(UsersPath, id) }
func OrgPath(id int64) string   { return itemPath(OrgsPath, id) }

// UserEventsPath lists the events a user follows.
func UserEventsPath(userID int64) string { return UserPath(userID) + "events/" }

// EventUsersPath lists the followers of an event.
func EventUsersPath(eventID int64) string { return EventPath(eventID) + "users/" }

// UserOrgsPath lists the organizations a user belongs to.
func UserOrgsPath(userID int64) string { return UserPath(userID) + "orgs/" }

// OrgUsersPath lists the members of an organization.
func OrgUsersPath(orgID int64) string { return OrgPath(orgID) + "users/" }

func itemPath(collection string, id int64) string {
	return collection + strconv.FormatInt(id, 10) + "/"
}

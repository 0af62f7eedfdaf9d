// Package memory is an in-process storage.Repository with the same
// constraint and cascade behavior as the PostgreSQL schema. It backs
// handler and router tests and must not be used in production code.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
	"github.com/Togather-Foundation/eventhub/internal/storage"
)

var _ storage.Repository = (*Store)(nil)

type link struct {
	userID  int64
	otherID int64
}

type Store struct {
	mu sync.Mutex

	users   map[int64]users.User
	events  map[int64]events.Event
	orgs    map[int64]organizations.Organization
	follows map[link]struct{}
	members map[link]struct{}

	nextUser  int64
	nextEvent int64
	nextOrg   int64

	// Fail, when set, is returned by every operation.
	Fail error
}

func New() *Store {
	return &Store{
		users:   map[int64]users.User{},
		events:  map[int64]events.Event{},
		orgs:    map[int64]organizations.Organization{},
		follows: map[link]struct{}{},
		members: map[link]struct{}{},
	}
}

func (s *Store) Events() events.Repository               { return eventRepo{s} }
func (s *Store) Users() users.Repository                 { return userRepo{s} }
func (s *Store) Organizations() organizations.Repository { return orgRepo{s} }
func (s *Store) Relations() relations.Repository         { return relationRepo{s} }

// WithTx runs fn directly. The store offers no rollback.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	return fn(ctx, s)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type orgRepo struct{ s *Store }

func (r orgRepo) List(context.Context) ([]organizations.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := make([]organizations.Organization, 0, len(r.s.orgs))
	for _, id := range sortedKeys(r.s.orgs) {
		out = append(out, r.s.orgs[id])
	}
	return out, nil
}

func (r orgRepo) Get(_ context.Context, id int64) (*organizations.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	org, ok := r.s.orgs[id]
	if !ok {
		return nil, organizations.ErrNotFound
	}
	return &org, nil
}

func (r orgRepo) nameTaken(name string, except int64) bool {
	for id, org := range r.s.orgs {
		if id != except && org.Name == name {
			return true
		}
	}
	return false
}

func (r orgRepo) Create(_ context.Context, input organizations.Input) (*organizations.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	if r.nameTaken(input.Name, 0) {
		return nil, organizations.ErrNameTaken
	}
	r.s.nextOrg++
	org := organizations.Organization{ID: r.s.nextOrg, Name: input.Name}
	r.s.orgs[org.ID] = org
	return &org, nil
}

func (r orgRepo) Update(_ context.Context, id int64, input organizations.Input) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.orgs[id]; !ok {
		return organizations.ErrNotFound
	}
	if r.nameTaken(input.Name, id) {
		return organizations.ErrNameTaken
	}
	r.s.orgs[id] = organizations.Organization{ID: id, Name: input.Name}
	return nil
}

// Delete nulls the organization of hosted events and drops memberships.
func (r orgRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.orgs[id]; !ok {
		return organizations.ErrNotFound
	}
	delete(r.s.orgs, id)
	for eventID, event := range r.s.events {
		if event.Organization != nil && *event.Organization == id {
			event.Organization = nil
			r.s.events[eventID] = event
		}
	}
	for l := range r.s.members {
		if l.otherID == id {
			delete(r.s.members, l)
		}
	}
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) List(context.Context) ([]users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := make([]users.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		out = append(out, r.s.users[id])
	}
	return out, nil
}

func (r userRepo) Get(_ context.Context, id int64) (*users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	user, ok := r.s.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &user, nil
}

func (r userRepo) emailTaken(email string, except int64) bool {
	for id, user := range r.s.users {
		if id != except && user.Email == email {
			return true
		}
	}
	return false
}

func (r userRepo) Create(_ context.Context, record users.Record) (*users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	if r.emailTaken(record.Email, 0) {
		return nil, users.ErrEmailTaken
	}
	r.s.nextUser++
	user := fromRecord(r.s.nextUser, record)
	r.s.users[user.ID] = user
	return &user, nil
}

func (r userRepo) Update(_ context.Context, id int64, record users.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.users[id]; !ok {
		return users.ErrNotFound
	}
	if r.emailTaken(record.Email, id) {
		return users.ErrEmailTaken
	}
	r.s.users[id] = fromRecord(id, record)
	return nil
}

// Delete drops the user's follows and memberships.
func (r userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.users[id]; !ok {
		return users.ErrNotFound
	}
	delete(r.s.users, id)
	for l := range r.s.follows {
		if l.userID == id {
			delete(r.s.follows, l)
		}
	}
	for l := range r.s.members {
		if l.userID == id {
			delete(r.s.members, l)
		}
	}
	return nil
}

func fromRecord(id int64, record users.Record) users.User {
	return users.User{
		ID:            id,
		Name:          record.Name,
		Email:         record.Email,
		PasswordHash:  record.PasswordHash,
		Location:      record.Location,
		Notifications: record.Notifications,
	}
}

type eventRepo struct{ s *Store }

func (r eventRepo) List(context.Context) ([]events.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := make([]events.Event, 0, len(r.s.events))
	for _, id := range sortedKeys(r.s.events) {
		out = append(out, r.s.events[id])
	}
	return out, nil
}

func (r eventRepo) Get(_ context.Context, id int64) (*events.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	event, ok := r.s.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return &event, nil
}

func (r eventRepo) checkOrganization(org *int64) error {
	if org == nil {
		return nil
	}
	if _, ok := r.s.orgs[*org]; !ok {
		return events.ErrInvalidOrganization
	}
	return nil
}

func (r eventRepo) Create(_ context.Context, input events.Input) (*events.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	if err := r.checkOrganization(input.Organization); err != nil {
		return nil, err
	}
	r.s.nextEvent++
	event := fromInput(r.s.nextEvent, input)
	r.s.events[event.ID] = event
	return &event, nil
}

func (r eventRepo) Update(_ context.Context, id int64, input events.Input) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.events[id]; !ok {
		return events.ErrNotFound
	}
	if err := r.checkOrganization(input.Organization); err != nil {
		return err
	}
	r.s.events[id] = fromInput(id, input)
	return nil
}

// Delete drops the event's follows.
func (r eventRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.events[id]; !ok {
		return events.ErrNotFound
	}
	delete(r.s.events, id)
	for l := range r.s.follows {
		if l.otherID == id {
			delete(r.s.follows, l)
		}
	}
	return nil
}

func (r eventRepo) NotifiableFollowers(_ context.Context, id int64) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	var emails []string
	for _, userID := range sortedKeys(r.s.users) {
		if _, ok := r.s.follows[link{userID, id}]; !ok {
			continue
		}
		if user := r.s.users[userID]; user.WantsNotifications() {
			emails = append(emails, user.Email)
		}
	}
	return emails, nil
}

func fromInput(id int64, input events.Input) events.Event {
	return events.Event{
		ID:           id,
		Name:         input.Name,
		Time:         input.Time,
		Description:  input.Description,
		Location:     input.Location,
		Organization: input.Organization,
	}
}

type relationRepo struct{ s *Store }

func (r relationRepo) FollowedEvents(_ context.Context, userID int64) ([]events.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := []events.Event{}
	for _, id := range sortedKeys(r.s.events) {
		if _, ok := r.s.follows[link{userID, id}]; ok {
			out = append(out, r.s.events[id])
		}
	}
	return out, nil
}

func (r relationRepo) Followers(_ context.Context, eventID int64) ([]users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := []users.User{}
	for _, id := range sortedKeys(r.s.users) {
		if _, ok := r.s.follows[link{id, eventID}]; ok {
			out = append(out, r.s.users[id])
		}
	}
	return out, nil
}

func (r relationRepo) UserOrganizations(_ context.Context, userID int64) ([]organizations.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := []organizations.Organization{}
	for _, id := range sortedKeys(r.s.orgs) {
		if _, ok := r.s.members[link{userID, id}]; ok {
			out = append(out, r.s.orgs[id])
		}
	}
	return out, nil
}

func (r relationRepo) Members(_ context.Context, orgID int64) ([]users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return nil, r.s.Fail
	}
	out := []users.User{}
	for _, id := range sortedKeys(r.s.users) {
		if _, ok := r.s.members[link{id, orgID}]; ok {
			out = append(out, r.s.users[id])
		}
	}
	return out, nil
}

func (r relationRepo) Follow(_ context.Context, userID, eventID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.users[userID]; !ok {
		return users.ErrNotFound
	}
	if _, ok := r.s.events[eventID]; !ok {
		return events.ErrNotFound
	}
	l := link{userID, eventID}
	if _, ok := r.s.follows[l]; ok {
		return relations.ErrAlreadyFollowing
	}
	r.s.follows[l] = struct{}{}
	return nil
}

func (r relationRepo) Unfollow(_ context.Context, userID, eventID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	l := link{userID, eventID}
	if _, ok := r.s.follows[l]; !ok {
		return relations.ErrNotFollowing
	}
	delete(r.s.follows, l)
	return nil
}

func (r relationRepo) Join(_ context.Context, userID, orgID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.users[userID]; !ok {
		return users.ErrNotFound
	}
	if _, ok := r.s.orgs[orgID]; !ok {
		return organizations.ErrNotFound
	}
	l := link{userID, orgID}
	if _, ok := r.s.members[l]; ok {
		return relations.ErrAlreadyMember
	}
	r.s.members[l] = struct{}{}
	return nil
}

func (r relationRepo) Leave(_ context.Context, userID, orgID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	l := link{userID, orgID}
	if _, ok := r.s.members[l]; !ok {
		return relations.ErrNotMember
	}
	delete(r.s.members, l)
	return nil
}

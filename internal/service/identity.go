package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// currentUser returns the authenticated user ID set by the auth interceptor.
func currentUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return userID, nil
}

// resolvePeople loads every person in ids and checks that ownerID may use
// them. Unknown people and people of other users are invalid arguments.
func resolvePeople(ctx context.Context, store storage.Store, ownerID string, ids ...string) (map[string]*models.Person, error) {
	people := make(map[string]*models.Person, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, invalidArgument("person id is required")
		}
		if _, ok := people[id]; ok {
			continue
		}
		person, err := store.GetPerson(ctx, id)
		if err != nil {
			if errorCode(err) == connect.CodeNotFound {
				return nil, invalidArgument("unknown person %s", id)
			}
			return nil, fmt.Errorf("failed to load person %s: %w", id, err)
		}
		if person.OwnerID != ownerID {
			return nil, invalidArgument("unknown person %s", id)
		}
		people[id] = person
	}
	return people, nil
}

// findNewMembers returns the people in ids that are not in existing, in
// order and without repeats.
func findNewMembers(ids, existing []string) []string {
	seen := make(map[string]bool, len(existing)+len(ids))
	for _, m := range existing {
		seen[m] = true
	}
	var added []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			added = append(added, id)
		}
	}
	return added
}

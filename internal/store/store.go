//
// Package store persists organization records.
//
// Saves are read-modify-write without locking: two users of the same
// organization submitting at the same moment can lose one update.
//
package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/nsip/procurement-maturity/internal/model"
)

// ErrEmptyOrganization rejects saves without an organization name.
var ErrEmptyOrganization = errors.New("organization name is required")

type Store interface {
	// LoadOrganization returns nil, nil when the organization has no
	// submissions yet.
	LoadOrganization(ctx context.Context, name string) (*model.Organization, error)
	// SaveUser replaces any record with the same email, then appends u.
	SaveUser(ctx context.Context, orgName string, u model.UserRecord) error
	// Organizations lists the stored organization names.
	Organizations(ctx context.Context) ([]string, error)
	Close() error
}

// Key turns an organization name into its storage key.
func Key(orgName string) string {
	return strings.NewReplacer(" ", "_", "/", "-").Replace(strings.TrimSpace(orgName))
}

func encode(org *model.Organization) ([]byte, error) {
	raw, err := json.MarshalIndent(org, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode organization")
	}
	return raw, nil
}

//
// merge applies a save to the previously stored record, creating it on
// first submission.
//
func merge(existing *model.Organization, orgName string, u model.UserRecord) *model.Organization {
	if existing == nil {
		existing = &model.Organization{Name: strings.TrimSpace(orgName)}
	}
	if existing.Users == nil {
		existing.Users = []model.UserRecord{}
	}
	existing.ReplaceUser(u)
	return existing
}

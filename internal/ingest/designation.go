package ingest

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nsip/procurement-maturity/internal/model"
)

// designationPaths is the priority order of the places a role is found.
var designationPaths = []string{
	"designation",
	"user_info.designation",
}

//
// Designation resolves a user's role from the first non-blank
// designation path and returns it in canonical form.
//
func Designation(user gjson.Result) string {
	for _, p := range designationPaths {
		if role := CanonicalRole(user.Get(p).String()); role != "" {
			return role
		}
	}
	return ""
}

//
// CanonicalRole trims, collapses inner whitespace and title-cases a
// role, so "  procurement   MANAGER" becomes "Procurement Manager".
//
func CanonicalRole(role string) string {
	role = strings.Join(strings.Fields(role), " ")
	if role == "" {
		return ""
	}
	return cases.Title(language.Und).String(role)
}

// Roles is the sorted set of distinct roles across an organization.
func Roles(org *model.Organization) []string {
	if org == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, u := range org.Users {
		role := CanonicalRole(u.Designation)
		if role == "" && u.UserInfo != nil {
			role = CanonicalRole(u.UserInfo.Designation)
		}
		if role != "" && !seen[role] {
			seen[role] = true
			out = append(out, role)
		}
	}
	sort.Strings(out)
	return out
}

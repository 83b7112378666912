// Package catalog declares the tables served by the records API and the
// relation graph of each one.
package catalog

import (
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"

	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
	"github.com/kubev2v/query-engine/pkg/query"
	"github.com/kubev2v/query-engine/pkg/relation"
)

var (
	Roles = query.NewTable("roles", []query.Column{
		{Field: "id", Name: "id", Type: query.Integer},
		{Field: "name", Name: "name", Type: query.Text},
		{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
	})

	Permissions = query.NewTable("permissions", []query.Column{
		{Field: "id", Name: "id", Type: query.Integer},
		{Field: "name", Name: "name", Type: query.Text},
		{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
	})

	RolePermissions = query.NewTable("role_permissions", []query.Column{
		{Field: "id", Name: "id", Type: query.Integer},
		{Field: "roleId", Name: "role_id", Type: query.Integer},
		{Field: "permissionId", Name: "permission_id", Type: query.Integer},
		{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
	})

	Users = query.NewTable("users", []query.Column{
		{Field: "id", Name: "id", Type: query.Integer},
		{Field: "name", Name: "name", Type: query.Text},
		{Field: "email", Name: "email", Type: query.Text},
		{Field: "roleId", Name: "role_id", Type: query.Integer},
		{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
	})

	Communities = query.NewTable("communities", []query.Column{
		{Field: "id", Name: "id", Type: query.Integer},
		{Field: "name", Name: "name", Type: query.Text},
		{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
	})

	Animals = query.NewTable("animals", []query.Column{
		{Field: "id", Name: "id", Type: query.Integer},
		{Field: "name", Name: "name", Type: query.Text},
		{Field: "species", Name: "species", Type: query.Text},
		{Field: "age", Name: "age", Type: query.Integer},
		{Field: "communityId", Name: "community_id", Type: query.Integer},
		{Field: "adopterId", Name: "adopter_id", Type: query.Integer},
		{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
	})

	Surveys = query.NewTable("surveys", []query.Column{
		{Field: "id", Name: "id", Type: query.Integer},
		{Field: "animalId", Name: "animal_id", Type: query.Integer},
		{Field: "userId", Name: "user_id", Type: query.Integer},
		{Field: "score", Name: "score", Type: query.Integer},
		{Field: "notes", Name: "notes", Type: query.Text},
		{Field: "createdAt", Name: "created_at", Type: query.Timestamp},
	})
)

// Entry is a table exposed by the records API.
type Entry struct {
	Table     *query.Table
	Relations relation.Graph
	// SearchFields is used when a request searches without naming fields.
	SearchFields string
}

type Catalog struct {
	entries map[string]Entry
}

func New() *Catalog {
	permissions := relation.Descriptor{
		Kind:  relation.ManyToMany,
		Table: RolePermissions,
		On:    "roleId",
		Children: relation.Graph{
			"permissionId": {Kind: relation.OneToOne, Table: Permissions, On: "id", Alias: "permissions"},
		},
	}
	role := relation.Descriptor{
		Kind:     relation.OneToOne,
		Table:    Roles,
		On:       "id",
		From:     "roleId",
		Children: relation.Graph{"permissions": permissions},
	}
	user := relation.Descriptor{
		Kind:     relation.OneToOne,
		Table:    Users,
		On:       "id",
		From:     "userId",
		Children: relation.Graph{"role": role},
	}

	return &Catalog{entries: map[string]Entry{
		Roles.Name(): {
			Table: Roles,
			Relations: relation.Graph{
				"permissions": permissions,
				"users":       {Kind: relation.OneToMany, Table: Users, On: "roleId", OrderBy: "name"},
			},
			SearchFields: "name",
		},
		Permissions.Name(): {
			Table:        Permissions,
			SearchFields: "name",
		},
		Users.Name(): {
			Table: Users,
			Relations: relation.Graph{
				"role":    role,
				"adopted": {Kind: relation.OneToMany, Table: Animals, On: "adopterId"},
				"surveys": {Kind: relation.OneToMany, Table: Surveys, On: "userId", OrderBy: "createdAt", Desc: true},
			},
			SearchFields: "name,email",
		},
		Communities.Name(): {
			Table: Communities,
			Relations: relation.Graph{
				"animals": {
					Kind:  relation.OneToMany,
					Table: Animals,
					On:    "communityId",
					Children: relation.Graph{
						"surveys": {Kind: relation.OneToMany, Table: Surveys, On: "animalId"},
					},
				},
			},
			SearchFields: "name",
		},
		Animals.Name(): {
			Table: Animals,
			Relations: relation.Graph{
				"adopter": {
					Kind:     relation.OneToOne,
					Table:    Users,
					On:       "id",
					From:     "adopterId",
					Children: relation.Graph{"role": role},
				},
				"community": {Kind: relation.OneToOne, Table: Communities, On: "id", From: "communityId"},
				"surveys": {
					Kind:     relation.OneToMany,
					Table:    Surveys,
					On:       "animalId",
					OrderBy:  "createdAt",
					Desc:     true,
					Children: relation.Graph{"user": user},
				},
				"latestSurvey": {Kind: relation.LatestInserted, Table: Surveys, On: "animalId"},
			},
			SearchFields: "name,species",
		},
		Surveys.Name(): {
			Table: Surveys,
			Relations: relation.Graph{
				"animal": {Kind: relation.OneToOne, Table: Animals, On: "id", From: "animalId"},
				"userId": {Kind: relation.OneToOne, Table: Users, On: "id", Alias: "user"},
			},
			SearchFields: "notes",
		},
	}}
}

// Get returns the entry of the named table.
func (c *Catalog) Get(name string) (Entry, error) {
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, srvErrors.NewTableNotFoundError(name)
	}
	return e, nil
}

func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Validate checks the relation graph of every entry.
func (c *Catalog) Validate() error {
	var result *multierror.Error
	for _, name := range c.Names() {
		e := c.entries[name]
		if err := e.Relations.Validate(e.Table); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

package domain

import "time"

// Repository is one harvested GitHub repository. Values are never mutated
// after construction; a later observation of the same RepoID is a new value
// that replaces the stored one.
type Repository struct {
	RepoID      int64      `db:"repo_id" json:"repo_id"`
	Name        string     `db:"name" json:"name"`
	Owner       string     `db:"owner" json:"owner"`
	Stars       int        `db:"stars" json:"stars"`
	Forks       *int       `db:"forks" json:"forks,omitempty"`
	OpenIssues  *int       `db:"open_issues" json:"open_issues,omitempty"`
	LastUpdated *time.Time `db:"last_updated" json:"last_updated,omitempty"`
}

// NewRepository builds a validated Repository.
func NewRepository(repoID int64, name, owner string, stars int, forks, openIssues *int, lastUpdated *time.Time) (Repository, error) {
	r := Repository{
		RepoID:      repoID,
		Name:        name,
		Owner:       owner,
		Stars:       stars,
		Forks:       forks,
		OpenIssues:  openIssues,
		LastUpdated: lastUpdated,
	}
	if err := r.Validate(); err != nil {
		return Repository{}, err
	}
	return r, nil
}

func (r Repository) Validate() error {
	if r.RepoID <= 0 {
		return &ValidationError{Field: "repo_id", Reason: "must be positive"}
	}
	if r.Stars < 0 {
		return &ValidationError{Field: "stars", Reason: "cannot be negative"}
	}
	if r.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if r.Owner == "" {
		return &ValidationError{Field: "owner", Reason: "is required"}
	}
	return nil
}

// FullName returns owner/name.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Package ghapi fetches public GitHub account data and converts it into ghpulse types.
package ghapi

import (
	"time"

	"github.com/google/go-github/v62/github"
)

// Profile is the public profile of a GitHub account.
type Profile struct {
	Login       string    `json:"login"                yaml:"login"`
	Name        string    `json:"name,omitempty"       yaml:"name,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"  yaml:"avatarUrl,omitempty"`
	HTMLURL     string    `json:"htmlUrl,omitempty"    yaml:"htmlUrl,omitempty"`
	Bio         string    `json:"bio,omitempty"        yaml:"bio,omitempty"`
	Company     string    `json:"company,omitempty"    yaml:"company,omitempty"`
	Location    string    `json:"location,omitempty"   yaml:"location,omitempty"`
	Blog        string    `json:"blog,omitempty"       yaml:"blog,omitempty"`
	PublicRepos int       `json:"publicRepos"          yaml:"publicRepos"`
	Followers   int       `json:"followers"            yaml:"followers"`
	Following   int       `json:"following"            yaml:"following"`
	CreatedAt   time.Time `json:"createdAt"            yaml:"createdAt"`
}

// DisplayName returns the profile name, or the login when no name is set.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}

	return p.Login
}

// Repository is one public repository owned by an account.
type Repository struct {
	Name        string    `json:"name"                  yaml:"name"`
	FullName    string    `json:"fullName"              yaml:"fullName"`
	Owner       string    `json:"owner"                 yaml:"owner"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	HTMLURL     string    `json:"htmlUrl,omitempty"     yaml:"htmlUrl,omitempty"`
	Language    string    `json:"language,omitempty"    yaml:"language,omitempty"`
	Topics      []string  `json:"topics,omitempty"      yaml:"topics,omitempty"`
	License     string    `json:"license,omitempty"     yaml:"license,omitempty"`
	Stars       int       `json:"stars"                 yaml:"stars"`
	Forks       int       `json:"forks"                 yaml:"forks"`
	Watchers    int       `json:"watchers"              yaml:"watchers"`
	OpenIssues  int       `json:"openIssues"            yaml:"openIssues"`
	Fork        bool      `json:"fork"                  yaml:"fork"`
	Archived    bool      `json:"archived"              yaml:"archived"`
	CreatedAt   time.Time `json:"createdAt"             yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"             yaml:"updatedAt"`
	PushedAt    time.Time `json:"pushedAt"              yaml:"pushedAt"`
}

// Event is one public activity event of an account.
type Event struct {
	Type      string    `json:"type"      yaml:"type"`
	Repo      string    `json:"repo"      yaml:"repo"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func profileFrom(u *github.User) *Profile {
	return &Profile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		AvatarURL:   u.GetAvatarURL(),
		HTMLURL:     u.GetHTMLURL(),
		Bio:         u.GetBio(),
		Company:     u.GetCompany(),
		Location:    u.GetLocation(),
		Blog:        u.GetBlog(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   u.GetCreatedAt().Time,
	}
}

func repositoryFrom(r *github.Repository) Repository {
	repo := Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Owner:       r.GetOwner().GetLogin(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Language:    r.GetLanguage(),
		Topics:      r.Topics,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		Fork:        r.GetFork(),
		Archived:    r.GetArchived(),
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
		PushedAt:    r.GetPushedAt().Time,
	}

	if lic := r.GetLicense(); lic != nil {
		repo.License = lic.GetSPDXID()
		if repo.License == "" {
			repo.License = lic.GetName()
		}
	}

	return repo
}

func eventFrom(e *github.Event) Event {
	return Event{
		Type:      e.GetType(),
		Repo:      e.GetRepo().GetName(),
		CreatedAt: e.GetCreatedAt().Time,
	}
}
